package models

import "time"

const ContainerTable = "containers"

// Container is a physical storage unit (box/rack/plate). Capacity lives in
// Total; occupancy is derived from the samples table, never stored here.
type Container struct {
	ID          string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Type        string `gorm:"size:64" json:"type"`
	Location    string `gorm:"size:200" json:"location"`
	Layout      string `gorm:"size:64" json:"layout"`
	Temperature string `gorm:"size:32" json:"temperature"`
	Total       int    `gorm:"not null;default:0" json:"total"`
	Training    bool   `gorm:"not null;default:false" json:"training"`
	Archived    bool   `gorm:"not null;default:false;index" json:"archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Container) TableName() string { return ContainerTable }
