package models

import "time"

const SampleTable = "samples"

// ContainerRef is the summary shape joined into sample responses. It reads
// from the containers table but only carries the columns the sample views
// need.
type ContainerRef struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

func (ContainerRef) TableName() string { return ContainerTable }

// Sample is one physical specimen tracked by its business key SampleID.
// Location (container + position) is only meaningful while the sample is in
// storage; checkout clears it and snapshots it into the Previous* columns.
type Sample struct {
	ID       string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SampleID string `gorm:"size:120;not null;index" json:"sample_id"`

	ContainerID *string `gorm:"type:uuid;index" json:"container_id"`
	Position    *string `gorm:"size:16" json:"position"`

	IsCheckedOut bool    `gorm:"not null;default:false" json:"is_checked_out"`
	IsArchived   bool    `gorm:"not null;default:false;index" json:"is_archived"`
	CheckedOutBy *string `gorm:"size:64" json:"checked_out_by,omitempty"`

	PreviousContainerID *string `gorm:"type:uuid" json:"previous_container_id"`
	PreviousPosition    *string `gorm:"size:16" json:"previous_position"`

	Container         *ContainerRef `gorm:"foreignKey:ContainerID" json:"container,omitempty"`
	PreviousContainer *ContainerRef `gorm:"foreignKey:PreviousContainerID" json:"previous_container,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Sample) TableName() string { return SampleTable }
