package models

import "time"

// AuthorizedUser holds an operator allowed to perform admin mutations,
// identified by a static bearer token.
type AuthorizedUser struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Initials  string    `gorm:"size:16;not null" json:"initials"`
	Name      string    `gorm:"size:120" json:"name"`
	Token     string    `gorm:"size:128;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthorizedUser) TableName() string { return "authorized_users" }
