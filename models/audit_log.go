package models

import "time"

const AuditLogTable = "audit_logs"

// AuditLog is an append-only record of a state-changing action. Rows are
// inserted by the mutating repositories and never updated or deleted.
type AuditLog struct {
	ID           string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserInitials *string        `gorm:"size:16" json:"user_initials,omitempty"`
	UserName     *string        `gorm:"size:120" json:"user_name,omitempty"`
	EntityType   string         `gorm:"size:32;not null;index:idx_audit_entity,priority:1" json:"entity_type"`
	EntityID     *string        `gorm:"type:uuid" json:"entity_id,omitempty"`
	EntityName   *string        `gorm:"size:200;index:idx_audit_entity,priority:2" json:"entity_name,omitempty"`
	Action       string         `gorm:"size:64;not null" json:"action"`
	Changes      map[string]any `gorm:"type:jsonb;serializer:json" json:"changes,omitempty"`
	Metadata     map[string]any `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`
	Description  *string        `json:"description,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return AuditLogTable }
