package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saga-aleeka/saga-store/models"
)

type AuditQuery struct {
	EntityType string
	EntityName string
	Limit      int
}

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

func (r *Repo) ListAuditLogs(ctx context.Context, q AuditQuery) ([]models.AuditLog, error) {
	if q.Limit <= 0 {
		q.Limit = defaultAuditLimit
	}
	if q.Limit > maxAuditLimit {
		q.Limit = maxAuditLimit
	}
	tx := r.DB.WithContext(ctx).Model(&models.AuditLog{})
	if q.EntityType != "" {
		tx = tx.Where("entity_type = ?", q.EntityType)
	}
	if q.EntityName != "" {
		tx = tx.Where("entity_name = ?", q.EntityName)
	}
	var logs []models.AuditLog
	err := tx.Order("created_at DESC").Limit(q.Limit).Find(&logs).Error
	return logs, err
}

func (r *Repo) InsertAuditLog(ctx context.Context, e *models.AuditLog) (*models.AuditLog, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}
	return e, nil
}

type auditEntry struct {
	initials   string
	userName   string
	entityType string
	entityID   string
	entityName string
	action     string
	changes    map[string]any
	metadata   map[string]any
}

// insertAudit records a mutation on whatever tx the caller is inside of.
// Audit failures never block the mutation itself.
func (r *Repo) insertAudit(tx *gorm.DB, e auditEntry) {
	row := &models.AuditLog{
		ID:         uuid.NewString(),
		EntityType: e.entityType,
		Action:     e.action,
		Changes:    e.changes,
		Metadata:   e.metadata,
	}
	if e.initials != "" {
		row.UserInitials = &e.initials
	}
	if e.userName != "" {
		row.UserName = &e.userName
	}
	if e.entityID != "" {
		row.EntityID = &e.entityID
	}
	if e.entityName != "" {
		row.EntityName = &e.entityName
	}
	_ = tx.Create(row).Error
}
