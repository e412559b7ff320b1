package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saga-aleeka/saga-store/models"
)

// ContainerUsage is a container row plus its derived occupancy.
type ContainerUsage struct {
	models.Container
	Used int64 `json:"used"`
}

// ContainerDetail is a single container with its active samples embedded.
type ContainerDetail struct {
	models.Container
	Used    int64           `json:"used"`
	Samples []models.Sample `json:"samples"`
}

// ListContainers returns containers with used = count of active samples.
// One GROUP BY query, so every row's count comes from the same snapshot as
// the rest of its fields.
func (r *Repo) ListContainers(ctx context.Context, archived bool) ([]ContainerUsage, error) {
	var rows []ContainerUsage
	err := r.DB.WithContext(ctx).
		Model(&models.Container{}).
		Select("containers.*, COUNT(samples.id) FILTER (WHERE samples.is_archived = FALSE) AS used").
		Joins("LEFT JOIN samples ON samples.container_id = containers.id").
		Where("containers.archived = ?", archived).
		Group("containers.id").
		Order("containers.updated_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) GetContainer(ctx context.Context, id string) (*ContainerDetail, error) {
	var c models.Container
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var samples []models.Sample
	if err := r.DB.WithContext(ctx).
		Where("container_id = ? AND is_archived = FALSE", id).
		Order("position").
		Find(&samples).Error; err != nil {
		return nil, err
	}
	return &ContainerDetail{Container: c, Used: int64(len(samples)), Samples: samples}, nil
}

func (r *Repo) FindContainerByName(ctx context.Context, name string) (*models.Container, error) {
	var c models.Container
	if err := r.DB.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateContainer(ctx context.Context, c *models.Container, initials, userName string) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrValidation)
	}
	if c.Total < 0 {
		return fmt.Errorf("%w: total must not be negative", ErrValidation)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		r.insertAudit(tx, auditEntry{
			initials: initials, userName: userName,
			entityType: "container", entityID: c.ID, entityName: c.Name,
			action: "create",
			metadata: map[string]any{
				"location": c.Location, "type": c.Type, "total": c.Total,
			},
		})
		return nil
	})
}

// UpdateContainer applies a partial update and returns the new row state.
func (r *Repo) UpdateContainer(ctx context.Context, id string, updates map[string]any, initials, userName string) (*models.Container, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	var c models.Container
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&c).
			Clauses(clause.Returning{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		r.insertAudit(tx, auditEntry{
			initials: initials, userName: userName,
			entityType: "container", entityID: c.ID, entityName: c.Name,
			action: "update", changes: updates,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
