package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/saga-aleeka/saga-store/models"
)

type SampleListQuery struct {
	Archived    bool
	ContainerID string
	Limit       int
	Offset      int
}

type SampleListResult struct {
	Samples []models.Sample
	Total   int64
}

const maxSamplePage = 1000

func (r *Repo) ListSamples(ctx context.Context, q SampleListQuery) (SampleListResult, error) {
	if q.Limit <= 0 || q.Limit > maxSamplePage {
		q.Limit = maxSamplePage
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	tx := r.DB.WithContext(ctx).Model(&models.Sample{}).
		Where("is_archived = ?", q.Archived)
	if q.ContainerID != "" {
		tx = tx.Where("container_id = ?", q.ContainerID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return SampleListResult{}, err
	}

	var samples []models.Sample
	if err := tx.
		Preload("Container").
		Preload("PreviousContainer").
		// Secondary id keeps pages stable when created_at ties.
		Order("created_at DESC, id").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&samples).Error; err != nil {
		return SampleListResult{}, err
	}
	return SampleListResult{Samples: samples, Total: total}, nil
}

// GetSample resolves a sample by its business key. Active rows win over
// archived ones; two active rows for the same key is ErrAmbiguous.
func (r *Repo) GetSample(ctx context.Context, sampleID string) (*models.Sample, error) {
	var rows []models.Sample
	if err := r.DB.WithContext(ctx).
		Preload("Container").
		Preload("PreviousContainer").
		Where("sample_id = ?", normalizeSampleID(sampleID)).
		Order("is_archived ASC, created_at DESC").
		Limit(2).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	switch {
	case len(rows) == 0:
		return nil, ErrNotFound
	case len(rows) > 1 && !rows[1].IsArchived:
		return nil, ErrAmbiguous
	}
	return &rows[0], nil
}

// CheckoutSamples flips each requested sample to checked-out. Every sample is
// claimed with a single conditional UPDATE guarded on is_checked_out = FALSE,
// so two concurrent requests for the same id can never both succeed: the
// loser's UPDATE matches zero rows and the sample is counted as skipped.
// Skips (unknown, archived, already out) are part of the contract, not
// errors. The batch itself is not atomic; whatever committed stays committed.
func (r *Repo) CheckoutSamples(ctx context.Context, sampleIDs []string, initials, userName string) (int, error) {
	initials = strings.TrimSpace(initials)
	if initials == "" {
		return 0, fmt.Errorf("%w: user_initials required", ErrValidation)
	}
	ids := normalizeSampleIDs(sampleIDs)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: sample_ids must not be empty", ErrValidation)
	}

	checked := 0
	for _, id := range ids {
		var s models.Sample
		res := r.DB.WithContext(ctx).
			Model(&s).
			Clauses(clause.Returning{}).
			Where("sample_id = ? AND is_archived = FALSE AND is_checked_out = FALSE", id).
			Updates(map[string]any{
				"is_checked_out": true,
				"checked_out_by": initials,
				// Postgres evaluates the right-hand sides against the old
				// row, so the snapshot and the clear land in one statement.
				"previous_container_id": gorm.Expr("container_id"),
				"previous_position":     gorm.Expr("position"),
				"container_id":          nil,
				"position":              nil,
			})
		if res.Error != nil {
			return checked, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		checked++
		r.auditCheckout(ctx, &s, initials, userName)
	}
	return checked, nil
}

type PlaceSampleInput struct {
	SampleID    string
	ContainerID string
	Position    string
	Initials    string
	UserName    string
}

// Place actions reported to callers.
const (
	PlaceCreated   = "created"
	PlaceMoved     = "moved"
	PlaceUnchanged = "unchanged"
)

// PlaceSample puts a sample into a container slot, creating the row when no
// active sample carries that id yet. The container row is locked for the
// duration so the capacity check and the write see one snapshot.
func (r *Repo) PlaceSample(ctx context.Context, in PlaceSampleInput) (*models.Sample, string, error) {
	sampleID := normalizeSampleID(in.SampleID)
	if sampleID == "" || in.ContainerID == "" || in.Position == "" {
		return nil, "", fmt.Errorf("%w: sample_id, container_id and position required", ErrValidation)
	}

	var out models.Sample
	action := PlaceUnchanged
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ctn models.Container
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ctn, "id = ? AND archived = FALSE", in.ContainerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var used int64
		if err := tx.Model(&models.Sample{}).
			Where("container_id = ? AND is_archived = FALSE", ctn.ID).
			Count(&used).Error; err != nil {
			return err
		}

		var existing models.Sample
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "sample_id = ? AND is_archived = FALSE", sampleID).Error
		switch {
		case err == nil:
			if existing.ContainerID != nil && *existing.ContainerID == ctn.ID &&
				existing.Position != nil && *existing.Position == in.Position {
				out = existing
				return nil
			}
			enteringContainer := existing.ContainerID == nil || *existing.ContainerID != ctn.ID
			if enteringContainer && used >= int64(ctn.Total) {
				return ErrContainerFull
			}
			from := map[string]any{}
			if existing.ContainerID != nil {
				from["from_container_id"] = *existing.ContainerID
			}
			if existing.Position != nil {
				from["from_position"] = *existing.Position
			}
			if err := tx.Model(&existing).Updates(map[string]any{
				"container_id":   ctn.ID,
				"position":       in.Position,
				"is_checked_out": false,
				"checked_out_by": nil,
			}).Error; err != nil {
				return err
			}
			out, action = existing, PlaceMoved
			from["to_container_id"] = ctn.ID
			from["to_container_name"] = ctn.Name
			from["to_position"] = in.Position
			r.insertAudit(tx, auditEntry{
				initials: in.Initials, userName: in.UserName,
				entityType: "sample", entityID: existing.ID, entityName: sampleID,
				action: PlaceMoved, metadata: from,
			})
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if used >= int64(ctn.Total) {
				return ErrContainerFull
			}
			s := models.Sample{
				ID:          uuid.NewString(),
				SampleID:    sampleID,
				ContainerID: &ctn.ID,
				Position:    &in.Position,
			}
			if err := tx.Create(&s).Error; err != nil {
				// Two concurrent upserts of a brand-new id both pass the
				// lookup; the active-row unique index rejects the loser.
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: sample %s was created concurrently", ErrConflict, sampleID)
				}
				return err
			}
			out, action = s, PlaceCreated
			r.insertAudit(tx, auditEntry{
				initials: in.Initials, userName: in.UserName,
				entityType: "sample", entityID: s.ID, entityName: sampleID,
				action: PlaceCreated, metadata: map[string]any{
					"to_container_id":   ctn.ID,
					"to_container_name": ctn.Name,
					"to_position":       in.Position,
				},
			})
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, "", err
	}
	return &out, action, nil
}

func (r *Repo) auditCheckout(ctx context.Context, s *models.Sample, initials, userName string) {
	meta := map[string]any{}
	if s.PreviousContainerID != nil {
		meta["previous_container_id"] = *s.PreviousContainerID
		var name string
		if err := r.DB.WithContext(ctx).Model(&models.Container{}).
			Select("name").Where("id = ?", *s.PreviousContainerID).
			Scan(&name).Error; err == nil && name != "" {
			meta["previous_container_name"] = name
		}
	}
	if s.PreviousPosition != nil {
		meta["previous_position"] = *s.PreviousPosition
	}
	r.insertAudit(r.DB.WithContext(ctx), auditEntry{
		initials: initials, userName: userName,
		entityType: "sample", entityID: s.ID, entityName: s.SampleID,
		action: "checkout", metadata: meta,
	})
}

func normalizeSampleID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// normalizeSampleIDs trims, uppercases and dedupes a checkout batch while
// preserving request order. A duplicate id in one batch checks out once.
func normalizeSampleIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := normalizeSampleID(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
