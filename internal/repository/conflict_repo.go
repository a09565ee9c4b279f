package repository

import (
	"errors"
	"time"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"gorm.io/gorm"
)

// ConflictRepository owns content_edit_conflicts. Conflict rows are opened
// by the version commit transaction; this repository reads and closes them.
type ConflictRepository interface {
	FindByID(conflictID string) (*domain.EditConflict, error)
	ListOpen(contentID string) ([]*domain.EditConflict, error)
	Resolve(conflictID, strategy, resolvedBy, resolutionVersionID string) error
}

type conflictRepository struct {
	db *gorm.DB
}

// NewConflictRepository creates a new ConflictRepository
func NewConflictRepository(db *gorm.DB) ConflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) FindByID(conflictID string) (*domain.EditConflict, error) {
	var conflict domain.EditConflict
	if err := r.db.First(&conflict, "id = ?", conflictID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrConflictNotFound
		}
		return nil, common.StorageError(err)
	}
	return &conflict, nil
}

func (r *conflictRepository) ListOpen(contentID string) ([]*domain.EditConflict, error) {
	var conflicts []*domain.EditConflict
	if err := r.db.Where("content_id = ? AND resolved_at IS NULL", contentID).
		Order("detected_at ASC").
		Find(&conflicts).Error; err != nil {
		return nil, common.StorageError(err)
	}
	return conflicts, nil
}

// Resolve closes the conflict and flips the conflicted version's metadata
// to resolved in one transaction.
func (r *conflictRepository) Resolve(conflictID, strategy, resolvedBy, resolutionVersionID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var conflict domain.EditConflict
		if err := tx.First(&conflict, "id = ?", conflictID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrConflictNotFound
			}
			return common.StorageError(err)
		}
		if conflict.ResolvedAt != nil {
			return common.ErrInvalidArgument
		}

		now := time.Now()
		if err := tx.Model(&domain.EditConflict{}).
			Where("id = ?", conflictID).
			Updates(map[string]interface{}{
				"resolved_at":           now,
				"resolution_strategy":   strategy,
				"resolved_by":           resolvedBy,
				"resolution_version_id": resolutionVersionID,
			}).Error; err != nil {
			return common.StorageError(err)
		}

		if err := tx.Model(&domain.VersionMetadata{}).
			Where("version_id = ?", conflict.ConflictingVersionID).
			Update("conflict_status", domain.ConflictStatusResolved).Error; err != nil {
			return common.StorageError(err)
		}
		return nil
	})
}
