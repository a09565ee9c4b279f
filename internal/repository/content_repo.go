package repository

import (
	"errors"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentRepository owns the contents table. UpdateWorkflowState is the
// only writer of workflow_state.
type ContentRepository interface {
	Create(content *domain.Content) error
	FindByID(id string) (*domain.Content, error)
	UpdateWorkflowState(contentID string, from, to domain.WorkflowState, audit *domain.AuditLogEntry) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(content *domain.Content) error {
	if err := r.db.Create(content).Error; err != nil {
		return common.StorageError(err)
	}
	return nil
}

func (r *contentRepository) FindByID(id string) (*domain.Content, error) {
	var content domain.Content
	if err := r.db.First(&content, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, common.StorageError(err)
	}
	return &content, nil
}

// UpdateWorkflowState flips workflow_state guarded by the expected from
// state and writes the transition audit row in the same transaction, so a
// concurrent transition that wins the race makes this one fail cleanly
// instead of double-applying.
func (r *contentRepository) UpdateWorkflowState(contentID string, from, to domain.WorkflowState, audit *domain.AuditLogEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Content{}).
			Where("id = ? AND workflow_state = ?", contentID, from).
			Update("workflow_state", to)
		if result.Error != nil {
			return common.StorageError(result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&domain.Content{}).
				Where("id = ?", contentID).
				Count(&count).Error; err != nil {
				return common.StorageError(err)
			}
			if count == 0 {
				return common.ErrContentNotFound
			}
			// state moved under us
			return common.ErrInvalidTransition
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return common.StorageError(err)
			}
		}
		return nil
	})
}
