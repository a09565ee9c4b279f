package repository

import (
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"gorm.io/gorm"
)

// AuditRepository reads the append-only audit trail and appends the
// entries that have no surrounding transaction (denial records, failed
// attempts). Entries tied to a commit are written inside that commit's
// transaction by the owning repository.
type AuditRepository interface {
	Append(entry *domain.AuditLogEntry) error
	List(contentID, eventType string, page, perPage int) ([]domain.AuditLogEntry, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(entry *domain.AuditLogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return common.StorageError(err)
	}
	return nil
}

func (r *auditRepository) List(contentID, eventType string, page, perPage int) ([]domain.AuditLogEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := r.db.Model(&domain.AuditLogEntry{})
	if contentID != "" {
		query = query.Where("content_id = ?", contentID)
	}
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, common.StorageError(err)
	}

	var entries []domain.AuditLogEntry
	if err := query.Order("id ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error; err != nil {
		return nil, 0, common.StorageError(err)
	}
	return entries, total, nil
}
