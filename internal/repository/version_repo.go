package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateVersionParams is the input of the atomic version commit
type CreateVersionParams struct {
	ContentID        string
	Payload          string
	AuthorID         string
	TenantID         string
	BasedOnVersionID *string
	Reason           string
	IsRollback       bool
}

// CreateVersionResult reports the committed version. ConflictDetected is
// informational: the version was created either way.
type CreateVersionResult struct {
	Version          *domain.ContentVersion
	Metadata         *domain.VersionMetadata
	ConflictDetected bool
	Conflict         *domain.EditConflict
}

// VersionRepository is the sole writer of content_versions. All version
// mutation flows through Create; versions are immutable afterwards.
type VersionRepository interface {
	Create(params CreateVersionParams) (*CreateVersionResult, error)
	FindByID(versionID string) (*domain.ContentVersion, error)
	FindForContent(contentID, versionID string) (*domain.ContentVersion, error)
	Current(contentID string) (*domain.ContentVersion, error)
	List(contentID string, limit int) ([]*domain.VersionSummary, error)
	Metadata(versionID string) (*domain.VersionMetadata, error)
	Purge(contentID string, keep int, actorID string) (int64, error)
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

// lockContentRow makes the content-row read a SELECT ... FOR UPDATE so
// concurrent commits for the same content serialize. sqlite cannot parse
// the locking clause and serializes writers on the database lock anyway.
func lockContentRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Create commits a new version in one transaction: the content row is
// locked so concurrent commits for the same content serialize, the number
// is computed under that lock, the previous current version is flipped and
// the new row inserted together. A crash leaves the prior state intact.
//
// The write is append-preferring: a stale based_on does not block the
// commit, it marks the version conflicted and opens a conflict record.
func (r *versionRepository) Create(p CreateVersionParams) (*CreateVersionResult, error) {
	res := &CreateVersionResult{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var content domain.Content
		if err := lockContentRow(tx).
			First(&content, "id = ?", p.ContentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrContentNotFound
			}
			return common.StorageError(err)
		}

		var current domain.ContentVersion
		hasCurrent := true
		if err := tx.Where("content_id = ? AND is_current = ?", p.ContentID, true).
			First(&current).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return common.StorageError(err)
			}
			hasCurrent = false
		}

		var maxNumber *uint
		if err := tx.Model(&domain.ContentVersion{}).
			Where("content_id = ?", p.ContentID).
			Select("MAX(version_number)").
			Scan(&maxNumber).Error; err != nil {
			return common.StorageError(err)
		}
		nextNumber := uint(1)
		if maxNumber != nil {
			nextNumber = *maxNumber + 1
		}

		conflictDetected := hasCurrent && p.BasedOnVersionID != nil && *p.BasedOnVersionID != current.ID

		if hasCurrent {
			if err := tx.Model(&domain.ContentVersion{}).
				Where("id = ?", current.ID).
				Update("is_current", false).Error; err != nil {
				return common.StorageError(err)
			}
		}

		version := &domain.ContentVersion{
			ID:            uuid.New().String(),
			ContentID:     p.ContentID,
			VersionNumber: nextNumber,
			Payload:       p.Payload,
			AuthorID:      p.AuthorID,
			IsCurrent:     true,
		}
		if err := tx.Create(version).Error; err != nil {
			return common.StorageError(err)
		}

		parentID := p.BasedOnVersionID
		if parentID == nil && hasCurrent {
			parentID = &current.ID
		}
		conflictStatus := domain.ConflictStatusNone
		if conflictDetected {
			conflictStatus = domain.ConflictStatusDetected
		}
		metadata := &domain.VersionMetadata{
			VersionID:       version.ID,
			ContentID:       p.ContentID,
			ParentVersionID: parentID,
			ConflictStatus:  conflictStatus,
			IsRollback:      p.IsRollback,
		}
		if p.IsRollback {
			now := time.Now()
			metadata.RollbackAuthorID = p.AuthorID
			metadata.RollbackTimestamp = &now
		}
		if err := tx.Create(metadata).Error; err != nil {
			return common.StorageError(err)
		}

		if conflictDetected {
			conflict := &domain.EditConflict{
				ID:                   uuid.New().String(),
				ContentID:            p.ContentID,
				BasedOnVersionID:     *p.BasedOnVersionID,
				ConflictingVersionID: version.ID,
				CurrentVersionID:     current.ID,
			}
			if err := tx.Create(conflict).Error; err != nil {
				return common.StorageError(err)
			}
			res.Conflict = conflict
		}

		if err := tx.Model(&domain.Content{}).
			Where("id = ?", p.ContentID).
			Update("current_version_number", nextNumber).Error; err != nil {
			return common.StorageError(err)
		}

		eventType := domain.EventVersionCreated
		if p.IsRollback {
			eventType = domain.EventVersionRollback
		}
		audit := &domain.AuditLogEntry{
			ContentID: p.ContentID,
			VersionID: version.ID,
			EventType: eventType,
			ActorID:   p.AuthorID,
			TenantID:  p.TenantID,
			Success:   true,
			Detail:    p.Reason,
		}
		if err := tx.Create(audit).Error; err != nil {
			return common.StorageError(err)
		}

		res.Version = version
		res.Metadata = metadata
		res.ConflictDetected = conflictDetected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *versionRepository) FindByID(versionID string) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	if err := r.db.First(&version, "id = ?", versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, common.StorageError(err)
	}
	return &version, nil
}

func (r *versionRepository) FindForContent(contentID, versionID string) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	if err := r.db.Where("id = ? AND content_id = ?", versionID, contentID).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, common.StorageError(err)
	}
	return &version, nil
}

func (r *versionRepository) Current(contentID string) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	if err := r.db.Where("content_id = ? AND is_current = ?", contentID, true).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, common.StorageError(err)
	}
	return &version, nil
}

// List returns version summaries newest first, a snapshot at call time
func (r *versionRepository) List(contentID string, limit int) ([]*domain.VersionSummary, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var versions []*domain.ContentVersion
	if err := r.db.Select("id", "content_id", "version_number", "author_id", "is_current", "created_at").
		Where("content_id = ?", contentID).
		Order("version_number DESC").
		Limit(limit).
		Find(&versions).Error; err != nil {
		return nil, common.StorageError(err)
	}
	summaries := make([]*domain.VersionSummary, len(versions))
	for i, v := range versions {
		summaries[i] = &domain.VersionSummary{
			ID:            v.ID,
			ContentID:     v.ContentID,
			VersionNumber: v.VersionNumber,
			AuthorID:      v.AuthorID,
			IsCurrent:     v.IsCurrent,
			CreatedAt:     v.CreatedAt,
		}
	}
	return summaries, nil
}

func (r *versionRepository) Metadata(versionID string) (*domain.VersionMetadata, error) {
	var metadata domain.VersionMetadata
	if err := r.db.First(&metadata, "version_id = ?", versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, common.StorageError(err)
	}
	return &metadata, nil
}

// Purge applies the retention policy: delete all but the newest keep
// versions of a content item. The current version is never deleted. The
// deletion is audited in the same transaction.
func (r *versionRepository) Purge(contentID string, keep int, actorID string) (int64, error) {
	if keep < 1 {
		return 0, common.ErrInvalidArgument
	}
	var purged int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var content domain.Content
		if err := lockContentRow(tx).
			First(&content, "id = ?", contentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrContentNotFound
			}
			return common.StorageError(err)
		}

		var cutoffs []uint
		if err := tx.Model(&domain.ContentVersion{}).
			Where("content_id = ?", contentID).
			Order("version_number DESC").
			Offset(keep - 1).
			Limit(1).
			Pluck("version_number", &cutoffs).Error; err != nil {
			return common.StorageError(err)
		}
		if len(cutoffs) == 0 {
			return nil
		}

		var doomed []string
		if err := tx.Model(&domain.ContentVersion{}).
			Where("content_id = ? AND version_number < ? AND is_current = ?", contentID, cutoffs[0], false).
			Pluck("id", &doomed).Error; err != nil {
			return common.StorageError(err)
		}
		if len(doomed) == 0 {
			return nil
		}

		result := tx.Where("id IN ?", doomed).Delete(&domain.ContentVersion{})
		if result.Error != nil {
			return common.StorageError(result.Error)
		}
		purged = result.RowsAffected
		if err := tx.Where("version_id IN ?", doomed).
			Delete(&domain.VersionMetadata{}).Error; err != nil {
			return common.StorageError(err)
		}

		audit := &domain.AuditLogEntry{
			ContentID: contentID,
			EventType: domain.EventVersionsPurged,
			ActorID:   actorID,
			Success:   true,
			Detail:    "retention purge",
		}
		if err := tx.Create(audit).Error; err != nil {
			return common.StorageError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}
