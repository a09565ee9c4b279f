package repository

import (
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantRepository checks workflow permissions against actor_grants. It
// satisfies the workflow service's PermissionChecker.
type GrantRepository interface {
	HasPermission(actorID, permission string) (bool, error)
	Grant(actorID, permission string) error
	Revoke(actorID, permission string) error
}

type grantRepository struct {
	db *gorm.DB
}

// NewGrantRepository creates a new GrantRepository
func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) HasPermission(actorID, permission string) (bool, error) {
	var count int64
	if err := r.db.Model(&domain.ActorGrant{}).
		Where("actor_id = ? AND permission = ?", actorID, permission).
		Count(&count).Error; err != nil {
		return false, common.StorageError(err)
	}
	return count > 0, nil
}

func (r *grantRepository) Grant(actorID, permission string) error {
	grant := &domain.ActorGrant{ActorID: actorID, Permission: permission}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(grant).Error; err != nil {
		return common.StorageError(err)
	}
	return nil
}

func (r *grantRepository) Revoke(actorID, permission string) error {
	if err := r.db.Where("actor_id = ? AND permission = ?", actorID, permission).
		Delete(&domain.ActorGrant{}).Error; err != nil {
		return common.StorageError(err)
	}
	return nil
}
