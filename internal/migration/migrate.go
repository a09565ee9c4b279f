package migration

import (
	"github.com/openpress/openpress-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the versioning core tables.
// Tables are created when missing and altered additively; AutoMigrate
// never drops columns.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Content{},
		&domain.ContentVersion{},
		&domain.VersionMetadata{},
		&domain.EditConflict{},
		&domain.AuditLogEntry{},
		&domain.ActorGrant{},
	)
}
