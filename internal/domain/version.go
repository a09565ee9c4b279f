package domain

import "time"

// ContentVersion is an immutable snapshot of a content item's payload.
// Exactly one version per content_id has is_current = true once a first
// version exists; superseded versions are flipped to false in the same
// transaction that inserts their successor.
type ContentVersion struct {
	ID            string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID     string    `gorm:"column:content_id;type:varchar(64);index;uniqueIndex:idx_content_version,priority:1" json:"content_id"`
	VersionNumber uint      `gorm:"column:version_number;uniqueIndex:idx_content_version,priority:2" json:"version_number"`
	Payload       string    `gorm:"column:payload;type:mediumtext" json:"payload"`
	AuthorID      string    `gorm:"column:author_id;type:varchar(64)" json:"author_id"`
	IsCurrent     bool      `gorm:"column:is_current;index" json:"is_current"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_versions" }

// Conflict status of a version's metadata
const (
	ConflictStatusNone     = "none"
	ConflictStatusDetected = "detected"
	ConflictStatusResolved = "resolved"
)

// VersionMetadata is 1:1 with ContentVersion: parent linkage, conflict
// status and rollback provenance.
type VersionMetadata struct {
	VersionID         string     `gorm:"column:version_id;primaryKey;type:varchar(36)" json:"version_id"`
	ContentID         string     `gorm:"column:content_id;type:varchar(64);index" json:"content_id"`
	ParentVersionID   *string    `gorm:"column:parent_version_id;type:varchar(36)" json:"parent_version_id,omitempty"`
	ConflictStatus    string     `gorm:"column:conflict_status;type:varchar(16)" json:"conflict_status"`
	IsRollback        bool       `gorm:"column:is_rollback" json:"is_rollback"`
	RollbackAuthorID  string     `gorm:"column:rollback_author_id;type:varchar(64)" json:"rollback_author_id,omitempty"`
	RollbackTimestamp *time.Time `gorm:"column:rollback_timestamp" json:"rollback_timestamp,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VersionMetadata) TableName() string { return "content_version_metadata" }

// VersionSummary is the list-view projection of a version (no payload)
type VersionSummary struct {
	ID            string    `json:"id"`
	ContentID     string    `json:"content_id"`
	VersionNumber uint      `json:"version_number"`
	AuthorID      string    `json:"author_id"`
	IsCurrent     bool      `json:"is_current"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateVersionRequest is the edit entry point: new payload plus the
// version the editor was looking at when they made the change.
type CreateVersionRequest struct {
	Payload          string  `json:"payload" binding:"required"`
	BasedOnVersionID *string `json:"based_on_version_id,omitempty"`
	Reason           string  `json:"reason,omitempty"`
}

// VersionCommitResponse reports a committed version. ConflictDetected is
// informational: the write succeeded either way.
type VersionCommitResponse struct {
	VersionID        string `json:"version_id"`
	VersionNumber    uint   `json:"version_number"`
	ConflictDetected bool   `json:"conflict_detected"`
	ConflictID       string `json:"conflict_id,omitempty"`
}
