package domain

import "time"

// Audit event types
const (
	EventVersionCreated   = "version.created"
	EventVersionRollback  = "version.rollback"
	EventVersionsPurged   = "version.purged"
	EventTransition       = "workflow.transition"
	EventTransitionDenied = "workflow.denied"
	EventConflictResolved = "conflict.resolved"
)

// AuditLogEntry is the append-only record of every mutating operation.
// Entries for a content_id are ordered by commit: rows written inside the
// same transaction as the version/state change share its serialization.
// Never updated or deleted under normal operation.
type AuditLogEntry struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentID string    `gorm:"column:content_id;type:varchar(64);index" json:"content_id"`
	VersionID string    `gorm:"column:version_id;type:varchar(36)" json:"version_id,omitempty"`
	EventType string    `gorm:"column:event_type;type:varchar(32);index" json:"event_type"`
	ActorID   string    `gorm:"column:actor_id;type:varchar(64);index" json:"actor_id"`
	TenantID  string    `gorm:"column:tenant_id;type:varchar(64)" json:"tenant_id,omitempty"`
	FromState string    `gorm:"column:from_state;type:varchar(20)" json:"from_state,omitempty"`
	ToState   string    `gorm:"column:to_state;type:varchar(20)" json:"to_state,omitempty"`
	Success   bool      `gorm:"column:success" json:"success"`
	Detail    string    `gorm:"column:detail;type:text" json:"detail,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuditLogEntry) TableName() string { return "content_audit_log" }

// ActorGrant is a database-backed permission grant consulted by the
// workflow authorization check.
type ActorGrant struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID    string    `gorm:"column:actor_id;type:varchar(64);uniqueIndex:idx_actor_perm,priority:1" json:"actor_id"`
	Permission string    `gorm:"column:permission;type:varchar(64);uniqueIndex:idx_actor_perm,priority:2" json:"permission"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ActorGrant) TableName() string { return "actor_grants" }
