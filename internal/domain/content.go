package domain

import "time"

// WorkflowState is the publication lifecycle stage of a content item
type WorkflowState string

const (
	StateDraft     WorkflowState = "draft"
	StateSubmitted WorkflowState = "submitted"
	StateApproved  WorkflowState = "approved"
	StateRejected  WorkflowState = "rejected"
	StatePublished WorkflowState = "published"
	StateArchived  WorkflowState = "archived"
)

// Content is the versioned entity. The page/article body itself lives in
// content_versions; this row only carries the version pointer and the
// workflow state the core owns.
type Content struct {
	ID                   string        `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	TenantID             string        `gorm:"column:tenant_id;type:varchar(64);index" json:"tenant_id"`
	Title                string        `gorm:"column:title;type:varchar(255)" json:"title"`
	CurrentVersionNumber uint          `gorm:"column:current_version_number" json:"current_version_number"`
	WorkflowState        WorkflowState `gorm:"column:workflow_state;type:varchar(20);index" json:"workflow_state"`
	CreatedAt            time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Content) TableName() string { return "contents" }

// CreateContentRequest registers a new content item (starts in draft with no versions)
type CreateContentRequest struct {
	ID    string `json:"id" binding:"required"`
	Title string `json:"title" binding:"required"`
}

// RequestContext carries the identity of the caller through every core
// operation. It replaces any notion of process-wide "current actor" state:
// operations only see what they are handed.
type RequestContext struct {
	ActorID     string
	ActorName   string
	TenantID    string
	Permissions []string
	RequestID   string
}

// HasPermission reports whether the context itself carries the permission
// (token-embedded grants). Database-backed grants are checked separately.
func (c *RequestContext) HasPermission(name string) bool {
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	return false
}
