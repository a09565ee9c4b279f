// Package workflow holds the content lifecycle graph. Nothing outside this
// package encodes transition edges or edge permissions.
package workflow

import "github.com/openpress/openpress-backend/internal/domain"

// Edge permissions
const (
	PermSubmit    = "submit_content"
	PermApprove   = "approve_content"
	PermPublish   = "publish_content"
	PermArchive   = "archive_content"
	PermUnpublish = "unpublish_content"
	PermEdit      = "edit_content"
)

// transitions is the canonical lifecycle graph. The legacy publisher path
// allowed unpublishing (published → draft) on top of the manager table, so
// published carries both outbound edges.
var transitions = map[domain.WorkflowState][]domain.WorkflowState{
	domain.StateDraft:     {domain.StateSubmitted},
	domain.StateSubmitted: {domain.StateApproved, domain.StateRejected},
	domain.StateRejected:  {domain.StateSubmitted, domain.StateDraft},
	domain.StateApproved:  {domain.StatePublished},
	domain.StatePublished: {domain.StateArchived, domain.StateDraft},
	domain.StateArchived:  {},
}

// edgePermissions maps each legal edge to the capability it requires
var edgePermissions = map[domain.WorkflowState]map[domain.WorkflowState]string{
	domain.StateDraft: {
		domain.StateSubmitted: PermSubmit,
	},
	domain.StateSubmitted: {
		domain.StateApproved: PermApprove,
		domain.StateRejected: PermApprove,
	},
	domain.StateRejected: {
		domain.StateSubmitted: PermSubmit,
		domain.StateDraft:     PermEdit,
	},
	domain.StateApproved: {
		domain.StatePublished: PermPublish,
	},
	domain.StatePublished: {
		domain.StateArchived: PermArchive,
		domain.StateDraft:    PermUnpublish,
	},
}

// Initial returns the state every content item starts in
func Initial() domain.WorkflowState { return domain.StateDraft }

// IsState reports whether s names a known workflow state
func IsState(s domain.WorkflowState) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from → to is a legal edge
func CanTransition(from, to domain.WorkflowState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// RequiredPermission returns the capability required for a legal edge.
// Returns "" for illegal edges; callers must check CanTransition first.
func RequiredPermission(from, to domain.WorkflowState) string {
	return edgePermissions[from][to]
}

// Outbound returns the states reachable from the given state
func Outbound(from domain.WorkflowState) []domain.WorkflowState {
	out := make([]domain.WorkflowState, len(transitions[from]))
	copy(out, transitions[from])
	return out
}
