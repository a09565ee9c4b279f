package service

import (
	"context"
	"fmt"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/notifier"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/internal/workflow"
	"github.com/openpress/openpress-backend/pkg/logger"
)

// PermissionChecker answers whether an actor holds a capability. The core
// never authenticates; it only authorizes against what this collaborator
// reports.
type PermissionChecker interface {
	HasPermission(actorID, permission string) (bool, error)
}

// WorkflowService enforces the content lifecycle graph and is the only
// path that moves workflow_state.
type WorkflowService interface {
	RequestTransition(ctx *domain.RequestContext, contentID string, toState domain.WorkflowState, reason string) error
	GetState(contentID string) (domain.WorkflowState, error)
	AvailableTransitions(contentID string) ([]domain.WorkflowState, error)
}

type workflowService struct {
	contents repository.ContentRepository
	audits   repository.AuditRepository
	perms    PermissionChecker
	hooks    *hook.Manager
	sink     notifier.Sink
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	contents repository.ContentRepository,
	audits repository.AuditRepository,
	perms PermissionChecker,
	hooks *hook.Manager,
	sink notifier.Sink,
) WorkflowService {
	return &workflowService{
		contents: contents,
		audits:   audits,
		perms:    perms,
		hooks:    hooks,
		sink:     sink,
	}
}

// RequestTransition validates the edge and the actor's capability before
// any write. The state flip commits together with its audit row; side
// effects run after the commit and cannot undo it.
func (s *workflowService) RequestTransition(ctx *domain.RequestContext, contentID string, toState domain.WorkflowState, reason string) error {
	content, err := s.contents.FindByID(contentID)
	if err != nil {
		return err
	}
	fromState := content.WorkflowState

	// An unknown target state is just an edge no state has; it gets the
	// same rejection and audit record as any other illegal transition.
	if !workflow.IsState(toState) || !workflow.CanTransition(fromState, toState) {
		transitionsTotal.WithLabelValues(string(toState), "rejected").Inc()
		s.auditAttempt(ctx, contentID, fromState, toState, false, "illegal transition")
		return fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, fromState, toState)
	}

	permission := workflow.RequiredPermission(fromState, toState)
	allowed := ctx.HasPermission(permission)
	if !allowed && s.perms != nil {
		allowed, err = s.perms.HasPermission(ctx.ActorID, permission)
		if err != nil {
			return err
		}
	}
	if !allowed {
		transitionsTotal.WithLabelValues(string(toState), "denied").Inc()
		s.auditDenial(ctx, contentID, fromState, toState, permission)
		return fmt.Errorf("%w: %s requires %s", common.ErrPermissionDenied, toState, permission)
	}

	audit := &domain.AuditLogEntry{
		ContentID: contentID,
		EventType: domain.EventTransition,
		ActorID:   ctx.ActorID,
		TenantID:  ctx.TenantID,
		FromState: string(fromState),
		ToState:   string(toState),
		Success:   true,
		Detail:    reason,
	}
	if err := s.contents.UpdateWorkflowState(contentID, fromState, toState, audit); err != nil {
		transitionsTotal.WithLabelValues(string(toState), "failed").Inc()
		s.auditAttempt(ctx, contentID, fromState, toState, false, err.Error())
		return err
	}

	transitionsTotal.WithLabelValues(string(toState), "ok").Inc()
	logger.GetLogger().Info().
		Str("content_id", contentID).
		Str("from_state", string(fromState)).
		Str("to_state", string(toState)).
		Str("actor_id", ctx.ActorID).
		Msg("workflow transition")

	s.runSideEffects(ctx, contentID, fromState, toState, reason)
	return nil
}

func (s *workflowService) GetState(contentID string) (domain.WorkflowState, error) {
	content, err := s.contents.FindByID(contentID)
	if err != nil {
		return "", err
	}
	return content.WorkflowState, nil
}

// AvailableTransitions lists the states currently reachable for a content
// item (used by the editing UI to render action buttons)
func (s *workflowService) AvailableTransitions(contentID string) ([]domain.WorkflowState, error) {
	content, err := s.contents.FindByID(contentID)
	if err != nil {
		return nil, err
	}
	return workflow.Outbound(content.WorkflowState), nil
}

// runSideEffects fires hooks and the notification sink after the commit.
// Failures are logged; the transition stays reported as successful.
func (s *workflowService) runSideEffects(ctx *domain.RequestContext, contentID string, fromState, toState domain.WorkflowState, reason string) {
	payload := map[string]interface{}{
		"content_id": contentID,
		"from_state": string(fromState),
		"to_state":   string(toState),
		"actor_id":   ctx.ActorID,
		"reason":     reason,
	}
	if s.hooks != nil {
		s.hooks.Do(hook.TransitionEvent(string(toState)), payload)
	}
	if s.sink != nil {
		if err := s.sink.Notify(context.Background(), domain.EventTransition, payload); err != nil {
			logger.GetLogger().Error().Err(err).
				Str("content_id", contentID).
				Str("to_state", string(toState)).
				Msg("transition notification failed")
		}
	}
}

// auditAttempt records a failed transition attempt (no state was written)
func (s *workflowService) auditAttempt(ctx *domain.RequestContext, contentID string, fromState, toState domain.WorkflowState, success bool, detail string) {
	entry := &domain.AuditLogEntry{
		ContentID: contentID,
		EventType: domain.EventTransition,
		ActorID:   ctx.ActorID,
		TenantID:  ctx.TenantID,
		FromState: string(fromState),
		ToState:   string(toState),
		Success:   success,
		Detail:    detail,
	}
	if err := s.audits.Append(entry); err != nil {
		logger.GetLogger().Error().Err(err).Str("content_id", contentID).Msg("audit append failed")
	}
}

// auditDenial records an authorization denial; this is the only trace a
// denied request leaves.
func (s *workflowService) auditDenial(ctx *domain.RequestContext, contentID string, fromState, toState domain.WorkflowState, permission string) {
	entry := &domain.AuditLogEntry{
		ContentID: contentID,
		EventType: domain.EventTransitionDenied,
		ActorID:   ctx.ActorID,
		TenantID:  ctx.TenantID,
		FromState: string(fromState),
		ToState:   string(toState),
		Success:   false,
		Detail:    "missing permission " + permission,
	}
	if err := s.audits.Append(entry); err != nil {
		logger.GetLogger().Error().Err(err).Str("content_id", contentID).Msg("audit append failed")
	}
}
