package service

import (
	"context"
	"fmt"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/merge"
	"github.com/openpress/openpress-backend/internal/notifier"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/pkg/cache"
	"github.com/openpress/openpress-backend/pkg/logger"
)

// ConflictService resolves open edit conflicts. Every resolution ends in
// a new version committed through the ordinary path and the conflict
// closed.
type ConflictService interface {
	Resolve(ctx *domain.RequestContext, conflictID, strategy string, data *domain.ResolutionData) (string, error)
	Get(conflictID string) (*domain.EditConflict, error)
	ListOpen(contentID string) ([]*domain.EditConflict, error)
}

type conflictService struct {
	conflicts repository.ConflictRepository
	versions  repository.VersionRepository
	audits    repository.AuditRepository
	cache     cache.Service
	hooks     *hook.Manager
	sink      notifier.Sink
}

// NewConflictService creates a new ConflictService
func NewConflictService(
	conflicts repository.ConflictRepository,
	versions repository.VersionRepository,
	audits repository.AuditRepository,
	cacheSvc cache.Service,
	hooks *hook.Manager,
	sink notifier.Sink,
) ConflictService {
	return &conflictService{
		conflicts: conflicts,
		versions:  versions,
		audits:    audits,
		cache:     cacheSvc,
		hooks:     hooks,
		sink:      sink,
	}
}

// Resolve runs the named merge strategy over the conflict's three payloads
// (common base, current, conflicted incoming), commits the result as a new
// version based on the current one, and closes the conflict.
func (s *conflictService) Resolve(ctx *domain.RequestContext, conflictID, strategy string, data *domain.ResolutionData) (string, error) {
	strat, ok := merge.Get(strategy)
	if !ok {
		return "", fmt.Errorf("%w: unknown resolution strategy %q", common.ErrInvalidArgument, strategy)
	}

	conflict, err := s.conflicts.FindByID(conflictID)
	if err != nil {
		return "", err
	}
	if conflict.Resolved() {
		return "", fmt.Errorf("%w: conflict already resolved", common.ErrInvalidArgument)
	}

	incoming, err := s.versions.FindByID(conflict.ConflictingVersionID)
	if err != nil {
		return "", err
	}
	current, err := s.versions.Current(conflict.ContentID)
	if err != nil {
		return "", err
	}
	// the based-on version may have been purged; merge degrades to an
	// empty base in that case
	base := ""
	if baseVersion, err := s.versions.FindByID(conflict.BasedOnVersionID); err == nil {
		base = baseVersion.Payload
	}

	merged, err := strat.Merge(merge.Input{
		Base:     base,
		Current:  current.Payload,
		Incoming: incoming.Payload,
		Data:     data,
	})
	if err != nil {
		return "", err
	}

	result, err := s.versions.Create(repository.CreateVersionParams{
		ContentID:        conflict.ContentID,
		Payload:          merged,
		AuthorID:         ctx.ActorID,
		TenantID:         ctx.TenantID,
		BasedOnVersionID: &current.ID,
		Reason:           fmt.Sprintf("conflict %s resolved (%s)", conflictID, strategy),
	})
	if err != nil {
		return "", err
	}

	// The merged-version commit and the conflict close are separate
	// transactions. If the close fails the merged version stays committed
	// and the conflict stays open, so the caller can retry Resolve; the
	// retry re-merges against the new current and closes the conflict.
	if err := s.conflicts.Resolve(conflictID, strategy, ctx.ActorID, result.Version.ID); err != nil {
		return "", err
	}

	conflictsResolved.WithLabelValues(strategy).Inc()
	auditEntry := &domain.AuditLogEntry{
		ContentID: conflict.ContentID,
		VersionID: result.Version.ID,
		EventType: domain.EventConflictResolved,
		ActorID:   ctx.ActorID,
		TenantID:  ctx.TenantID,
		Success:   true,
		Detail:    fmt.Sprintf("conflict %s via %s", conflictID, strategy),
	}
	if err := s.audits.Append(auditEntry); err != nil {
		logger.GetLogger().Error().Err(err).Str("conflict_id", conflictID).Msg("audit append failed")
	}

	payload := map[string]interface{}{
		"content_id":     conflict.ContentID,
		"conflict_id":    conflictID,
		"strategy":       strategy,
		"new_version_id": result.Version.ID,
		"actor_id":       ctx.ActorID,
	}
	if s.cache != nil {
		if err := s.cache.InvalidateContent(context.Background(), conflict.ContentID); err != nil {
			logger.GetLogger().Warn().Err(err).Str("content_id", conflict.ContentID).Msg("cache invalidation failed")
		}
	}
	if s.hooks != nil {
		s.hooks.Do(hook.EventConflictResolved, payload)
	}
	if s.sink != nil {
		if err := s.sink.Notify(context.Background(), domain.EventConflictResolved, payload); err != nil {
			logger.GetLogger().Error().Err(err).Str("conflict_id", conflictID).Msg("resolution notification failed")
		}
	}

	return result.Version.ID, nil
}

func (s *conflictService) Get(conflictID string) (*domain.EditConflict, error) {
	return s.conflicts.FindByID(conflictID)
}

func (s *conflictService) ListOpen(contentID string) ([]*domain.EditConflict, error) {
	return s.conflicts.ListOpen(contentID)
}
