package service

import (
	"context"
	"fmt"

	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/notifier"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/pkg/cache"
	"github.com/openpress/openpress-backend/pkg/diff"
	"github.com/openpress/openpress-backend/pkg/logger"
)

// BatchRollbackOutcome reports one item of a batch rollback
type BatchRollbackOutcome struct {
	Success      bool   `json:"success"`
	NewVersionID string `json:"new_version_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RollbackPreview is the read-only dry run of a rollback
type RollbackPreview struct {
	TargetVersionID  string      `json:"target_version_id"`
	CurrentVersionID string      `json:"current_version_id"`
	Diff             []diff.Line `json:"diff"`
	Warnings         []string    `json:"warnings,omitempty"`
}

// RollbackService restores prior versions. History is never mutated: a
// rollback is a new version whose payload equals the target's.
type RollbackService interface {
	Rollback(ctx *domain.RequestContext, contentID, targetVersionID, reason string) (*domain.VersionCommitResponse, error)
	BatchRollback(ctx *domain.RequestContext, versionIDs []string, reason string) map[string]BatchRollbackOutcome
	PreviewRollback(contentID, targetVersionID string) (*RollbackPreview, error)
}

type rollbackService struct {
	versions repository.VersionRepository
	cache    cache.Service
	hooks    *hook.Manager
	sink     notifier.Sink
}

// NewRollbackService creates a new RollbackService
func NewRollbackService(
	versions repository.VersionRepository,
	cacheSvc cache.Service,
	hooks *hook.Manager,
	sink notifier.Sink,
) RollbackService {
	return &rollbackService{versions: versions, cache: cacheSvc, hooks: hooks, sink: sink}
}

// Rollback reuses the ordinary commit path: the target's payload becomes a
// new version based on whatever is current right now, so a rollback racing
// other edits gets conflict-flagged like any edit would.
func (s *rollbackService) Rollback(ctx *domain.RequestContext, contentID, targetVersionID, reason string) (*domain.VersionCommitResponse, error) {
	target, err := s.versions.FindForContent(contentID, targetVersionID)
	if err != nil {
		rollbacksTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	current, err := s.versions.Current(contentID)
	if err != nil {
		rollbacksTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	result, err := s.versions.Create(repository.CreateVersionParams{
		ContentID:        contentID,
		Payload:          target.Payload,
		AuthorID:         ctx.ActorID,
		TenantID:         ctx.TenantID,
		BasedOnVersionID: &current.ID,
		Reason:           fmt.Sprintf("rollback to version %d: %s", target.VersionNumber, reason),
		IsRollback:       true,
	})
	if err != nil {
		rollbacksTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	rollbacksTotal.WithLabelValues("ok").Inc()
	logger.GetLogger().Info().
		Str("content_id", contentID).
		Str("target_version_id", targetVersionID).
		Str("new_version_id", result.Version.ID).
		Str("actor_id", ctx.ActorID).
		Msg("version rolled back")

	s.afterCommit(contentID, map[string]interface{}{
		"content_id":        contentID,
		"target_version_id": targetVersionID,
		"new_version_id":    result.Version.ID,
		"version_number":    result.Version.VersionNumber,
		"actor_id":          ctx.ActorID,
	})

	resp := &domain.VersionCommitResponse{
		VersionID:        result.Version.ID,
		VersionNumber:    result.Version.VersionNumber,
		ConflictDetected: result.ConflictDetected,
	}
	if result.Conflict != nil {
		resp.ConflictID = result.Conflict.ID
	}
	return resp, nil
}

// BatchRollback rolls back each version independently; one failure does
// not abort the rest.
func (s *rollbackService) BatchRollback(ctx *domain.RequestContext, versionIDs []string, reason string) map[string]BatchRollbackOutcome {
	outcomes := make(map[string]BatchRollbackOutcome, len(versionIDs))
	for _, versionID := range versionIDs {
		target, err := s.versions.FindByID(versionID)
		if err != nil {
			outcomes[versionID] = BatchRollbackOutcome{Success: false, Error: err.Error()}
			continue
		}
		resp, err := s.Rollback(ctx, target.ContentID, versionID, reason)
		if err != nil {
			outcomes[versionID] = BatchRollbackOutcome{Success: false, Error: err.Error()}
			continue
		}
		outcomes[versionID] = BatchRollbackOutcome{Success: true, NewVersionID: resp.VersionID}
	}
	return outcomes
}

// PreviewRollback computes what a rollback would change without writing
// anything. Warnings surface structural fields the rollback would drop or
// add when both payloads are structured.
func (s *rollbackService) PreviewRollback(contentID, targetVersionID string) (*RollbackPreview, error) {
	target, err := s.versions.FindForContent(contentID, targetVersionID)
	if err != nil {
		return nil, err
	}
	current, err := s.versions.Current(contentID)
	if err != nil {
		return nil, err
	}

	preview := &RollbackPreview{
		TargetVersionID:  target.ID,
		CurrentVersionID: current.ID,
		Diff:             diff.LineDiff(current.Payload, target.Payload),
	}

	currentObj, currentOK := diff.DecodePayload(current.Payload)
	targetObj, targetOK := diff.DecodePayload(target.Payload)
	if currentOK && targetOK {
		for _, op := range diff.CreatePatch(currentObj, targetObj).Ops {
			if op.Op == diff.OpDelete {
				preview.Warnings = append(preview.Warnings,
					fmt.Sprintf("field %q present in the current version would be removed", pathString(op.Path)))
			}
		}
	} else if currentOK != targetOK {
		preview.Warnings = append(preview.Warnings,
			"current and target payloads have different structure (structured vs plain)")
	}
	return preview, nil
}

func (s *rollbackService) afterCommit(contentID string, payload map[string]interface{}) {
	if s.cache != nil {
		if err := s.cache.InvalidateContent(context.Background(), contentID); err != nil {
			logger.GetLogger().Warn().Err(err).Str("content_id", contentID).Msg("cache invalidation failed")
		}
	}
	if s.hooks != nil {
		s.hooks.Do(hook.EventVersionRollback, payload)
	}
	if s.sink != nil {
		if err := s.sink.Notify(context.Background(), domain.EventVersionRollback, payload); err != nil {
			logger.GetLogger().Error().Err(err).Str("content_id", contentID).Msg("rollback notification failed")
		}
	}
}

func pathString(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "."
		}
		out += seg
	}
	return out
}
