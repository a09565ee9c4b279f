package service

import (
	"context"

	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/notifier"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/internal/workflow"
	"github.com/openpress/openpress-backend/pkg/cache"
	"github.com/openpress/openpress-backend/pkg/diff"
	"github.com/openpress/openpress-backend/pkg/logger"
)

// VersionService is the edit entry point of the versioning core
type VersionService interface {
	RegisterContent(ctx *domain.RequestContext, req *domain.CreateContentRequest) (*domain.Content, error)
	CreateVersion(ctx *domain.RequestContext, contentID string, req *domain.CreateVersionRequest) (*domain.VersionCommitResponse, error)
	GetVersion(versionID string) (*domain.ContentVersion, error)
	GetMetadata(versionID string) (*domain.VersionMetadata, error)
	ListVersions(contentID string, limit int) ([]*domain.VersionSummary, error)
	DetectConflict(contentID, basedOnVersionID string) (bool, *domain.ContentVersion, error)
	Diff(versionID, againstVersionID string) ([]diff.Line, error)
	HTMLDiff(versionID, againstVersionID string) (*diff.SideBySide, error)
	Purge(ctx *domain.RequestContext, contentID string, keep int) (int64, error)
}

type versionService struct {
	versions repository.VersionRepository
	contents repository.ContentRepository
	cache    cache.Service
	hooks    *hook.Manager
	sink     notifier.Sink
}

// NewVersionService creates a new VersionService. cache may be nil when
// redis is not configured.
func NewVersionService(
	versions repository.VersionRepository,
	contents repository.ContentRepository,
	cacheSvc cache.Service,
	hooks *hook.Manager,
	sink notifier.Sink,
) VersionService {
	return &versionService{
		versions: versions,
		contents: contents,
		cache:    cacheSvc,
		hooks:    hooks,
		sink:     sink,
	}
}

// RegisterContent creates the content row the version history hangs off.
// New content starts in draft with no versions.
func (s *versionService) RegisterContent(ctx *domain.RequestContext, req *domain.CreateContentRequest) (*domain.Content, error) {
	content := &domain.Content{
		ID:            req.ID,
		TenantID:      ctx.TenantID,
		Title:         req.Title,
		WorkflowState: workflow.Initial(),
	}
	if err := s.contents.Create(content); err != nil {
		return nil, err
	}
	return content, nil
}

// CreateVersion commits an edit as a new version. A stale based-on does
// not reject the write: the version is committed with its conflict flagged
// and the caller is told.
func (s *versionService) CreateVersion(ctx *domain.RequestContext, contentID string, req *domain.CreateVersionRequest) (*domain.VersionCommitResponse, error) {
	result, err := s.versions.Create(repository.CreateVersionParams{
		ContentID:        contentID,
		Payload:          req.Payload,
		AuthorID:         ctx.ActorID,
		TenantID:         ctx.TenantID,
		BasedOnVersionID: req.BasedOnVersionID,
		Reason:           req.Reason,
	})
	if err != nil {
		return nil, err
	}

	versionsCreated.Inc()
	if result.ConflictDetected {
		conflictsDetected.Inc()
		logger.GetLogger().Warn().
			Str("content_id", contentID).
			Str("version_id", result.Version.ID).
			Str("conflict_id", result.Conflict.ID).
			Msg("concurrent edit conflict detected")
	}

	s.afterCommit(contentID, hook.EventVersionCreated, map[string]interface{}{
		"content_id":        contentID,
		"version_id":        result.Version.ID,
		"version_number":    result.Version.VersionNumber,
		"author_id":         ctx.ActorID,
		"conflict_detected": result.ConflictDetected,
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

// GetVersion reads a version, going through the cache since versions are
// immutable after creation.
func (s *versionService) GetVersion(versionID string) (*domain.ContentVersion, error) {
	if s.cache != nil {
		var cached domain.ContentVersion
		if err := s.cache.GetVersion(context.Background(), versionID, &cached); err == nil {
			return &cached, nil
		}
	}
	version, err := s.versions.FindByID(versionID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetVersion(context.Background(), versionID, version); err != nil {
			logger.GetLogger().Warn().Err(err).Str("version_id", versionID).Msg("version cache write failed")
		}
	}
	return version, nil
}

func (s *versionService) GetMetadata(versionID string) (*domain.VersionMetadata, error) {
	return s.versions.Metadata(versionID)
}

func (s *versionService) ListVersions(contentID string, limit int) ([]*domain.VersionSummary, error) {
	return s.versions.List(contentID, limit)
}

// DetectConflict is the read-only pre-flight check: a conflict exists iff
// the declared based-on version is no longer current. It never blocks the
// subsequent write.
func (s *versionService) DetectConflict(contentID, basedOnVersionID string) (bool, *domain.ContentVersion, error) {
	current, err := s.versions.Current(contentID)
	if err != nil {
		return false, nil, err
	}
	return current.ID != basedOnVersionID, current, nil
}

// Diff computes the line diff from againstVersionID to versionID
func (s *versionService) Diff(versionID, againstVersionID string) ([]diff.Line, error) {
	oldVersion, err := s.GetVersion(againstVersionID)
	if err != nil {
		return nil, err
	}
	newVersion, err := s.GetVersion(versionID)
	if err != nil {
		return nil, err
	}
	return diff.LineDiff(oldVersion.Payload, newVersion.Payload), nil
}

// HTMLDiff renders the same diff as side-by-side panes
func (s *versionService) HTMLDiff(versionID, againstVersionID string) (*diff.SideBySide, error) {
	oldVersion, err := s.GetVersion(againstVersionID)
	if err != nil {
		return nil, err
	}
	newVersion, err := s.GetVersion(versionID)
	if err != nil {
		return nil, err
	}
	panes := diff.HTMLDiff(oldVersion.Payload, newVersion.Payload)
	return &panes, nil
}

// Purge applies the retention policy for one content item
func (s *versionService) Purge(ctx *domain.RequestContext, contentID string, keep int) (int64, error) {
	purged, err := s.versions.Purge(contentID, keep, ctx.ActorID)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.invalidate(contentID)
	}
	return purged, nil
}

// afterCommit runs hooks, notifies the sink and drops cache entries.
// Failures here never alter the committed outcome.
func (s *versionService) afterCommit(contentID, event string, payload map[string]interface{}) {
	s.invalidate(contentID)
	if s.hooks != nil {
		s.hooks.Do(event, payload)
	}
	if s.sink != nil {
		if err := s.sink.Notify(context.Background(), event, payload); err != nil {
			logger.GetLogger().Error().Err(err).
				Str("event", event).
				Str("content_id", contentID).
				Msg("notification dispatch failed")
		}
	}
}

func (s *versionService) invalidate(contentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateContent(context.Background(), contentID); err != nil {
		logger.GetLogger().Warn().Err(err).
			Str("content_id", contentID).
			Msg("cache invalidation failed")
	}
}
