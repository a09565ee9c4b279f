package service

import (
	"context"

	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// --- Mock VersionRepository ---

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) Create(params repository.CreateVersionParams) (*repository.CreateVersionResult, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CreateVersionResult), args.Error(1)
}

func (m *mockVersionRepo) FindByID(versionID string) (*domain.ContentVersion, error) {
	args := m.Called(versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) FindForContent(contentID, versionID string) (*domain.ContentVersion, error) {
	args := m.Called(contentID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) Current(contentID string) (*domain.ContentVersion, error) {
	args := m.Called(contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) List(contentID string, limit int) ([]*domain.VersionSummary, error) {
	args := m.Called(contentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VersionSummary), args.Error(1)
}

func (m *mockVersionRepo) Metadata(versionID string) (*domain.VersionMetadata, error) {
	args := m.Called(versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionMetadata), args.Error(1)
}

func (m *mockVersionRepo) Purge(contentID string, keep int, actorID string) (int64, error) {
	args := m.Called(contentID, keep, actorID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ContentRepository ---

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) Create(content *domain.Content) error {
	return m.Called(content).Error(0)
}

func (m *mockContentRepo) FindByID(id string) (*domain.Content, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *mockContentRepo) UpdateWorkflowState(contentID string, from, to domain.WorkflowState, audit *domain.AuditLogEntry) error {
	return m.Called(contentID, from, to, audit).Error(0)
}

// --- Mock ConflictRepository ---

type mockConflictRepo struct {
	mock.Mock
}

func (m *mockConflictRepo) FindByID(conflictID string) (*domain.EditConflict, error) {
	args := m.Called(conflictID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditConflict), args.Error(1)
}

func (m *mockConflictRepo) ListOpen(contentID string) ([]*domain.EditConflict, error) {
	args := m.Called(contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EditConflict), args.Error(1)
}

func (m *mockConflictRepo) Resolve(conflictID, strategy, resolvedBy, resolutionVersionID string) error {
	return m.Called(conflictID, strategy, resolvedBy, resolutionVersionID).Error(0)
}

// --- Mock AuditRepository ---

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Append(entry *domain.AuditLogEntry) error {
	return m.Called(entry).Error(0)
}

func (m *mockAuditRepo) List(contentID, eventType string, page, perPage int) ([]domain.AuditLogEntry, int64, error) {
	args := m.Called(contentID, eventType, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Get(1).(int64), args.Error(2)
}

// --- Mock PermissionChecker ---

type mockPermissionChecker struct {
	mock.Mock
}

func (m *mockPermissionChecker) HasPermission(actorID, permission string) (bool, error) {
	args := m.Called(actorID, permission)
	return args.Bool(0), args.Error(1)
}

// --- Mock notification Sink ---

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Notify(ctx context.Context, eventType string, payload map[string]interface{}) error {
	return m.Called(ctx, eventType, payload).Error(0)
}

func testCtx() *domain.RequestContext {
	return &domain.RequestContext{ActorID: "actor-1", TenantID: "tenant-1"}
}
