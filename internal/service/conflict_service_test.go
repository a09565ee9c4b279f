package service

import (
	"errors"
	"testing"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func openConflict() *domain.EditConflict {
	return &domain.EditConflict{
		ID:                   "cf-1",
		ContentID:            "c-1",
		BasedOnVersionID:     "v-1",
		ConflictingVersionID: "v-3",
		CurrentVersionID:     "v-2",
	}
}

func TestResolve_ManualStrategy(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	sink := new(mockSink)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), sink)

	conflicts.On("FindByID", "cf-1").Return(openConflict(), nil)
	versions.On("FindByID", "v-3").Return(&domain.ContentVersion{ID: "v-3", ContentID: "c-1", Payload: "incoming"}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-3b", ContentID: "c-1", Payload: "current", IsCurrent: true}, nil)
	versions.On("FindByID", "v-1").Return(&domain.ContentVersion{ID: "v-1", ContentID: "c-1", Payload: "base"}, nil)
	versions.On("Create", mock.MatchedBy(func(p repository.CreateVersionParams) bool {
		return p.ContentID == "c-1" &&
			p.Payload == "hand merged" &&
			p.BasedOnVersionID != nil && *p.BasedOnVersionID == "v-3b"
	})).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-4", ContentID: "c-1", VersionNumber: 4, Payload: "hand merged"},
	}, nil)
	conflicts.On("Resolve", "cf-1", domain.StrategyManual, "actor-1", "v-4").Return(nil)
	audits.On("Append", mock.MatchedBy(func(a *domain.AuditLogEntry) bool {
		return a.EventType == domain.EventConflictResolved && a.Success && a.VersionID == "v-4"
	})).Return(nil)
	sink.On("Notify", mock.Anything, domain.EventConflictResolved, mock.Anything).Return(nil)

	newVersionID, err := svc.Resolve(testCtx(), "cf-1", domain.StrategyManual,
		&domain.ResolutionData{Payload: "hand merged"})

	assert.NoError(t, err)
	assert.Equal(t, "v-4", newVersionID)
	conflicts.AssertExpectations(t)
	versions.AssertExpectations(t)
	audits.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestResolve_SemanticAutoMerge(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	// non-overlapping edits on the two sides merge cleanly
	conflicts.On("FindByID", "cf-1").Return(openConflict(), nil)
	versions.On("FindByID", "v-3").Return(&domain.ContentVersion{ID: "v-3", ContentID: "c-1", Payload: "a\nb\nC"}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-2", ContentID: "c-1", Payload: "A\nb\nc"}, nil)
	versions.On("FindByID", "v-1").Return(&domain.ContentVersion{ID: "v-1", ContentID: "c-1", Payload: "a\nb\nc"}, nil)
	versions.On("Create", mock.MatchedBy(func(p repository.CreateVersionParams) bool {
		return p.Payload == "A\nb\nC"
	})).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-4", ContentID: "c-1", VersionNumber: 4},
	}, nil)
	conflicts.On("Resolve", "cf-1", domain.StrategySemantic, "actor-1", "v-4").Return(nil)
	audits.On("Append", mock.Anything).Return(nil)

	newVersionID, err := svc.Resolve(testCtx(), "cf-1", domain.StrategySemantic, nil)

	assert.NoError(t, err)
	assert.Equal(t, "v-4", newVersionID)
	versions.AssertExpectations(t)
}

func TestResolve_UnknownStrategy(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	_, err := svc.Resolve(testCtx(), "cf-1", "coin-flip", nil)

	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	conflicts.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestResolve_AlreadyResolved(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	resolved := openConflict()
	now := resolved.DetectedAt
	resolved.ResolvedAt = &now
	conflicts.On("FindByID", "cf-1").Return(resolved, nil)

	_, err := svc.Resolve(testCtx(), "cf-1", domain.StrategyManual, &domain.ResolutionData{Payload: "x"})

	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	versions.AssertNotCalled(t, "Create", mock.Anything)
	conflicts.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_PurgedBaseDegradesToEmpty(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	conflicts.On("FindByID", "cf-1").Return(openConflict(), nil)
	versions.On("FindByID", "v-3").Return(&domain.ContentVersion{ID: "v-3", ContentID: "c-1", Payload: "incoming"}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-2", ContentID: "c-1", Payload: "current"}, nil)
	versions.On("FindByID", "v-1").Return(nil, common.ErrVersionNotFound)
	versions.On("Create", mock.Anything).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-4", ContentID: "c-1", VersionNumber: 4},
	}, nil)
	conflicts.On("Resolve", "cf-1", domain.StrategySemantic, "actor-1", "v-4").Return(nil)
	audits.On("Append", mock.Anything).Return(nil)

	newVersionID, err := svc.Resolve(testCtx(), "cf-1", domain.StrategySemantic, nil)

	assert.NoError(t, err, "a purged base version does not block resolution")
	assert.Equal(t, "v-4", newVersionID)
}

func TestResolve_SectionalRequiresSections(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	conflicts.On("FindByID", "cf-1").Return(openConflict(), nil)
	versions.On("FindByID", "v-3").Return(&domain.ContentVersion{ID: "v-3", ContentID: "c-1", Payload: `{"a":"x"}`}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-2", ContentID: "c-1", Payload: `{"a":"y"}`}, nil)
	versions.On("FindByID", "v-1").Return(&domain.ContentVersion{ID: "v-1", ContentID: "c-1", Payload: `{"a":"z"}`}, nil)

	_, err := svc.Resolve(testCtx(), "cf-1", domain.StrategySectional, nil)

	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	versions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestResolve_CloseFailureLeavesConflictRetryable(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	// the merged version commits but closing the conflict fails; the
	// error is reported, the conflict stays open, and a second Resolve
	// succeeds against the now-current merged version
	conflicts.On("FindByID", "cf-1").Return(openConflict(), nil)
	versions.On("FindByID", "v-3").Return(&domain.ContentVersion{ID: "v-3", ContentID: "c-1", Payload: "incoming"}, nil)
	versions.On("FindByID", "v-1").Return(&domain.ContentVersion{ID: "v-1", ContentID: "c-1", Payload: "base"}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-2", ContentID: "c-1", Payload: "current"}, nil).Once()
	versions.On("Create", mock.Anything).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-4", ContentID: "c-1", VersionNumber: 4, Payload: "hand merged"},
	}, nil).Once()
	conflicts.On("Resolve", "cf-1", domain.StrategyManual, "actor-1", "v-4").
		Return(common.StorageError(errors.New("connection reset"))).Once()

	_, err := svc.Resolve(testCtx(), "cf-1", domain.StrategyManual, &domain.ResolutionData{Payload: "hand merged"})

	assert.ErrorIs(t, err, common.ErrStorage)
	audits.AssertNotCalled(t, "Append", mock.Anything)

	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-4", ContentID: "c-1", Payload: "hand merged", IsCurrent: true}, nil).Once()
	versions.On("Create", mock.Anything).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-5", ContentID: "c-1", VersionNumber: 5, Payload: "hand merged"},
	}, nil).Once()
	conflicts.On("Resolve", "cf-1", domain.StrategyManual, "actor-1", "v-5").Return(nil).Once()
	audits.On("Append", mock.Anything).Return(nil)

	newVersionID, err := svc.Resolve(testCtx(), "cf-1", domain.StrategyManual, &domain.ResolutionData{Payload: "hand merged"})

	assert.NoError(t, err)
	assert.Equal(t, "v-5", newVersionID)
	conflicts.AssertExpectations(t)
	versions.AssertExpectations(t)
}

func TestListOpen(t *testing.T) {
	conflicts := new(mockConflictRepo)
	versions := new(mockVersionRepo)
	audits := new(mockAuditRepo)
	svc := NewConflictService(conflicts, versions, audits, nil, hook.NewManager(), nil)

	conflicts.On("ListOpen", "c-1").Return([]*domain.EditConflict{openConflict()}, nil)

	open, err := svc.ListOpen("c-1")

	assert.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, "cf-1", open[0].ID)
}
