package service

import (
	"testing"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRollback_CreatesNewVersionBasedOnCurrent(t *testing.T) {
	versions := new(mockVersionRepo)
	sink := new(mockSink)
	svc := NewRollbackService(versions, nil, hook.NewManager(), sink)

	versions.On("FindForContent", "c-1", "v-2").Return(&domain.ContentVersion{
		ID: "v-2", ContentID: "c-1", VersionNumber: 2, Payload: "old body",
	}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{
		ID: "v-5", ContentID: "c-1", VersionNumber: 5, Payload: "new body", IsCurrent: true,
	}, nil)
	versions.On("Create", mock.MatchedBy(func(p repository.CreateVersionParams) bool {
		return p.ContentID == "c-1" &&
			p.Payload == "old body" &&
			p.IsRollback &&
			p.BasedOnVersionID != nil && *p.BasedOnVersionID == "v-5"
	})).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-6", ContentID: "c-1", VersionNumber: 6, Payload: "old body", IsCurrent: true},
	}, nil)
	sink.On("Notify", mock.Anything, domain.EventVersionRollback, mock.Anything).Return(nil)

	resp, err := svc.Rollback(testCtx(), "c-1", "v-2", "reverting vandalism")

	assert.NoError(t, err)
	assert.Equal(t, "v-6", resp.VersionID)
	assert.Equal(t, uint(6), resp.VersionNumber)
	assert.False(t, resp.ConflictDetected)
	versions.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestRollback_WrongContent(t *testing.T) {
	versions := new(mockVersionRepo)
	svc := NewRollbackService(versions, nil, hook.NewManager(), nil)

	versions.On("FindForContent", "c-1", "v-other").Return(nil, common.ErrVersionNotFound)

	resp, err := svc.Rollback(testCtx(), "c-1", "v-other", "")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, common.ErrVersionNotFound)
	versions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestBatchRollback_PerItemOutcomes(t *testing.T) {
	versions := new(mockVersionRepo)
	sink := new(mockSink)
	svc := NewRollbackService(versions, nil, hook.NewManager(), sink)

	versions.On("FindByID", "v-ok").Return(&domain.ContentVersion{ID: "v-ok", ContentID: "c-1", VersionNumber: 1, Payload: "a"}, nil)
	versions.On("FindByID", "v-gone").Return(nil, common.ErrVersionNotFound)
	versions.On("FindForContent", "c-1", "v-ok").Return(&domain.ContentVersion{ID: "v-ok", ContentID: "c-1", VersionNumber: 1, Payload: "a"}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-3", ContentID: "c-1", VersionNumber: 3, Payload: "c"}, nil)
	versions.On("Create", mock.Anything).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-4", ContentID: "c-1", VersionNumber: 4},
	}, nil)
	sink.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	outcomes := svc.BatchRollback(testCtx(), []string{"v-ok", "v-gone"}, "bulk revert")

	assert.Len(t, outcomes, 2)
	assert.True(t, outcomes["v-ok"].Success)
	assert.Equal(t, "v-4", outcomes["v-ok"].NewVersionID)
	assert.False(t, outcomes["v-gone"].Success)
	assert.NotEmpty(t, outcomes["v-gone"].Error)
}

func TestPreviewRollback_ReadOnly(t *testing.T) {
	versions := new(mockVersionRepo)
	svc := NewRollbackService(versions, nil, hook.NewManager(), nil)

	versions.On("FindForContent", "c-1", "v-1").Return(&domain.ContentVersion{
		ID: "v-1", ContentID: "c-1", VersionNumber: 1, Payload: "a\nb\n",
	}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{
		ID: "v-2", ContentID: "c-1", VersionNumber: 2, Payload: "a\nc\n",
	}, nil)

	preview, err := svc.PreviewRollback("c-1", "v-1")

	assert.NoError(t, err)
	assert.Equal(t, "v-1", preview.TargetVersionID)
	assert.Equal(t, "v-2", preview.CurrentVersionID)
	assert.NotEmpty(t, preview.Diff)
	versions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPreviewRollback_WarnsOnDroppedFields(t *testing.T) {
	versions := new(mockVersionRepo)
	svc := NewRollbackService(versions, nil, hook.NewManager(), nil)

	versions.On("FindForContent", "c-1", "v-1").Return(&domain.ContentVersion{
		ID: "v-1", ContentID: "c-1", Payload: `{"title":"old"}`,
	}, nil)
	versions.On("Current", "c-1").Return(&domain.ContentVersion{
		ID: "v-2", ContentID: "c-1", Payload: `{"title":"new","summary":"added later"}`,
	}, nil)

	preview, err := svc.PreviewRollback("c-1", "v-1")

	assert.NoError(t, err)
	assert.Len(t, preview.Warnings, 1)
	assert.Contains(t, preview.Warnings[0], "summary")
}
