package service

import (
	"errors"
	"testing"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/hook"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/pkg/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateVersion_CleanCommit(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	sink := new(mockSink)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), sink)

	based := "v-1"
	versions.On("Create", mock.MatchedBy(func(p repository.CreateVersionParams) bool {
		return p.ContentID == "c-1" &&
			p.Payload == "hello" &&
			p.AuthorID == "actor-1" &&
			p.BasedOnVersionID != nil && *p.BasedOnVersionID == "v-1" &&
			!p.IsRollback
	})).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-2", ContentID: "c-1", VersionNumber: 2, Payload: "hello", IsCurrent: true},
	}, nil)
	sink.On("Notify", mock.Anything, hook.EventVersionCreated, mock.Anything).Return(nil)

	resp, err := svc.CreateVersion(testCtx(), "c-1", &domain.CreateVersionRequest{
		Payload:          "hello",
		BasedOnVersionID: &based,
	})

	assert.NoError(t, err)
	assert.Equal(t, "v-2", resp.VersionID)
	assert.Equal(t, uint(2), resp.VersionNumber)
	assert.False(t, resp.ConflictDetected)
	assert.Empty(t, resp.ConflictID)
	versions.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestCreateVersion_StaleBaseStillCommits(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	sink := new(mockSink)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), sink)

	stale := "v-1"
	versions.On("Create", mock.Anything).Return(&repository.CreateVersionResult{
		Version:          &domain.ContentVersion{ID: "v-3", ContentID: "c-1", VersionNumber: 3},
		ConflictDetected: true,
		Conflict:         &domain.EditConflict{ID: "cf-1", ContentID: "c-1"},
	}, nil)
	sink.On("Notify", mock.Anything, hook.EventVersionCreated, mock.MatchedBy(func(p map[string]interface{}) bool {
		return p["conflict_detected"] == true
	})).Return(nil)

	resp, err := svc.CreateVersion(testCtx(), "c-1", &domain.CreateVersionRequest{
		Payload:          "stale edit",
		BasedOnVersionID: &stale,
	})

	assert.NoError(t, err, "a stale base flags the conflict but never rejects the write")
	assert.True(t, resp.ConflictDetected)
	assert.Equal(t, "cf-1", resp.ConflictID)
	sink.AssertExpectations(t)
}

func TestCreateVersion_SinkFailureDoesNotFailCommit(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	sink := new(mockSink)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), sink)

	versions.On("Create", mock.Anything).Return(&repository.CreateVersionResult{
		Version: &domain.ContentVersion{ID: "v-2", VersionNumber: 2},
	}, nil)
	sink.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("stream down"))

	resp, err := svc.CreateVersion(testCtx(), "c-1", &domain.CreateVersionRequest{Payload: "x"})

	assert.NoError(t, err)
	assert.Equal(t, "v-2", resp.VersionID)
}

func TestCreateVersion_RepositoryError(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	sink := new(mockSink)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), sink)

	versions.On("Create", mock.Anything).Return(nil, common.ErrContentNotFound)

	resp, err := svc.CreateVersion(testCtx(), "missing", &domain.CreateVersionRequest{Payload: "x"})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, common.ErrContentNotFound)
	sink.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterContent_StartsInDraft(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), nil)

	contents.On("Create", mock.MatchedBy(func(c *domain.Content) bool {
		return c.ID == "c-1" && c.TenantID == "tenant-1" && c.WorkflowState == domain.StateDraft
	})).Return(nil)

	content, err := svc.RegisterContent(testCtx(), &domain.CreateContentRequest{ID: "c-1", Title: "About"})

	assert.NoError(t, err)
	assert.Equal(t, domain.StateDraft, content.WorkflowState)
	contents.AssertExpectations(t)
}

func TestDetectConflict(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), nil)

	versions.On("Current", "c-1").Return(&domain.ContentVersion{ID: "v-5", ContentID: "c-1", VersionNumber: 5}, nil)

	conflicted, current, err := svc.DetectConflict("c-1", "v-4")
	assert.NoError(t, err)
	assert.True(t, conflicted)
	assert.Equal(t, "v-5", current.ID)

	conflicted, _, err = svc.DetectConflict("c-1", "v-5")
	assert.NoError(t, err)
	assert.False(t, conflicted, "based-on matching current is not a conflict")
}

func TestDiff_BetweenVersions(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), nil)

	versions.On("FindByID", "v-1").Return(&domain.ContentVersion{ID: "v-1", Payload: "a\nb\n"}, nil)
	versions.On("FindByID", "v-2").Return(&domain.ContentVersion{ID: "v-2", Payload: "a\nc\n"}, nil)

	lines, err := svc.Diff("v-2", "v-1")

	assert.NoError(t, err)
	assert.Len(t, lines, 3)
	changed := 0
	for _, line := range lines {
		if line.Type != diff.Equal {
			changed++
		}
	}
	assert.Equal(t, 2, changed)
}

func TestPurge_PropagatesCount(t *testing.T) {
	versions := new(mockVersionRepo)
	contents := new(mockContentRepo)
	svc := NewVersionService(versions, contents, nil, hook.NewManager(), nil)

	versions.On("Purge", "c-1", 10, "actor-1").Return(int64(4), nil)

	purged, err := svc.Purge(testCtx(), "c-1", 10)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), purged)
	versions.AssertExpectations(t)
}
