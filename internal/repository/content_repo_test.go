package repository

import (
	"testing"

	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/migration"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ContentRepoSuite struct {
	suite.Suite
	db       *gorm.DB
	contents ContentRepository
	audits   AuditRepository
}

func TestContentRepoSuite(t *testing.T) {
	suite.Run(t, new(ContentRepoSuite))
}

func (s *ContentRepoSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(migration.Run(db))

	s.db = db
	s.contents = NewContentRepository(db)
	s.audits = NewAuditRepository(db)
}

func (s *ContentRepoSuite) TestUpdateWorkflowStateGuarded() {
	s.Require().NoError(s.contents.Create(&domain.Content{
		ID: "c-1", Title: "Page", WorkflowState: domain.StateDraft,
	}))

	audit := &domain.AuditLogEntry{
		ContentID: "c-1",
		EventType: domain.EventTransition,
		ActorID:   "actor-1",
		FromState: string(domain.StateDraft),
		ToState:   string(domain.StateSubmitted),
		Success:   true,
	}
	err := s.contents.UpdateWorkflowState("c-1", domain.StateDraft, domain.StateSubmitted, audit)
	s.Require().NoError(err)

	content, err := s.contents.FindByID("c-1")
	s.Require().NoError(err)
	s.Equal(domain.StateSubmitted, content.WorkflowState)

	_, total, err := s.audits.List("c-1", domain.EventTransition, 1, 20)
	s.Require().NoError(err)
	s.EqualValues(1, total)

	// replaying the same flip fails: the row is no longer in draft
	err = s.contents.UpdateWorkflowState("c-1", domain.StateDraft, domain.StateSubmitted, nil)
	s.ErrorIs(err, common.ErrInvalidTransition)
}

func (s *ContentRepoSuite) TestUpdateWorkflowStateUnknownContent() {
	err := s.contents.UpdateWorkflowState("nope", domain.StateDraft, domain.StateSubmitted, nil)
	s.ErrorIs(err, common.ErrContentNotFound)
}
