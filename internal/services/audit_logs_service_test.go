package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"renttracker/internal/common"
	"renttracker/internal/models"
	"renttracker/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuditLogsServiceTestSuite struct {
	suite.Suite
	mockRepo *testhelpers.MockAuditLogsRepository
	service  AuditLogsService
	ctx      context.Context
}

func (suite *AuditLogsServiceTestSuite) SetupTest() {
	suite.mockRepo = &testhelpers.MockAuditLogsRepository{}
	suite.service = NewAuditLogsService(suite.mockRepo)
	suite.ctx = context.Background()
}

func (suite *AuditLogsServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAuditLogsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditLogsServiceTestSuite))
}

func (suite *AuditLogsServiceTestSuite) TestRecord_UsesPrincipalFromContext() {
	userID := uuid.New()
	ctx := common.WithPrincipal(suite.ctx, &models.Principal{UserID: userID, Username: "alice"})
	llc := &models.LLC{ID: uuid.New(), Name: "Maple Holdings"}

	var saved *models.AuditLog
	suite.mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditLog")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.AuditLog) }).
		Return(nil).Once()

	suite.service.Record(ctx, models.ActionAdded, llc)

	suite.Require().NotNil(saved)
	assert.Equal(suite.T(), "alice", saved.Actor)
	assert.Equal(suite.T(), &userID, saved.ActorID)
	assert.Equal(suite.T(), models.ActionAdded, saved.Action)
	assert.Equal(suite.T(), "LLC", saved.EntityType)
	assert.Equal(suite.T(), llc.ID.String(), saved.EntityID)
	assert.Equal(suite.T(), "Maple Holdings", saved.EntityDisplay)
	assert.Equal(suite.T(), "User 'alice' Added LLC: 'Maple Holdings' (ID: "+llc.ID.String()+")", saved.Message())
}

func (suite *AuditLogsServiceTestSuite) TestRecord_WithoutPrincipalUsesSystemActor() {
	var saved *models.AuditLog
	suite.mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditLog")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*models.AuditLog) }).
		Return(nil).Once()

	suite.service.Record(suite.ctx, models.ActionDeleted, &models.Tenant{ID: uuid.New(), FirstName: "Jo", LastName: "Doe"})

	suite.Require().NotNil(saved)
	assert.Equal(suite.T(), models.SystemActor, saved.Actor)
	assert.Nil(suite.T(), saved.ActorID)
	assert.Equal(suite.T(), "Tenant", saved.EntityType)
}

func (suite *AuditLogsServiceTestSuite) TestRecord_SinkFailureDoesNotPanic() {
	suite.mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	assert.NotPanics(suite.T(), func() {
		suite.service.Record(suite.ctx, models.ActionChanged, &models.LLC{ID: uuid.New(), Name: "X"})
	})
}

func (suite *AuditLogsServiceTestSuite) TestRecord_SurvivesCancelledRequest() {
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	suite.mockRepo.On("Create", mock.MatchedBy(func(c context.Context) bool {
		_, hasDeadline := c.Deadline()
		return c.Err() == nil && hasDeadline
	}), mock.Anything).Return(nil).Once()

	suite.service.Record(ctx, models.ActionAdded, &models.LLC{ID: uuid.New(), Name: "X"})
}

func (suite *AuditLogsServiceTestSuite) TestList_AppliesDefaults() {
	expected := []*models.AuditLog{{ID: uuid.New(), CreatedAt: time.Now()}}
	suite.mockRepo.On("List", suite.ctx, mock.MatchedBy(func(f *models.AuditLogFilters) bool {
		return f.Limit == 50 && f.Offset == 0
	})).Return(expected, nil).Once()

	logs, err := suite.service.List(suite.ctx, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, logs)
}

func (suite *AuditLogsServiceTestSuite) TestList_RejectsUnknownAction() {
	action := models.AuditAction("Exploded")

	_, err := suite.service.List(suite.ctx, &models.AuditLogFilters{Action: &action})

	var ve *ValidationError
	suite.Require().ErrorAs(err, &ve)
	assert.Contains(suite.T(), ve.Fields, "action")
}
