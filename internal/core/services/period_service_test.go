package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/core/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	mockAuditRepo  *MockAuditRepository
	service        portssvc.PeriodSvcFacade
	ctx            context.Context

	tenantID string
	actor    string
	june     domain.Period
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo, suite.mockAuditRepo)
	suite.ctx = context.Background()

	suite.tenantID = "tenant-1"
	suite.actor = "user-1"
	suite.june = domain.Period{
		PeriodID:  "period-jun",
		TenantID:  suite.tenantID,
		Name:      "2025-06",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	suite.mockAuditRepo.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Maybe()
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_Success() {
	req := dto.CreatePeriodRequest{
		Name:      "2025-07",
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
	}
	suite.mockPeriodRepo.On("ListPeriods", suite.ctx, suite.tenantID).Return([]domain.Period{suite.june}, nil).Once()
	suite.mockPeriodRepo.On("SavePeriod", suite.ctx, mock.AnythingOfType("domain.Period")).Return(nil).Once()

	period, err := suite.service.CreatePeriod(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal("2025-07", period.Name)
	suite.False(period.IsClosed)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_EndNotAfterStart() {
	req := dto.CreatePeriodRequest{
		Name:      "backwards",
		StartDate: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := suite.service.CreatePeriod(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "ListPeriods", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_DuplicateName() {
	req := dto.CreatePeriodRequest{
		Name:      "2025-06",
		StartDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	suite.mockPeriodRepo.On("ListPeriods", suite.ctx, suite.tenantID).Return([]domain.Period{suite.june}, nil).Once()

	_, err := suite.service.CreatePeriod(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCreatePeriod_OverlappingRange() {
	req := dto.CreatePeriodRequest{
		Name:      "mid-year",
		StartDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
	}
	suite.mockPeriodRepo.On("ListPeriods", suite.ctx, suite.tenantID).Return([]domain.Period{suite.june}, nil).Once()

	_, err := suite.service.CreatePeriod(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SavePeriod", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestResolvePeriod_NoneCoversDate() {
	date := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	suite.mockPeriodRepo.On("ResolvePeriodForDate", suite.ctx, suite.tenantID, date).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolvePeriod(suite.ctx, suite.tenantID, date)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_Success() {
	period := suite.june
	suite.mockPeriodRepo.On("FindPeriodByID", suite.ctx, "period-jun").Return(&period, nil).Once()
	suite.mockPeriodRepo.On("ClosePeriod", suite.ctx, "period-jun", suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()

	closed, err := suite.service.ClosePeriod(suite.ctx, suite.tenantID, "period-jun", suite.actor)

	suite.Require().NoError(err)
	suite.True(closed.IsClosed)
	suite.Equal(suite.actor, closed.LastUpdatedBy)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_AlreadyClosedIsNoOp() {
	period := suite.june
	period.IsClosed = true
	suite.mockPeriodRepo.On("FindPeriodByID", suite.ctx, "period-jun").Return(&period, nil).Once()

	closed, err := suite.service.ClosePeriod(suite.ctx, suite.tenantID, "period-jun", suite.actor)

	suite.Require().NoError(err)
	suite.True(closed.IsClosed)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "ClosePeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_OtherTenantLooksMissing() {
	period := suite.june
	period.TenantID = "tenant-2"
	suite.mockPeriodRepo.On("FindPeriodByID", suite.ctx, "period-jun").Return(&period, nil).Once()

	_, err := suite.service.ClosePeriod(suite.ctx, suite.tenantID, "period-jun", suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "ClosePeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPeriodService(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
