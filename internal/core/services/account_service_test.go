package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/core/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	mockAuditRepo   *MockAuditRepository
	service         portssvc.AccountSvcFacade
	ctx             context.Context

	tenantID string
	actor    string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockJournalRepo, suite.mockAuditRepo)
	suite.ctx = context.Background()

	suite.tenantID = "tenant-1"
	suite.actor = "user-1"

	suite.mockAuditRepo.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Maybe()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsNormalBalance() {
	req := dto.CreateAccountRequest{
		Code:        "4000",
		Name:        "Sales",
		AccountType: domain.Income,
	}
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, suite.tenantID, "4000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.CreditBalance, account.NormalBalance)
	suite.True(account.IsActive)
	suite.Equal(suite.actor, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}
	existing := &domain.Account{AccountID: "acc-1", TenantID: suite.tenantID, Code: "1000"}
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, suite.tenantID, "1000").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	parentID := "acc-parent"
	req := dto.CreateAccountRequest{
		Code:            "5100",
		Name:            "Freight",
		AccountType:     domain.Expense,
		ParentAccountID: &parentID,
	}
	parent := &domain.Account{AccountID: parentID, TenantID: suite.tenantID, Code: "4000", AccountType: domain.Income}
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, suite.tenantID, "5100").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentFromAnotherTenant() {
	parentID := "acc-parent"
	req := dto.CreateAccountRequest{
		Code:            "1010",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}
	parent := &domain.Account{AccountID: parentID, TenantID: "tenant-2", AccountType: domain.Asset}
	suite.mockAccountRepo.On("FindAccountByCode", suite.ctx, suite.tenantID, "1010").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrTenantMismatch)
}

func (suite *AccountServiceTestSuite) TestGetAccount_OtherTenantLooksMissing() {
	account := &domain.Account{AccountID: "acc-1", TenantID: "tenant-2", Code: "1000"}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()

	_, err := suite.service.GetAccount(suite.ctx, suite.tenantID, "acc-1")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_InUse() {
	account := &domain.Account{AccountID: "acc-1", TenantID: suite.tenantID, Code: "1000", IsActive: true}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()
	suite.mockJournalRepo.On("HasLinesForAccount", suite.ctx, "acc-1").Return(true, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.tenantID, "acc-1", suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrAccountInUse)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactiveIsNoOp() {
	account := &domain.Account{AccountID: "acc-1", TenantID: suite.tenantID, Code: "1000", IsActive: false}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.tenantID, "acc-1", suite.actor)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "HasLinesForAccount", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	account := &domain.Account{AccountID: "acc-1", TenantID: suite.tenantID, Code: "1000", IsActive: true}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()
	suite.mockJournalRepo.On("HasLinesForAccount", suite.ctx, "acc-1").Return(false, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", suite.ctx, "acc-1", suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(suite.ctx, suite.tenantID, "acc-1", suite.actor)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
