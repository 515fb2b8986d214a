package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/core/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

type BankingServiceTestSuite struct {
	suite.Suite
	mockBankingRepo *MockBankingRepository
	mockAccountRepo *MockAccountRepository
	mockAuditRepo   *MockAuditRepository
	service         portssvc.BankingSvcFacade
	ctx             context.Context

	tenantID    string
	actor       string
	bankAccount domain.BankAccount
}

func (suite *BankingServiceTestSuite) SetupTest() {
	suite.mockBankingRepo = new(MockBankingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewBankingService(suite.mockBankingRepo, suite.mockAccountRepo, suite.mockAuditRepo)
	suite.ctx = context.Background()

	suite.tenantID = "tenant-1"
	suite.actor = "user-1"
	suite.bankAccount = domain.BankAccount{
		BankAccountID:   "bank-1",
		TenantID:        suite.tenantID,
		Name:            "Operating",
		CurrencyCode:    "USD",
		LedgerAccountID: "acc-bank",
	}

	suite.mockAuditRepo.On("SaveEvent", suite.ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Maybe()
}

func (suite *BankingServiceTestSuite) TestCreateBankAccount_Success() {
	req := dto.CreateBankAccountRequest{
		Name:            "Operating",
		NumberMasked:    "****1234",
		CurrencyCode:    "USD",
		LedgerAccountID: "acc-bank",
	}
	ledger := &domain.Account{AccountID: "acc-bank", TenantID: suite.tenantID, AccountType: domain.Asset, IsActive: true}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-bank").Return(ledger, nil).Once()
	suite.mockBankingRepo.On("SaveBankAccount", suite.ctx, mock.AnythingOfType("domain.BankAccount")).Return(nil).Once()

	account, err := suite.service.CreateBankAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal("acc-bank", account.LedgerAccountID)
	suite.mockBankingRepo.AssertExpectations(suite.T())
}

func (suite *BankingServiceTestSuite) TestCreateBankAccount_NonAssetLedgerAccount() {
	req := dto.CreateBankAccountRequest{Name: "Operating", CurrencyCode: "USD", LedgerAccountID: "acc-rev"}
	ledger := &domain.Account{AccountID: "acc-rev", TenantID: suite.tenantID, AccountType: domain.Income, IsActive: true}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-rev").Return(ledger, nil).Once()

	_, err := suite.service.CreateBankAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockBankingRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *BankingServiceTestSuite) TestCreateBankAccount_MissingLedgerAccount() {
	req := dto.CreateBankAccountRequest{Name: "Operating", CurrencyCode: "USD", LedgerAccountID: "acc-missing"}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateBankAccount(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidReference)
}

func (suite *BankingServiceTestSuite) TestCreateTransaction_CurrencyComesFromBankAccount() {
	req := dto.CreateTransactionRequest{
		BankAccountID: "bank-1",
		PaymentDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(500),
		Method:        "BANK_TRANSFER",
		Reference:     "WIRE-42",
	}
	suite.mockBankingRepo.On("FindBankAccountByID", suite.ctx, "bank-1").Return(&suite.bankAccount, nil).Once()
	suite.mockBankingRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.BankTransaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal("USD", txn.CurrencyCode)
	suite.Equal(domain.TxnUnapplied, txn.Status)
	suite.Equal(domain.MethodBankTransfer, txn.Method)
	suite.mockBankingRepo.AssertExpectations(suite.T())
}

func (suite *BankingServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	req := dto.CreateTransactionRequest{
		BankAccountID: "bank-1",
		PaymentDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.Zero,
		Method:        "CASH",
	}

	_, err := suite.service.CreateTransaction(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockBankingRepo.AssertNotCalled(suite.T(), "FindBankAccountByID", mock.Anything, mock.Anything)
}

func (suite *BankingServiceTestSuite) TestCreateTransaction_DuplicateReference() {
	req := dto.CreateTransactionRequest{
		BankAccountID: "bank-1",
		PaymentDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(500),
		Method:        "BANK_TRANSFER",
		Reference:     "WIRE-42",
	}
	suite.mockBankingRepo.On("FindBankAccountByID", suite.ctx, "bank-1").Return(&suite.bankAccount, nil).Once()
	suite.mockBankingRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.BankTransaction")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, suite.tenantID, req, suite.actor)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *BankingServiceTestSuite) TestGetTransaction_OtherTenantLooksMissing() {
	txn := &domain.BankTransaction{TransactionID: "txn-1", TenantID: "tenant-2"}
	suite.mockBankingRepo.On("FindTransactionByID", suite.ctx, "txn-1").Return(txn, nil).Once()

	_, err := suite.service.GetTransaction(suite.ctx, suite.tenantID, "txn-1")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestBankingService(t *testing.T) {
	suite.Run(t, new(BankingServiceTestSuite))
}
