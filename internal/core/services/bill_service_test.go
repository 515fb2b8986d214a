package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/core/services"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// --- Test Suite Setup ---

type BillServiceTestSuite struct {
	suite.Suite
	mockBillRepo    *MockBillRepository
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockPartyRepo   *MockPartyRepository
	mockPeriodRepo  *MockPeriodRepository
	mockTenantRepo  *MockTenantRepository
	mockBankingRepo *MockBankingRepository
	mockPostingSvc  *MockPostingService
	mockAuditRepo   *MockAuditRepository
	service         portssvc.BillSvcFacade

	tenantID       string
	actor          string
	tenant         domain.Tenant
	period         domain.Period
	vendor         domain.Vendor
	expenseAccount domain.Account
	bill           domain.Bill
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockBillRepo = new(MockBillRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockBankingRepo = new(MockBankingRepository)
	suite.mockPostingSvc = new(MockPostingService)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewBillService(
		suite.mockBillRepo,
		suite.mockJournalRepo,
		suite.mockAccountRepo,
		suite.mockPartyRepo,
		suite.mockPeriodRepo,
		suite.mockTenantRepo,
		suite.mockBankingRepo,
		suite.mockPostingSvc,
		suite.mockAuditRepo,
	)

	suite.tenantID = uuid.NewString()
	suite.actor = uuid.NewString()
	suite.tenant = domain.Tenant{TenantID: suite.tenantID, FunctionalCurrency: "USD"}
	suite.period = domain.Period{
		PeriodID:  uuid.NewString(),
		TenantID:  suite.tenantID,
		Name:      "2025-06",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	suite.vendor = domain.Vendor{
		VendorID:           uuid.NewString(),
		TenantID:           suite.tenantID,
		Name:               "Initech",
		DefaultAPAccountID: uuid.NewString(),
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "6100",
		AccountType: domain.Expense,
		IsActive:    true,
	}

	billID := uuid.NewString()
	lines := []domain.BillLine{
		{
			LineID:    uuid.NewString(),
			BillID:    billID,
			TenantID:  suite.tenantID,
			Quantity:  decimal.NewFromInt(4),
			UnitPrice: decimal.NewFromInt(50),
			LineTotal: decimal.NewFromInt(200),
			AccountID: suite.expenseAccount.AccountID,
		},
	}
	suite.bill = domain.Bill{
		BillID:       billID,
		TenantID:     suite.tenantID,
		VendorID:     suite.vendor.VendorID,
		BillNumber:   "BILL-001",
		BillDate:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:       domain.BillDraft,
		CurrencyCode: "USD",
		Total:        decimal.NewFromInt(200),
		Outstanding:  decimal.NewFromInt(200),
		Lines:        lines,
	}

	suite.mockAuditRepo.On("SaveEvent", mock.Anything, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Maybe()
}

// --- CreateBill ---

func (suite *BillServiceTestSuite) TestCreateBill_ComputesTotals() {
	ctx := context.Background()
	req := dto.CreateBillRequest{
		VendorID:   suite.vendor.VendorID,
		BillNumber: "BILL-002",
		BillDate:   time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Lines: []dto.CreateBillLineRequest{
			{Description: "Hosting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(120), AccountID: suite.expenseAccount.AccountID},
			{Description: "Backups", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(60), AccountID: suite.expenseAccount.AccountID},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendor.VendorID).Return(&suite.vendor, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.expenseAccount.AccountID}).
		Return(map[string]domain.Account{suite.expenseAccount.AccountID: suite.expenseAccount}, nil).Once()
	suite.mockBillRepo.On("SaveBill", ctx, mock.AnythingOfType("domain.Bill"), mock.AnythingOfType("[]domain.BillLine")).Return(nil).Once()

	bill, err := suite.service.CreateBill(ctx, suite.tenantID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.BillDraft, bill.Status)
	suite.Equal("USD", bill.CurrencyCode)
	suite.True(bill.Total.Equal(decimal.NewFromInt(300)))
	suite.True(bill.Outstanding.Equal(bill.Total))
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestCreateBill_VendorFromAnotherTenant() {
	ctx := context.Background()
	foreign := suite.vendor
	foreign.TenantID = uuid.NewString()
	req := dto.CreateBillRequest{
		VendorID: suite.vendor.VendorID,
		BillDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Lines: []dto.CreateBillLineRequest{
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), AccountID: suite.expenseAccount.AccountID},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendor.VendorID).Return(&foreign, nil).Once()

	_, err := suite.service.CreateBill(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "SaveBill", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestCreateBill_InactiveExpenseAccount() {
	ctx := context.Background()
	inactive := suite.expenseAccount
	inactive.IsActive = false
	req := dto.CreateBillRequest{
		VendorID: suite.vendor.VendorID,
		BillDate: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Lines: []dto.CreateBillLineRequest{
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), AccountID: inactive.AccountID},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendor.VendorID).Return(&suite.vendor, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{inactive.AccountID}).
		Return(map[string]domain.Account{inactive.AccountID: inactive}, nil).Once()

	_, err := suite.service.CreateBill(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- PostBill ---

func (suite *BillServiceTestSuite) TestPostBill_Success() {
	ctx := context.Background()
	bill := suite.bill

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()
	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendor.VendorID).Return(&suite.vendor, nil).Once()
	suite.mockPeriodRepo.On("ResolvePeriodForDate", ctx, suite.tenantID, bill.BillDate).Return(&suite.period, nil).Once()
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
	locked := bill
	suite.mockBillRepo.On("FindBillForUpdate", ctx, mock.Anything, bill.BillID).Return(&locked, nil).Once()
	suite.mockJournalRepo.On("FindEntriesBySource", ctx, suite.tenantID,
		domain.SourceRef{Type: domain.SourceBill, ID: bill.BillID}).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, mock.Anything,
		mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()
	suite.mockPostingSvc.On("PostInTx", ctx, mock.Anything, suite.tenantID, mock.AnythingOfType("string"), suite.actor).
		Return(&domain.JournalEntry{Status: domain.EntryPosted}, nil).Once()
	suite.mockBillRepo.On("UpdateBillSettlement", ctx, mock.Anything, bill.BillID,
		mock.AnythingOfType("decimal.Decimal"), domain.BillPosted, suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	posted, err := suite.service.PostBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.BillPosted, posted.Status)
	suite.True(posted.Outstanding.Equal(bill.Total))
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockPostingSvc.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestPostBill_AlreadyPostedIsNoOp() {
	ctx := context.Background()
	bill := suite.bill
	bill.Status = domain.BillPosted

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()

	posted, err := suite.service.PostBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.BillPosted, posted.Status)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *BillServiceTestSuite) TestPostBill_ReusesPostedEntry() {
	ctx := context.Background()
	bill := suite.bill
	postedEntry := domain.JournalEntry{EntryID: uuid.NewString(), TenantID: suite.tenantID, Status: domain.EntryPosted}

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()
	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendor.VendorID).Return(&suite.vendor, nil).Once()
	suite.mockPeriodRepo.On("ResolvePeriodForDate", ctx, suite.tenantID, bill.BillDate).Return(&suite.period, nil).Once()
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
	locked := bill
	suite.mockBillRepo.On("FindBillForUpdate", ctx, mock.Anything, bill.BillID).Return(&locked, nil).Once()
	suite.mockJournalRepo.On("FindEntriesBySource", ctx, suite.tenantID,
		domain.SourceRef{Type: domain.SourceBill, ID: bill.BillID}).Return([]domain.JournalEntry{postedEntry}, nil).Once()
	suite.mockBillRepo.On("UpdateBillSettlement", ctx, mock.Anything, bill.BillID,
		mock.AnythingOfType("decimal.Decimal"), domain.BillPosted, suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.PostBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "PostInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestPostBill_NoOpenPeriod() {
	ctx := context.Background()
	bill := suite.bill

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()
	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendor.VendorID).Return(&suite.vendor, nil).Once()
	suite.mockPeriodRepo.On("ResolvePeriodForDate", ctx, suite.tenantID, bill.BillDate).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- PayBill / DeleteBill ---

func (suite *BillServiceTestSuite) TestPayBill_OutstandingRemains() {
	ctx := context.Background()
	bill := suite.bill
	bill.Status = domain.BillPosted
	bill.Outstanding = decimal.NewFromInt(40)

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()

	_, err := suite.service.PayBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "UpdateBillStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestPayBill_SettledMovesToPaid() {
	ctx := context.Background()
	bill := suite.bill
	bill.Status = domain.BillPosted
	bill.Outstanding = decimal.Zero

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()
	suite.mockBillRepo.On("UpdateBillStatus", ctx, bill.BillID, domain.BillPaid, suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()

	paid, err := suite.service.PayBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.BillPaid, paid.Status)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestDeleteBill_PostedRejected() {
	ctx := context.Background()
	bill := suite.bill
	bill.Status = domain.BillPosted

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()

	err := suite.service.DeleteBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBillRepo.AssertNotCalled(suite.T(), "DeleteBill", mock.Anything, mock.Anything)
}

func (suite *BillServiceTestSuite) TestDeleteBill_Draft() {
	ctx := context.Background()
	bill := suite.bill

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()
	suite.mockBankingRepo.On("HasApplicationsForDocument", ctx, domain.DocumentRef{Kind: domain.DocBill, ID: bill.BillID}).Return(false, nil).Once()
	suite.mockBillRepo.On("DeleteBill", ctx, bill.BillID).Return(nil).Once()

	err := suite.service.DeleteBill(ctx, suite.tenantID, bill.BillID, suite.actor)

	suite.Require().NoError(err)
	suite.mockBillRepo.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestGetBill_OtherTenantLooksMissing() {
	ctx := context.Background()
	bill := suite.bill
	bill.TenantID = uuid.NewString()

	suite.mockBillRepo.On("FindBillByID", ctx, bill.BillID).Return(&bill, nil).Once()

	_, err := suite.service.GetBill(ctx, suite.tenantID, bill.BillID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
