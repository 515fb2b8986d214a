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

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockPeriodRepo   *MockPeriodRepository
	mockTenantRepo   *MockTenantRepository
	mockSnapshotRepo *MockSnapshotRepository
	mockAuditRepo    *MockAuditRepository
	service          portssvc.PostingSvcFacade

	tenantID       string
	actor          string
	tenant         domain.Tenant
	period         domain.Period
	assetAccount   domain.Account
	revenueAccount domain.Account
	entryDate      time.Time
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockTenantRepo = new(MockTenantRepository)
	suite.mockSnapshotRepo = new(MockSnapshotRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewPostingService(
		suite.mockJournalRepo,
		suite.mockAccountRepo,
		suite.mockPeriodRepo,
		suite.mockTenantRepo,
		suite.mockSnapshotRepo,
		suite.mockAuditRepo,
	)

	suite.tenantID = uuid.NewString()
	suite.actor = uuid.NewString()
	suite.tenant = domain.Tenant{
		TenantID:           suite.tenantID,
		Name:               "Acme Widgets",
		FunctionalCurrency: "USD",
	}
	suite.entryDate = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	suite.period = domain.Period{
		PeriodID:  uuid.NewString(),
		TenantID:  suite.tenantID,
		Name:      "2025-06",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	suite.assetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        "4000",
		AccountType: domain.Income,
		IsActive:    true,
	}

	// Audit writes are best-effort in every flow.
	suite.mockAuditRepo.On("SaveEvent", mock.Anything, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Maybe()
}

// balancedEntry returns a draft entry with one debit and one credit of 100 USD.
func (suite *PostingServiceTestSuite) balancedEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:   entryID,
		TenantID:  suite.tenantID,
		PeriodID:  suite.period.PeriodID,
		EntryDate: suite.entryDate,
		Status:    domain.EntryDraft,
	}
	entry.Lines = []domain.JournalLine{
		{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			TenantID:      suite.tenantID,
			AccountID:     suite.assetAccount.AccountID,
			CurrencyCode:  "USD",
			DebitOriginal: decimal.NewFromInt(100),
		},
		{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			TenantID:       suite.tenantID,
			AccountID:      suite.revenueAccount.AccountID,
			CurrencyCode:   "USD",
			CreditOriginal: decimal.NewFromInt(100),
		},
	}
	return entry
}

func (suite *PostingServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

// --- CreateEntry ---

func (suite *PostingServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate:   suite.entryDate,
		Description: "June sale",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.assetAccount.AccountID, DebitOriginal: decimal.NewFromInt(250)},
			{AccountID: suite.revenueAccount.AccountID, CreditOriginal: decimal.NewFromInt(250)},
		},
	}

	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.assetAccount.AccountID, suite.revenueAccount.AccountID}).
		Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodRepo.On("ResolvePeriodForDate", ctx, suite.tenantID, suite.entryDate).Return(&suite.period, nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.EntryDraft, entry.Status)
	suite.Equal(suite.period.PeriodID, entry.PeriodID)
	suite.Len(entry.Lines, 2)
	// Lines in the functional currency carry local amounts equal to originals.
	suite.True(entry.Lines[0].DebitLocal.Equal(decimal.NewFromInt(250)))
	suite.True(entry.Lines[1].CreditLocal.Equal(decimal.NewFromInt(250)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateEntry_NoLines() {
	ctx := context.Background()
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, dto.CreateEntryRequest{EntryDate: suite.entryDate}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmptyEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_BothSidesSet() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.assetAccount.AccountID, DebitOriginal: decimal.NewFromInt(50), CreditOriginal: decimal.NewFromInt(50)},
		},
	}
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_ForeignCurrencyWithoutRate() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.assetAccount.AccountID, CurrencyCode: "EUR", DebitOriginal: decimal.NewFromInt(50)},
			{AccountID: suite.revenueAccount.AccountID, CreditOriginal: decimal.NewFromInt(55)},
		},
	}
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_AccountFromAnotherTenant() {
	ctx := context.Background()
	foreign := suite.assetAccount
	foreign.TenantID = uuid.NewString()
	req := dto.CreateEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: foreign.AccountID, DebitOriginal: decimal.NewFromInt(10)},
			{AccountID: suite.revenueAccount.AccountID, CreditOriginal: decimal.NewFromInt(10)},
		},
	}
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			foreign.AccountID:              foreign,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.assetAccount
	inactive.IsActive = false
	req := dto.CreateEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: inactive.AccountID, DebitOriginal: decimal.NewFromInt(10)},
			{AccountID: suite.revenueAccount.AccountID, CreditOriginal: decimal.NewFromInt(10)},
		},
	}
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			inactive.AccountID:             inactive,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_DocumentOnNonControlAccount() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		EntryDate: suite.entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{
				AccountID:     suite.assetAccount.AccountID,
				DebitOriginal: decimal.NewFromInt(10),
				Document:      &domain.SourceRef{Type: domain.SourceInvoice, ID: uuid.NewString()},
			},
			{AccountID: suite.revenueAccount.AccountID, CreditOriginal: decimal.NewFromInt(10)},
		},
	}
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_ExplicitClosedPeriod() {
	ctx := context.Background()
	closed := suite.period
	closed.IsClosed = true
	req := dto.CreateEntryRequest{
		PeriodID:  closed.PeriodID,
		EntryDate: suite.entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.assetAccount.AccountID, DebitOriginal: decimal.NewFromInt(10)},
			{AccountID: suite.revenueAccount.AccountID, CreditOriginal: decimal.NewFromInt(10)},
		},
	}
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, closed.PeriodID).Return(&closed, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.tenantID, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
}

// --- GetEntry ---

func (suite *PostingServiceTestSuite) TestGetEntry_OtherTenantLooksMissing() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.TenantID = uuid.NewString()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	found, err := suite.service.GetEntry(ctx, suite.tenantID, entry.EntryID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

// --- Post ---

func (suite *PostingServiceTestSuite) expectPostingProtocol(ctx context.Context, entry *domain.JournalEntry) {
	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
	suite.mockJournalRepo.On("FindEntryForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry.Lines, nil).Once()
}

func (suite *PostingServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	entry := suite.balancedEntry()

	suite.expectPostingProtocol(ctx, entry)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByIDInTx", ctx, mock.Anything, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockJournalRepo.On("MarkEntryPosted", ctx, mock.Anything, entry.EntryID, mock.AnythingOfType("string"), suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockSnapshotRepo.On("UpsertSnapshotDelta", ctx, mock.Anything, suite.tenantID, mock.AnythingOfType("string"), entry.EntryDate,
		mock.AnythingOfType("decimal.Decimal"), mock.AnythingOfType("decimal.Decimal"), suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Twice()
	suite.mockJournalRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()

	posted, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.Equal(domain.EntryPosted, posted.Status)
	suite.NotEmpty(posted.PostingFingerprint)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(suite.actor, posted.PostedBy)
	for _, line := range posted.Lines {
		suite.True(line.IsPosted)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_Unbalanced() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.Lines[1].CreditOriginal = decimal.NewFromInt(90)

	suite.expectPostingProtocol(ctx, entry)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()

	_, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_EmptyEntry() {
	ctx := context.Background()
	entry := suite.balancedEntry()

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
	suite.mockJournalRepo.On("FindEntryForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesForUpdate", ctx, mock.Anything, entry.EntryID).Return([]domain.JournalLine{}, nil).Once()

	_, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEmptyEntry)
}

func (suite *PostingServiceTestSuite) TestPost_ClosedPeriod() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	closed := suite.period
	closed.IsClosed = true

	suite.expectPostingProtocol(ctx, entry)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByIDInTx", ctx, mock.Anything, closed.PeriodID).Return(&closed, nil).Once()

	_, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodClosed)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_DateOutsidePeriod() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.EntryDate = time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	suite.expectPostingProtocol(ctx, entry)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, mock.AnythingOfType("[]string")).
		Return(suite.accountsMap(), nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByIDInTx", ctx, mock.Anything, suite.period.PeriodID).Return(&suite.period, nil).Once()

	_, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPost_OtherTenant() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.TenantID = uuid.NewString()

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()
	suite.mockJournalRepo.On("FindEntryForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPost_LineFromAnotherTenant() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	// The line row itself carries a foreign tenant even though its account
	// belongs to the entry's tenant.
	entry.Lines[1].TenantID = uuid.NewString()

	suite.expectPostingProtocol(ctx, entry)
	suite.mockTenantRepo.On("FindTenantByID", ctx, suite.tenantID).Return(&suite.tenant, nil).Once()

	_, err := suite.service.Post(ctx, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInTx_RepostIdenticalPayloadIsNoOp() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.Status = domain.EntryPosted
	entry.PostingFingerprint = entry.Fingerprint()

	suite.mockJournalRepo.On("FindEntryForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry.Lines, nil).Once()

	posted, err := suite.service.PostInTx(ctx, nil, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryPosted, posted.Status)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockSnapshotRepo.AssertNotCalled(suite.T(), "UpsertSnapshotDelta",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInTx_RepostChangedPayloadFails() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.Status = domain.EntryPosted
	entry.PostingFingerprint = entry.Fingerprint()
	// Simulate a payload drift after posting.
	entry.Lines[0].DebitOriginal = decimal.NewFromInt(999)
	entry.Lines[1].CreditOriginal = decimal.NewFromInt(999)

	suite.mockJournalRepo.On("FindEntryForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesForUpdate", ctx, mock.Anything, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.PostInTx(ctx, nil, suite.tenantID, entry.EntryID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPostedDifferentPayload)
}

// --- TransitionTo ---

func (suite *PostingServiceTestSuite) TestTransitionTo_DraftToReady() {
	ctx := context.Background()
	entry := suite.balancedEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.EntryReady, suite.actor, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.TransitionTo(ctx, suite.tenantID, entry.EntryID, domain.EntryReady, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.EntryReady, updated.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestTransitionTo_ReadyBackToDraftRejected() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.Status = domain.EntryReady

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.TransitionTo(ctx, suite.tenantID, entry.EntryID, domain.EntryDraft, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestTransitionTo_PostedIsImmutable() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.Status = domain.EntryPosted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	_, err := suite.service.TransitionTo(ctx, suite.tenantID, entry.EntryID, domain.EntryReady, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableEntry)
}

// --- UpdateDraftEntry ---

func (suite *PostingServiceTestSuite) TestUpdateDraftEntry_PostedRejected() {
	ctx := context.Background()
	entry := suite.balancedEntry()
	entry.Status = domain.EntryPosted

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	desc := "new description"
	_, err := suite.service.UpdateDraftEntry(ctx, suite.tenantID, entry.EntryID, dto.UpdateEntryRequest{Description: &desc}, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImmutableEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateDraftEntry", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---

func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
