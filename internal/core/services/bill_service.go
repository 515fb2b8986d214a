package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

// billService manages vendor bills: draft assembly, the expense posting, and
// the paid transition. It is the payables mirror of the invoice workflow.
type billService struct {
	billRepo    portsrepo.BillRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	bankingRepo portsrepo.BankingRepositoryWithTx
	postingSvc  portssvc.PostingSvcFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewBillService creates a new bill service.
func NewBillService(
	billRepo portsrepo.BillRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	bankingRepo portsrepo.BankingRepositoryWithTx,
	postingSvc portssvc.PostingSvcFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) portssvc.BillSvcFacade {
	return &billService{
		billRepo:    billRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
		periodRepo:  periodRepo,
		tenantRepo:  tenantRepo,
		bankingRepo: bankingRepo,
		postingSvc:  postingSvc,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

func (s *billService) recordAudit(ctx context.Context, tenantID, actor, action, billID string, changes map[string]string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: "Bill",
		ObjectID:   billID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("bill_id", billID), slog.String("error", err.Error()))
	}
}

// CreateBill persists a draft bill with its lines.
// Implements portssvc.BillSvcFacade
func (s *billService) CreateBill(ctx context.Context, tenantID string, req dto.CreateBillRequest, actor string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	vendor, err := s.partyRepo.FindVendorByID(ctx, req.VendorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: vendor %s", apperrors.ErrInvalidReference, req.VendorID)
		}
		return nil, fmt.Errorf("failed to find vendor %s: %w", req.VendorID, err)
	}
	if vendor.TenantID != tenantID {
		return nil, fmt.Errorf("%w: vendor %s", apperrors.ErrTenantMismatch, req.VendorID)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = tenant.FunctionalCurrency
	}

	now := time.Now().UTC()
	billID := uuid.NewString()
	audit := domain.NewAuditFields(actor, now)

	lines := make([]domain.BillLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		if !lineReq.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i)
		}
		if lineReq.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line %d unit price must not be negative", apperrors.ErrValidation, i)
		}
		lines[i] = domain.BillLine{
			LineID:      uuid.NewString(),
			BillID:      billID,
			TenantID:    tenantID,
			Description: lineReq.Description,
			Quantity:    lineReq.Quantity,
			UnitPrice:   lineReq.UnitPrice,
			AccountID:   lineReq.AccountID,
			AuditFields: audit,
		}
		lines[i].ComputeLineTotal()
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueStrings(accountIDs) {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInvalidReference, id)
		}
		if acc.TenantID != tenantID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrTenantMismatch, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	bill := domain.Bill{
		BillID:       billID,
		TenantID:     tenantID,
		VendorID:     req.VendorID,
		BillNumber:   req.BillNumber,
		BillDate:     req.BillDate,
		DueDate:      req.DueDate,
		Status:       domain.BillDraft,
		CurrencyCode: currency,
		Lines:        lines,
		AuditFields:  audit,
	}
	bill.Total = bill.ComputeTotal()
	bill.Outstanding = bill.Total

	if err := s.billRepo.SaveBill(ctx, bill, lines); err != nil {
		logger.Error("Failed to save bill", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", billID, map[string]string{"billNumber": req.BillNumber})
	logger.Info("Bill created", slog.String("bill_id", billID), slog.String("tenant_id", tenantID))
	return &bill, nil
}

// GetBill retrieves a bill with its lines.
// Implements portssvc.BillSvcFacade
func (s *billService) GetBill(ctx context.Context, tenantID string, billID string) (*domain.Bill, error) {
	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}
	if bill.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return bill, nil
}

// ListBills retrieves a paginated list of bills.
// Implements portssvc.BillSvcFacade
func (s *billService) ListBills(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListBillsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	bills, nextToken, err := s.billRepo.ListBills(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	resp := &dto.ListBillsResponse{
		Bills:     make([]dto.BillResponse, len(bills)),
		NextToken: nextToken,
	}
	for i := range bills {
		resp.Bills[i] = dto.ToBillResponse(&bills[i])
	}
	return resp, nil
}

// PostBill posts the expense entry (debit expense per line, credit payables
// control) and moves the bill draft -> posted. Re-running against an
// already-posted bill is a no-op.
// Implements portssvc.BillSvcFacade
func (s *billService) PostBill(ctx context.Context, tenantID string, billID string, actor string) (*domain.Bill, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bill, err := s.GetBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status == domain.BillPosted {
		return bill, nil
	}
	if !domain.CanTransitionBill(bill.Status, domain.BillPosted) {
		return nil, fmt.Errorf("%w: bill %s -> %s", apperrors.ErrInvalidTransition, bill.Status, domain.BillPosted)
	}
	if len(bill.Lines) == 0 {
		return nil, fmt.Errorf("%w: bill %s has no lines", apperrors.ErrValidation, billID)
	}

	apAccountID, err := s.apControlAccountID(ctx, tenantID, bill.VendorID)
	if err != nil {
		return nil, err
	}

	period, err := s.periodRepo.ResolvePeriodForDate(ctx, tenantID, bill.BillDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period covers %s", apperrors.ErrValidation, bill.BillDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve period: %w", err)
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.journalRepo.Rollback(ctx, tx)
	}()

	locked, err := s.billRepo.FindBillForUpdate(ctx, tx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock bill %s: %w", billID, err)
	}
	if locked.Status != domain.BillDraft {
		if locked.Status == domain.BillPosted {
			bill.Status = domain.BillPosted
			return bill, nil
		}
		return nil, fmt.Errorf("%w: bill %s -> %s", apperrors.ErrInvalidTransition, locked.Status, domain.BillPosted)
	}

	entryID, err := s.buildAndPostBillEntry(ctx, tx, tenantID, bill, apAccountID, period.PeriodID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.billRepo.UpdateBillSettlement(ctx, tx, billID, bill.Total, domain.BillPosted, actor, now); err != nil {
		return nil, fmt.Errorf("failed to post bill: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit bill posting: %w", err)
	}

	bill.Status = domain.BillPosted
	bill.Outstanding = bill.Total
	bill.LastUpdatedAt = now
	bill.LastUpdatedBy = actor

	s.recordAudit(ctx, tenantID, actor, "post", billID, map[string]string{"entryID": entryID})
	logger.Info("Bill posted", slog.String("bill_id", billID), slog.String("entry_id", entryID))
	return bill, nil
}

// buildAndPostBillEntry assembles the expense entry (debit each line's
// expense account, credit payables control for the total) and posts it within
// the transaction.
func (s *billService) buildAndPostBillEntry(ctx context.Context, tx pgx.Tx, tenantID string, bill *domain.Bill, apAccountID, periodID, actor string) (string, error) {
	source := domain.SourceRef{Type: domain.SourceBill, ID: bill.BillID}

	existing, err := s.journalRepo.FindEntriesBySource(ctx, tenantID, source)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up entries for bill %s: %w", bill.BillID, err)
	}
	for i := range existing {
		if existing[i].Status == domain.EntryPosted {
			return existing[i].EntryID, nil
		}
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.NewAuditFields(actor, now)

	lines := make([]domain.JournalLine, 0, len(bill.Lines)+1)
	for _, billLine := range bill.Lines {
		lines = append(lines, domain.JournalLine{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			TenantID:      tenantID,
			AccountID:     billLine.AccountID,
			Description:   billLine.Description,
			CurrencyCode:  bill.CurrencyCode,
			DebitOriginal: billLine.LineTotal,
			AuditFields:   audit,
		})
	}
	lines = append(lines, domain.JournalLine{
		LineID:         uuid.NewString(),
		EntryID:        entryID,
		TenantID:       tenantID,
		AccountID:      apAccountID,
		Description:    fmt.Sprintf("Bill %s", bill.BillNumber),
		CurrencyCode:   bill.CurrencyCode,
		CreditOriginal: bill.Total,
		Document:       &source,
		AuditFields:    audit,
	})

	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		PeriodID:    periodID,
		EntryDate:   bill.BillDate,
		Description: fmt.Sprintf("Expense recognition for bill %s", bill.BillNumber),
		Status:      domain.EntryDraft,
		Source:      &source,
		Lines:       lines,
		AuditFields: audit,
	}
	for i := range entry.Lines {
		entry.Lines[i].ComputeLocalAmounts()
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		return "", fmt.Errorf("failed to save bill entry: %w", err)
	}
	if _, err := s.postingSvc.PostInTx(ctx, tx, tenantID, entryID, actor); err != nil {
		return "", fmt.Errorf("failed to post bill entry: %w", err)
	}
	return entryID, nil
}

// apControlAccountID resolves the payables control account for a vendor.
func (s *billService) apControlAccountID(ctx context.Context, tenantID, vendorID string) (string, error) {
	vendor, err := s.partyRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		return "", fmt.Errorf("failed to find vendor %s: %w", vendorID, err)
	}
	if vendor.DefaultAPAccountID != "" {
		return vendor.DefaultAPAccountID, nil
	}
	account, err := s.accountRepo.FindControlAccountByCodePrefix(ctx, tenantID, apControlCodePrefix)
	if err != nil {
		return "", fmt.Errorf("%w: no payables control account configured", apperrors.ErrValidation)
	}
	return account.AccountID, nil
}

// PayBill marks a fully settled bill paid.
// Implements portssvc.BillSvcFacade
func (s *billService) PayBill(ctx context.Context, tenantID string, billID string, actor string) (*domain.Bill, error) {
	bill, err := s.GetBill(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Status == domain.BillPaid {
		return bill, nil
	}
	if !domain.CanTransitionBill(bill.Status, domain.BillPaid) {
		return nil, fmt.Errorf("%w: bill %s -> %s", apperrors.ErrInvalidTransition, bill.Status, domain.BillPaid)
	}
	if !bill.Outstanding.IsZero() {
		return nil, fmt.Errorf("%w: bill %s still has %s outstanding", apperrors.ErrValidation, billID, bill.Outstanding.String())
	}

	now := time.Now().UTC()
	if err := s.billRepo.UpdateBillStatus(ctx, billID, domain.BillPaid, actor, now); err != nil {
		return nil, fmt.Errorf("failed to mark bill paid: %w", err)
	}

	bill.Status = domain.BillPaid
	bill.LastUpdatedAt = now
	bill.LastUpdatedBy = actor
	s.recordAudit(ctx, tenantID, actor, "pay", billID, nil)
	return bill, nil
}

// DeleteBill removes a draft bill. Refused once payments are applied or once
// the bill has been posted.
// Implements portssvc.BillSvcFacade
func (s *billService) DeleteBill(ctx context.Context, tenantID string, billID string, actor string) error {
	bill, err := s.GetBill(ctx, tenantID, billID)
	if err != nil {
		return err
	}
	if bill.Status != domain.BillDraft {
		return fmt.Errorf("%w: only draft bills can be deleted, bill %s is %s", apperrors.ErrValidation, billID, bill.Status)
	}

	hasApplications, err := s.bankingRepo.HasApplicationsForDocument(ctx, domain.DocumentRef{Kind: domain.DocBill, ID: billID})
	if err != nil {
		return fmt.Errorf("failed to check applications for bill %s: %w", billID, err)
	}
	if hasApplications {
		return fmt.Errorf("%w: bill %s has payments applied", apperrors.ErrValidation, billID)
	}

	if err := s.billRepo.DeleteBill(ctx, billID); err != nil {
		return fmt.Errorf("failed to delete bill %s: %w", billID, err)
	}
	s.recordAudit(ctx, tenantID, actor, "delete", billID, nil)
	return nil
}
