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

// invoiceService manages invoices: draft assembly, the revenue-recognition
// posting, and the paid transition.
type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	tenantRepo  portsrepo.TenantRepositoryFacade
	bankingRepo portsrepo.BankingRepositoryWithTx
	postingSvc  portssvc.PostingSvcFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	bankingRepo portsrepo.BankingRepositoryWithTx,
	postingSvc portssvc.PostingSvcFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
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

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) recordAudit(ctx context.Context, tenantID, actor, action, invoiceID string, changes map[string]string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: "Invoice",
		ObjectID:   invoiceID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
	}
}

// CreateInvoice persists a draft invoice with its lines.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) CreateInvoice(ctx context.Context, tenantID string, req dto.CreateInvoiceRequest, actor string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	customer, err := s.partyRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrInvalidReference, req.CustomerID)
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", req.CustomerID, err)
	}
	if customer.TenantID != tenantID {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrTenantMismatch, req.CustomerID)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = tenant.FunctionalCurrency
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	audit := domain.NewAuditFields(actor, now)

	lines := make([]domain.InvoiceLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		if !lineReq.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i)
		}
		if lineReq.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: line %d unit price must not be negative", apperrors.ErrValidation, i)
		}
		lines[i] = domain.InvoiceLine{
			LineID:      uuid.NewString(),
			InvoiceID:   invoiceID,
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

	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		TenantID:      tenantID,
		CustomerID:    req.CustomerID,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		Status:        domain.InvoiceDraft,
		CurrencyCode:  currency,
		Description:   req.Description,
		Lines:         lines,
		AuditFields:   audit,
	}
	invoice.Total = invoice.ComputeTotal()
	invoice.Outstanding = invoice.Total

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, lines); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", invoiceID, map[string]string{"invoiceNumber": req.InvoiceNumber})
	logger.Info("Invoice created", slog.String("invoice_id", invoiceID), slog.String("tenant_id", tenantID))
	return &invoice, nil
}

// GetInvoice retrieves an invoice with its lines.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) GetInvoice(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) ListInvoices(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	resp := &dto.ListInvoicesResponse{
		Invoices:  make([]dto.InvoiceResponse, len(invoices)),
		NextToken: nextToken,
	}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	return resp, nil
}

// OpenInvoice posts the revenue-recognition entry and moves the invoice
// draft -> open. Draft assembly and posting commit together; re-running
// against an already-open invoice is a no-op.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) OpenInvoice(ctx context.Context, tenantID string, invoiceID string, actor string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceOpen {
		return invoice, nil
	}
	if !domain.CanTransitionInvoice(invoice.Status, domain.InvoiceOpen) {
		return nil, fmt.Errorf("%w: invoice %s -> %s", apperrors.ErrInvalidTransition, invoice.Status, domain.InvoiceOpen)
	}
	if len(invoice.Lines) == 0 {
		return nil, fmt.Errorf("%w: invoice %s has no lines", apperrors.ErrValidation, invoiceID)
	}

	arAccountID, err := s.arControlAccountID(ctx, tenantID, invoice.CustomerID)
	if err != nil {
		return nil, err
	}

	period, err := s.periodRepo.ResolvePeriodForDate(ctx, tenantID, invoice.InvoiceDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period covers %s", apperrors.ErrValidation, invoice.InvoiceDate.Format("2006-01-02"))
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

	// Re-lock the header inside the transaction and recheck the state the
	// decision was made on.
	locked, err := s.invoiceRepo.FindInvoiceForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock invoice %s: %w", invoiceID, err)
	}
	if locked.Status != domain.InvoiceDraft {
		if locked.Status == domain.InvoiceOpen {
			invoice.Status = domain.InvoiceOpen
			return invoice, nil
		}
		return nil, fmt.Errorf("%w: invoice %s -> %s", apperrors.ErrInvalidTransition, locked.Status, domain.InvoiceOpen)
	}

	entryID, err := s.buildAndPostInvoiceEntry(ctx, tx, tenantID, invoice, arAccountID, period.PeriodID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceSettlement(ctx, tx, invoiceID, invoice.Total, domain.InvoiceOpen, actor, now); err != nil {
		return nil, fmt.Errorf("failed to open invoice: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice posting: %w", err)
	}

	invoice.Status = domain.InvoiceOpen
	invoice.Outstanding = invoice.Total
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actor

	s.recordAudit(ctx, tenantID, actor, "open", invoiceID, map[string]string{"entryID": entryID})
	logger.Info("Invoice opened", slog.String("invoice_id", invoiceID), slog.String("entry_id", entryID))
	return invoice, nil
}

// buildAndPostInvoiceEntry assembles the revenue entry (debit receivables
// control for the total, credit each line's revenue account) and posts it
// within the transaction. An identical already-posted entry for this invoice
// is reused instead of duplicated.
func (s *invoiceService) buildAndPostInvoiceEntry(ctx context.Context, tx pgx.Tx, tenantID string, invoice *domain.Invoice, arAccountID, periodID, actor string) (string, error) {
	source := domain.SourceRef{Type: domain.SourceInvoice, ID: invoice.InvoiceID}

	existing, err := s.journalRepo.FindEntriesBySource(ctx, tenantID, source)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up entries for invoice %s: %w", invoice.InvoiceID, err)
	}
	for i := range existing {
		if existing[i].Status == domain.EntryPosted {
			return existing[i].EntryID, nil
		}
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.NewAuditFields(actor, now)

	lines := make([]domain.JournalLine, 0, len(invoice.Lines)+1)
	lines = append(lines, domain.JournalLine{
		LineID:        uuid.NewString(),
		EntryID:       entryID,
		TenantID:      tenantID,
		AccountID:     arAccountID,
		Description:   fmt.Sprintf("Invoice %s", invoice.InvoiceNumber),
		CurrencyCode:  invoice.CurrencyCode,
		DebitOriginal: invoice.Total,
		Document:      &source,
		AuditFields:   audit,
	})
	for _, invLine := range invoice.Lines {
		lines = append(lines, domain.JournalLine{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			TenantID:       tenantID,
			AccountID:      invLine.AccountID,
			Description:    invLine.Description,
			CurrencyCode:   invoice.CurrencyCode,
			CreditOriginal: invLine.LineTotal,
			AuditFields:    audit,
		})
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		PeriodID:    periodID,
		EntryDate:   invoice.InvoiceDate,
		Description: fmt.Sprintf("Revenue recognition for invoice %s", invoice.InvoiceNumber),
		Status:      domain.EntryDraft,
		Source:      &source,
		Lines:       lines,
		AuditFields: audit,
	}
	for i := range entry.Lines {
		entry.Lines[i].ComputeLocalAmounts()
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		return "", fmt.Errorf("failed to save invoice entry: %w", err)
	}
	if _, err := s.postingSvc.PostInTx(ctx, tx, tenantID, entryID, actor); err != nil {
		return "", fmt.Errorf("failed to post invoice entry: %w", err)
	}
	return entryID, nil
}

// arControlAccountID resolves the receivables control account for a customer.
func (s *invoiceService) arControlAccountID(ctx context.Context, tenantID, customerID string) (string, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	if customer.DefaultARAccountID != "" {
		return customer.DefaultARAccountID, nil
	}
	account, err := s.accountRepo.FindControlAccountByCodePrefix(ctx, tenantID, arControlCodePrefix)
	if err != nil {
		return "", fmt.Errorf("%w: no receivables control account configured", apperrors.ErrValidation)
	}
	return account.AccountID, nil
}

// PayInvoice marks a fully settled invoice paid.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) PayInvoice(ctx context.Context, tenantID string, invoiceID string, actor string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoicePaid {
		return invoice, nil
	}
	if !domain.CanTransitionInvoice(invoice.Status, domain.InvoicePaid) {
		return nil, fmt.Errorf("%w: invoice %s -> %s", apperrors.ErrInvalidTransition, invoice.Status, domain.InvoicePaid)
	}
	if !invoice.Outstanding.IsZero() {
		return nil, fmt.Errorf("%w: invoice %s still has %s outstanding", apperrors.ErrValidation, invoiceID, invoice.Outstanding.String())
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoicePaid, actor, now); err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	invoice.Status = domain.InvoicePaid
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = actor
	s.recordAudit(ctx, tenantID, actor, "pay", invoiceID, nil)
	return invoice, nil
}

// DeleteInvoice removes a draft invoice. Refused once payments are applied
// or once the invoice has been opened.
// Implements portssvc.InvoiceSvcFacade
func (s *invoiceService) DeleteInvoice(ctx context.Context, tenantID string, invoiceID string, actor string) error {
	invoice, err := s.GetInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceDraft {
		return fmt.Errorf("%w: only draft invoices can be deleted, invoice %s is %s", apperrors.ErrValidation, invoiceID, invoice.Status)
	}

	hasApplications, err := s.bankingRepo.HasApplicationsForDocument(ctx, domain.DocumentRef{Kind: domain.DocInvoice, ID: invoiceID})
	if err != nil {
		return fmt.Errorf("failed to check applications for invoice %s: %w", invoiceID, err)
	}
	if hasApplications {
		return fmt.Errorf("%w: invoice %s has payments applied", apperrors.ErrValidation, invoiceID)
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	s.recordAudit(ctx, tenantID, actor, "delete", invoiceID, nil)
	return nil
}
