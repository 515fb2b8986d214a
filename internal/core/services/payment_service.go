package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

// Control account code prefixes used when a party has no default configured.
const (
	arControlCodePrefix = "1100"
	apControlCodePrefix = "2000"
)

// paymentService applies bank transactions against invoices and bills. Every
// application runs fully locked: bank transaction row first, then the target
// document row.
type paymentService struct {
	bankingRepo portsrepo.BankingRepositoryWithTx
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	billRepo    portsrepo.BillRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	postingSvc  portssvc.PostingSvcFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewPaymentService creates a new payment application service.
func NewPaymentService(
	bankingRepo portsrepo.BankingRepositoryWithTx,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	billRepo portsrepo.BillRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	postingSvc portssvc.PostingSvcFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		bankingRepo: bankingRepo,
		invoiceRepo: invoiceRepo,
		billRepo:    billRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
		periodRepo:  periodRepo,
		postingSvc:  postingSvc,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// Apply settles part of a bank transaction against one document inside a
// fresh database transaction.
// Implements portssvc.PaymentSvcFacade
func (s *paymentService) Apply(ctx context.Context, tenantID string, transactionID string, doc domain.DocumentRef, amount decimal.Decimal, actor string) (*portssvc.ApplicationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.bankingRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin payment transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.bankingRepo.Rollback(ctx, tx)
	}()

	result, err := s.applyInTx(ctx, tx, tenantID, transactionID, doc, amount, actor)
	if err != nil {
		return nil, err
	}

	if err := s.bankingRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit payment transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to commit payment transaction: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, transactionID, doc, amount)
	logger.Info("Payment applied",
		slog.String("transaction_id", transactionID),
		slog.String("document_kind", string(doc.Kind)),
		slog.String("document_id", doc.ID),
		slog.String("amount", amount.String()))
	return result, nil
}

// ApplyBatch runs every application inside one transaction. A single failure
// rolls back the whole batch.
// Implements portssvc.PaymentSvcFacade
func (s *paymentService) ApplyBatch(ctx context.Context, tenantID string, transactionID string, items []dto.ApplicationItem, actor string) ([]portssvc.ApplicationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: batch has no items", apperrors.ErrValidation)
	}

	tx, err := s.bankingRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.bankingRepo.Rollback(ctx, tx)
	}()

	results := make([]portssvc.ApplicationResult, 0, len(items))
	for i, item := range items {
		doc := domain.DocumentRef{Kind: domain.DocumentKind(item.DocumentKind), ID: item.DocumentID}
		result, err := s.applyInTx(ctx, tx, tenantID, transactionID, doc, item.Amount, actor)
		if err != nil {
			logger.Warn("Batch application failed, rolling back",
				slog.Int("item", i),
				slog.String("document_id", item.DocumentID),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("item %d (%s %s): %w", i, item.DocumentKind, item.DocumentID, err)
		}
		results = append(results, *result)
	}

	if err := s.bankingRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit payment batch: %w", err)
	}

	for _, item := range items {
		doc := domain.DocumentRef{Kind: domain.DocumentKind(item.DocumentKind), ID: item.DocumentID}
		s.recordAudit(ctx, tenantID, actor, transactionID, doc, item.Amount)
	}
	logger.Info("Payment batch applied", slog.String("transaction_id", transactionID), slog.Int("items", len(items)))
	return results, nil
}

func (s *paymentService) recordAudit(ctx context.Context, tenantID, actor, transactionID string, doc domain.DocumentRef, amount decimal.Decimal) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     "apply_payment",
		ObjectType: "BankTransaction",
		ObjectID:   transactionID,
		Changes: map[string]string{
			"documentKind": string(doc.Kind),
			"documentID":   doc.ID,
			"amount":       amount.String(),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
	}
}

// applyInTx performs one application against rows locked in the given
// transaction: capacity checks, the application link, the payment journal
// entry, and the settlement updates on both sides.
func (s *paymentService) applyInTx(ctx context.Context, tx pgx.Tx, tenantID string, transactionID string, doc domain.DocumentRef, amount decimal.Decimal, actor string) (*portssvc.ApplicationResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: applied amount must be positive", apperrors.ErrValidation)
	}
	if doc.Kind != domain.DocInvoice && doc.Kind != domain.DocBill {
		return nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, doc.Kind)
	}

	// Lock order: bank transaction first, then the document.
	txn, err := s.bankingRepo.FindTransactionForUpdate(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock bank transaction %s: %w", transactionID, err)
	}
	if txn.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	result := &portssvc.ApplicationResult{}

	// Validate the document before checking transaction capacity, so a
	// request that exceeds both reports the document's outstanding.
	var (
		controlAccountID string
		invoice          *domain.Invoice
		bill             *domain.Bill
	)
	switch doc.Kind {
	case domain.DocInvoice:
		invoice, err = s.invoiceRepo.FindInvoiceForUpdate(ctx, tx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock invoice %s: %w", doc.ID, err)
		}
		if invoice.TenantID != tenantID {
			return nil, apperrors.ErrNotFound
		}
		if invoice.Status != domain.InvoiceOpen {
			return nil, fmt.Errorf("%w: invoice %s is %s, expected %s", apperrors.ErrValidation, doc.ID, invoice.Status, domain.InvoiceOpen)
		}
		if invoice.CurrencyCode != txn.CurrencyCode {
			return nil, fmt.Errorf("%w: invoice currency %s does not match transaction currency %s", apperrors.ErrValidation, invoice.CurrencyCode, txn.CurrencyCode)
		}
		if amount.GreaterThan(invoice.Outstanding) {
			return nil, fmt.Errorf("%w: outstanding %s, %s requested", apperrors.ErrExceedsOutstanding, invoice.Outstanding.String(), amount.String())
		}
		controlAccountID, err = s.arControlAccountID(ctx, tenantID, invoice.CustomerID)
		if err != nil {
			return nil, err
		}

	case domain.DocBill:
		bill, err = s.billRepo.FindBillForUpdate(ctx, tx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock bill %s: %w", doc.ID, err)
		}
		if bill.TenantID != tenantID {
			return nil, apperrors.ErrNotFound
		}
		if bill.Status != domain.BillPosted {
			return nil, fmt.Errorf("%w: bill %s is %s, expected %s", apperrors.ErrValidation, doc.ID, bill.Status, domain.BillPosted)
		}
		if bill.CurrencyCode != txn.CurrencyCode {
			return nil, fmt.Errorf("%w: bill currency %s does not match transaction currency %s", apperrors.ErrValidation, bill.CurrencyCode, txn.CurrencyCode)
		}
		if amount.GreaterThan(bill.Outstanding) {
			return nil, fmt.Errorf("%w: outstanding %s, %s requested", apperrors.ErrExceedsOutstanding, bill.Outstanding.String(), amount.String())
		}
		controlAccountID, err = s.apControlAccountID(ctx, tenantID, bill.VendorID)
		if err != nil {
			return nil, err
		}
	}

	applied, err := s.bankingRepo.SumAppliedAmount(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate applied amount: %w", err)
	}
	if applied.Add(amount).GreaterThan(txn.Amount) {
		return nil, fmt.Errorf("%w: %s applied of %s, %s requested",
			apperrors.ErrExceedsTransactionCapacity, applied.String(), txn.Amount.String(), amount.String())
	}

	switch doc.Kind {
	case domain.DocInvoice:
		newOutstanding := invoice.Outstanding.Sub(amount)
		newStatus := invoice.Status
		if newOutstanding.IsZero() {
			newStatus = domain.InvoicePaid
		}
		if err := s.invoiceRepo.UpdateInvoiceSettlement(ctx, tx, doc.ID, newOutstanding, newStatus, actor, now); err != nil {
			return nil, fmt.Errorf("failed to update invoice settlement: %w", err)
		}
		invoice.Outstanding = newOutstanding
		invoice.Status = newStatus
		result.Invoice = invoice

	case domain.DocBill:
		newOutstanding := bill.Outstanding.Sub(amount)
		newStatus := bill.Status
		if newOutstanding.IsZero() {
			newStatus = domain.BillPaid
		}
		if err := s.billRepo.UpdateBillSettlement(ctx, tx, doc.ID, newOutstanding, newStatus, actor, now); err != nil {
			return nil, fmt.Errorf("failed to update bill settlement: %w", err)
		}
		bill.Outstanding = newOutstanding
		bill.Status = newStatus
		result.Bill = bill
	}

	entryID, err := s.ensurePaymentEntry(ctx, tx, tenantID, txn, doc, controlAccountID, amount, actor)
	if err != nil {
		return nil, err
	}

	app := domain.PaymentApplication{
		ApplicationID: uuid.NewString(),
		TenantID:      tenantID,
		TransactionID: transactionID,
		Document:      doc,
		AppliedAmount: amount,
		EntryID:       entryID,
		AuditFields:   domain.NewAuditFields(actor, now),
	}
	// The (transaction, document) pair is unique; a second application of the
	// same pair surfaces as ErrDuplicate here.
	if err := s.bankingRepo.SaveApplication(ctx, tx, app); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction %s already applied to %s %s", apperrors.ErrDuplicate, transactionID, doc.Kind, doc.ID)
		}
		return nil, fmt.Errorf("failed to save payment application: %w", err)
	}

	newStatus := domain.DeriveTransactionStatus(applied.Add(amount), txn.Amount)
	if err := s.bankingRepo.UpdateTransactionStatus(ctx, tx, transactionID, newStatus, actor, now); err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	txn.Status = newStatus
	result.Transaction = txn

	return result, nil
}

// ensurePaymentEntry posts the payment journal entry for this application,
// reusing an already-posted entry when the (transaction, document, amount)
// idempotency key matches.
func (s *paymentService) ensurePaymentEntry(ctx context.Context, tx pgx.Tx, tenantID string, txn *domain.BankTransaction, doc domain.DocumentRef, controlAccountID string, amount decimal.Decimal, actor string) (string, error) {
	docSource := domain.SourceRef{Type: documentSourceType(doc.Kind), ID: doc.ID}

	existing, err := s.journalRepo.FindPaymentEntry(ctx, tenantID, txn.TransactionID, docSource, amount)
	if err == nil {
		return existing.EntryID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up existing payment entry: %w", err)
	}

	bankAccount, err := s.bankingRepo.FindBankAccountByID(ctx, txn.BankAccountID)
	if err != nil {
		return "", fmt.Errorf("failed to find bank account %s: %w", txn.BankAccountID, err)
	}

	period, err := s.periodRepo.ResolvePeriodForDate(ctx, tenantID, txn.PaymentDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: no open period covers %s", apperrors.ErrValidation, txn.PaymentDate.Format("2006-01-02"))
		}
		return "", fmt.Errorf("failed to resolve period: %w", err)
	}

	entryID := uuid.NewString()
	now := time.Now().UTC()
	audit := domain.NewAuditFields(actor, now)

	// Payments settle in the transaction's own currency at parity; the
	// currency match against the document was checked under lock.
	parity := decimal.NewFromInt(1)

	bankLine := domain.JournalLine{
		LineID:       uuid.NewString(),
		EntryID:      entryID,
		TenantID:     tenantID,
		AccountID:    bankAccount.LedgerAccountID,
		Description:  fmt.Sprintf("Payment %s", txn.Reference),
		CurrencyCode: txn.CurrencyCode,
		FxRate:       &parity,
		AuditFields:  audit,
	}
	controlLine := domain.JournalLine{
		LineID:       uuid.NewString(),
		EntryID:      entryID,
		TenantID:     tenantID,
		AccountID:    controlAccountID,
		Description:  fmt.Sprintf("Settlement of %s %s", doc.Kind, doc.ID),
		CurrencyCode: txn.CurrencyCode,
		FxRate:       &parity,
		Document:     &docSource,
		AuditFields:  audit,
	}
	switch doc.Kind {
	case domain.DocInvoice:
		// Cash in: debit bank, credit receivables.
		bankLine.DebitOriginal = amount
		controlLine.CreditOriginal = amount
	case domain.DocBill:
		// Cash out: debit payables, credit bank.
		controlLine.DebitOriginal = amount
		bankLine.CreditOriginal = amount
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		PeriodID:    period.PeriodID,
		EntryDate:   txn.PaymentDate,
		Description: fmt.Sprintf("Payment application for bank transaction %s", txn.TransactionID),
		Status:      domain.EntryDraft,
		Source:      &domain.SourceRef{Type: domain.SourceBankTransaction, ID: txn.TransactionID},
		AuditFields: audit,
	}
	lines := []domain.JournalLine{bankLine, controlLine}
	entry.Lines = lines
	for i := range entry.Lines {
		entry.Lines[i].ComputeLocalAmounts()
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		return "", fmt.Errorf("failed to save payment entry: %w", err)
	}
	if _, err := s.postingSvc.PostInTx(ctx, tx, tenantID, entryID, actor); err != nil {
		return "", fmt.Errorf("failed to post payment entry: %w", err)
	}
	return entryID, nil
}

// arControlAccountID resolves the receivables control account for a customer:
// the customer's default, or the first active control account under the
// standard receivables code range.
func (s *paymentService) arControlAccountID(ctx context.Context, tenantID, customerID string) (string, error) {
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

// apControlAccountID resolves the payables control account for a vendor.
func (s *paymentService) apControlAccountID(ctx context.Context, tenantID, vendorID string) (string, error) {
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

func documentSourceType(kind domain.DocumentKind) domain.SourceType {
	if kind == domain.DocBill {
		return domain.SourceBill
	}
	return domain.SourceInvoice
}
