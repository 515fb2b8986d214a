package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

// bankingService manages bank accounts and the bank transactions payments
// are applied from.
type bankingService struct {
	bankingRepo portsrepo.BankingRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewBankingService creates a new banking service.
func NewBankingService(bankingRepo portsrepo.BankingRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade) portssvc.BankingSvcFacade {
	return &bankingService{
		bankingRepo: bankingRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.BankingSvcFacade = (*bankingService)(nil)

func (s *bankingService) recordAudit(ctx context.Context, tenantID, actor, action, objectType, objectID string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("object_id", objectID), slog.String("error", err.Error()))
	}
}

// CreateBankAccount persists a new bank account linked to its ledger account.
// Implements portssvc.BankingSvcFacade
func (s *bankingService) CreateBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ledgerAccount, err := s.accountRepo.FindAccountByID(ctx, req.LedgerAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger account %s", apperrors.ErrInvalidReference, req.LedgerAccountID)
		}
		return nil, fmt.Errorf("failed to find ledger account %s: %w", req.LedgerAccountID, err)
	}
	if ledgerAccount.TenantID != tenantID {
		return nil, fmt.Errorf("%w: ledger account %s", apperrors.ErrTenantMismatch, req.LedgerAccountID)
	}
	if ledgerAccount.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: ledger account %s is %s, expected %s", apperrors.ErrValidation, req.LedgerAccountID, ledgerAccount.AccountType, domain.Asset)
	}

	now := time.Now().UTC()
	account := domain.BankAccount{
		BankAccountID:   uuid.NewString(),
		TenantID:        tenantID,
		Name:            req.Name,
		NumberMasked:    req.NumberMasked,
		CurrencyCode:    req.CurrencyCode,
		LedgerAccountID: req.LedgerAccountID,
		AuditFields:     domain.NewAuditFields(actor, now),
	}

	if err := s.bankingRepo.SaveBankAccount(ctx, account); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", "BankAccount", account.BankAccountID)
	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// CreateTransaction persists a new bank transaction in the unapplied state.
// Implements portssvc.BankingSvcFacade
func (s *bankingService) CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, actor string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	bankAccount, err := s.bankingRepo.FindBankAccountByID(ctx, req.BankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrInvalidReference, req.BankAccountID)
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", req.BankAccountID, err)
	}
	if bankAccount.TenantID != tenantID {
		return nil, fmt.Errorf("%w: bank account %s", apperrors.ErrTenantMismatch, req.BankAccountID)
	}

	now := time.Now().UTC()
	txn := domain.BankTransaction{
		TransactionID: uuid.NewString(),
		TenantID:      tenantID,
		BankAccountID: req.BankAccountID,
		PaymentDate:   req.PaymentDate,
		Amount:        req.Amount,
		CurrencyCode:  bankAccount.CurrencyCode,
		Method:        domain.PaymentMethod(req.Method),
		Status:        domain.TxnUnapplied,
		Reference:     req.Reference,
		Description:   req.Description,
		AuditFields:   domain.NewAuditFields(actor, now),
	}

	if err := s.bankingRepo.SaveTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction reference %s already exists", apperrors.ErrDuplicate, req.Reference)
		}
		logger.Error("Failed to save bank transaction", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save bank transaction: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", "BankTransaction", txn.TransactionID)
	logger.Info("Bank transaction created", slog.String("transaction_id", txn.TransactionID))
	return &txn, nil
}

// GetTransaction retrieves a bank transaction.
// Implements portssvc.BankingSvcFacade
func (s *bankingService) GetTransaction(ctx context.Context, tenantID string, transactionID string) (*domain.BankTransaction, error) {
	txn, err := s.bankingRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// ListTransactions retrieves a paginated list of bank transactions.
// Implements portssvc.BankingSvcFacade
func (s *bankingService) ListTransactions(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	txns, nextToken, err := s.bankingRepo.ListTransactions(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		resp.Transactions[i] = dto.ToTransactionResponse(&txns[i])
	}
	return resp, nil
}
