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

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalRepositoryWithTx, auditRepo portsrepo.AuditRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) recordAudit(ctx context.Context, tenantID, actor, action, accountID string, changes map[string]string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: "Account",
		ObjectID:   accountID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("account_id", accountID), slog.String("error", err.Error()))
	}
}

// CreateAccount persists a new account after cross-reference validation.
// Implements portssvc.AccountSvcFacade
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.Code); err == nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code %s: %w", req.Code, err)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrInvalidReference, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to find parent account: %w", err)
		}
		if parent.TenantID != tenantID {
			return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrTenantMismatch, *req.ParentAccountID)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent account type %s does not match %s", apperrors.ErrValidation, parent.AccountType, req.AccountType)
		}
		parentID = *req.ParentAccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		TenantID:         tenantID,
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      req.AccountType,
		NormalBalance:    req.NormalBalance,
		ParentAccountID:  parentID,
		Description:      req.Description,
		IsActive:         true,
		IsControlAccount: req.IsControlAccount,
		AuditFields:      domain.NewAuditFields(actor, now),
	}
	if account.NormalBalance == "" {
		account.NormalBalance = domain.DefaultNormalBalance(account.AccountType)
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", account.AccountID, map[string]string{"code": req.Code})
	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", req.Code))
	return &account, nil
}

// GetAccount retrieves an account, scoped to the tenant.
// Implements portssvc.AccountSvcFacade
func (s *accountService) GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of accounts.
// Implements portssvc.AccountSvcFacade
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	resp := &dto.ListAccountsResponse{
		Accounts:  make([]dto.AccountResponse, len(accounts)),
		NextToken: nextToken,
	}
	for i := range accounts {
		resp.Accounts[i] = dto.ToAccountResponse(&accounts[i])
	}
	return resp, nil
}

// DeactivateAccount soft-deactivates an account. Refused once any journal
// line references it, so history stays explainable.
// Implements portssvc.AccountSvcFacade
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, actor string) error {
	account, err := s.GetAccount(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil
	}

	inUse, err := s.journalRepo.HasLinesForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check account usage: %w", err)
	}
	if inUse {
		return fmt.Errorf("%w: account %s", apperrors.ErrAccountInUse, account.Code)
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actor, now); err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}

	s.recordAudit(ctx, tenantID, actor, "deactivate", accountID, nil)
	return nil
}
