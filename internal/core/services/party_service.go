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

// partyService manages customers and vendors.
type partyService struct {
	partyRepo   portsrepo.PartyRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewPartyService creates a new party service.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{
		partyRepo:   partyRepo,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) recordAudit(ctx context.Context, tenantID, actor, action, objectType, objectID string) {
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

// validateControlAccount checks that the account exists, belongs to the
// tenant, and is an active control account of the expected type.
func (s *partyService) validateControlAccount(ctx context.Context, tenantID, accountID string, accountType domain.AccountType) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s", apperrors.ErrInvalidReference, accountID)
		}
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.TenantID != tenantID {
		return fmt.Errorf("%w: account %s", apperrors.ErrTenantMismatch, accountID)
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}
	if !account.IsControlAccount {
		return fmt.Errorf("%w: account %s is not a control account", apperrors.ErrValidation, accountID)
	}
	if account.AccountType != accountType {
		return fmt.Errorf("%w: account %s is %s, expected %s", apperrors.ErrValidation, accountID, account.AccountType, accountType)
	}
	return nil
}

// CreateCustomer persists a new customer.
// Implements portssvc.PartySvcFacade
func (s *partyService) CreateCustomer(ctx context.Context, tenantID string, req dto.CreateCustomerRequest, actor string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateControlAccount(ctx, tenantID, req.DefaultARAccountID, domain.Asset); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:         uuid.NewString(),
		TenantID:           tenantID,
		Name:               req.Name,
		Email:              req.Email,
		DefaultARAccountID: req.DefaultARAccountID,
		AuditFields:        domain.NewAuditFields(actor, now),
	}

	if err := s.partyRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", "Customer", customer.CustomerID)
	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// CreateVendor persists a new vendor.
// Implements portssvc.PartySvcFacade
func (s *partyService) CreateVendor(ctx context.Context, tenantID string, req dto.CreateVendorRequest, actor string) (*domain.Vendor, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.validateControlAccount(ctx, tenantID, req.DefaultAPAccountID, domain.Liability); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	vendor := domain.Vendor{
		VendorID:           uuid.NewString(),
		TenantID:           tenantID,
		Name:               req.Name,
		Email:              req.Email,
		DefaultAPAccountID: req.DefaultAPAccountID,
		AuditFields:        domain.NewAuditFields(actor, now),
	}

	if err := s.partyRepo.SaveVendor(ctx, vendor); err != nil {
		logger.Error("Failed to save vendor", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", "Vendor", vendor.VendorID)
	logger.Info("Vendor created", slog.String("vendor_id", vendor.VendorID))
	return &vendor, nil
}
