package services

import (
	"context"
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// AccountSvcFacade manages the chart of accounts.
type AccountSvcFacade interface {
	// CreateAccount persists a new account after cross-reference validation.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// GetAccount retrieves an account, scoped to the tenant.
	GetAccount(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListAccountsResponse, error)

	// DeactivateAccount soft-deactivates an account. Fails with AccountInUse
	// once any journal line references it.
	DeactivateAccount(ctx context.Context, tenantID string, accountID string, actor string) error
}

// PeriodSvcFacade manages accounting periods.
type PeriodSvcFacade interface {
	// CreatePeriod persists a new non-overlapping period.
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, actor string) (*domain.Period, error)

	// ListPeriods retrieves all periods for a tenant.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.Period, error)

	// ResolvePeriod finds the open period covering a date.
	ResolvePeriod(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error)

	// ClosePeriod closes a period. Irreversible from the engine's point of view.
	ClosePeriod(ctx context.Context, tenantID string, periodID string, actor string) (*domain.Period, error)
}

// BankingSvcFacade manages bank accounts and transactions.
type BankingSvcFacade interface {
	// CreateBankAccount persists a new bank account linked to its ledger account.
	CreateBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, actor string) (*domain.BankAccount, error)

	// CreateTransaction persists a new bank transaction in the unapplied state.
	CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, actor string) (*domain.BankTransaction, error)

	// GetTransaction retrieves a bank transaction.
	GetTransaction(ctx context.Context, tenantID string, transactionID string) (*domain.BankTransaction, error)

	// ListTransactions retrieves a paginated list of bank transactions.
	ListTransactions(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListTransactionsResponse, error)
}

// PartySvcFacade manages customers and vendors.
type PartySvcFacade interface {
	// CreateCustomer persists a new customer.
	CreateCustomer(ctx context.Context, tenantID string, req dto.CreateCustomerRequest, actor string) (*domain.Customer, error)

	// CreateVendor persists a new vendor.
	CreateVendor(ctx context.Context, tenantID string, req dto.CreateVendorRequest, actor string) (*domain.Vendor, error)
}

// TenantSvcFacade manages tenants.
type TenantSvcFacade interface {
	// CreateTenant persists a new tenant.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, actor string) (*domain.Tenant, error)

	// GetTenant retrieves a tenant by its unique identifier.
	GetTenant(ctx context.Context, tenantID string) (*domain.Tenant, error)
}
