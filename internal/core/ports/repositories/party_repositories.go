package repositories

import (
	"context"

	"github.com/ledgerworks/books_backend/internal/core/domain"
)

// PartyRepositoryFacade defines operations for customers and vendors.
type PartyRepositoryFacade interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// FindCustomerByID retrieves a customer by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// SaveVendor persists a new vendor.
	SaveVendor(ctx context.Context, vendor domain.Vendor) error

	// FindVendorByID retrieves a vendor by its unique identifier.
	FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error)
}

// TenantRepositoryFacade defines operations for tenants.
type TenantRepositoryFacade interface {
	// SaveTenant persists a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error

	// FindTenantByID retrieves a tenant by its unique identifier.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}
