package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
)

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for customer and vendor data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{pool: pool}
}

var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

// SaveCustomer inserts a new customer.
func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	model := mapping.ToModelCustomer(customer)

	query := `
		INSERT INTO customers (customer_id, tenant_id, name, email, default_ar_account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		model.CustomerID,
		model.TenantID,
		model.Name,
		model.Email,
		model.DefaultARAccountID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer %s already exists", apperrors.ErrDuplicate, model.CustomerID)
		}
		return fmt.Errorf("failed to save customer %s: %w", model.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, tenant_id, name, email, default_ar_account_id, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE customer_id = $1;
	`
	var model models.Customer
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&model.CustomerID,
		&model.TenantID,
		&model.Name,
		&model.Email,
		&model.DefaultARAccountID,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	customer := mapping.ToDomainCustomer(model)
	return &customer, nil
}

// SaveVendor inserts a new vendor.
func (r *PgxPartyRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	model := mapping.ToModelVendor(vendor)

	query := `
		INSERT INTO vendors (vendor_id, tenant_id, name, email, default_ap_account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		model.VendorID,
		model.TenantID,
		model.Name,
		model.Email,
		model.DefaultAPAccountID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: vendor %s already exists", apperrors.ErrDuplicate, model.VendorID)
		}
		return fmt.Errorf("failed to save vendor %s: %w", model.VendorID, err)
	}
	return nil
}

// FindVendorByID retrieves a vendor by its ID.
func (r *PgxPartyRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	query := `
		SELECT vendor_id, tenant_id, name, email, default_ap_account_id, created_at, created_by, last_updated_at, last_updated_by
		FROM vendors
		WHERE vendor_id = $1;
	`
	var model models.Vendor
	err := r.pool.QueryRow(ctx, query, vendorID).Scan(
		&model.VendorID,
		&model.TenantID,
		&model.Name,
		&model.Email,
		&model.DefaultAPAccountID,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor %s: %w", vendorID, err)
	}

	v := mapping.ToDomainVendor(model)
	return &v, nil
}
