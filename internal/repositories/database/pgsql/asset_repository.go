package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
)

const assetColumns = `asset_id, tenant_id, asset_code, description, purchase_date, purchase_cost, account_id, vendor_id, status, useful_life_years, depreciation_method, accumulated_depreciation, created_at, created_by, last_updated_at, last_updated_by`

type PgxAssetRepository struct {
	pool *pgxpool.Pool
}

// newPgxAssetRepository creates a new repository for fixed asset data.
func newPgxAssetRepository(pool *pgxpool.Pool) portsrepo.AssetRepositoryFacade {
	return &PgxAssetRepository{pool: pool}
}

var _ portsrepo.AssetRepositoryFacade = (*PgxAssetRepository)(nil)

func scanAsset(row pgx.Row) (*domain.FixedAsset, error) {
	var model models.FixedAsset
	var vendorID sql.NullString

	err := row.Scan(
		&model.AssetID,
		&model.TenantID,
		&model.AssetCode,
		&model.Description,
		&model.PurchaseDate,
		&model.PurchaseCost,
		&model.AccountID,
		&vendorID,
		&model.Status,
		&model.UsefulLifeYears,
		&model.DepreciationMethod,
		&model.AccumulatedDepreciation,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	model.VendorID = vendorID.String

	asset := mapping.ToDomainFixedAsset(model)
	return &asset, nil
}

// SaveAsset inserts a new fixed asset.
func (r *PgxAssetRepository) SaveAsset(ctx context.Context, asset domain.FixedAsset) error {
	model := mapping.ToModelFixedAsset(asset)

	query := `
		INSERT INTO fixed_assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.pool.Exec(ctx, query,
		model.AssetID,
		model.TenantID,
		model.AssetCode,
		model.Description,
		model.PurchaseDate,
		model.PurchaseCost,
		model.AccountID,
		nullable(model.VendorID),
		model.Status,
		model.UsefulLifeYears,
		model.DepreciationMethod,
		model.AccumulatedDepreciation,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asset code %s already exists", apperrors.ErrDuplicate, model.AssetCode)
		}
		return fmt.Errorf("failed to save fixed asset %s: %w", model.AssetID, err)
	}
	return nil
}

// FindAssetByID retrieves a fixed asset by its ID.
func (r *PgxAssetRepository) FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE asset_id = $1;`

	asset, err := scanAsset(r.pool.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fixed asset %s: %w", assetID, err)
	}
	return asset, nil
}

// ListAssets retrieves all fixed assets for a tenant ordered by code.
func (r *PgxAssetRepository) ListAssets(ctx context.Context, tenantID string) ([]domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE tenant_id = $1 ORDER BY asset_code;`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed assets for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	assets := []domain.FixedAsset{}
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixed asset row: %w", err)
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixed asset rows: %w", err)
	}
	return assets, nil
}

// FindAssetForUpdate selects a fixed asset and locks its row.
func (r *PgxAssetRepository) FindAssetForUpdate(ctx context.Context, tx pgx.Tx, assetID string) (*domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE asset_id = $1 FOR UPDATE;`

	asset, err := scanAsset(tx.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock fixed asset %s: %w", assetID, err)
	}
	return asset, nil
}

// UpdateAssetDepreciation writes the new accumulated depreciation and status
// within the transaction.
func (r *PgxAssetRepository) UpdateAssetDepreciation(ctx context.Context, tx pgx.Tx, assetID string, accumulated decimal.Decimal, status domain.AssetStatus, actor string, now time.Time) error {
	query := `
		UPDATE fixed_assets
		SET accumulated_depreciation = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE asset_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, assetID, accumulated, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update depreciation of asset %s: %w", assetID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
