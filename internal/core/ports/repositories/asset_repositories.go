package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssetReader defines read operations for fixed assets.
type AssetReader interface {
	// FindAssetByID retrieves a fixed asset by its unique identifier.
	FindAssetByID(ctx context.Context, assetID string) (*domain.FixedAsset, error)

	// ListAssets retrieves all fixed assets for a tenant.
	ListAssets(ctx context.Context, tenantID string) ([]domain.FixedAsset, error)
}

// AssetWriter defines write operations for fixed assets.
type AssetWriter interface {
	// SaveAsset persists a new fixed asset.
	SaveAsset(ctx context.Context, asset domain.FixedAsset) error
}

// AssetTransactionSupport defines tx-scoped asset operations used by the
// depreciation workflow.
type AssetTransactionSupport interface {
	// FindAssetForUpdate selects a fixed asset and locks its row.
	FindAssetForUpdate(ctx context.Context, tx pgx.Tx, assetID string) (*domain.FixedAsset, error)

	// UpdateAssetDepreciation writes the new accumulated depreciation and
	// status within the transaction.
	UpdateAssetDepreciation(ctx context.Context, tx pgx.Tx, assetID string, accumulated decimal.Decimal, status domain.AssetStatus, actor string, now time.Time) error
}

// AssetRepositoryFacade combines all asset-related repository interfaces.
type AssetRepositoryFacade interface {
	AssetReader
	AssetWriter
	AssetTransactionSupport
}
