package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus indicates the state of a fixed asset row.
type AssetStatus string

const (
	AssetDraft       AssetStatus = "DRAFT"
	AssetCapitalized AssetStatus = "CAPITALIZED"
	AssetDisposed    AssetStatus = "DISPOSED"
)

// FixedAsset mirrors the fixed_assets table.
type FixedAsset struct {
	AssetID                 string          `json:"assetID"` // Primary Key (UUID)
	TenantID                string          `json:"tenantID"`
	AssetCode               string          `json:"assetCode"` // Unique per tenant
	Description             string          `json:"description"`
	PurchaseDate            *time.Time      `json:"purchaseDate"`
	PurchaseCost            decimal.Decimal `json:"purchaseCost"`
	AccountID               string          `json:"accountID"`
	VendorID                string          `json:"vendorID"`
	Status                  AssetStatus     `json:"status"`
	UsefulLifeYears         int             `json:"usefulLifeYears"`
	DepreciationMethod      string          `json:"depreciationMethod"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
	AuditFields
}
