package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus indicates the lifecycle state of a fixed asset.
type AssetStatus string

const (
	AssetDraft       AssetStatus = "DRAFT"
	AssetCapitalized AssetStatus = "CAPITALIZED"
	AssetDisposed    AssetStatus = "DISPOSED"
)

// DepreciationMethod names how the per-period charge is calculated.
type DepreciationMethod string

const StraightLine DepreciationMethod = "STRAIGHT_LINE"

// FixedAsset tracks a long-term asset and its depreciation over time.
type FixedAsset struct {
	AssetID                 string             `json:"assetID"` // Primary Key (UUID)
	TenantID                string             `json:"tenantID"`
	AssetCode               string             `json:"assetCode"` // Unique per tenant
	Description             string             `json:"description"`
	PurchaseDate            *time.Time         `json:"purchaseDate"`
	PurchaseCost            decimal.Decimal    `json:"purchaseCost"`
	AccountID               string             `json:"accountID"` // Asset GL account where capitalized
	VendorID                string             `json:"vendorID"`  // Nullable
	Status                  AssetStatus        `json:"status"`
	UsefulLifeYears         int                `json:"usefulLifeYears"`
	DepreciationMethod      DepreciationMethod `json:"depreciationMethod"`
	AccumulatedDepreciation decimal.Decimal    `json:"accumulatedDepreciation"`
	AuditFields
}

// BookValue is the purchase cost minus accumulated depreciation.
func (a FixedAsset) BookValue() decimal.Decimal {
	return a.PurchaseCost.Sub(a.AccumulatedDepreciation)
}

// PeriodCharge computes the straight-line charge for one period, capped so
// accumulated depreciation never exceeds purchase cost.
func (a FixedAsset) PeriodCharge() decimal.Decimal {
	if a.UsefulLifeYears <= 0 {
		return decimal.Zero
	}
	charge := a.PurchaseCost.Div(decimal.NewFromInt(int64(a.UsefulLifeYears))).Round(2)
	if book := a.BookValue(); charge.GreaterThan(book) {
		return book
	}
	return charge
}
