package dto

import (
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAssetRequest defines the data needed to register a fixed asset.
type CreateAssetRequest struct {
	AssetCode       string          `json:"assetCode" binding:"required"`
	Description     string          `json:"description"`
	PurchaseDate    *time.Time      `json:"purchaseDate"`
	PurchaseCost    decimal.Decimal `json:"purchaseCost" binding:"required"`
	AccountID       string          `json:"accountID" binding:"required"`
	VendorID        string          `json:"vendorID"`
	UsefulLifeYears int             `json:"usefulLifeYears" binding:"required,min=1"`
}

// DepreciateRequest names the period the depreciation charge is recorded in.
type DepreciateRequest struct {
	PeriodID string `json:"periodID" binding:"required"`
}

// AssetResponse defines the data returned for a fixed asset.
type AssetResponse struct {
	AssetID                 string             `json:"assetID"`
	AssetCode               string             `json:"assetCode"`
	Description             string             `json:"description"`
	PurchaseDate            *time.Time         `json:"purchaseDate,omitempty"`
	PurchaseCost            decimal.Decimal    `json:"purchaseCost"`
	AccountID               string             `json:"accountID"`
	VendorID                string             `json:"vendorID,omitempty"`
	Status                  domain.AssetStatus `json:"status"`
	UsefulLifeYears         int                `json:"usefulLifeYears"`
	AccumulatedDepreciation decimal.Decimal    `json:"accumulatedDepreciation"`
	BookValue               decimal.Decimal    `json:"bookValue"`
}

// ListAssetsResponse wraps a page of assets with the next-page token.
type ListAssetsResponse struct {
	Assets    []AssetResponse `json:"assets"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToAssetResponse converts a domain.FixedAsset to its DTO.
func ToAssetResponse(a *domain.FixedAsset) AssetResponse {
	return AssetResponse{
		AssetID:                 a.AssetID,
		AssetCode:               a.AssetCode,
		Description:             a.Description,
		PurchaseDate:            a.PurchaseDate,
		PurchaseCost:            a.PurchaseCost,
		AccountID:               a.AccountID,
		VendorID:                a.VendorID,
		Status:                  a.Status,
		UsefulLifeYears:         a.UsefulLifeYears,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
		BookValue:               a.BookValue(),
	}
}
