package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus indicates the state of a bill row.
type BillStatus string

const (
	BillDraft  BillStatus = "DRAFT"
	BillPosted BillStatus = "POSTED"
	BillPaid   BillStatus = "PAID"
)

// Bill mirrors the bills table.
type Bill struct {
	BillID       string          `json:"billID"` // Primary Key (UUID)
	TenantID     string          `json:"tenantID"`
	VendorID     string          `json:"vendorID"`
	BillNumber   string          `json:"billNumber"` // Unique per tenant
	BillDate     time.Time       `json:"billDate"`
	DueDate      *time.Time      `json:"dueDate"`
	Status       BillStatus      `json:"status"`
	CurrencyCode string          `json:"currencyCode"`
	Total        decimal.Decimal `json:"total"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	AuditFields
}

// BillLine mirrors the bill_lines table.
type BillLine struct {
	LineID      string          `json:"lineID"` // Primary Key (UUID)
	BillID      string          `json:"billID"`
	TenantID    string          `json:"tenantID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	AccountID   string          `json:"accountID"`
	AuditFields
}
