package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus indicates the lifecycle state of a vendor bill.
type BillStatus string

const (
	BillDraft  BillStatus = "DRAFT"
	BillPosted BillStatus = "POSTED"
	BillPaid   BillStatus = "PAID"
)

var billTransitions = map[BillStatus][]BillStatus{
	BillDraft:  {BillPosted},
	BillPosted: {BillPaid},
	BillPaid:   {},
}

// CanTransitionBill reports whether a bill may move between two statuses.
func CanTransitionBill(from, to BillStatus) bool {
	for _, allowed := range billTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Bill is a vendor (accounts payable) document, the payable-side mirror of Invoice.
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
	Lines        []BillLine
	AuditFields
}

// BillLine is one expense item on a bill, posted to an expense account.
type BillLine struct {
	LineID      string          `json:"lineID"`
	BillID      string          `json:"billID"`
	TenantID    string          `json:"tenantID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	AccountID   string          `json:"accountID"` // Expense account for this line
	AuditFields
}

// ComputeLineTotal derives the line total from quantity and unit price.
func (l *BillLine) ComputeLineTotal() {
	l.LineTotal = l.Quantity.Mul(l.UnitPrice).Round(2)
}

// ComputeTotal sums line totals into the bill header total.
func (b Bill) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range b.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}
