package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the lifecycle state of a customer invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "DRAFT"
	InvoiceOpen  InvoiceStatus = "OPEN"
	InvoicePaid  InvoiceStatus = "PAID"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft: {InvoiceOpen},
	InvoiceOpen:  {InvoicePaid},
	InvoicePaid:  {},
}

// CanTransitionInvoice reports whether an invoice may move between two statuses.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Invoice is a customer (accounts receivable) document. Its outstanding
// amount always equals total minus applied payments, floored at zero.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`
	CustomerID    string          `json:"customerID"`
	InvoiceNumber string          `json:"invoiceNumber"` // Unique per tenant
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       *time.Time      `json:"dueDate"`
	Status        InvoiceStatus   `json:"status"`
	CurrencyCode  string          `json:"currencyCode"`
	Total         decimal.Decimal `json:"total"`       // Sum of line totals
	Outstanding   decimal.Decimal `json:"outstanding"` // max(total - applied, 0)
	Description   string          `json:"description"`
	Lines         []InvoiceLine
	AuditFields
}

// InvoiceLine is one product/service sold on an invoice, posted to a revenue account.
type InvoiceLine struct {
	LineID      string          `json:"lineID"`
	InvoiceID   string          `json:"invoiceID"`
	TenantID    string          `json:"tenantID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"` // quantity * unit price
	AccountID   string          `json:"accountID"` // Revenue account for this line
	AuditFields
}

// ComputeLineTotal derives the line total from quantity and unit price.
func (l *InvoiceLine) ComputeLineTotal() {
	l.LineTotal = l.Quantity.Mul(l.UnitPrice).Round(2)
}

// ComputeTotal sums line totals into the invoice header total.
func (inv Invoice) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range inv.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}
