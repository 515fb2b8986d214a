package dto

import (
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceLineRequest defines one line of a draft invoice.
type CreateInvoiceLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	AccountID   string          `json:"accountID" binding:"required"` // Revenue account
}

// CreateInvoiceRequest defines the data needed to create a draft invoice.
type CreateInvoiceRequest struct {
	CustomerID    string                     `json:"customerID" binding:"required"`
	InvoiceNumber string                     `json:"invoiceNumber" binding:"required"`
	InvoiceDate   time.Time                  `json:"invoiceDate" binding:"required"`
	DueDate       *time.Time                 `json:"dueDate"`
	CurrencyCode  string                     `json:"currencyCode"`
	Description   string                     `json:"description"`
	Lines         []CreateInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceLineResponse defines the data returned for an invoice line.
type InvoiceLineResponse struct {
	LineID      string          `json:"lineID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	AccountID   string          `json:"accountID"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	CustomerID    string                `json:"customerID"`
	InvoiceNumber string                `json:"invoiceNumber"`
	InvoiceDate   time.Time             `json:"invoiceDate"`
	DueDate       *time.Time            `json:"dueDate,omitempty"`
	Status        domain.InvoiceStatus  `json:"status"`
	CurrencyCode  string                `json:"currencyCode"`
	Total         decimal.Decimal       `json:"total"`
	Outstanding   decimal.Decimal       `json:"outstanding"`
	Description   string                `json:"description,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// ListInvoicesResponse wraps a page of invoices with the next-page token.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice (with lines) to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		CustomerID:    inv.CustomerID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Status:        inv.Status,
		CurrencyCode:  inv.CurrencyCode,
		Total:         inv.Total,
		Outstanding:   inv.Outstanding,
		Description:   inv.Description,
	}
	for i := range inv.Lines {
		l := &inv.Lines[i]
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:      l.LineID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
			AccountID:   l.AccountID,
		})
	}
	return resp
}
