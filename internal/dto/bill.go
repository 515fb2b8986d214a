package dto

import (
	"time"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBillLineRequest defines one line of a draft bill.
type CreateBillLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	AccountID   string          `json:"accountID" binding:"required"` // Expense account
}

// CreateBillRequest defines the data needed to create a draft bill.
type CreateBillRequest struct {
	VendorID     string                  `json:"vendorID" binding:"required"`
	BillNumber   string                  `json:"billNumber" binding:"required"`
	BillDate     time.Time               `json:"billDate" binding:"required"`
	DueDate      *time.Time              `json:"dueDate"`
	CurrencyCode string                  `json:"currencyCode"`
	Lines        []CreateBillLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// BillLineResponse defines the data returned for a bill line.
type BillLineResponse struct {
	LineID      string          `json:"lineID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	AccountID   string          `json:"accountID"`
}

// BillResponse defines the data returned for a bill.
type BillResponse struct {
	BillID       string             `json:"billID"`
	VendorID     string             `json:"vendorID"`
	BillNumber   string             `json:"billNumber"`
	BillDate     time.Time          `json:"billDate"`
	DueDate      *time.Time         `json:"dueDate,omitempty"`
	Status       domain.BillStatus  `json:"status"`
	CurrencyCode string             `json:"currencyCode"`
	Total        decimal.Decimal    `json:"total"`
	Outstanding  decimal.Decimal    `json:"outstanding"`
	Lines        []BillLineResponse `json:"lines,omitempty"`
}

// ListBillsResponse wraps a page of bills with the next-page token.
type ListBillsResponse struct {
	Bills     []BillResponse `json:"bills"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToBillResponse converts a domain.Bill (with lines) to its DTO.
func ToBillResponse(b *domain.Bill) BillResponse {
	resp := BillResponse{
		BillID:       b.BillID,
		VendorID:     b.VendorID,
		BillNumber:   b.BillNumber,
		BillDate:     b.BillDate,
		DueDate:      b.DueDate,
		Status:       b.Status,
		CurrencyCode: b.CurrencyCode,
		Total:        b.Total,
		Outstanding:  b.Outstanding,
	}
	for i := range b.Lines {
		l := &b.Lines[i]
		resp.Lines = append(resp.Lines, BillLineResponse{
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
