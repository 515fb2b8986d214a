package services

import (
	"context"

	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// ApplicationResult pairs the refreshed bank transaction and document after a
// successful payment application.
type ApplicationResult struct {
	Transaction *domain.BankTransaction
	Invoice     *domain.Invoice
	Bill        *domain.Bill
}

// PaymentSvcFacade applies bank transactions against invoices and bills.
type PaymentSvcFacade interface {
	// Apply settles part (or all) of a bank transaction against one document.
	// Both rows are locked for the duration; capacity checks run against
	// freshly aggregated state.
	Apply(ctx context.Context, tenantID string, transactionID string, doc domain.DocumentRef, amount decimal.Decimal, actor string) (*ApplicationResult, error)

	// ApplyBatch runs every application inside one transaction. A single
	// failure rolls back the whole batch.
	ApplyBatch(ctx context.Context, tenantID string, transactionID string, items []dto.ApplicationItem, actor string) ([]ApplicationResult, error)
}
