package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices for a tenant.
	ListInvoices(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	// SaveInvoice persists an invoice header and its lines atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error

	// UpdateInvoiceStatus moves an invoice between statuses.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, actor string, now time.Time) error

	// DeleteInvoice removes a draft invoice and its lines. Callers must first
	// verify no payments have been applied.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceTransactionSupport defines tx-scoped invoice operations used by the
// payment application engine.
type InvoiceTransactionSupport interface {
	// FindInvoiceForUpdate selects an invoice header and locks its row.
	FindInvoiceForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error)

	// UpdateInvoiceSettlement writes the new outstanding amount and status
	// within the transaction.
	UpdateInvoiceSettlement(ctx context.Context, tx pgx.Tx, invoiceID string, outstanding decimal.Decimal, status domain.InvoiceStatus, actor string, now time.Time) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	InvoiceTransactionSupport
}
