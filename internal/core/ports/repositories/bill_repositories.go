package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillReader defines read operations for bills.
type BillReader interface {
	// FindBillByID retrieves a bill with its lines.
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// ListBills retrieves a paginated list of bills for a tenant.
	ListBills(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Bill, *string, error)
}

// BillWriter defines write operations for bills.
type BillWriter interface {
	// SaveBill persists a bill header and its lines atomically.
	SaveBill(ctx context.Context, bill domain.Bill, lines []domain.BillLine) error

	// UpdateBillStatus moves a bill between statuses.
	UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus, actor string, now time.Time) error

	// DeleteBill removes a draft bill and its lines.
	DeleteBill(ctx context.Context, billID string) error
}

// BillTransactionSupport defines tx-scoped bill operations used by the
// payment application engine.
type BillTransactionSupport interface {
	// FindBillForUpdate selects a bill header and locks its row.
	FindBillForUpdate(ctx context.Context, tx pgx.Tx, billID string) (*domain.Bill, error)

	// UpdateBillSettlement writes the new outstanding amount and status
	// within the transaction.
	UpdateBillSettlement(ctx context.Context, tx pgx.Tx, billID string, outstanding decimal.Decimal, status domain.BillStatus, actor string, now time.Time) error
}

// BillRepositoryFacade combines all bill-related repository interfaces.
type BillRepositoryFacade interface {
	BillReader
	BillWriter
	BillTransactionSupport
}
