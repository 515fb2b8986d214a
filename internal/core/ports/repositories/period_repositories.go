package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
)

// PeriodReader defines read operations for accounting periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error)

	// FindPeriodByIDInTx retrieves a period inside an existing transaction so
	// the posting protocol sees a consistent view of the closed flag.
	FindPeriodByIDInTx(ctx context.Context, tx pgx.Tx, periodID string) (*domain.Period, error)

	// ResolvePeriodForDate finds the open period covering the given date.
	// Returns ErrNotFound when no open period contains it.
	ResolvePeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error)

	// ListPeriods retrieves all periods for a tenant ordered by start date.
	ListPeriods(ctx context.Context, tenantID string) ([]domain.Period, error)
}

// PeriodWriter defines write operations for accounting periods.
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.Period) error

	// ClosePeriod marks a period closed. There is no reverse operation.
	ClosePeriod(ctx context.Context, periodID string, actor string, now time.Time) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
