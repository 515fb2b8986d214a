package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
)

const periodColumns = `period_id, tenant_id, name, start_date, end_date, is_closed, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxPeriodRepository creates a new repository for accounting periods.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{pool: pool}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*domain.Period, error) {
	var model models.Period
	err := row.Scan(
		&model.PeriodID,
		&model.TenantID,
		&model.Name,
		&model.StartDate,
		&model.EndDate,
		&model.IsClosed,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	period := mapping.ToDomainPeriod(model)
	return &period, nil
}

// SavePeriod inserts a new period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.Period) error {
	model := mapping.ToModelPeriod(period)

	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		model.PeriodID,
		model.TenantID,
		model.Name,
		model.StartDate,
		model.EndDate,
		model.IsClosed,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period %s already exists", apperrors.ErrDuplicate, model.Name)
		}
		return fmt.Errorf("failed to save period %s: %w", model.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`

	period, err := scanPeriod(r.pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	return period, nil
}

// FindPeriodByIDInTx retrieves a period inside an existing transaction.
func (r *PgxPeriodRepository) FindPeriodByIDInTx(ctx context.Context, tx pgx.Tx, periodID string) (*domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`

	period, err := scanPeriod(tx.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	return period, nil
}

// ResolvePeriodForDate finds the open period covering the given date. Bounds
// are compared at day granularity.
func (r *PgxPeriodRepository) ResolvePeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND is_closed = FALSE
		  AND start_date::date <= $2::date AND end_date::date >= $2::date
		ORDER BY start_date
		LIMIT 1;
	`
	period, err := scanPeriod(r.pool.QueryRow(ctx, query, tenantID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve period for %s: %w", date.Format("2006-01-02"), err)
	}
	return period, nil
}

// ListPeriods retrieves all periods for a tenant ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 ORDER BY start_date;`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	periods := []domain.Period{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

// ClosePeriod marks a period closed.
func (r *PgxPeriodRepository) ClosePeriod(ctx context.Context, periodID string, actor string, now time.Time) error {
	query := `
		UPDATE accounting_periods
		SET is_closed = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, periodID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to close period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
