package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
)

type PgxSnapshotRepository struct {
	pool *pgxpool.Pool
}

// newPgxSnapshotRepository creates a new repository for balance snapshots.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{pool: pool}
}

var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

// UpsertSnapshotDelta adds the local debit/credit deltas to the
// (tenant, account, date) snapshot row, creating it on first touch. The
// unique constraint on the triple makes the upsert race-safe.
func (r *PgxSnapshotRepository) UpsertSnapshotDelta(ctx context.Context, tx pgx.Tx, tenantID, accountID string, date time.Time, debitDelta, creditDelta decimal.Decimal, actor string, now time.Time) error {
	query := `
		INSERT INTO balance_snapshots (snapshot_id, tenant_id, account_id, snapshot_date, debit_balance, credit_balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $7, $8)
		ON CONFLICT (tenant_id, account_id, snapshot_date) DO UPDATE
		SET debit_balance = balance_snapshots.debit_balance + EXCLUDED.debit_balance,
		    credit_balance = balance_snapshots.credit_balance + EXCLUDED.credit_balance,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := tx.Exec(ctx, query,
		uuid.NewString(),
		tenantID,
		accountID,
		date,
		debitDelta,
		creditDelta,
		now,
		actor,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert balance snapshot for account %s: %w", accountID, err)
	}
	return nil
}

// FindSnapshot retrieves the snapshot row for (tenant, account, date).
func (r *PgxSnapshotRepository) FindSnapshot(ctx context.Context, tenantID, accountID string, date time.Time) (*domain.BalanceSnapshot, error) {
	query := `
		SELECT snapshot_id, tenant_id, account_id, snapshot_date, debit_balance, credit_balance, created_at, created_by, last_updated_at, last_updated_by
		FROM balance_snapshots
		WHERE tenant_id = $1 AND account_id = $2 AND snapshot_date = $3::date;
	`
	var model models.BalanceSnapshot
	err := r.pool.QueryRow(ctx, query, tenantID, accountID, date).Scan(
		&model.SnapshotID,
		&model.TenantID,
		&model.AccountID,
		&model.SnapshotDate,
		&model.DebitBalance,
		&model.CreditBalance,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find balance snapshot for account %s: %w", accountID, err)
	}

	snapshot := mapping.ToDomainBalanceSnapshot(model)
	return &snapshot, nil
}
