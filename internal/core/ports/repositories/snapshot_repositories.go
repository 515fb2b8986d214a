package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SnapshotRepositoryFacade maintains the per-account running-balance rows.
type SnapshotRepositoryFacade interface {
	// UpsertSnapshotDelta fetches-or-creates the (tenant, account, date) row
	// and adds the given local debit/credit deltas to its totals, within the
	// posting transaction.
	UpsertSnapshotDelta(ctx context.Context, tx pgx.Tx, tenantID, accountID string, date time.Time, debitDelta, creditDelta decimal.Decimal, actor string, now time.Time) error

	// FindSnapshot retrieves the snapshot row for (tenant, account, date).
	FindSnapshot(ctx context.Context, tenantID, accountID string, date time.Time) (*domain.BalanceSnapshot, error)
}

// AuditRepositoryFacade persists the audit facts the engine emits. The engine
// only produces events; the storage schema belongs to this collaborator.
type AuditRepositoryFacade interface {
	// SaveEvent persists one audit event.
	SaveEvent(ctx context.Context, event domain.AuditEvent) error
}
