package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
	"github.com/ledgerworks/books_backend/internal/utils/pagination"
)

const billColumns = `bill_id, tenant_id, vendor_id, bill_number, bill_date, due_date, status, currency_code, total, outstanding, created_at, created_by, last_updated_at, last_updated_by`

const billLineColumns = `line_id, bill_id, tenant_id, description, quantity, unit_price, line_total, account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxBillRepository struct {
	pool *pgxpool.Pool
}

// newPgxBillRepository creates a new repository for bill data.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryFacade {
	return &PgxBillRepository{pool: pool}
}

var _ portsrepo.BillRepositoryFacade = (*PgxBillRepository)(nil)

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var model models.Bill
	err := row.Scan(
		&model.BillID,
		&model.TenantID,
		&model.VendorID,
		&model.BillNumber,
		&model.BillDate,
		&model.DueDate,
		&model.Status,
		&model.CurrencyCode,
		&model.Total,
		&model.Outstanding,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	bill := mapping.ToDomainBill(model)
	return &bill, nil
}

// FindBillByID retrieves a bill with its lines.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1;`

	bill, err := scanBill(r.pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill %s: %w", billID, err)
	}

	lines, err := r.findLines(ctx, billID)
	if err != nil {
		return nil, err
	}
	bill.Lines = lines
	return bill, nil
}

func (r *PgxBillRepository) findLines(ctx context.Context, billID string) ([]domain.BillLine, error) {
	query := `SELECT ` + billLineColumns + ` FROM bill_lines WHERE bill_id = $1 ORDER BY line_id;`

	rows, err := r.pool.Query(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of bill %s: %w", billID, err)
	}
	defer rows.Close()

	lines := []domain.BillLine{}
	for rows.Next() {
		var model models.BillLine
		err := rows.Scan(
			&model.LineID,
			&model.BillID,
			&model.TenantID,
			&model.Description,
			&model.Quantity,
			&model.UnitPrice,
			&model.LineTotal,
			&model.AccountID,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainBillLine(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill line rows: %w", err)
	}
	return lines, nil
}

// ListBills retrieves a paginated list of bills, newest first.
func (r *PgxBillRepository) ListBills(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Bill, *string, error) {
	args := []any{tenantID, limit + 1}
	query := `SELECT ` + billColumns + ` FROM bills WHERE tenant_id = $1`

	if nextToken != nil && *nextToken != "" {
		tokenTime, err := pagination.DecodeDateBasedToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND created_at < $3`
		args = append(args, tokenTime)
	}
	query += ` ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list bills for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating bill rows: %w", err)
	}

	var newToken *string
	if len(bills) > limit {
		bills = bills[:limit]
		token := pagination.EncodeDateBasedToken(bills[len(bills)-1].CreatedAt)
		newToken = &token
	}
	return bills, newToken, nil
}

// SaveBill persists a bill header and its lines atomically.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill, lines []domain.BillLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	model := mapping.ToModelBill(bill)
	headerQuery := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, headerQuery,
		model.BillID,
		model.TenantID,
		model.VendorID,
		model.BillNumber,
		model.BillDate,
		model.DueDate,
		model.Status,
		model.CurrencyCode,
		model.Total,
		model.Outstanding,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bill number %s already exists", apperrors.ErrDuplicate, model.BillNumber)
		}
		return fmt.Errorf("failed to save bill %s: %w", model.BillID, err)
	}

	lineQuery := `
		INSERT INTO bill_lines (` + billLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for i := range lines {
		lm := mapping.ToModelBillLine(lines[i])
		batch.Queue(lineQuery,
			lm.LineID,
			lm.BillID,
			lm.TenantID,
			lm.Description,
			lm.Quantity,
			lm.UnitPrice,
			lm.LineTotal,
			lm.AccountID,
			lm.CreatedAt,
			lm.CreatedBy,
			lm.LastUpdatedAt,
			lm.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to save bill line %s: %w", lines[i].LineID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close bill line batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bill %s: %w", model.BillID, err)
	}
	return nil
}

// UpdateBillStatus moves a bill between statuses.
func (r *PgxBillRepository) UpdateBillStatus(ctx context.Context, billID string, status domain.BillStatus, actor string, now time.Time) error {
	query := `
		UPDATE bills
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bill_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, billID, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update status of bill %s: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteBill removes a draft bill and its lines.
func (r *PgxBillRepository) DeleteBill(ctx context.Context, billID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM bill_lines WHERE bill_id = $1;`, billID); err != nil {
		return fmt.Errorf("failed to delete lines of bill %s: %w", billID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM bills WHERE bill_id = $1;`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill %s: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete of bill %s: %w", billID, err)
	}
	return nil
}

// FindBillForUpdate selects a bill header and locks its row.
func (r *PgxBillRepository) FindBillForUpdate(ctx context.Context, tx pgx.Tx, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1 FOR UPDATE;`

	bill, err := scanBill(tx.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock bill %s: %w", billID, err)
	}
	return bill, nil
}

// UpdateBillSettlement writes the new outstanding amount and status within
// the transaction.
func (r *PgxBillRepository) UpdateBillSettlement(ctx context.Context, tx pgx.Tx, billID string, outstanding decimal.Decimal, status domain.BillStatus, actor string, now time.Time) error {
	query := `
		UPDATE bills
		SET outstanding = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE bill_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, billID, outstanding, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update settlement of bill %s: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
