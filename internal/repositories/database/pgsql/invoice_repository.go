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

const invoiceColumns = `invoice_id, tenant_id, customer_id, invoice_number, invoice_date, due_date, status, currency_code, total, outstanding, description, created_at, created_by, last_updated_at, last_updated_by`

const invoiceLineColumns = `line_id, invoice_id, tenant_id, description, quantity, unit_price, line_total, account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	pool *pgxpool.Pool
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{pool: pool}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var model models.Invoice
	err := row.Scan(
		&model.InvoiceID,
		&model.TenantID,
		&model.CustomerID,
		&model.InvoiceNumber,
		&model.InvoiceDate,
		&model.DueDate,
		&model.Status,
		&model.CurrencyCode,
		&model.Total,
		&model.Outstanding,
		&model.Description,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	invoice := mapping.ToDomainInvoice(model)
	return &invoice, nil
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	invoice, err := scanInvoice(r.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	lines, err := r.findLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines
	return invoice, nil
}

func (r *PgxInvoiceRepository) findLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	query := `SELECT ` + invoiceLineColumns + ` FROM invoice_lines WHERE invoice_id = $1 ORDER BY line_id;`

	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	lines := []domain.InvoiceLine{}
	for rows.Next() {
		var model models.InvoiceLine
		err := rows.Scan(
			&model.LineID,
			&model.InvoiceID,
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
			return nil, fmt.Errorf("failed to scan invoice line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainInvoiceLine(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice line rows: %w", err)
	}
	return lines, nil
}

// ListInvoices retrieves a paginated list of invoices, newest first.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := []any{tenantID, limit + 1}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1`

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
		return nil, nil, fmt.Errorf("failed to list invoices for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var newToken *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		token := pagination.EncodeDateBasedToken(invoices[len(invoices)-1].CreatedAt)
		newToken = &token
	}
	return invoices, newToken, nil
}

// SaveInvoice persists an invoice header and its lines atomically.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	model := mapping.ToModelInvoice(invoice)
	headerQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, headerQuery,
		model.InvoiceID,
		model.TenantID,
		model.CustomerID,
		model.InvoiceNumber,
		model.InvoiceDate,
		model.DueDate,
		model.Status,
		model.CurrencyCode,
		model.Total,
		model.Outstanding,
		model.Description,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, model.InvoiceNumber)
		}
		return fmt.Errorf("failed to save invoice %s: %w", model.InvoiceID, err)
	}

	lineQuery := `
		INSERT INTO invoice_lines (` + invoiceLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for i := range lines {
		lm := mapping.ToModelInvoiceLine(lines[i])
		batch.Queue(lineQuery,
			lm.LineID,
			lm.InvoiceID,
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
			batchErr = fmt.Errorf("failed to save invoice line %s: %w", lines[i].LineID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close invoice line batch: %w", err)
	}
	if batchErr != nil {
		return batchErr
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit invoice %s: %w", model.InvoiceID, err)
	}
	return nil
}

// UpdateInvoiceStatus moves an invoice between statuses.
func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, actor string, now time.Time) error {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, invoiceID, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteInvoice removes a draft invoice and its lines.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete lines of invoice %s: %w", invoiceID, err)
	}
	cmdTag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete of invoice %s: %w", invoiceID, err)
	}
	return nil
}

// FindInvoiceForUpdate selects an invoice header and locks its row. Lines are
// not loaded; settlement only touches the header.
func (r *PgxInvoiceRepository) FindInvoiceForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`

	invoice, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// UpdateInvoiceSettlement writes the new outstanding amount and status within
// the transaction.
func (r *PgxInvoiceRepository) UpdateInvoiceSettlement(ctx context.Context, tx pgx.Tx, invoiceID string, outstanding decimal.Decimal, status domain.InvoiceStatus, actor string, now time.Time) error {
	query := `
		UPDATE invoices
		SET outstanding = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, invoiceID, outstanding, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update settlement of invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
