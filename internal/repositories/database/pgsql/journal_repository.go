package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	"github.com/ledgerworks/books_backend/internal/models"
	"github.com/ledgerworks/books_backend/internal/utils/mapping"
	"github.com/ledgerworks/books_backend/internal/utils/pagination"
)

const entryColumns = `entry_id, tenant_id, period_id, entry_date, reference, description, status, posted_at, posted_by, source_type, source_id, posting_fingerprint, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, tenant_id, account_id, description, currency_code, debit_original, credit_original, fx_rate, debit_local, credit_local, document_type, document_id, is_posted, created_at, created_by, last_updated_at, last_updated_by`

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var model models.JournalEntry
	var periodID, postedBy, sourceType, sourceID, fingerprint sql.NullString

	err := row.Scan(
		&model.EntryID,
		&model.TenantID,
		&periodID,
		&model.EntryDate,
		&model.Reference,
		&model.Description,
		&model.Status,
		&model.PostedAt,
		&postedBy,
		&sourceType,
		&sourceID,
		&fingerprint,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	model.PeriodID = periodID.String
	model.PostedBy = postedBy.String
	model.SourceType = sourceType.String
	model.SourceID = sourceID.String
	model.PostingFingerprint = fingerprint.String

	entry := mapping.ToDomainJournalEntry(model)
	return &entry, nil
}

func scanLine(row pgx.Row) (*domain.JournalLine, error) {
	var model models.JournalLine
	var fxRate sql.NullString
	var docType, docID sql.NullString

	err := row.Scan(
		&model.LineID,
		&model.EntryID,
		&model.TenantID,
		&model.AccountID,
		&model.Description,
		&model.CurrencyCode,
		&model.DebitOriginal,
		&model.CreditOriginal,
		&fxRate,
		&model.DebitLocal,
		&model.CreditLocal,
		&docType,
		&docID,
		&model.IsPosted,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if fxRate.Valid {
		rate, err := decimal.NewFromString(fxRate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid fx_rate %q on line %s: %w", fxRate.String, model.LineID, err)
		}
		model.FxRate = &rate
	}
	model.DocumentType = docType.String
	model.DocumentID = docID.String

	line := mapping.ToDomainJournalLine(model)
	return &line, nil
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry ordered by line id.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`
	return r.queryLines(ctx, r.Pool, query, entryID)
}

func (r *PgxJournalRepository) queryLines(ctx context.Context, q querier, query string, args ...any) ([]domain.JournalLine, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return lines, nil
}

// ListEntriesByTenant retrieves a paginated list of entries ordered by entry
// date, newest first. The token encodes the (entry_date, created_at, entry_id)
// cursor; entry_id breaks ties between entries created in the same instant.
func (r *PgxJournalRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []any{tenantID, limit + 1}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, entryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (entry_date, created_at, entry_id) < ($3, $4, $5)`
		args = append(args, entryDate, createdAt, entryID)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
		newToken = &token
	}
	return entries, newToken, nil
}

// HasLinesForAccount reports whether any journal line references the account.
func (r *PgxJournalRepository) HasLinesForAccount(ctx context.Context, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check lines for account %s: %w", accountID, err)
	}
	return exists, nil
}

// FindPaymentEntry looks up a posted payment entry by its
// (transaction, document, amount) idempotency key.
func (r *PgxJournalRepository) FindPaymentEntry(ctx context.Context, tenantID string, transactionID string, doc domain.SourceRef, amount decimal.Decimal) (*domain.JournalEntry, error) {
	query := `
		SELECT e.entry_id, e.tenant_id, e.period_id, e.entry_date, e.reference, e.description, e.status, e.posted_at, e.posted_by, e.source_type, e.source_id, e.posting_fingerprint, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1
		  AND e.source_type = $2 AND e.source_id = $3
		  AND e.status = 'POSTED'
		  AND l.document_type = $4 AND l.document_id = $5
		  AND (l.debit_original = $6 OR l.credit_original = $6)
		LIMIT 1;
	`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query,
		tenantID, string(domain.SourceBankTransaction), transactionID, string(doc.Type), doc.ID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment entry for transaction %s: %w", transactionID, err)
	}
	return entry, nil
}

// FindEntriesBySource retrieves entries generated by the given document.
func (r *PgxJournalRepository) FindEntriesBySource(ctx context.Context, tenantID string, source domain.SourceRef) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND source_type = $2 AND source_id = $3
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, string(source.Type), source.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by source %s/%s: %w", source.Type, source.ID, err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

// SaveEntry persists a draft entry and its lines atomically.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveEntryInTx persists a draft entry and its lines within an existing
// transaction. Lines are inserted as one batch.
func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	model := mapping.ToModelJournalEntry(entry)

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, entryQuery,
		model.EntryID,
		model.TenantID,
		nullable(model.PeriodID),
		model.EntryDate,
		model.Reference,
		model.Description,
		model.Status,
		model.PostedAt,
		nullable(model.PostedBy),
		nullable(model.SourceType),
		nullable(model.SourceID),
		nullable(model.PostingFingerprint),
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, model.EntryID)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", model.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for i := range lines {
		lm := mapping.ToModelJournalLine(lines[i])
		var fxRate any
		if lm.FxRate != nil {
			fxRate = *lm.FxRate
		}
		batch.Queue(lineQuery,
			lm.LineID,
			lm.EntryID,
			lm.TenantID,
			lm.AccountID,
			lm.Description,
			lm.CurrencyCode,
			lm.DebitOriginal,
			lm.CreditOriginal,
			fxRate,
			lm.DebitLocal,
			lm.CreditLocal,
			nullable(lm.DocumentType),
			nullable(lm.DocumentID),
			lm.IsPosted,
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
			batchErr = fmt.Errorf("failed to save journal line %s: %w", lines[i].LineID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close journal line batch: %w", err)
	}
	return batchErr
}

// UpdateEntryStatus moves an entry between non-posted statuses.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, actor string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status <> 'POSTED';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), now, actor)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateDraftEntry updates header fields of a draft entry.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	model := mapping.ToModelJournalEntry(entry)

	query := `
		UPDATE journal_entries
		SET entry_date = $2, reference = $3, description = $4, period_id = $5, last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.EntryID,
		model.EntryDate,
		model.Reference,
		model.Description,
		nullable(model.PeriodID),
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft entry %s: %w", model.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindEntryForUpdate selects an entry header and locks its row.
func (r *PgxJournalRepository) FindEntryForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`

	entry, err := scanEntry(tx.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// FindLinesForUpdate selects all of the entry's lines and locks them.
func (r *PgxJournalRepository) FindLinesForUpdate(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id FOR UPDATE;`
	return r.queryLines(ctx, tx, query, entryID)
}

// MarkEntryPosted stamps the posted state on the header and every line.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entryID string, fingerprint string, actor string, postedAt time.Time) error {
	entryQuery := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, posted_by = $3, posting_fingerprint = $4, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status <> 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, entryQuery, entryID, postedAt, actor, fingerprint)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is already posted", apperrors.ErrImmutableEntry, entryID)
	}

	lineQuery := `
		UPDATE journal_lines
		SET is_posted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, lineQuery, entryID, postedAt, actor); err != nil {
		return fmt.Errorf("failed to mark lines of entry %s posted: %w", entryID, err)
	}
	return nil
}

// nullable converts an empty string to a SQL NULL.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
