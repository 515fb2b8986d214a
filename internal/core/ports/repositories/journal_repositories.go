package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry, ordered by line id.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntriesByTenant retrieves a paginated list of entries using token-based pagination.
	ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// HasLinesForAccount reports whether any journal line references the account.
	HasLinesForAccount(ctx context.Context, accountID string) (bool, error)

	// FindPaymentEntry looks up an existing payment entry for the
	// (transaction, document, amount) idempotency key. Returns ErrNotFound
	// when no such entry exists.
	FindPaymentEntry(ctx context.Context, tenantID string, transactionID string, doc domain.SourceRef, amount decimal.Decimal) (*domain.JournalEntry, error)

	// FindEntriesBySource retrieves entries generated by the given subsidiary document.
	FindEntriesBySource(ctx context.Context, tenantID string, source domain.SourceRef) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data.
type JournalWriter interface {
	// SaveEntry persists a draft entry and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// SaveEntryInTx persists a draft entry and its lines within an existing transaction.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryStatus moves an entry between non-posted statuses.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, actor string, now time.Time) error

	// UpdateDraftEntry updates header fields of a draft entry.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalTransactionSupport defines the locked, tx-scoped operations the
// posting protocol is built on. Lock order is always header first, then lines.
type JournalTransactionSupport interface {
	// FindEntryForUpdate selects an entry header and locks its row.
	FindEntryForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error)

	// FindLinesForUpdate selects all of the entry's lines (ordered by line id) and locks them.
	FindLinesForUpdate(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error)

	// MarkEntryPosted stamps the posted state: status, posted_at, poster,
	// fingerprint, and is_posted on every line, all within the transaction.
	MarkEntryPosted(ctx context.Context, tx pgx.Tx, entryID string, fingerprint string, actor string, postedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
