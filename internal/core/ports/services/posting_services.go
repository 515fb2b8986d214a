package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	"github.com/ledgerworks/books_backend/internal/dto"
)

// PostingSvcFacade is the journal posting state machine: the only way an
// entry reaches the posted state.
type PostingSvcFacade interface {
	// CreateEntry persists a draft journal entry with its lines after
	// validating tenant consistency, amounts, and currency conversion.
	CreateEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, actor string) (*domain.JournalEntry, error)

	// GetEntry retrieves an entry and its lines.
	GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a tenant.
	ListEntries(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListEntriesResponse, error)

	// UpdateDraftEntry updates header fields of a draft entry. Posted entries
	// are immutable; there is no override path.
	UpdateDraftEntry(ctx context.Context, tenantID string, entryID string, req dto.UpdateEntryRequest, actor string) (*domain.JournalEntry, error)

	// Post runs the posting protocol: lock, validate, fingerprint, commit
	// exactly once. Re-posting an unchanged entry is a successful no-op.
	Post(ctx context.Context, tenantID string, entryID string, actor string) (*domain.JournalEntry, error)

	// PostInTx runs the posting protocol inside an existing transaction.
	// Document workflows use it so draft assembly and posting commit together.
	PostInTx(ctx context.Context, tx pgx.Tx, tenantID string, entryID string, actor string) (*domain.JournalEntry, error)

	// TransitionTo moves an entry along the draft -> ready -> posted edges.
	// Requesting posted delegates to Post.
	TransitionTo(ctx context.Context, tenantID string, entryID string, newStatus domain.EntryStatus, actor string) (*domain.JournalEntry, error)
}
