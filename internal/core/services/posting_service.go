package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// postingService owns the journal entry lifecycle. All posting goes through
// it: lock, validate, fingerprint, commit exactly once.
type postingService struct {
	journalRepo  portsrepo.JournalRepositoryWithTx
	accountRepo  portsrepo.AccountRepositoryFacade
	periodRepo   portsrepo.PeriodRepositoryFacade
	tenantRepo   portsrepo.TenantRepositoryFacade
	snapshotRepo portsrepo.SnapshotRepositoryFacade
	auditRepo    portsrepo.AuditRepositoryFacade
}

// NewPostingService creates a new posting service.
func NewPostingService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	tenantRepo portsrepo.TenantRepositoryFacade,
	snapshotRepo portsrepo.SnapshotRepositoryFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		periodRepo:   periodRepo,
		tenantRepo:   tenantRepo,
		snapshotRepo: snapshotRepo,
		auditRepo:    auditRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// recordAudit persists an audit event. Audit failures are logged, never fatal:
// the financial write has already committed.
func (s *postingService) recordAudit(ctx context.Context, tenantID, actor, action, objectType, objectID string, changes map[string]string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("action", action), slog.String("object_id", objectID), slog.String("error", err.Error()))
	}
}

// validateAccountsForLines checks that every referenced account exists,
// belongs to the tenant, is active, and is a control account wherever a line
// carries a subsidiary document.
func validateAccountsForLines(tenantID string, lines []domain.JournalLine, accounts map[string]domain.Account) error {
	for _, line := range lines {
		acc, found := accounts[line.AccountID]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrInvalidReference, line.AccountID)
		}
		if acc.TenantID != tenantID {
			return fmt.Errorf("%w: account %s", apperrors.ErrTenantMismatch, line.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, line.AccountID)
		}
		if line.Document != nil && !acc.IsControlAccount {
			return fmt.Errorf("%w: line with document reference targets non-control account %s", apperrors.ErrValidation, line.AccountID)
		}
	}
	return nil
}

// CreateEntry persists a draft journal entry after validating its lines.
// Implements portssvc.PostingSvcFacade
func (s *postingService) CreateEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	if len(req.Lines) == 0 {
		return nil, apperrors.ErrEmptyEntry
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	domainLines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		currency := lineReq.CurrencyCode
		if currency == "" {
			currency = tenant.FunctionalCurrency
		}
		line := domain.JournalLine{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			TenantID:       tenantID,
			AccountID:      lineReq.AccountID,
			Description:    lineReq.Description,
			CurrencyCode:   currency,
			DebitOriginal:  lineReq.DebitOriginal,
			CreditOriginal: lineReq.CreditOriginal,
			FxRate:         lineReq.FxRate,
			Document:       lineReq.Document,
			AuditFields:    domain.NewAuditFields(actor, now),
		}
		if err := line.ValidateAmounts(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i, err.Error())
		}
		if err := line.ValidateFxRate(tenant.FunctionalCurrency); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i, err.Error())
		}
		line.ComputeLocalAmounts()
		domainLines[i] = line
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		logger.Error("Failed to fetch accounts for entry creation", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	if err := validateAccountsForLines(tenantID, domainLines, accountsMap); err != nil {
		return nil, err
	}

	periodID, err := s.resolvePeriodID(ctx, tenantID, req.PeriodID, req.EntryDate)
	if err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		PeriodID:    periodID,
		EntryDate:   req.EntryDate,
		Reference:   req.Reference,
		Description: req.Description,
		Status:      domain.EntryDraft,
		Source:      req.Source,
		Lines:       domainLines,
		AuditFields: domain.NewAuditFields(actor, now),
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, domainLines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", "JournalEntry", entryID, map[string]string{"status": string(domain.EntryDraft)})
	logger.Info("Journal entry created", slog.String("entry_id", entryID), slog.String("tenant_id", tenantID))
	return &entry, nil
}

// resolvePeriodID validates an explicit period or resolves the open period
// covering the entry date when none is given.
func (s *postingService) resolvePeriodID(ctx context.Context, tenantID, periodID string, date time.Time) (string, error) {
	if periodID == "" {
		period, err := s.periodRepo.ResolvePeriodForDate(ctx, tenantID, date)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", fmt.Errorf("%w: no open period covers %s", apperrors.ErrValidation, date.Format("2006-01-02"))
			}
			return "", fmt.Errorf("failed to resolve period: %w", err)
		}
		return period.PeriodID, nil
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return "", fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.TenantID != tenantID {
		return "", fmt.Errorf("%w: period %s", apperrors.ErrTenantMismatch, periodID)
	}
	if period.IsClosed {
		return "", fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}
	if !period.Contains(date) {
		return "", fmt.Errorf("%w: entry date %s outside period %s", apperrors.ErrValidation, date.Format("2006-01-02"), period.Name)
	}
	return periodID, nil
}

// GetEntry retrieves a journal entry with its lines.
// Implements portssvc.PostingSvcFacade
func (s *postingService) GetEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.TenantID != tenantID {
		// Obscure existence across tenants
		return nil, apperrors.ErrNotFound
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of journal entries.
// Implements portssvc.PostingSvcFacade
func (s *postingService) ListEntries(ctx context.Context, tenantID string, params dto.ListParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByTenant(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list entries", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}

// UpdateDraftEntry updates header fields of a draft entry.
// Implements portssvc.PostingSvcFacade
func (s *postingService) UpdateDraftEntry(ctx context.Context, tenantID string, entryID string, req dto.UpdateEntryRequest, actor string) (*domain.JournalEntry, error) {
	entry, err := s.GetEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrImmutableEntry, entryID)
	}
	if entry.Status != domain.EntryDraft {
		return nil, fmt.Errorf("%w: only draft entries are editable, entry %s is %s", apperrors.ErrValidation, entryID, entry.Status)
	}

	changes := make(map[string]string)
	if req.EntryDate != nil {
		changes["entryDate"] = req.EntryDate.Format("2006-01-02")
		entry.EntryDate = *req.EntryDate
	}
	if req.Reference != nil {
		changes["reference"] = *req.Reference
		entry.Reference = *req.Reference
	}
	if req.Description != nil {
		changes["description"] = *req.Description
		entry.Description = *req.Description
	}
	if req.PeriodID != nil {
		entry.PeriodID = *req.PeriodID
	}
	if len(changes) == 0 && req.PeriodID == nil {
		return entry, nil
	}

	// A moved date or period must still land in an open period.
	periodID, err := s.resolvePeriodID(ctx, tenantID, entry.PeriodID, entry.EntryDate)
	if err != nil {
		return nil, err
	}
	entry.PeriodID = periodID

	now := time.Now().UTC()
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor
	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to update entry %s: %w", entryID, err)
	}

	s.recordAudit(ctx, tenantID, actor, "update", "JournalEntry", entryID, changes)
	return entry, nil
}

// TransitionTo moves an entry along the allowed status edges. Moving to
// POSTED delegates to the full posting protocol.
// Implements portssvc.PostingSvcFacade
func (s *postingService) TransitionTo(ctx context.Context, tenantID string, entryID string, newStatus domain.EntryStatus, actor string) (*domain.JournalEntry, error) {
	if newStatus == domain.EntryPosted {
		return s.Post(ctx, tenantID, entryID, actor)
	}

	entry, err := s.GetEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrImmutableEntry, entryID)
	}
	if !domain.CanTransition(entry.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, entry.Status, newStatus)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, newStatus, actor, now); err != nil {
		return nil, fmt.Errorf("failed to update entry status: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "transition", "JournalEntry", entryID,
		map[string]string{"from": string(entry.Status), "to": string(newStatus)})
	entry.Status = newStatus
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor
	return entry, nil
}

// Post runs the posting protocol inside its own database transaction.
// Implements portssvc.PostingSvcFacade
func (s *postingService) Post(ctx context.Context, tenantID string, entryID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin posting transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.journalRepo.Rollback(ctx, tx)
	}()

	entry, err := s.PostInTx(ctx, tx, tenantID, entryID, actor)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit posting transaction", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to commit posting transaction: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "post", "JournalEntry", entryID,
		map[string]string{"fingerprint": entry.PostingFingerprint})
	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("tenant_id", tenantID))
	return entry, nil
}

// PostInTx runs the posting protocol against rows locked in the given
// transaction. The caller owns commit and rollback.
// Implements portssvc.PostingSvcFacade
func (s *postingService) PostInTx(ctx context.Context, tx pgx.Tx, tenantID string, entryID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Lock order: entry header first, then its lines.
	entry, err := s.journalRepo.FindEntryForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock entry %s: %w", entryID, err)
	}
	if entry.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.journalRepo.FindLinesForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lines of entry %s: %w", entryID, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrEmptyEntry, entryID)
	}
	entry.Lines = lines

	// Idempotent re-post: an unchanged payload is a successful no-op, a
	// changed one is a hard error. Posted entries never change.
	if entry.Status == domain.EntryPosted {
		if entry.Fingerprint() == entry.PostingFingerprint {
			logger.Info("Entry already posted with identical payload", slog.String("entry_id", entryID))
			return entry, nil
		}
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPostedDifferentPayload, entryID)
	}
	if !domain.CanTransition(entry.Status, domain.EntryPosted) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, entry.Status, domain.EntryPosted)
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant %s: %w", tenantID, err)
	}

	accountIDs := make([]string, 0, len(lines))
	for i := range lines {
		if lines[i].TenantID != entry.TenantID {
			return nil, fmt.Errorf("%w: line %s belongs to tenant %s", apperrors.ErrTenantMismatch, lines[i].LineID, lines[i].TenantID)
		}
		if err := lines[i].ValidateAmounts(); err != nil {
			return nil, fmt.Errorf("%w: line %s: %s", apperrors.ErrValidation, lines[i].LineID, err.Error())
		}
		if err := lines[i].ValidateFxRate(tenant.FunctionalCurrency); err != nil {
			return nil, fmt.Errorf("%w: line %s: %s", apperrors.ErrValidation, lines[i].LineID, err.Error())
		}
		lines[i].ComputeLocalAmounts()
		accountIDs = append(accountIDs, lines[i].AccountID)
	}

	debits, credits := entry.ComputeTotals()
	if !debits.Equal(credits) {
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	if err := validateAccountsForLines(tenantID, lines, accountsMap); err != nil {
		return nil, err
	}

	if err := s.checkPeriodOpenInTx(ctx, tx, tenantID, entry.PeriodID, entry.EntryDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fingerprint := entry.Fingerprint()
	if err := s.journalRepo.MarkEntryPosted(ctx, tx, entryID, fingerprint, actor, now); err != nil {
		return nil, fmt.Errorf("failed to mark entry posted: %w", err)
	}

	// Fold each line's local amounts into the per-day balance snapshots
	// within the same transaction, so balances never drift from the journal.
	for i := range lines {
		err := s.snapshotRepo.UpsertSnapshotDelta(ctx, tx, tenantID, lines[i].AccountID, entry.EntryDate,
			lines[i].DebitLocal, lines[i].CreditLocal, actor, now)
		if err != nil {
			return nil, fmt.Errorf("failed to update balance snapshot for account %s: %w", lines[i].AccountID, err)
		}
	}

	entry.Status = domain.EntryPosted
	entry.PostedAt = &now
	entry.PostedBy = actor
	entry.PostingFingerprint = fingerprint
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor
	for i := range entry.Lines {
		entry.Lines[i].IsPosted = true
	}
	return entry, nil
}

// checkPeriodOpenInTx verifies the entry's period inside the posting
// transaction: it must exist, belong to the tenant, be open, and contain the
// entry date.
func (s *postingService) checkPeriodOpenInTx(ctx context.Context, tx pgx.Tx, tenantID, periodID string, date time.Time) error {
	if periodID == "" {
		return fmt.Errorf("%w: entry has no accounting period", apperrors.ErrValidation)
	}
	period, err := s.periodRepo.FindPeriodByIDInTx(ctx, tx, periodID)
	if err != nil {
		return fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.TenantID != tenantID {
		return fmt.Errorf("%w: period %s", apperrors.ErrTenantMismatch, periodID)
	}
	if period.IsClosed {
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}
	if !period.Contains(date) {
		return fmt.Errorf("%w: entry date %s outside period %s", apperrors.ErrValidation, date.Format("2006-01-02"), period.Name)
	}
	return nil
}

// uniqueStrings returns the distinct values of the input, order-preserving.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
