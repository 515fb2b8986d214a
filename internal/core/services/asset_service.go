package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerworks/books_backend/internal/apperrors"
	"github.com/ledgerworks/books_backend/internal/core/domain"
	portsrepo "github.com/ledgerworks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerworks/books_backend/internal/core/ports/services"
	"github.com/ledgerworks/books_backend/internal/dto"
	"github.com/ledgerworks/books_backend/internal/middleware"
)

// Chart codes resolved for depreciation postings.
const (
	depreciationExpenseCode     = "6000"
	accumulatedDepreciationCode = "1500"
)

// assetService manages fixed assets: registration, capitalization, and
// straight-line depreciation runs.
type assetService struct {
	assetRepo   portsrepo.AssetRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	partyRepo   portsrepo.PartyRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	postingSvc  portssvc.PostingSvcFacade
	auditRepo   portsrepo.AuditRepositoryFacade
}

// NewAssetService creates a new fixed asset service.
func NewAssetService(
	assetRepo portsrepo.AssetRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	postingSvc portssvc.PostingSvcFacade,
	auditRepo portsrepo.AuditRepositoryFacade,
) portssvc.AssetSvcFacade {
	return &assetService{
		assetRepo:   assetRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		partyRepo:   partyRepo,
		periodRepo:  periodRepo,
		postingSvc:  postingSvc,
		auditRepo:   auditRepo,
	}
}

var _ portssvc.AssetSvcFacade = (*assetService)(nil)

func (s *assetService) recordAudit(ctx context.Context, tenantID, actor, action, assetID string, changes map[string]string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: "FixedAsset",
		ObjectID:   assetID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("asset_id", assetID), slog.String("error", err.Error()))
	}
}

// CreateAsset persists a new fixed asset in draft state.
// Implements portssvc.AssetSvcFacade
func (s *assetService) CreateAsset(ctx context.Context, tenantID string, req dto.CreateAssetRequest, actor string) (*domain.FixedAsset, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PurchaseCost.IsPositive() {
		return nil, fmt.Errorf("%w: purchase cost must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrInvalidReference, req.AccountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if account.TenantID != tenantID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrTenantMismatch, req.AccountID)
	}
	if account.AccountType != domain.Asset {
		return nil, fmt.Errorf("%w: account %s is %s, expected %s", apperrors.ErrValidation, req.AccountID, account.AccountType, domain.Asset)
	}

	if req.VendorID != "" {
		vendor, err := s.partyRepo.FindVendorByID(ctx, req.VendorID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: vendor %s", apperrors.ErrInvalidReference, req.VendorID)
			}
			return nil, fmt.Errorf("failed to find vendor %s: %w", req.VendorID, err)
		}
		if vendor.TenantID != tenantID {
			return nil, fmt.Errorf("%w: vendor %s", apperrors.ErrTenantMismatch, req.VendorID)
		}
	}

	now := time.Now().UTC()
	asset := domain.FixedAsset{
		AssetID:            uuid.NewString(),
		TenantID:           tenantID,
		AssetCode:          req.AssetCode,
		Description:        req.Description,
		PurchaseDate:       req.PurchaseDate,
		PurchaseCost:       req.PurchaseCost,
		AccountID:          req.AccountID,
		VendorID:           req.VendorID,
		Status:             domain.AssetDraft,
		UsefulLifeYears:    req.UsefulLifeYears,
		DepreciationMethod: domain.StraightLine,
		AuditFields:        domain.NewAuditFields(actor, now),
	}

	if err := s.assetRepo.SaveAsset(ctx, asset); err != nil {
		logger.Error("Failed to save fixed asset", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save fixed asset: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", asset.AssetID, map[string]string{"assetCode": req.AssetCode})
	logger.Info("Fixed asset created", slog.String("asset_id", asset.AssetID), slog.String("tenant_id", tenantID))
	return &asset, nil
}

// GetAsset retrieves a fixed asset.
// Implements portssvc.AssetSvcFacade
func (s *assetService) GetAsset(ctx context.Context, tenantID string, assetID string) (*domain.FixedAsset, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to find asset %s: %w", assetID, err)
	}
	if asset.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return asset, nil
}

// Capitalize posts the purchase entry (debit the asset account, credit the
// vendor's payables control) and moves the asset draft -> capitalized.
// Re-running against a capitalized asset returns the original entry.
// Implements portssvc.AssetSvcFacade
func (s *assetService) Capitalize(ctx context.Context, tenantID string, assetID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	asset, err := s.GetAsset(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}

	source := domain.SourceRef{Type: domain.SourceFixedAsset, ID: assetID}
	if asset.Status == domain.AssetCapitalized {
		entries, err := s.journalRepo.FindEntriesBySource(ctx, tenantID, source)
		if err != nil {
			return nil, fmt.Errorf("failed to find capitalization entry: %w", err)
		}
		for i := range entries {
			if entries[i].Status == domain.EntryPosted {
				return &entries[i], nil
			}
		}
		return nil, fmt.Errorf("%w: asset %s is capitalized but has no posted entry", apperrors.ErrInternal, assetID)
	}
	if asset.Status != domain.AssetDraft {
		return nil, fmt.Errorf("%w: asset %s -> %s", apperrors.ErrInvalidTransition, asset.Status, domain.AssetCapitalized)
	}

	creditAccountID, err := s.capitalizationCreditAccountID(ctx, tenantID, asset.VendorID)
	if err != nil {
		return nil, err
	}

	entryDate := time.Now().UTC()
	if asset.PurchaseDate != nil {
		entryDate = *asset.PurchaseDate
	}
	period, err := s.periodRepo.ResolvePeriodForDate(ctx, tenantID, entryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period covers %s", apperrors.ErrValidation, entryDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve period: %w", err)
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.journalRepo.Rollback(ctx, tx)
	}()

	locked, err := s.assetRepo.FindAssetForUpdate(ctx, tx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset %s: %w", assetID, err)
	}
	if locked.Status != domain.AssetDraft {
		return nil, fmt.Errorf("%w: asset %s -> %s", apperrors.ErrInvalidTransition, locked.Status, domain.AssetCapitalized)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.NewAuditFields(actor, now)
	lines := []domain.JournalLine{
		{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			TenantID:      tenantID,
			AccountID:     asset.AccountID,
			Description:   fmt.Sprintf("Capitalization of %s", asset.AssetCode),
			DebitOriginal: asset.PurchaseCost,
			AuditFields:   audit,
		},
		{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			TenantID:       tenantID,
			AccountID:      creditAccountID,
			Description:    fmt.Sprintf("Purchase of %s", asset.AssetCode),
			CreditOriginal: asset.PurchaseCost,
			AuditFields:    audit,
		},
	}
	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		PeriodID:    period.PeriodID,
		EntryDate:   entryDate,
		Description: fmt.Sprintf("Capitalization of fixed asset %s", asset.AssetCode),
		Status:      domain.EntryDraft,
		Source:      &source,
		Lines:       lines,
		AuditFields: audit,
	}
	for i := range entry.Lines {
		entry.Lines[i].ComputeLocalAmounts()
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		return nil, fmt.Errorf("failed to save capitalization entry: %w", err)
	}
	posted, err := s.postingSvc.PostInTx(ctx, tx, tenantID, entryID, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to post capitalization entry: %w", err)
	}

	if err := s.assetRepo.UpdateAssetDepreciation(ctx, tx, assetID, asset.AccumulatedDepreciation, domain.AssetCapitalized, actor, now); err != nil {
		return nil, fmt.Errorf("failed to capitalize asset: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit capitalization: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "capitalize", assetID, map[string]string{"entryID": entryID})
	logger.Info("Fixed asset capitalized", slog.String("asset_id", assetID), slog.String("entry_id", entryID))
	return posted, nil
}

// capitalizationCreditAccountID resolves the credit side of a capitalization:
// the vendor's payables control when the purchase came from a vendor, the
// standard payables control otherwise.
func (s *assetService) capitalizationCreditAccountID(ctx context.Context, tenantID, vendorID string) (string, error) {
	if vendorID != "" {
		vendor, err := s.partyRepo.FindVendorByID(ctx, vendorID)
		if err != nil {
			return "", fmt.Errorf("failed to find vendor %s: %w", vendorID, err)
		}
		if vendor.DefaultAPAccountID != "" {
			return vendor.DefaultAPAccountID, nil
		}
	}
	account, err := s.accountRepo.FindControlAccountByCodePrefix(ctx, tenantID, apControlCodePrefix)
	if err != nil {
		return "", fmt.Errorf("%w: no payables control account configured", apperrors.ErrValidation)
	}
	return account.AccountID, nil
}

// Depreciate records one period's straight-line charge: debit depreciation
// expense, credit accumulated depreciation, capped at the asset's remaining
// book value. The first run on a draft asset moves it to capitalized.
// Implements portssvc.AssetSvcFacade
func (s *assetService) Depreciate(ctx context.Context, tenantID string, assetID string, periodID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.TenantID != tenantID {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrTenantMismatch, periodID)
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}

	expenseAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, depreciationExpenseCode)
	if err != nil {
		return nil, fmt.Errorf("%w: no depreciation expense account at code %s", apperrors.ErrValidation, depreciationExpenseCode)
	}
	accumAccount, err := s.accountRepo.FindAccountByCode(ctx, tenantID, accumulatedDepreciationCode)
	if err != nil {
		return nil, fmt.Errorf("%w: no accumulated depreciation account at code %s", apperrors.ErrValidation, accumulatedDepreciationCode)
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.journalRepo.Rollback(ctx, tx)
	}()

	asset, err := s.assetRepo.FindAssetForUpdate(ctx, tx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset %s: %w", assetID, err)
	}
	if asset.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	if asset.Status == domain.AssetDisposed {
		return nil, fmt.Errorf("%w: asset %s is %s", apperrors.ErrValidation, assetID, asset.Status)
	}

	charge := asset.PeriodCharge()
	if charge.IsZero() {
		return nil, fmt.Errorf("%w: asset %s", apperrors.ErrAlreadyFullyDepreciated, assetID)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.NewAuditFields(actor, now)
	source := domain.SourceRef{Type: domain.SourceFixedAsset, ID: assetID}
	lines := []domain.JournalLine{
		{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			TenantID:      tenantID,
			AccountID:     expenseAccount.AccountID,
			Description:   fmt.Sprintf("Depreciation of %s for %s", asset.AssetCode, period.Name),
			DebitOriginal: charge,
			AuditFields:   audit,
		},
		{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			TenantID:       tenantID,
			AccountID:      accumAccount.AccountID,
			Description:    fmt.Sprintf("Accumulated depreciation of %s", asset.AssetCode),
			CreditOriginal: charge,
			AuditFields:    audit,
		},
	}
	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		PeriodID:    periodID,
		EntryDate:   period.EndDate,
		Description: fmt.Sprintf("Depreciation of fixed asset %s for %s", asset.AssetCode, period.Name),
		Status:      domain.EntryDraft,
		Source:      &source,
		Lines:       lines,
		AuditFields: audit,
	}
	for i := range entry.Lines {
		entry.Lines[i].ComputeLocalAmounts()
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		return nil, fmt.Errorf("failed to save depreciation entry: %w", err)
	}
	posted, err := s.postingSvc.PostInTx(ctx, tx, tenantID, entryID, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to post depreciation entry: %w", err)
	}

	newAccumulated := asset.AccumulatedDepreciation.Add(charge)
	newStatus := asset.Status
	if newStatus == domain.AssetDraft {
		newStatus = domain.AssetCapitalized
	}
	if err := s.assetRepo.UpdateAssetDepreciation(ctx, tx, assetID, newAccumulated, newStatus, actor, now); err != nil {
		return nil, fmt.Errorf("failed to update asset depreciation: %w", err)
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit depreciation: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "depreciate", assetID, map[string]string{
		"entryID": entryID,
		"charge":  charge.String(),
	})
	logger.Info("Depreciation recorded",
		slog.String("asset_id", assetID),
		slog.String("period_id", periodID),
		slog.String("charge", charge.String()))
	return posted, nil
}
