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

// periodService manages accounting periods.
type periodService struct {
	periodRepo portsrepo.PeriodRepositoryFacade
	auditRepo  portsrepo.AuditRepositoryFacade
}

// NewPeriodService creates a new period service.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo: periodRepo,
		auditRepo:  auditRepo,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) recordAudit(ctx context.Context, tenantID, actor, action, periodID string, changes map[string]string) {
	event := domain.AuditEvent{
		EventID:    uuid.NewString(),
		TenantID:   tenantID,
		Actor:      actor,
		Action:     action,
		ObjectType: "Period",
		ObjectID:   periodID,
		Changes:    changes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.auditRepo.SaveEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to save audit event",
			slog.String("period_id", periodID), slog.String("error", err.Error()))
	}
}

// CreatePeriod persists a new period after checking it does not overlap an
// existing one for the tenant.
// Implements portssvc.PeriodSvcFacade
func (s *periodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, actor string) (*domain.Period, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	existing, err := s.periodRepo.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	for _, p := range existing {
		if p.Name == req.Name {
			return nil, fmt.Errorf("%w: period %s already exists", apperrors.ErrDuplicate, req.Name)
		}
		if !req.EndDate.Before(p.StartDate) && !req.StartDate.After(p.EndDate) {
			return nil, fmt.Errorf("%w: period overlaps %s", apperrors.ErrValidation, p.Name)
		}
	}

	now := time.Now().UTC()
	period := domain.Period{
		PeriodID:    uuid.NewString(),
		TenantID:    tenantID,
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsClosed:    false,
		AuditFields: domain.NewAuditFields(actor, now),
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	s.recordAudit(ctx, tenantID, actor, "create", period.PeriodID, map[string]string{"name": req.Name})
	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", req.Name))
	return &period, nil
}

// ListPeriods retrieves all periods for a tenant.
// Implements portssvc.PeriodSvcFacade
func (s *periodService) ListPeriods(ctx context.Context, tenantID string) ([]domain.Period, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ResolvePeriod finds the open period covering a date.
// Implements portssvc.PeriodSvcFacade
func (s *periodService) ResolvePeriod(ctx context.Context, tenantID string, date time.Time) (*domain.Period, error) {
	period, err := s.periodRepo.ResolvePeriodForDate(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open period covers %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve period: %w", err)
	}
	return period, nil
}

// ClosePeriod marks a period closed. Closed periods refuse any further
// postings; there is no reopen.
// Implements portssvc.PeriodSvcFacade
func (s *periodService) ClosePeriod(ctx context.Context, tenantID string, periodID string, actor string) (*domain.Period, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	if period.IsClosed {
		return period, nil
	}

	now := time.Now().UTC()
	if err := s.periodRepo.ClosePeriod(ctx, periodID, actor, now); err != nil {
		return nil, fmt.Errorf("failed to close period %s: %w", periodID, err)
	}

	period.IsClosed = true
	period.LastUpdatedAt = now
	period.LastUpdatedBy = actor
	s.recordAudit(ctx, tenantID, actor, "close", periodID, nil)
	return period, nil
}
