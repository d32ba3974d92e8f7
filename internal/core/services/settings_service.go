package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
	"github.com/griyakita/ipl_ledger_app/internal/utils/cache"
)

var (
	ErrWindowDayRange = errors.New("window start day must not be after end day")
)

// settingsService maintains the upload window and excluded income period
// policies. Both are read on hot paths and change rarely, so each sits behind
// its own short-TTL cache; administrative writes invalidate synchronously.
type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade

	windowCache   *cache.Value[domain.UploadWindowConfig]
	excludedCache *cache.Value[map[domain.MonthPeriod]struct{}]
}

// NewSettingsService creates a new settings service with the given cache TTL.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade, cacheTTL time.Duration) portssvc.SettingsSvcFacade {
	return &settingsService{
		settingsRepo:  settingsRepo,
		windowCache:   cache.NewValue[domain.UploadWindowConfig](cacheTTL),
		excludedCache: cache.NewValue[map[domain.MonthPeriod]struct{}](cacheTTL),
	}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetUploadWindow returns the current configuration, reading through the cache.
// A missing row means the window was never configured, which is treated as
// disabled (submissions always allowed).
func (s *settingsService) GetUploadWindow(ctx context.Context) (*domain.UploadWindowConfig, error) {
	if cfg, ok := s.windowCache.Get(); ok {
		return &cfg, nil
	}

	cfg, err := s.settingsRepo.GetUploadWindowConfig(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			cfg = &domain.UploadWindowConfig{Enabled: false}
		} else {
			return nil, err
		}
	}

	s.windowCache.Set(*cfg)
	return cfg, nil
}

// CheckUploadWindow reports whether a submission at the given time is allowed.
func (s *settingsService) CheckUploadWindow(ctx context.Context, at time.Time) (portssvc.WindowDecision, error) {
	cfg, err := s.GetUploadWindow(ctx)
	if err != nil {
		return portssvc.WindowDecision{}, err
	}

	if !cfg.Enabled {
		return portssvc.WindowDecision{Allowed: true}, nil
	}

	day := at.Day()
	if day < cfg.StartDay || day > cfg.EndDay {
		return portssvc.WindowDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("submissions are only accepted between day %d and day %d of the month", cfg.StartDay, cfg.EndDay),
		}, nil
	}
	return portssvc.WindowDecision{Allowed: true}, nil
}

// UpdateUploadWindow persists a new configuration and synchronously
// invalidates the cache so stale policy is never served past the write.
func (s *settingsService) UpdateUploadWindow(ctx context.Context, req dto.UpdateUploadWindowRequest, adminID string) (*domain.UploadWindowConfig, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.StartDay > req.EndDay {
		return nil, fmt.Errorf("%w: %d > %d", ErrWindowDayRange, req.StartDay, req.EndDay)
	}

	now := time.Now().UTC()
	cfg := domain.UploadWindowConfig{
		Enabled:  req.Enabled,
		StartDay: req.StartDay,
		EndDay:   req.EndDay,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}

	if err := s.settingsRepo.SaveUploadWindowConfig(ctx, cfg); err != nil {
		logger.Error("Failed to save upload window config", slog.String("error", err.Error()))
		return nil, err
	}
	s.windowCache.Invalidate()

	logger.Info("Upload window updated",
		slog.Bool("enabled", cfg.Enabled),
		slog.Int("start_day", cfg.StartDay),
		slog.Int("end_day", cfg.EndDay),
	)
	return &cfg, nil
}

// loadExcludedSet fetches the excluded periods as a lookup set, through the cache.
func (s *settingsService) loadExcludedSet(ctx context.Context) (map[domain.MonthPeriod]struct{}, error) {
	if set, ok := s.excludedCache.Get(); ok {
		return set, nil
	}

	periods, err := s.settingsRepo.ListExcludedIncomePeriods(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[domain.MonthPeriod]struct{}, len(periods))
	for _, p := range periods {
		set[domain.MonthPeriod{Year: p.Year, Month: p.Month}] = struct{}{}
	}
	s.excludedCache.Set(set)
	return set, nil
}

// IsExcludedPeriod reports whether the month is flagged to suppress income derivation.
func (s *settingsService) IsExcludedPeriod(ctx context.Context, period domain.MonthPeriod) (bool, error) {
	set, err := s.loadExcludedSet(ctx)
	if err != nil {
		return false, err
	}
	_, excluded := set[period]
	return excluded, nil
}

// ListExcludedPeriods returns every flagged month.
func (s *settingsService) ListExcludedPeriods(ctx context.Context) ([]domain.ExcludedIncomePeriod, error) {
	return s.settingsRepo.ListExcludedIncomePeriods(ctx)
}

// AddExcludedPeriod flags a month and synchronously invalidates the cache.
func (s *settingsService) AddExcludedPeriod(ctx context.Context, req dto.CreateExcludedPeriodRequest, adminID string) (*domain.ExcludedIncomePeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	period := domain.ExcludedIncomePeriod{
		ExcludedPeriodID: uuid.NewString(),
		Year:             req.Year,
		Month:            req.Month,
		Reason:           req.Reason,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}

	if err := s.settingsRepo.SaveExcludedIncomePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError(fmt.Sprintf("period %04d-%02d is already excluded", req.Year, req.Month))
		}
		logger.Error("Failed to save excluded period", slog.String("error", err.Error()))
		return nil, err
	}
	s.excludedCache.Invalidate()

	logger.Info("Excluded income period added", slog.Int("year", period.Year), slog.Int("month", period.Month))
	return &period, nil
}

// RemoveExcludedPeriod unflags a month and synchronously invalidates the cache.
func (s *settingsService) RemoveExcludedPeriod(ctx context.Context, excludedPeriodID string, adminID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.settingsRepo.DeleteExcludedIncomePeriod(ctx, excludedPeriodID); err != nil {
		return err
	}
	s.excludedCache.Invalidate()

	logger.Info("Excluded income period removed", slog.String("excluded_period_id", excludedPeriodID), slog.String("removed_by", adminID))
	return nil
}
