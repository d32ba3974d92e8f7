package services

import (
	"context"
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
)

// WindowDecision is the outcome of an upload window check.
type WindowDecision struct {
	Allowed bool
	Reason  string
}

// UploadWindowSvc gates resident payment submissions by day of month.
type UploadWindowSvc interface {
	// CheckUploadWindow reports whether a submission at the given time is
	// allowed. Reads through a short-TTL cache.
	CheckUploadWindow(ctx context.Context, at time.Time) (WindowDecision, error)

	// GetUploadWindow returns the current configuration (cached).
	GetUploadWindow(ctx context.Context) (*domain.UploadWindowConfig, error)

	// UpdateUploadWindow persists a new configuration and synchronously
	// invalidates the cache.
	UpdateUploadWindow(ctx context.Context, req dto.UpdateUploadWindowRequest, adminID string) (*domain.UploadWindowConfig, error)
}

// ExcludedPeriodsSvc maintains the months for which approved payments must
// not generate income.
type ExcludedPeriodsSvc interface {
	// IsExcludedPeriod reports whether the month is flagged (cached).
	IsExcludedPeriod(ctx context.Context, period domain.MonthPeriod) (bool, error)

	// ListExcludedPeriods returns every flagged month.
	ListExcludedPeriods(ctx context.Context) ([]domain.ExcludedIncomePeriod, error)

	// AddExcludedPeriod flags a month and synchronously invalidates the cache.
	AddExcludedPeriod(ctx context.Context, req dto.CreateExcludedPeriodRequest, adminID string) (*domain.ExcludedIncomePeriod, error)

	// RemoveExcludedPeriod unflags a month and synchronously invalidates the cache.
	RemoveExcludedPeriod(ctx context.Context, excludedPeriodID string, adminID string) error
}

// SettingsSvcFacade combines the configuration collaborator interfaces.
type SettingsSvcFacade interface {
	UploadWindowSvc
	ExcludedPeriodsSvc
}
