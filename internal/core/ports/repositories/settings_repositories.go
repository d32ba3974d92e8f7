package repositories

import (
	"context"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
)

// SettingsReader defines read operations for administrative configuration.
type SettingsReader interface {
	// GetUploadWindowConfig retrieves the single upload window row.
	GetUploadWindowConfig(ctx context.Context) (*domain.UploadWindowConfig, error)

	// ListExcludedIncomePeriods retrieves every excluded period.
	ListExcludedIncomePeriods(ctx context.Context) ([]domain.ExcludedIncomePeriod, error)
}

// SettingsWriter defines write operations for administrative configuration.
type SettingsWriter interface {
	// SaveUploadWindowConfig upserts the single upload window row.
	SaveUploadWindowConfig(ctx context.Context, cfg domain.UploadWindowConfig) error

	// SaveExcludedIncomePeriod persists a new excluded period.
	SaveExcludedIncomePeriod(ctx context.Context, period domain.ExcludedIncomePeriod) error

	// DeleteExcludedIncomePeriod removes an excluded period.
	DeleteExcludedIncomePeriod(ctx context.Context, excludedPeriodID string) error
}

// SettingsRepositoryFacade combines the configuration repository interfaces.
type SettingsRepositoryFacade interface {
	SettingsReader
	SettingsWriter
}
