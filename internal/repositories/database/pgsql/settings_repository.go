package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	"github.com/griyakita/ipl_ledger_app/internal/models"
	"github.com/griyakita/ipl_ledger_app/internal/utils/mapping"
)

// uploadWindowConfigID is the primary key of the singleton window row.
const uploadWindowConfigID = "default"

type PgxSettingsRepository struct {
	BaseRepository
}

// newPgxSettingsRepository creates a new repository for administrative configuration.
func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepositoryFacade {
	return &PgxSettingsRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SettingsRepositoryFacade = (*PgxSettingsRepository)(nil)

// GetUploadWindowConfig retrieves the single upload window row.
func (r *PgxSettingsRepository) GetUploadWindowConfig(ctx context.Context) (*domain.UploadWindowConfig, error) {
	query := `
		SELECT enabled, start_day, end_day, created_at, created_by, last_updated_at, last_updated_by
		FROM upload_window_config
		WHERE config_id = $1;
	`
	var m models.UploadWindowConfig
	err := r.Pool.QueryRow(ctx, query, uploadWindowConfigID).Scan(
		&m.Enabled,
		&m.StartDay,
		&m.EndDay,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load upload window config", err)
	}

	cfg := mapping.ToDomainUploadWindowConfig(m)
	return &cfg, nil
}

// SaveUploadWindowConfig upserts the single upload window row.
func (r *PgxSettingsRepository) SaveUploadWindowConfig(ctx context.Context, cfg domain.UploadWindowConfig) error {
	m := mapping.ToModelUploadWindowConfig(cfg)
	query := `
		INSERT INTO upload_window_config (config_id, enabled, start_day, end_day, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (config_id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    start_day = EXCLUDED.start_day,
		    end_day = EXCLUDED.end_day,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		uploadWindowConfigID,
		m.Enabled,
		m.StartDay,
		m.EndDay,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save upload window config", err)
	}
	return nil
}

// ListExcludedIncomePeriods retrieves every excluded period.
func (r *PgxSettingsRepository) ListExcludedIncomePeriods(ctx context.Context) ([]domain.ExcludedIncomePeriod, error) {
	query := `
		SELECT excluded_period_id, year, month, reason, created_at, created_by, last_updated_at, last_updated_by
		FROM excluded_income_periods
		ORDER BY year, month;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query excluded income periods", err)
	}
	defer rows.Close()

	periods := []domain.ExcludedIncomePeriod{}
	for rows.Next() {
		var m models.ExcludedIncomePeriod
		err := rows.Scan(
			&m.ExcludedPeriodID,
			&m.Year,
			&m.Month,
			&m.Reason,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan excluded period row", err)
		}
		periods = append(periods, mapping.ToDomainExcludedIncomePeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating excluded period rows", err)
	}

	return periods, nil
}

// SaveExcludedIncomePeriod persists a new excluded period.
func (r *PgxSettingsRepository) SaveExcludedIncomePeriod(ctx context.Context, period domain.ExcludedIncomePeriod) error {
	m := mapping.ToModelExcludedIncomePeriod(period)
	query := `
		INSERT INTO excluded_income_periods (excluded_period_id, year, month, reason, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExcludedPeriodID,
		m.Year,
		m.Month,
		m.Reason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on (year, month)
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert excluded period "+m.ExcludedPeriodID, err)
	}
	return nil
}

// DeleteExcludedIncomePeriod removes an excluded period.
func (r *PgxSettingsRepository) DeleteExcludedIncomePeriod(ctx context.Context, excludedPeriodID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM excluded_income_periods WHERE excluded_period_id = $1;`, excludedPeriodID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete excluded period "+excludedPeriodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
