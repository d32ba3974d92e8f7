package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	"github.com/griyakita/ipl_ledger_app/internal/models"
	"github.com/griyakita/ipl_ledger_app/internal/utils/mapping"
)

type PgxHouseRepository struct {
	BaseRepository
}

// newPgxHouseRepository creates a new repository for house and house type data.
func newPgxHouseRepository(pool *pgxpool.Pool) portsrepo.HouseRepositoryFacade {
	return &PgxHouseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.HouseRepositoryFacade = (*PgxHouseRepository)(nil)

// houseColumns joins the type's monthly rate in, so amount computations never
// need a second round trip.
const houseColumns = `h.house_id, h.code, h.house_type_id, h.resident_id, ht.monthly_rate,
       h.created_at, h.created_by, h.last_updated_at, h.last_updated_by`

// SaveHouse persists a new house.
func (r *PgxHouseRepository) SaveHouse(ctx context.Context, house domain.House) error {
	modelHouse := mapping.ToModelHouse(house)
	query := `
		INSERT INTO houses (house_id, code, house_type_id, resident_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelHouse.HouseID,
		modelHouse.Code,
		modelHouse.HouseTypeID,
		modelHouse.ResidentID,
		modelHouse.CreatedAt,
		modelHouse.CreatedBy,
		modelHouse.LastUpdatedAt,
		modelHouse.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on code
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert house "+modelHouse.HouseID, err)
	}
	return nil
}

// AssignResident sets or clears the occupying resident of a house.
func (r *PgxHouseRepository) AssignResident(ctx context.Context, houseID string, residentID *string, updatedBy string) error {
	query := `
		UPDATE houses SET resident_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE house_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, houseID, residentID, time.Now(), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to assign resident for house "+houseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindHouseByID retrieves a house with its monthly rate joined in.
func (r *PgxHouseRepository) FindHouseByID(ctx context.Context, houseID string) (*domain.House, error) {
	query := `
		SELECT ` + houseColumns + `
		FROM houses h
		JOIN house_types ht ON ht.house_type_id = h.house_type_id
		WHERE h.house_id = $1;
	`
	modelHouse, err := scanHouse(r.Pool.QueryRow(ctx, query, houseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find house by ID "+houseID, err)
	}

	domainHouse := mapping.ToDomainHouse(modelHouse)
	return &domainHouse, nil
}

// FindHousesByIDs retrieves multiple houses keyed by ID.
func (r *PgxHouseRepository) FindHousesByIDs(ctx context.Context, houseIDs []string) (map[string]domain.House, error) {
	if len(houseIDs) == 0 {
		return map[string]domain.House{}, nil
	}
	query := `
		SELECT ` + houseColumns + `
		FROM houses h
		JOIN house_types ht ON ht.house_type_id = h.house_type_id
		WHERE h.house_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, houseIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query houses by IDs", err)
	}
	defer rows.Close()

	houses := make(map[string]domain.House, len(houseIDs))
	for rows.Next() {
		modelHouse, err := scanHouse(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan house row", err)
		}
		houses[modelHouse.HouseID] = mapping.ToDomainHouse(modelHouse)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating house rows", err)
	}

	return houses, nil
}

// ListHouses retrieves all houses ordered by code.
func (r *PgxHouseRepository) ListHouses(ctx context.Context) ([]domain.House, error) {
	query := `
		SELECT ` + houseColumns + `
		FROM houses h
		JOIN house_types ht ON ht.house_type_id = h.house_type_id
		ORDER BY h.code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query houses", err)
	}
	defer rows.Close()

	houses := []domain.House{}
	for rows.Next() {
		modelHouse, err := scanHouse(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan house row", err)
		}
		houses = append(houses, mapping.ToDomainHouse(modelHouse))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating house rows", err)
	}

	return houses, nil
}

// scanHouse reads one joined houses row, handling the nullable resident link.
func scanHouse(row pgx.Row) (models.House, error) {
	var h models.House
	var residentID sql.NullString

	err := row.Scan(
		&h.HouseID,
		&h.Code,
		&h.HouseTypeID,
		&residentID,
		&h.MonthlyRate,
		&h.CreatedAt,
		&h.CreatedBy,
		&h.LastUpdatedAt,
		&h.LastUpdatedBy,
	)
	if err != nil {
		return models.House{}, err
	}

	if residentID.Valid {
		h.ResidentID = &residentID.String
	}
	return h, nil
}
