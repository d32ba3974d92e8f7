package repositories

import (
	"context"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
)

// HouseReader defines read operations for house data.
type HouseReader interface {
	// FindHouseByID retrieves a house with its monthly rate joined in.
	FindHouseByID(ctx context.Context, houseID string) (*domain.House, error)

	// FindHousesByIDs retrieves multiple houses keyed by ID.
	FindHousesByIDs(ctx context.Context, houseIDs []string) (map[string]domain.House, error)

	// ListHouses retrieves all houses ordered by code.
	ListHouses(ctx context.Context) ([]domain.House, error)
}

// HouseWriter defines write operations for house data.
type HouseWriter interface {
	// SaveHouse persists a new house.
	SaveHouse(ctx context.Context, house domain.House) error

	// AssignResident sets or clears the occupying resident of a house.
	AssignResident(ctx context.Context, houseID string, residentID *string, updatedBy string) error
}

// HouseRepositoryFacade combines all house-related repository interfaces.
type HouseRepositoryFacade interface {
	HouseReader
	HouseWriter
}
