package services

import (
	"context"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
)

// HouseReaderSvc defines read operations for the house registry.
type HouseReaderSvc interface {
	// GetHouseByID retrieves a house with its monthly rate.
	GetHouseByID(ctx context.Context, houseID string) (*domain.House, error)

	// ListHouses returns all houses ordered by code.
	ListHouses(ctx context.Context) ([]domain.House, error)
}

// HouseWriterSvc defines write operations for the house registry.
type HouseWriterSvc interface {
	// CreateHouse registers a new house.
	CreateHouse(ctx context.Context, req dto.CreateHouseRequest, adminID string) (*domain.House, error)

	// AssignResident sets or clears the occupying resident.
	AssignResident(ctx context.Context, houseID string, residentID *string, adminID string) error
}

// HouseSvcFacade combines house registry service interfaces.
type HouseSvcFacade interface {
	HouseReaderSvc
	HouseWriterSvc
}
