package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
)

var (
	ErrHouseCodeTaken = errors.New("house code is already registered")
)

// houseService owns the house registry.
type houseService struct {
	houseRepo portsrepo.HouseRepositoryFacade
	userRepo  portsrepo.UserRepositoryFacade
}

// NewHouseService creates a new house registry service.
func NewHouseService(houseRepo portsrepo.HouseRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.HouseSvcFacade {
	return &houseService{houseRepo: houseRepo, userRepo: userRepo}
}

var _ portssvc.HouseSvcFacade = (*houseService)(nil)

// GetHouseByID retrieves a house with its monthly rate.
func (s *houseService) GetHouseByID(ctx context.Context, houseID string) (*domain.House, error) {
	return s.houseRepo.FindHouseByID(ctx, houseID)
}

// ListHouses returns all houses ordered by code.
func (s *houseService) ListHouses(ctx context.Context) ([]domain.House, error) {
	return s.houseRepo.ListHouses(ctx)
}

// CreateHouse registers a new house.
func (s *houseService) CreateHouse(ctx context.Context, req dto.CreateHouseRequest, adminID string) (*domain.House, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	house := domain.House{
		HouseID:     uuid.NewString(),
		Code:        req.Code,
		HouseTypeID: req.HouseTypeID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}

	if err := s.houseRepo.SaveHouse(ctx, house); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrHouseCodeTaken
		}
		logger.Error("Failed to save house", slog.String("error", err.Error()))
		return nil, err
	}

	// Re-read to pick up the monthly rate joined from the house type.
	created, err := s.houseRepo.FindHouseByID(ctx, house.HouseID)
	if err != nil {
		return nil, err
	}

	logger.Info("House created", slog.String("house_id", created.HouseID), slog.String("code", created.Code))
	return created, nil
}

// AssignResident sets or clears the occupying resident.
func (s *houseService) AssignResident(ctx context.Context, houseID string, residentID *string, adminID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if residentID != nil {
		if _, err := s.userRepo.FindUserByID(ctx, *residentID); err != nil {
			return err
		}
	}

	if err := s.houseRepo.AssignResident(ctx, houseID, residentID, adminID); err != nil {
		return err
	}

	logger.Info("House resident assignment changed", slog.String("house_id", houseID))
	return nil
}
