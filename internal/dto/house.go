package dto

import (
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateHouseRequest registers a new billable house.
type CreateHouseRequest struct {
	Code        string `json:"code" binding:"required"`
	HouseTypeID string `json:"houseTypeID" binding:"required"`
}

// AssignResidentRequest sets or clears the occupying resident of a house.
type AssignResidentRequest struct {
	ResidentID *string `json:"residentID"`
}

// HouseResponse defines the data returned for a house.
type HouseResponse struct {
	HouseID     string          `json:"houseID"`
	Code        string          `json:"code"`
	HouseTypeID string          `json:"houseTypeID"`
	ResidentID  *string         `json:"residentID,omitempty"`
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
}

// ToHouseResponse converts a domain.House to HouseResponse.
func ToHouseResponse(h *domain.House) HouseResponse {
	return HouseResponse{
		HouseID:     h.HouseID,
		Code:        h.Code,
		HouseTypeID: h.HouseTypeID,
		ResidentID:  h.ResidentID,
		MonthlyRate: h.MonthlyRate,
	}
}

// ToHouseResponses converts a slice of domain.House.
func ToHouseResponses(hs []domain.House) []HouseResponse {
	out := make([]HouseResponse, len(hs))
	for i := range hs {
		out[i] = ToHouseResponse(&hs[i])
	}
	return out
}
