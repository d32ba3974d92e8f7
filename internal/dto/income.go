package dto

import (
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateIncomeRequest is a manual income entry. Payment-derived income is
// created only by the approval path, never through this request.
type CreateIncomeRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

// ListIncomesParams paginates income listings.
type ListIncomesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// IncomeResponse defines the data returned for an income record.
type IncomeResponse struct {
	IncomeID    string          `json:"incomeID"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	PaymentID   *string         `json:"paymentID,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToIncomeResponse converts a domain.Income to IncomeResponse.
func ToIncomeResponse(in *domain.Income) IncomeResponse {
	return IncomeResponse{
		IncomeID:    in.IncomeID,
		Date:        in.Date,
		Category:    in.Category,
		Amount:      in.Amount,
		Description: in.Description,
		PaymentID:   in.PaymentID,
		CreatedAt:   in.CreatedAt,
	}
}

// ToIncomeResponses converts a slice of domain.Income.
func ToIncomeResponses(ins []domain.Income) []IncomeResponse {
	out := make([]IncomeResponse, len(ins))
	for i := range ins {
		out[i] = ToIncomeResponse(&ins[i])
	}
	return out
}

// ListIncomesResponse is a paginated income listing.
type ListIncomesResponse struct {
	Incomes   []IncomeResponse `json:"incomes"`
	NextToken *string          `json:"nextToken,omitempty"`
}
