package dto

import "github.com/griyakita/ipl_ledger_app/internal/core/domain"

// UpdateUploadWindowRequest replaces the upload window configuration.
type UpdateUploadWindowRequest struct {
	Enabled  bool `json:"enabled"`
	StartDay int  `json:"startDay" binding:"required,min=1,max=31"`
	EndDay   int  `json:"endDay" binding:"required,min=1,max=31"`
}

// UploadWindowResponse defines the data returned for the upload window.
type UploadWindowResponse struct {
	Enabled  bool `json:"enabled"`
	StartDay int  `json:"startDay"`
	EndDay   int  `json:"endDay"`
}

// ToUploadWindowResponse converts the domain config.
func ToUploadWindowResponse(cfg *domain.UploadWindowConfig) UploadWindowResponse {
	return UploadWindowResponse{
		Enabled:  cfg.Enabled,
		StartDay: cfg.StartDay,
		EndDay:   cfg.EndDay,
	}
}

// CreateExcludedPeriodRequest flags a month to suppress income derivation.
type CreateExcludedPeriodRequest struct {
	Year   int    `json:"year" binding:"required,min=2000,max=2100"`
	Month  int    `json:"month" binding:"required,min=1,max=12"`
	Reason string `json:"reason"`
}

// ExcludedPeriodResponse defines the data returned for an excluded period.
type ExcludedPeriodResponse struct {
	ExcludedPeriodID string `json:"excludedPeriodID"`
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	Reason           string `json:"reason"`
}

// ToExcludedPeriodResponse converts a domain.ExcludedIncomePeriod.
func ToExcludedPeriodResponse(p *domain.ExcludedIncomePeriod) ExcludedPeriodResponse {
	return ExcludedPeriodResponse{
		ExcludedPeriodID: p.ExcludedPeriodID,
		Year:             p.Year,
		Month:            p.Month,
		Reason:           p.Reason,
	}
}
