package domain

import "github.com/shopspring/decimal"

// HouseType groups houses that share a monthly fee rate.
type HouseType struct {
	HouseTypeID string          `json:"houseTypeID"` // Primary key (UUID)
	Name        string          `json:"name"`        // e.g. "Type 36/72"
	MonthlyRate decimal.Decimal `json:"monthlyRate"` // IPL fee per month
	AuditFields
}

// House is a billable unit with a monthly rate (via its HouseType) and at most
// one occupying resident at a time. The rate in effect at submission time is
// baked into each payment's total; later rate changes never alter existing
// payments.
type House struct {
	HouseID     string  `json:"houseID"` // Primary key (UUID)
	Code        string  `json:"code"`    // e.g. "A-12"
	HouseTypeID string  `json:"houseTypeID"`
	ResidentID  *string `json:"residentID,omitempty"` // Occupying resident, nil if vacant
	AuditFields

	// MonthlyRate is the joined HouseType rate, populated on reads.
	MonthlyRate decimal.Decimal `json:"monthlyRate"`
}
