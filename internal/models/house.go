package models

import "github.com/shopspring/decimal"

// HouseType groups houses sharing one monthly rate.
type HouseType struct {
	HouseTypeID string
	Name        string
	MonthlyRate decimal.Decimal
	AuditFields
}

// House is the persistence shape of a billable unit.
type House struct {
	HouseID     string
	Code        string
	HouseTypeID string
	ResidentID  *string
	MonthlyRate decimal.Decimal // joined from house_types on reads
	AuditFields
}
