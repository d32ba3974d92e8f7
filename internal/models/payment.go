package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the payment lifecycle states as stored.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// Payment is the persistence shape of a fee payment submission.
type Payment struct {
	PaymentID     string
	ResidentID    string
	HouseID       string
	AmountMonths  int
	TotalAmount   decimal.Decimal
	Status        PaymentStatus
	ProofRef      string
	RejectionNote *string
	ApprovedBy    *string
	ApprovedAt    *time.Time
	AuditFields
}

// PaymentMonth is the persistence shape of one claimed month cell.
// HouseID is denormalized so the partial unique index on
// (house_id, year, month) WHERE NOT released can enforce the claim invariant.
type PaymentMonth struct {
	PaymentMonthID string
	PaymentID      string
	HouseID        string
	Year           int
	Month          int
	Released       bool
}
