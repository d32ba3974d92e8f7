package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus indicates the state of a payment in its approval lifecycle.
// A payment makes exactly one transition out of PENDING and is terminal after.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// Payment is one resident submission covering a contiguous block of months.
type Payment struct {
	PaymentID     string          `json:"paymentID"` // Primary key (UUID)
	ResidentID    string          `json:"residentID"`
	HouseID       string          `json:"houseID"`
	AmountMonths  int             `json:"amountMonths"` // 1..12
	TotalAmount   decimal.Decimal `json:"totalAmount"`  // rate x amountMonths, computed server-side
	Status        PaymentStatus   `json:"status"`
	ProofRef      string          `json:"proofRef"` // Reference into the upload subsystem
	RejectionNote *string         `json:"rejectionNote,omitempty"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	AuditFields

	// Months are the claimed month cells, populated on reads that ask for them.
	Months []PaymentMonth `json:"months,omitempty"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	Status     *PaymentStatus
	HouseID    *string
	ResidentID *string
}

// PaymentMonth is one calendar month claimed by a payment; the atomic unit of
// the no-double-booking invariant. Rows are created atomically with their
// parent and never individually edited; rejection releases them.
type PaymentMonth struct {
	PaymentMonthID string `json:"paymentMonthID"` // Primary key (UUID)
	PaymentID      string `json:"paymentID"`
	HouseID        string `json:"houseID"` // Denormalized for the claim uniqueness index
	Year           int    `json:"year"`
	Month          int    `json:"month"` // 1..12
	Released       bool   `json:"released"`
}

// Period returns the month cell as a MonthPeriod.
func (m PaymentMonth) Period() MonthPeriod {
	return MonthPeriod{Year: m.Year, Month: m.Month}
}
