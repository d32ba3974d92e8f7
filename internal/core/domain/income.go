package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeCategoryMonthlyFees is the fixed category for payment-derived income.
const IncomeCategoryMonthlyFees = "MONTHLY_FEES"

// Income is an accounting record of realized revenue. Payment-derived rows
// carry the originating PaymentID (unique, at most one Income per payment) and
// are created only by approval or by the backfill sweep, never by hand.
// Deleting a payment does not delete its income; the financial record stays.
type Income struct {
	IncomeID    string          `json:"incomeID"` // Primary key (UUID)
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	PaymentID   *string         `json:"paymentID,omitempty"` // Originating payment, nil for manual entries
	AuditFields
}
