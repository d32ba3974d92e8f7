package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is the persistence shape of an accounting income record.
// PaymentID carries a unique constraint (uq_incomes_payment); this is what
// makes income derivation idempotent under retried approvals.
type Income struct {
	IncomeID    string
	Date        time.Time
	Category    string
	Amount      decimal.Decimal
	Description string
	PaymentID   *string
	AuditFields
}
