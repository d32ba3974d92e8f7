package repositories

import (
	"context"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
)

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a specific payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// FindMonthsByPaymentID retrieves the month cells claimed by a payment.
	FindMonthsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentMonth, error)

	// FindOccupiedMonths returns every month cell claimed for a house across
	// all non-rejected payments (released rows are excluded).
	FindOccupiedMonths(ctx context.Context, houseID string) ([]domain.MonthPeriod, error)

	// ListPayments retrieves a paginated list of payments using token-based
	// pagination, optionally filtered by status and/or house.
	ListPayments(ctx context.Context, filter domain.PaymentFilter, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentWriter defines write operations for payment data. Each method runs
// its own database transaction; bulk semantics are composed in the service.
type PaymentWriter interface {
	// SavePaymentWithMonths persists a payment and its month cells atomically.
	// A claim collision (partial unique index on house/year/month) surfaces as
	// apperrors.ErrConflict with no partial writes.
	SavePaymentWithMonths(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod) error

	// ApprovePayment flips a PENDING payment to APPROVED and, when income is
	// non-nil, inserts the derived income row in the same transaction.
	// A payment not in PENDING surfaces as apperrors.ErrIllegalState; an income
	// row already linked to the payment is treated as success.
	ApprovePayment(ctx context.Context, payment domain.Payment, income *domain.Income) error

	// RejectPayment flips a PENDING payment to REJECTED, stores the note, and
	// releases its month cells in the same transaction.
	RejectPayment(ctx context.Context, payment domain.Payment) error

	// DeletePayment removes a payment and cascades its month cells. Any income
	// already derived from the payment is left untouched.
	DeletePayment(ctx context.Context, paymentID string) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities.
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
