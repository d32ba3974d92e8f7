package services

import (
	"context"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payment data.
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment with its month cells.
	GetPaymentByID(ctx context.Context, paymentID string, requestingUserID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated, filtered payment listing.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams, requestingUserID string) (*dto.ListPaymentsResponse, error)

	// GetOccupiedMonths returns every month cell claimed for a house across
	// non-rejected payments.
	GetOccupiedMonths(ctx context.Context, houseID string) ([]domain.MonthPeriod, error)

	// GetAvailableMonths returns the next count free months for a house as
	// labeled options.
	GetAvailableMonths(ctx context.Context, houseID string, count int) ([]dto.AvailableMonthOption, error)
}

// PaymentWriterSvc defines lifecycle operations on payments.
type PaymentWriterSvc interface {
	// SubmitPayment creates a resident's own PENDING payment, allocating the
	// covered months automatically. Gated by the upload window policy unless
	// bypassWindow is set, which callers derive from an admin role claim.
	SubmitPayment(ctx context.Context, req dto.SubmitPaymentRequest, residentID string, bypassWindow bool) (*domain.Payment, error)

	// AdminCreatePayment creates a payment on behalf of a resident. The upload
	// window check is skipped.
	AdminCreatePayment(ctx context.Context, req dto.AdminCreatePaymentRequest, adminID string) (*domain.Payment, error)

	// BulkCreatePayments marks a set of houses paid for explicit months.
	// Per-item semantics; a house with any colliding month is skipped whole.
	BulkCreatePayments(ctx context.Context, req dto.BulkCreatePaymentsRequest, adminID string) (*dto.BulkCreateResult, error)

	// ApprovePayment flips a PENDING payment to APPROVED and derives its
	// income inside the same transaction.
	ApprovePayment(ctx context.Context, paymentID string, adminID string) (*domain.Payment, error)

	// BulkApprovePayments approves each payment independently and reports
	// per-item failures.
	BulkApprovePayments(ctx context.Context, req dto.BulkApprovePaymentsRequest, adminID string) (*dto.BulkApproveResult, error)

	// RejectPayment flips a PENDING payment to REJECTED with a mandatory note,
	// releasing its claimed months.
	RejectPayment(ctx context.Context, paymentID string, note string, adminID string) (*domain.Payment, error)

	// DeletePayment removes a payment and its months; derived income stays.
	DeletePayment(ctx context.Context, paymentID string, adminID string) error
}

// PaymentSvcFacade combines all payment-related service interfaces.
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
