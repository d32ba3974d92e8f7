package repositories

import (
	"context"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
)

// IncomeReader defines read operations for income data.
type IncomeReader interface {
	// FindIncomeByID retrieves a specific income record.
	FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error)

	// FindIncomeByPaymentID retrieves the income derived from a payment, if any.
	FindIncomeByPaymentID(ctx context.Context, paymentID string) (*domain.Income, error)

	// ListIncomes retrieves a paginated list of income records.
	ListIncomes(ctx context.Context, limit int, nextToken *string) ([]domain.Income, *string, error)

	// FindApprovedPaymentsWithoutIncome returns approved payments that have no
	// linked income row; the candidate set for the backfill sweep.
	FindApprovedPaymentsWithoutIncome(ctx context.Context) ([]domain.Payment, error)
}

// IncomeWriter defines write operations for income data.
type IncomeWriter interface {
	// SaveIncome persists a manual (non payment-derived) income record.
	SaveIncome(ctx context.Context, income domain.Income) error

	// BackfillIncomes inserts the given payment-derived income rows inside a
	// single transaction, re-checking per row that the payment is still
	// unlinked; rows that lost the race are skipped. Returns the number of
	// rows actually inserted.
	BackfillIncomes(ctx context.Context, incomes []domain.Income) (int, error)
}

// IncomeRepositoryFacade combines all income-related repository interfaces.
type IncomeRepositoryFacade interface {
	IncomeReader
	IncomeWriter
}
