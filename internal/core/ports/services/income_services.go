package services

import (
	"context"
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
)

// IncomeDerivationSvc builds the income record a payment approval produces.
type IncomeDerivationSvc interface {
	// BuildPaymentIncome returns the income row for an approved payment, or
	// nil when any covered month falls in an excluded income period (the
	// approval still succeeds in that case).
	BuildPaymentIncome(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod, approvedAt time.Time, approvedBy string) (*domain.Income, error)
}

// IncomeReaderSvc defines read operations for income records.
type IncomeReaderSvc interface {
	// GetIncomeByID retrieves a specific income record.
	GetIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error)

	// ListIncomes retrieves a paginated income listing.
	ListIncomes(ctx context.Context, params dto.ListIncomesParams) (*dto.ListIncomesResponse, error)
}

// IncomeWriterSvc defines manual income entry.
type IncomeWriterSvc interface {
	// CreateIncome persists a manual income record (never payment-derived).
	CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorUserID string) (*domain.Income, error)
}

// IncomeSvcFacade combines all income-related service interfaces.
type IncomeSvcFacade interface {
	IncomeDerivationSvc
	IncomeReaderSvc
	IncomeWriterSvc
}
