package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
)

var (
	ErrIncomeAmountNotPositive = errors.New("income amount must be positive")
)

// incomeService owns income records: manual entries, listings, and the
// derivation of the single income row an approved payment produces.
type incomeService struct {
	incomeRepo  portsrepo.IncomeRepositoryFacade
	houseRepo   portsrepo.HouseRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	settingsSvc portssvc.ExcludedPeriodsSvc
}

// NewIncomeService creates a new income service.
func NewIncomeService(
	incomeRepo portsrepo.IncomeRepositoryFacade,
	houseRepo portsrepo.HouseRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	settingsSvc portssvc.ExcludedPeriodsSvc,
) portssvc.IncomeSvcFacade {
	return &incomeService{
		incomeRepo:  incomeRepo,
		houseRepo:   houseRepo,
		userRepo:    userRepo,
		settingsSvc: settingsSvc,
	}
}

var _ portssvc.IncomeSvcFacade = (*incomeService)(nil)

// BuildPaymentIncome returns the income row for an approved payment, or nil
// when any covered month falls in an excluded income period. The caller
// persists the result inside the approval transaction; a nil row means the
// approval proceeds with no bookkeeping entry.
func (s *incomeService) BuildPaymentIncome(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod, approvedAt time.Time, approvedBy string) (*domain.Income, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for _, p := range periods {
		excluded, err := s.settingsSvc.IsExcludedPeriod(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to check excluded periods: %w", err)
		}
		if excluded {
			logger.Info("Income derivation skipped for excluded period",
				slog.String("payment_id", payment.PaymentID),
				slog.Int("year", p.Year),
				slog.Int("month", p.Month),
			)
			return nil, nil
		}
	}

	description, err := s.buildDescription(ctx, payment)
	if err != nil {
		return nil, err
	}

	paymentID := payment.PaymentID
	income := &domain.Income{
		IncomeID:    uuid.NewString(),
		Date:        approvedAt,
		Category:    domain.IncomeCategoryMonthlyFees,
		Amount:      payment.TotalAmount,
		Description: description,
		PaymentID:   &paymentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     approvedAt,
			CreatedBy:     approvedBy,
			LastUpdatedAt: approvedAt,
			LastUpdatedBy: approvedBy,
		},
	}
	return income, nil
}

// buildDescription assembles the bookkeeping line from the resident's name,
// the house code, and the covered month count.
func (s *incomeService) buildDescription(ctx context.Context, payment domain.Payment) (string, error) {
	residentName := payment.ResidentID
	if user, err := s.userRepo.FindUserByID(ctx, payment.ResidentID); err == nil {
		residentName = user.Name
	}

	houseCode := payment.HouseID
	if house, err := s.houseRepo.FindHouseByID(ctx, payment.HouseID); err == nil {
		houseCode = house.Code
	}

	noun := "months"
	if payment.AmountMonths == 1 {
		noun = "month"
	}
	return fmt.Sprintf("Monthly fees from %s, house %s, %d %s", residentName, houseCode, payment.AmountMonths, noun), nil
}

// GetIncomeByID retrieves a specific income record.
func (s *incomeService) GetIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	return s.incomeRepo.FindIncomeByID(ctx, incomeID)
}

// ListIncomes retrieves a paginated income listing.
func (s *incomeService) ListIncomes(ctx context.Context, params dto.ListIncomesParams) (*dto.ListIncomesResponse, error) {
	incomes, nextToken, err := s.incomeRepo.ListIncomes(ctx, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListIncomesResponse{
		Incomes:   dto.ToIncomeResponses(incomes),
		NextToken: nextToken,
	}, nil
}

// CreateIncome persists a manual income record. Payment-derived income is
// created only by the approval path, so PaymentID stays nil here.
func (s *incomeService) CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorUserID string) (*domain.Income, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", ErrIncomeAmountNotPositive, req.Amount.String())
	}

	now := time.Now().UTC()
	income := domain.Income{
		IncomeID:    uuid.NewString(),
		Date:        req.Date,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		PaymentID:   nil,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.incomeRepo.SaveIncome(ctx, income); err != nil {
		logger.Error("Failed to save income", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Manual income recorded",
		slog.String("income_id", income.IncomeID),
		slog.String("category", income.Category),
		slog.String("amount", income.Amount.String()),
	)
	return &income, nil
}
