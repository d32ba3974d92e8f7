package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
)

var (
	ErrReconcileValidation = errors.New("reconciliation candidate failed validation")
)

// reconcileService backfills income rows for historical approved payments.
// Validation is fail-closed: one malformed candidate aborts the entire run
// with no writes. The write pass is fail-soft per row: ON CONFLICT skips
// payments that gained an income between the scan and the insert, which is
// what keeps repeated runs idempotent.
type reconcileService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	incomeRepo  portsrepo.IncomeRepositoryFacade
	incomeSvc   portssvc.IncomeDerivationSvc
}

// NewReconcileService creates the backfill sweep service.
func NewReconcileService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	incomeRepo portsrepo.IncomeRepositoryFacade,
	incomeSvc portssvc.IncomeDerivationSvc,
) portssvc.ReconcileSvcFacade {
	return &reconcileService{
		paymentRepo: paymentRepo,
		incomeRepo:  incomeRepo,
		incomeSvc:   incomeSvc,
	}
}

var _ portssvc.ReconcileSvcFacade = (*reconcileService)(nil)

// BackfillMissingIncomes scans for approved payments without a linked income,
// validates all of them, then writes the derived rows in one transaction.
func (s *reconcileService) BackfillMissingIncomes(ctx context.Context, dryRun bool) (*portssvc.ReconcileReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	candidates, err := s.incomeRepo.FindApprovedPaymentsWithoutIncome(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for backfill candidates: %w", err)
	}

	report := &portssvc.ReconcileReport{
		Candidates: len(candidates),
		DryRun:     dryRun,
	}
	if len(candidates) == 0 {
		logger.Info("No approved payments missing income, nothing to do")
		return report, nil
	}

	// Validation pass. Every candidate must carry its approval metadata; a
	// miss means the ledger is corrupt and the whole run aborts unwritten.
	for _, p := range candidates {
		if p.ApprovedAt == nil || p.ApprovedBy == nil || *p.ApprovedBy == "" {
			return nil, fmt.Errorf("%w: payment %s is APPROVED but missing approvedAt/approvedBy", ErrReconcileValidation, p.PaymentID)
		}
	}

	// Derivation pass. Excluded-period payments are deliberately skipped,
	// mirroring what approval would have done.
	incomes := make([]domain.Income, 0, len(candidates))
	for _, p := range candidates {
		monthCells, err := s.paymentRepo.FindMonthsByPaymentID(ctx, p.PaymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load months for payment %s: %w", p.PaymentID, err)
		}
		periods := make([]domain.MonthPeriod, len(monthCells))
		for i, m := range monthCells {
			periods[i] = m.Period()
		}

		income, err := s.incomeSvc.BuildPaymentIncome(ctx, p, periods, *p.ApprovedAt, *p.ApprovedBy)
		if err != nil {
			return nil, fmt.Errorf("income derivation failed for payment %s: %w", p.PaymentID, err)
		}
		if income == nil {
			report.Excluded++
			continue
		}
		incomes = append(incomes, *income)
	}
	report.Planned = len(incomes)

	if dryRun {
		for _, income := range incomes {
			logger.Info("Would backfill income",
				slog.String("payment_id", *income.PaymentID),
				slog.String("amount", income.Amount.String()),
				slog.String("description", income.Description),
			)
		}
		logger.Info("Dry run complete",
			slog.Int("candidates", report.Candidates),
			slog.Int("planned", report.Planned),
			slog.Int("excluded", report.Excluded),
		)
		return report, nil
	}

	if len(incomes) > 0 {
		inserted, err := s.incomeRepo.BackfillIncomes(ctx, incomes)
		if err != nil {
			return nil, fmt.Errorf("failed to backfill incomes: %w", err)
		}
		report.Inserted = inserted
	}

	logger.Info("Backfill complete",
		slog.Int("candidates", report.Candidates),
		slog.Int("planned", report.Planned),
		slog.Int("inserted", report.Inserted),
		slog.Int("excluded", report.Excluded),
	)
	return report, nil
}
