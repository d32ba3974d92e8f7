package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/core/services"
)

type ReconcileServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockIncomeRepo  *MockIncomeRepository
	mockIncomeSvc   *MockIncomeDerivation
	service         portssvc.ReconcileSvcFacade
}

func (s *ReconcileServiceTestSuite) SetupTest() {
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.mockIncomeRepo = new(MockIncomeRepository)
	s.mockIncomeSvc = new(MockIncomeDerivation)
	s.service = services.NewReconcileService(s.mockPaymentRepo, s.mockIncomeRepo, s.mockIncomeSvc)
}

func (s *ReconcileServiceTestSuite) approvedPayment() domain.Payment {
	adminID := uuid.NewString()
	approvedAt := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)
	return domain.Payment{
		PaymentID:   uuid.NewString(),
		ResidentID:  uuid.NewString(),
		HouseID:     uuid.NewString(),
		Status:      domain.PaymentApproved,
		TotalAmount: decimal.NewFromInt(150000),
		ApprovedBy:  &adminID,
		ApprovedAt:  &approvedAt,
	}
}

func (s *ReconcileServiceTestSuite) TestBackfill_WritesMissingIncomes() {
	ctx := context.Background()
	p1 := s.approvedPayment()
	p2 := s.approvedPayment()

	s.mockIncomeRepo.On("FindApprovedPaymentsWithoutIncome", ctx).Return([]domain.Payment{p1, p2}, nil)
	for _, p := range []domain.Payment{p1, p2} {
		paymentID := p.PaymentID
		s.mockPaymentRepo.On("FindMonthsByPaymentID", ctx, paymentID).
			Return([]domain.PaymentMonth{{PaymentID: paymentID, Year: 2026, Month: 2}}, nil)
		s.mockIncomeSvc.On("BuildPaymentIncome", ctx, p, mock.AnythingOfType("[]domain.MonthPeriod"), *p.ApprovedAt, *p.ApprovedBy).
			Return(&domain.Income{IncomeID: uuid.NewString(), PaymentID: &paymentID, Amount: p.TotalAmount}, nil)
	}
	s.mockIncomeRepo.On("BackfillIncomes", ctx, mock.AnythingOfType("[]domain.Income")).Return(2, nil)

	report, err := s.service.BackfillMissingIncomes(ctx, false)

	s.Require().NoError(err)
	s.Equal(2, report.Candidates)
	s.Equal(2, report.Planned)
	s.Equal(2, report.Inserted)
	s.Equal(0, report.Excluded)
	s.mockIncomeRepo.AssertExpectations(s.T())
}

func (s *ReconcileServiceTestSuite) TestBackfill_FailClosedOnInvalidCandidate() {
	ctx := context.Background()
	valid := s.approvedPayment()
	corrupt := s.approvedPayment()
	corrupt.ApprovedAt = nil // APPROVED but missing its approval timestamp

	s.mockIncomeRepo.On("FindApprovedPaymentsWithoutIncome", ctx).Return([]domain.Payment{valid, corrupt}, nil)

	_, err := s.service.BackfillMissingIncomes(ctx, false)

	s.Require().ErrorIs(err, services.ErrReconcileValidation)
	s.Require().ErrorContains(err, corrupt.PaymentID)
	// Nothing is written when any candidate fails validation.
	s.mockIncomeRepo.AssertNotCalled(s.T(), "BackfillIncomes", mock.Anything, mock.Anything)
}

func (s *ReconcileServiceTestSuite) TestBackfill_SecondRunWritesNothing() {
	ctx := context.Background()
	s.mockIncomeRepo.On("FindApprovedPaymentsWithoutIncome", ctx).Return([]domain.Payment{}, nil)

	report, err := s.service.BackfillMissingIncomes(ctx, false)

	s.Require().NoError(err)
	s.Equal(0, report.Candidates)
	s.Equal(0, report.Inserted)
	s.mockIncomeRepo.AssertNotCalled(s.T(), "BackfillIncomes", mock.Anything, mock.Anything)
}

func (s *ReconcileServiceTestSuite) TestBackfill_DryRunCommitsNothing() {
	ctx := context.Background()
	p := s.approvedPayment()
	paymentID := p.PaymentID

	s.mockIncomeRepo.On("FindApprovedPaymentsWithoutIncome", ctx).Return([]domain.Payment{p}, nil)
	s.mockPaymentRepo.On("FindMonthsByPaymentID", ctx, paymentID).
		Return([]domain.PaymentMonth{{PaymentID: paymentID, Year: 2026, Month: 2}}, nil)
	s.mockIncomeSvc.On("BuildPaymentIncome", ctx, p, mock.AnythingOfType("[]domain.MonthPeriod"), *p.ApprovedAt, *p.ApprovedBy).
		Return(&domain.Income{IncomeID: uuid.NewString(), PaymentID: &paymentID}, nil)

	report, err := s.service.BackfillMissingIncomes(ctx, true)

	s.Require().NoError(err)
	s.True(report.DryRun)
	s.Equal(1, report.Planned)
	s.Equal(0, report.Inserted)
	s.mockIncomeRepo.AssertNotCalled(s.T(), "BackfillIncomes", mock.Anything, mock.Anything)
}

func (s *ReconcileServiceTestSuite) TestBackfill_ExcludedCandidateSkipped() {
	ctx := context.Background()
	p := s.approvedPayment()

	s.mockIncomeRepo.On("FindApprovedPaymentsWithoutIncome", ctx).Return([]domain.Payment{p}, nil)
	s.mockPaymentRepo.On("FindMonthsByPaymentID", ctx, p.PaymentID).
		Return([]domain.PaymentMonth{{PaymentID: p.PaymentID, Year: 2025, Month: 12}}, nil)
	s.mockIncomeSvc.On("BuildPaymentIncome", ctx, p, mock.AnythingOfType("[]domain.MonthPeriod"), *p.ApprovedAt, *p.ApprovedBy).
		Return(nil, nil)

	report, err := s.service.BackfillMissingIncomes(ctx, false)

	s.Require().NoError(err)
	s.Equal(1, report.Candidates)
	s.Equal(1, report.Excluded)
	s.Equal(0, report.Planned)
	s.mockIncomeRepo.AssertNotCalled(s.T(), "BackfillIncomes", mock.Anything, mock.Anything)
}

func TestReconcileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcileServiceTestSuite))
}
