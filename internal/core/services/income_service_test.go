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
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/core/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
)

// --- Mock IncomeRepository ---
type MockIncomeRepository struct {
	mock.Mock
}

var _ portsrepo.IncomeRepositoryFacade = (*MockIncomeRepository)(nil)

func (m *MockIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	args := m.Called(ctx, incomeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) FindIncomeByPaymentID(ctx context.Context, paymentID string) (*domain.Income, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) ListIncomes(ctx context.Context, limit int, nextToken *string) ([]domain.Income, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Income), nil, args.Error(2)
}

func (m *MockIncomeRepository) FindApprovedPaymentsWithoutIncome(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockIncomeRepository) SaveIncome(ctx context.Context, income domain.Income) error {
	args := m.Called(ctx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) BackfillIncomes(ctx context.Context, incomes []domain.Income) (int, error) {
	args := m.Called(ctx, incomes)
	return args.Int(0), args.Error(1)
}

// --- Mock ExcludedPeriodsSvc ---
type MockExcludedPeriods struct {
	mock.Mock
}

var _ portssvc.ExcludedPeriodsSvc = (*MockExcludedPeriods)(nil)

func (m *MockExcludedPeriods) IsExcludedPeriod(ctx context.Context, period domain.MonthPeriod) (bool, error) {
	args := m.Called(ctx, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockExcludedPeriods) ListExcludedPeriods(ctx context.Context) ([]domain.ExcludedIncomePeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExcludedIncomePeriod), args.Error(1)
}

func (m *MockExcludedPeriods) AddExcludedPeriod(ctx context.Context, req dto.CreateExcludedPeriodRequest, adminID string) (*domain.ExcludedIncomePeriod, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExcludedIncomePeriod), args.Error(1)
}

func (m *MockExcludedPeriods) RemoveExcludedPeriod(ctx context.Context, excludedPeriodID string, adminID string) error {
	args := m.Called(ctx, excludedPeriodID, adminID)
	return args.Error(0)
}

type IncomeServiceTestSuite struct {
	suite.Suite
	mockIncomeRepo *MockIncomeRepository
	mockHouseRepo  *MockHouseRepository
	mockUserRepo   *MockUserRepository
	mockExcluded   *MockExcludedPeriods
	service        portssvc.IncomeSvcFacade
}

func (s *IncomeServiceTestSuite) SetupTest() {
	s.mockIncomeRepo = new(MockIncomeRepository)
	s.mockHouseRepo = new(MockHouseRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockExcluded = new(MockExcludedPeriods)
	s.service = services.NewIncomeService(s.mockIncomeRepo, s.mockHouseRepo, s.mockUserRepo, s.mockExcluded)
}

func (s *IncomeServiceTestSuite) TestBuildPaymentIncome_Success() {
	ctx := context.Background()
	payment := domain.Payment{
		PaymentID:    uuid.NewString(),
		ResidentID:   uuid.NewString(),
		HouseID:      uuid.NewString(),
		AmountMonths: 2,
		TotalAmount:  decimal.NewFromInt(300000),
	}
	periods := []domain.MonthPeriod{{Year: 2026, Month: 3}, {Year: 2026, Month: 4}}
	approvedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	adminID := uuid.NewString()

	s.mockExcluded.On("IsExcludedPeriod", ctx, mock.AnythingOfType("domain.MonthPeriod")).Return(false, nil)
	s.mockUserRepo.On("FindUserByID", ctx, payment.ResidentID).Return(&domain.User{UserID: payment.ResidentID, Name: "Budi Santoso"}, nil)
	s.mockHouseRepo.On("FindHouseByID", ctx, payment.HouseID).Return(&domain.House{HouseID: payment.HouseID, Code: "A-12"}, nil)

	income, err := s.service.BuildPaymentIncome(ctx, payment, periods, approvedAt, adminID)

	s.Require().NoError(err)
	s.Require().NotNil(income)
	s.Equal(domain.IncomeCategoryMonthlyFees, income.Category)
	s.True(income.Amount.Equal(payment.TotalAmount))
	s.Equal(approvedAt, income.Date)
	s.Require().NotNil(income.PaymentID)
	s.Equal(payment.PaymentID, *income.PaymentID)
	s.Contains(income.Description, "Budi Santoso")
	s.Contains(income.Description, "A-12")
	s.Contains(income.Description, "2 months")
}

func (s *IncomeServiceTestSuite) TestBuildPaymentIncome_ExcludedMonthSkips() {
	ctx := context.Background()
	payment := domain.Payment{PaymentID: uuid.NewString(), TotalAmount: decimal.NewFromInt(150000)}
	periods := []domain.MonthPeriod{{Year: 2025, Month: 12}}

	s.mockExcluded.On("IsExcludedPeriod", ctx, domain.MonthPeriod{Year: 2025, Month: 12}).Return(true, nil)

	income, err := s.service.BuildPaymentIncome(ctx, payment, periods, time.Now(), "admin")

	s.Require().NoError(err)
	s.Nil(income)
}

func (s *IncomeServiceTestSuite) TestBuildPaymentIncome_AnyExcludedMonthSkipsWhole() {
	ctx := context.Background()
	payment := domain.Payment{PaymentID: uuid.NewString(), TotalAmount: decimal.NewFromInt(300000)}
	periods := []domain.MonthPeriod{{Year: 2026, Month: 1}, {Year: 2026, Month: 2}}

	s.mockExcluded.On("IsExcludedPeriod", ctx, domain.MonthPeriod{Year: 2026, Month: 1}).Return(false, nil)
	s.mockExcluded.On("IsExcludedPeriod", ctx, domain.MonthPeriod{Year: 2026, Month: 2}).Return(true, nil)

	income, err := s.service.BuildPaymentIncome(ctx, payment, periods, time.Now(), "admin")

	s.Require().NoError(err)
	s.Nil(income)
}

func (s *IncomeServiceTestSuite) TestCreateIncome_RejectsNonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		req := dto.CreateIncomeRequest{Date: time.Now(), Category: "DONATION", Amount: amount, Description: "x"}
		_, err := s.service.CreateIncome(ctx, req, "admin")
		s.Require().ErrorIs(err, services.ErrIncomeAmountNotPositive)
	}
	s.mockIncomeRepo.AssertNotCalled(s.T(), "SaveIncome", mock.Anything, mock.Anything)
}

func (s *IncomeServiceTestSuite) TestCreateIncome_Success() {
	ctx := context.Background()
	s.mockIncomeRepo.On("SaveIncome", ctx, mock.MatchedBy(func(in domain.Income) bool {
		return in.PaymentID == nil && in.Category == "DONATION"
	})).Return(nil).Once()

	req := dto.CreateIncomeRequest{Date: time.Now(), Category: "DONATION", Amount: decimal.NewFromInt(50000), Description: "community donation"}
	income, err := s.service.CreateIncome(ctx, req, "admin")

	s.Require().NoError(err)
	s.Nil(income.PaymentID)
	s.mockIncomeRepo.AssertExpectations(s.T())
}

func TestIncomeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IncomeServiceTestSuite))
}
