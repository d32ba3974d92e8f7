package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/core/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
)

// --- Mock PaymentRepository ---
type MockPaymentRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentRepositoryWithTx = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindMonthsByPaymentID(ctx context.Context, paymentID string) ([]domain.PaymentMonth, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMonth), args.Error(1)
}

func (m *MockPaymentRepository) FindOccupiedMonths(ctx context.Context, houseID string) ([]domain.MonthPeriod, error) {
	args := m.Called(ctx, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthPeriod), args.Error(1)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, filter domain.PaymentFilter, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Payment), nil, args.Error(2)
}

func (m *MockPaymentRepository) SavePaymentWithMonths(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod) error {
	args := m.Called(ctx, payment, periods)
	return args.Error(0)
}

func (m *MockPaymentRepository) ApprovePayment(ctx context.Context, payment domain.Payment, income *domain.Income) error {
	args := m.Called(ctx, payment, income)
	return args.Error(0)
}

func (m *MockPaymentRepository) RejectPayment(ctx context.Context, payment domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

func (m *MockPaymentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockPaymentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPaymentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock HouseRepository ---
type MockHouseRepository struct {
	mock.Mock
}

var _ portsrepo.HouseRepositoryFacade = (*MockHouseRepository)(nil)

func (m *MockHouseRepository) FindHouseByID(ctx context.Context, houseID string) (*domain.House, error) {
	args := m.Called(ctx, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *MockHouseRepository) FindHousesByIDs(ctx context.Context, houseIDs []string) (map[string]domain.House, error) {
	args := m.Called(ctx, houseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.House), args.Error(1)
}

func (m *MockHouseRepository) ListHouses(ctx context.Context) ([]domain.House, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *MockHouseRepository) SaveHouse(ctx context.Context, house domain.House) error {
	args := m.Called(ctx, house)
	return args.Error(0)
}

func (m *MockHouseRepository) AssignResident(ctx context.Context, houseID string, residentID *string, updatedBy string) error {
	args := m.Called(ctx, houseID, residentID, updatedBy)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock IncomeDerivationSvc ---
type MockIncomeDerivation struct {
	mock.Mock
}

var _ portssvc.IncomeDerivationSvc = (*MockIncomeDerivation)(nil)

func (m *MockIncomeDerivation) BuildPaymentIncome(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod, approvedAt time.Time, approvedBy string) (*domain.Income, error) {
	args := m.Called(ctx, payment, periods, approvedAt, approvedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

// --- Mock UploadWindowSvc ---
type MockUploadWindow struct {
	mock.Mock
}

var _ portssvc.UploadWindowSvc = (*MockUploadWindow)(nil)

func (m *MockUploadWindow) CheckUploadWindow(ctx context.Context, at time.Time) (portssvc.WindowDecision, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(portssvc.WindowDecision), args.Error(1)
}

func (m *MockUploadWindow) GetUploadWindow(ctx context.Context) (*domain.UploadWindowConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadWindowConfig), args.Error(1)
}

func (m *MockUploadWindow) UpdateUploadWindow(ctx context.Context, req dto.UpdateUploadWindowRequest, adminID string) (*domain.UploadWindowConfig, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadWindowConfig), args.Error(1)
}

// --- Suite ---
type PaymentServiceTestSuite struct {
	suite.Suite
	mockPaymentRepo *MockPaymentRepository
	mockHouseRepo   *MockHouseRepository
	mockUserRepo    *MockUserRepository
	mockIncomeSvc   *MockIncomeDerivation
	mockWindowSvc   *MockUploadWindow
	service         portssvc.PaymentSvcFacade

	residentID string
	adminID    string
	house      domain.House
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.mockHouseRepo = new(MockHouseRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockIncomeSvc = new(MockIncomeDerivation)
	s.mockWindowSvc = new(MockUploadWindow)
	s.service = services.NewPaymentService(
		s.mockPaymentRepo,
		s.mockHouseRepo,
		s.mockUserRepo,
		s.mockIncomeSvc,
		s.mockWindowSvc,
	)

	s.residentID = uuid.NewString()
	s.adminID = uuid.NewString()
	residentID := s.residentID
	s.house = domain.House{
		HouseID:     uuid.NewString(),
		Code:        "A-12",
		ResidentID:  &residentID,
		MonthlyRate: decimal.NewFromInt(150000),
	}
}

func (s *PaymentServiceTestSuite) allowWindow() {
	s.mockWindowSvc.On("CheckUploadWindow", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(portssvc.WindowDecision{Allowed: true}, nil)
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_Success() {
	ctx := context.Background()
	s.mockHouseRepo.On("FindHouseByID", ctx, s.house.HouseID).Return(&s.house, nil)
	s.allowWindow()
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, s.house.HouseID).Return([]domain.MonthPeriod{}, nil).Once()
	s.mockPaymentRepo.On("SavePaymentWithMonths", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod")).Return(nil).Once()

	req := dto.SubmitPaymentRequest{HouseID: s.house.HouseID, AmountMonths: 3, ProofRef: "proofs/abc.jpg"}
	payment, err := s.service.SubmitPayment(ctx, req, s.residentID, false)

	s.Require().NoError(err)
	s.Require().NotNil(payment)
	s.Equal(domain.PaymentPending, payment.Status)
	s.Equal(s.residentID, payment.ResidentID)
	s.Equal(3, payment.AmountMonths)
	s.True(payment.TotalAmount.Equal(decimal.NewFromInt(450000)))
	s.Len(payment.Months, 3)

	// With nothing occupied, allocation starts at the current month.
	current := domain.PeriodOf(time.Now().UTC())
	s.Equal(current.Year, payment.Months[0].Year)
	s.Equal(current.Month, payment.Months[0].Month)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_AmountMonthsOutOfRange() {
	ctx := context.Background()

	for _, n := range []int{0, 13, -1} {
		req := dto.SubmitPaymentRequest{HouseID: s.house.HouseID, AmountMonths: n, ProofRef: "x"}
		_, err := s.service.SubmitPayment(ctx, req, s.residentID, false)
		s.Require().ErrorIs(err, services.ErrAmountMonthsRange)
	}
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SavePaymentWithMonths", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_HouseNotOwned() {
	ctx := context.Background()
	other := uuid.NewString()
	house := s.house
	house.ResidentID = &other
	s.mockHouseRepo.On("FindHouseByID", ctx, house.HouseID).Return(&house, nil)

	req := dto.SubmitPaymentRequest{HouseID: house.HouseID, AmountMonths: 1, ProofRef: "x"}
	_, err := s.service.SubmitPayment(ctx, req, s.residentID, false)

	s.Require().ErrorIs(err, services.ErrHouseNotOwned)
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_WindowClosed() {
	ctx := context.Background()
	s.mockHouseRepo.On("FindHouseByID", ctx, s.house.HouseID).Return(&s.house, nil)
	s.mockWindowSvc.On("CheckUploadWindow", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(portssvc.WindowDecision{Allowed: false, Reason: "submissions are only accepted between day 1 and day 10 of the month"}, nil)

	req := dto.SubmitPaymentRequest{HouseID: s.house.HouseID, AmountMonths: 2, ProofRef: "x"}
	_, err := s.service.SubmitPayment(ctx, req, s.residentID, false)

	s.Require().ErrorIs(err, services.ErrUploadWindowClosed)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SavePaymentWithMonths", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_AdminBypassesWindow() {
	ctx := context.Background()
	s.mockHouseRepo.On("FindHouseByID", ctx, s.house.HouseID).Return(&s.house, nil)
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, s.house.HouseID).Return([]domain.MonthPeriod{}, nil).Once()
	s.mockPaymentRepo.On("SavePaymentWithMonths", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod")).Return(nil).Once()

	req := dto.SubmitPaymentRequest{HouseID: s.house.HouseID, AmountMonths: 2, ProofRef: "proofs/admin.jpg"}
	payment, err := s.service.SubmitPayment(ctx, req, s.residentID, true)

	s.Require().NoError(err)
	s.Equal(domain.PaymentPending, payment.Status)
	// The window policy must not be consulted at all for admin submissions.
	s.mockWindowSvc.AssertNotCalled(s.T(), "CheckUploadWindow", mock.Anything, mock.Anything)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_RetriesOnceOnClaimRace() {
	ctx := context.Background()
	s.mockHouseRepo.On("FindHouseByID", ctx, s.house.HouseID).Return(&s.house, nil)
	s.allowWindow()

	current := domain.PeriodOf(time.Now().UTC())
	// First read sees nothing occupied; a concurrent submission then claims the
	// current month, so the insert conflicts. The second read sees the claim.
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, s.house.HouseID).Return([]domain.MonthPeriod{}, nil).Once()
	s.mockPaymentRepo.On("SavePaymentWithMonths", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod")).
		Return(apperrors.NewConflictError("month already claimed")).Once()
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, s.house.HouseID).Return([]domain.MonthPeriod{current}, nil).Once()
	s.mockPaymentRepo.On("SavePaymentWithMonths", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod")).
		Return(nil).Once()

	req := dto.SubmitPaymentRequest{HouseID: s.house.HouseID, AmountMonths: 1, ProofRef: "x"}
	payment, err := s.service.SubmitPayment(ctx, req, s.residentID, false)

	s.Require().NoError(err)
	s.Require().Len(payment.Months, 1)
	// The retried allocation starts after the stolen month.
	s.NotEqual(current.Month, payment.Months[0].Month)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestSubmitPayment_ConflictAfterRetrySurfaces() {
	ctx := context.Background()
	s.mockHouseRepo.On("FindHouseByID", ctx, s.house.HouseID).Return(&s.house, nil)
	s.allowWindow()
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, s.house.HouseID).Return([]domain.MonthPeriod{}, nil).Twice()
	s.mockPaymentRepo.On("SavePaymentWithMonths", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod")).
		Return(apperrors.NewConflictError("month already claimed")).Twice()

	req := dto.SubmitPaymentRequest{HouseID: s.house.HouseID, AmountMonths: 1, ProofRef: "x"}
	_, err := s.service.SubmitPayment(ctx, req, s.residentID, false)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestApprovePayment_Success() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:   paymentID,
		ResidentID:  s.residentID,
		HouseID:     s.house.HouseID,
		Status:      domain.PaymentPending,
		TotalAmount: decimal.NewFromInt(150000),
	}
	monthCells := []domain.PaymentMonth{{PaymentMonthID: uuid.NewString(), PaymentID: paymentID, HouseID: s.house.HouseID, Year: 2026, Month: 3}}
	income := &domain.Income{IncomeID: uuid.NewString(), Amount: payment.TotalAmount}

	s.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(payment, nil)
	s.mockPaymentRepo.On("FindMonthsByPaymentID", ctx, paymentID).Return(monthCells, nil)
	s.mockIncomeSvc.On("BuildPaymentIncome", ctx, mock.AnythingOfType("domain.Payment"), []domain.MonthPeriod{{Year: 2026, Month: 3}}, mock.AnythingOfType("time.Time"), s.adminID).
		Return(income, nil)
	s.mockPaymentRepo.On("ApprovePayment", ctx, mock.AnythingOfType("domain.Payment"), income).Return(nil)

	approved, err := s.service.ApprovePayment(ctx, paymentID, s.adminID)

	s.Require().NoError(err)
	s.Equal(domain.PaymentApproved, approved.Status)
	s.Require().NotNil(approved.ApprovedBy)
	s.Equal(s.adminID, *approved.ApprovedBy)
	s.Require().NotNil(approved.ApprovedAt)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestApprovePayment_ExcludedPeriodSkipsIncome() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	payment := &domain.Payment{PaymentID: paymentID, Status: domain.PaymentPending}
	monthCells := []domain.PaymentMonth{{PaymentID: paymentID, Year: 2025, Month: 12}}

	s.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(payment, nil)
	s.mockPaymentRepo.On("FindMonthsByPaymentID", ctx, paymentID).Return(monthCells, nil)
	s.mockIncomeSvc.On("BuildPaymentIncome", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod"), mock.AnythingOfType("time.Time"), s.adminID).
		Return(nil, nil)
	s.mockPaymentRepo.On("ApprovePayment", ctx, mock.AnythingOfType("domain.Payment"), (*domain.Income)(nil)).Return(nil)

	approved, err := s.service.ApprovePayment(ctx, paymentID, s.adminID)

	s.Require().NoError(err)
	s.Equal(domain.PaymentApproved, approved.Status)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestApprovePayment_NotPendingIsIllegal() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	payment := &domain.Payment{PaymentID: paymentID, Status: domain.PaymentApproved}

	s.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(payment, nil)

	_, err := s.service.ApprovePayment(ctx, paymentID, s.adminID)

	s.Require().ErrorIs(err, apperrors.ErrIllegalState)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "ApprovePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestBulkApprovePayments_PartialFailure() {
	ctx := context.Background()
	goodID := uuid.NewString()
	missingID := uuid.NewString()
	good := &domain.Payment{PaymentID: goodID, Status: domain.PaymentPending, TotalAmount: decimal.NewFromInt(100)}
	monthCells := []domain.PaymentMonth{{PaymentID: goodID, Year: 2026, Month: 1}}

	s.mockPaymentRepo.On("FindPaymentByID", ctx, goodID).Return(good, nil)
	s.mockPaymentRepo.On("FindMonthsByPaymentID", ctx, goodID).Return(monthCells, nil)
	s.mockIncomeSvc.On("BuildPaymentIncome", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod"), mock.AnythingOfType("time.Time"), s.adminID).
		Return(&domain.Income{IncomeID: uuid.NewString()}, nil)
	s.mockPaymentRepo.On("ApprovePayment", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("*domain.Income")).Return(nil)
	s.mockPaymentRepo.On("FindPaymentByID", ctx, missingID).Return(nil, apperrors.ErrNotFound)

	result, err := s.service.BulkApprovePayments(ctx, dto.BulkApprovePaymentsRequest{PaymentIDs: []string{goodID, missingID}}, s.adminID)

	s.Require().NoError(err)
	s.Require().Len(result.Approved, 1)
	s.Equal(goodID, result.Approved[0].PaymentID)
	s.Require().Len(result.Errors, 1)
	s.Equal(missingID, result.Errors[0].PaymentID)
	s.NotEmpty(result.Errors[0].Reason)
}

func (s *PaymentServiceTestSuite) TestRejectPayment_EmptyNote() {
	ctx := context.Background()

	_, err := s.service.RejectPayment(ctx, uuid.NewString(), "   ", s.adminID)

	s.Require().ErrorIs(err, services.ErrRejectionNoteRequired)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "RejectPayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestRejectPayment_Success() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	payment := &domain.Payment{PaymentID: paymentID, Status: domain.PaymentPending}

	s.mockPaymentRepo.On("FindPaymentByID", ctx, paymentID).Return(payment, nil)
	s.mockPaymentRepo.On("RejectPayment", ctx, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentRejected && p.RejectionNote != nil && *p.RejectionNote == "blurry proof"
	})).Return(nil)

	rejected, err := s.service.RejectPayment(ctx, paymentID, "blurry proof", s.adminID)

	s.Require().NoError(err)
	s.Equal(domain.PaymentRejected, rejected.Status)
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestBulkCreatePayments_SkipsCollidingHouse() {
	ctx := context.Background()
	collidingHouse := domain.House{HouseID: uuid.NewString(), Code: "B-01", MonthlyRate: decimal.NewFromInt(100000)}
	freeHouse := domain.House{HouseID: uuid.NewString(), Code: "B-02", MonthlyRate: decimal.NewFromInt(100000)}
	targets := []dto.MonthPeriod{{Year: 2026, Month: 3}, {Year: 2026, Month: 4}}

	s.mockHouseRepo.On("FindHouseByID", ctx, collidingHouse.HouseID).Return(&collidingHouse, nil)
	s.mockHouseRepo.On("FindHouseByID", ctx, freeHouse.HouseID).Return(&freeHouse, nil)
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, collidingHouse.HouseID).
		Return([]domain.MonthPeriod{{Year: 2026, Month: 4}}, nil)
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, freeHouse.HouseID).Return([]domain.MonthPeriod{}, nil)
	s.mockPaymentRepo.On("SavePaymentWithMonths", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("[]domain.MonthPeriod")).Return(nil).Once()

	req := dto.BulkCreatePaymentsRequest{
		HouseIDs: []string{collidingHouse.HouseID, freeHouse.HouseID},
		Months:   targets,
	}
	result, err := s.service.BulkCreatePayments(ctx, req, s.adminID)

	s.Require().NoError(err)
	s.Require().Len(result.Created, 1)
	s.Equal(freeHouse.HouseID, result.Created[0].HouseID)
	s.Require().Len(result.Errors, 1)
	s.Equal(collidingHouse.HouseID, result.Errors[0].HouseID)
	s.Contains(result.Errors[0].Reason, "2026-04")
	s.mockPaymentRepo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestGetAvailableMonths_SkipsOccupied() {
	ctx := context.Background()
	current := domain.PeriodOf(time.Now().UTC())

	s.mockHouseRepo.On("FindHouseByID", ctx, s.house.HouseID).Return(&s.house, nil)
	s.mockPaymentRepo.On("FindOccupiedMonths", ctx, s.house.HouseID).Return([]domain.MonthPeriod{current}, nil)

	options, err := s.service.GetAvailableMonths(ctx, s.house.HouseID, 3)

	s.Require().NoError(err)
	s.Require().Len(options, 3)
	for _, opt := range options {
		s.NotEqual(current, opt.Value.ToDomainPeriod())
		s.NotEmpty(opt.Label)
	}
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
