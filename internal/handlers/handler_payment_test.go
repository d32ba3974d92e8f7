package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/handlers"
	"github.com/griyakita/ipl_ledger_app/internal/platform/config"
	"github.com/griyakita/ipl_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string, requestingUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams, requestingUserID string) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}
func (m *MockPaymentService) GetOccupiedMonths(ctx context.Context, houseID string) ([]domain.MonthPeriod, error) {
	args := m.Called(ctx, houseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthPeriod), args.Error(1)
}
func (m *MockPaymentService) GetAvailableMonths(ctx context.Context, houseID string, count int) ([]dto.AvailableMonthOption, error) {
	args := m.Called(ctx, houseID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.AvailableMonthOption), args.Error(1)
}
func (m *MockPaymentService) SubmitPayment(ctx context.Context, req dto.SubmitPaymentRequest, residentID string, bypassWindow bool) (*domain.Payment, error) {
	args := m.Called(ctx, req, residentID, bypassWindow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) AdminCreatePayment(ctx context.Context, req dto.AdminCreatePaymentRequest, adminID string) (*domain.Payment, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) BulkCreatePayments(ctx context.Context, req dto.BulkCreatePaymentsRequest, adminID string) (*dto.BulkCreateResult, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BulkCreateResult), args.Error(1)
}
func (m *MockPaymentService) ApprovePayment(ctx context.Context, paymentID string, adminID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) BulkApprovePayments(ctx context.Context, req dto.BulkApprovePaymentsRequest, adminID string) (*dto.BulkApproveResult, error) {
	args := m.Called(ctx, req, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BulkApproveResult), args.Error(1)
}
func (m *MockPaymentService) RejectPayment(ctx context.Context, paymentID string, note string, adminID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, note, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) DeletePayment(ctx context.Context, paymentID string, adminID string) error {
	args := m.Called(ctx, paymentID, adminID)
	return args.Error(0)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Thin stubs for the remaining container slots ---
// Route registration needs a full container; these tests only exercise the
// payment surface, so the other facades are inert stubs.

type stubIncomeService struct{}

func (stubIncomeService) BuildPaymentIncome(ctx context.Context, payment domain.Payment, periods []domain.MonthPeriod, approvedAt time.Time, approvedBy string) (*domain.Income, error) {
	return nil, nil
}
func (stubIncomeService) GetIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	return nil, apperrors.ErrNotFound
}
func (stubIncomeService) ListIncomes(ctx context.Context, params dto.ListIncomesParams) (*dto.ListIncomesResponse, error) {
	return &dto.ListIncomesResponse{}, nil
}
func (stubIncomeService) CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorUserID string) (*domain.Income, error) {
	return nil, apperrors.ErrValidation
}

type stubSettingsService struct{}

func (stubSettingsService) CheckUploadWindow(ctx context.Context, at time.Time) (portssvc.WindowDecision, error) {
	return portssvc.WindowDecision{Allowed: true}, nil
}
func (stubSettingsService) GetUploadWindow(ctx context.Context) (*domain.UploadWindowConfig, error) {
	return &domain.UploadWindowConfig{}, nil
}
func (stubSettingsService) UpdateUploadWindow(ctx context.Context, req dto.UpdateUploadWindowRequest, adminID string) (*domain.UploadWindowConfig, error) {
	return &domain.UploadWindowConfig{}, nil
}
func (stubSettingsService) IsExcludedPeriod(ctx context.Context, period domain.MonthPeriod) (bool, error) {
	return false, nil
}
func (stubSettingsService) ListExcludedPeriods(ctx context.Context) ([]domain.ExcludedIncomePeriod, error) {
	return nil, nil
}
func (stubSettingsService) AddExcludedPeriod(ctx context.Context, req dto.CreateExcludedPeriodRequest, adminID string) (*domain.ExcludedIncomePeriod, error) {
	return nil, apperrors.ErrValidation
}
func (stubSettingsService) RemoveExcludedPeriod(ctx context.Context, excludedPeriodID string, adminID string) error {
	return apperrors.ErrNotFound
}

type stubHouseService struct{}

func (stubHouseService) GetHouseByID(ctx context.Context, houseID string) (*domain.House, error) {
	return nil, apperrors.ErrNotFound
}
func (stubHouseService) ListHouses(ctx context.Context) ([]domain.House, error) { return nil, nil }
func (stubHouseService) CreateHouse(ctx context.Context, req dto.CreateHouseRequest, adminID string) (*domain.House, error) {
	return nil, apperrors.ErrValidation
}
func (stubHouseService) AssignResident(ctx context.Context, houseID string, residentID *string, adminID string) error {
	return apperrors.ErrNotFound
}

type stubUserService struct{}

func (stubUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, apperrors.ErrNotFound
}
func (stubUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	return nil, apperrors.ErrValidation
}
func (stubUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return nil, apperrors.ErrUnauthorized
}
func (stubUserService) CreateOAuthUser(ctx context.Context, name, email, provider, providerUserID string, emailVerified bool) (*domain.User, error) {
	return nil, apperrors.ErrValidation
}

type stubTokenService struct{}

func (stubTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	return "", time.Time{}, nil
}

type stubGoogleOAuthService struct{}

func (stubGoogleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	return nil, apperrors.ErrUnauthorized
}
func (stubGoogleOAuthService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	return nil, apperrors.ErrUnauthorized
}

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
}

func (suite *PaymentHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "ipl-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockPaymentService = new(MockPaymentService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // no swagger routes in tests
	}
	container := &portssvc.ServiceContainer{
		Payment:            suite.mockPaymentService,
		Income:             stubIncomeService{},
		Settings:           stubSettingsService{},
		House:              stubHouseService{},
		User:               stubUserService{},
		TokenService:       stubTokenService{},
		GoogleOAuthHandler: stubGoogleOAuthService{},
	}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *PaymentHandlerTestSuite) doJSON(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaymentHandlerTestSuite) TestSubmitPayment_Success() {
	residentID := uuid.NewString()
	houseID := uuid.NewString()
	reqBody := dto.SubmitPaymentRequest{HouseID: houseID, AmountMonths: 3, ProofRef: "transfer-142"}

	created := &domain.Payment{
		PaymentID:    uuid.NewString(),
		ResidentID:   residentID,
		HouseID:      houseID,
		AmountMonths: 3,
		TotalAmount:  decimal.NewFromInt(450000),
		Status:       domain.PaymentPending,
		ProofRef:     "transfer-142",
		Months: []domain.PaymentMonth{
			{Year: 2026, Month: 9}, {Year: 2026, Month: 10}, {Year: 2026, Month: 11},
		},
	}
	suite.mockPaymentService.On("SubmitPayment", mock.Anything, reqBody, residentID, false).
		Return(created, nil).Once()

	token := suite.generateTestToken(residentID, domain.RoleResident)
	w := suite.doJSON(http.MethodPost, "/api/v1/payments", token, reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.PaymentID, resp.PaymentID)
	suite.Equal("PENDING", resp.Status)
	suite.Len(resp.Months, 3)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestSubmitPayment_AdminTokenSetsBypass() {
	adminID := uuid.NewString()
	houseID := uuid.NewString()
	reqBody := dto.SubmitPaymentRequest{HouseID: houseID, AmountMonths: 1, ProofRef: "transfer-9"}

	created := &domain.Payment{
		PaymentID:    uuid.NewString(),
		ResidentID:   adminID,
		HouseID:      houseID,
		AmountMonths: 1,
		TotalAmount:  decimal.NewFromInt(150000),
		Status:       domain.PaymentPending,
		ProofRef:     "transfer-9",
		Months:       []domain.PaymentMonth{{Year: 2026, Month: 9}},
	}
	// An admin role claim flips the window bypass flag on submission.
	suite.mockPaymentService.On("SubmitPayment", mock.Anything, reqBody, adminID, true).
		Return(created, nil).Once()

	token := suite.generateTestToken(adminID, domain.RoleAdmin)
	w := suite.doJSON(http.MethodPost, "/api/v1/payments", token, reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestSubmitPayment_NoToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/payments", "", dto.SubmitPaymentRequest{HouseID: "h", AmountMonths: 1, ProofRef: "x"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "SubmitPayment")
}

func (suite *PaymentHandlerTestSuite) TestApprovePayment_ForbiddenForResident() {
	residentID := uuid.NewString()
	token := suite.generateTestToken(residentID, domain.RoleResident)

	w := suite.doJSON(http.MethodPost, "/api/v1/payments/"+uuid.NewString()+"/approve", token, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "ApprovePayment")
}

func (suite *PaymentHandlerTestSuite) TestApprovePayment_AdminSuccess() {
	adminID := uuid.NewString()
	paymentID := uuid.NewString()
	approvedAt := time.Now().UTC()
	approved := &domain.Payment{
		PaymentID:  paymentID,
		Status:     domain.PaymentApproved,
		ApprovedBy: &adminID,
		ApprovedAt: &approvedAt,
	}
	suite.mockPaymentService.On("ApprovePayment", mock.Anything, paymentID, adminID).
		Return(approved, nil).Once()

	token := suite.generateTestToken(adminID, domain.RoleAdmin)
	w := suite.doJSON(http.MethodPost, "/api/v1/payments/"+paymentID+"/approve", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.PaymentResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("APPROVED", resp.Status)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestApprovePayment_NotPendingConflict() {
	adminID := uuid.NewString()
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("ApprovePayment", mock.Anything, paymentID, adminID).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "payment is not pending", apperrors.ErrIllegalState)).Once()

	token := suite.generateTestToken(adminID, domain.RoleAdmin)
	w := suite.doJSON(http.MethodPost, "/api/v1/payments/"+paymentID+"/approve", token, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestRejectPayment_MissingNote() {
	adminID := uuid.NewString()
	token := suite.generateTestToken(adminID, domain.RoleAdmin)

	w := suite.doJSON(http.MethodPost, "/api/v1/payments/"+uuid.NewString()+"/reject", token, map[string]string{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "RejectPayment")
}

func (suite *PaymentHandlerTestSuite) TestGetPaymentByID_NotFound() {
	userID := uuid.NewString()
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("GetPaymentByID", mock.Anything, paymentID, userID).
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()

	token := suite.generateTestToken(userID, domain.RoleResident)
	w := suite.doJSON(http.MethodGet, "/api/v1/payments/"+paymentID, token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestListPayments_PassesFilters() {
	userID := uuid.NewString()
	suite.mockPaymentService.On("ListPayments", mock.Anything,
		mock.MatchedBy(func(p dto.ListPaymentsParams) bool {
			return p.Limit == 10 && p.Status != nil && *p.Status == "PENDING"
		}),
		userID,
	).Return(&dto.ListPaymentsResponse{}, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleResident)
	w := suite.doJSON(http.MethodGet, "/api/v1/payments?limit=10&status=PENDING", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetAvailableMonths_DefaultCount() {
	userID := uuid.NewString()
	houseID := uuid.NewString()
	options := []dto.AvailableMonthOption{
		{Label: "September 2026", Value: dto.MonthPeriod{Year: 2026, Month: 9}},
	}
	suite.mockPaymentService.On("GetAvailableMonths", mock.Anything, houseID, 0).
		Return(options, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleResident)
	w := suite.doJSON(http.MethodGet, "/api/v1/houses/"+houseID+"/available-months", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "September 2026")
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
