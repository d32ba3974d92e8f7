package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
	"github.com/griyakita/ipl_ledger_app/internal/utils/months"
)

var (
	ErrAmountMonthsRange     = errors.New("amountMonths must be between 1 and 12")
	ErrHouseNotOwned         = errors.New("house does not belong to the submitting resident")
	ErrUploadWindowClosed    = errors.New("upload window is closed")
	ErrRejectionNoteRequired = errors.New("rejection note is required")
)

const maxAmountMonths = 12

// paymentService owns the payment month ledger: allocation, the overlap
// guard, and the PENDING -> APPROVED/REJECTED lifecycle.
type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryWithTx
	houseRepo   portsrepo.HouseRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	incomeSvc   portssvc.IncomeDerivationSvc
	settingsSvc portssvc.UploadWindowSvc

	now func() time.Time // overridable in tests
}

// NewPaymentService creates a new payment ledger service.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryWithTx,
	houseRepo portsrepo.HouseRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	incomeSvc portssvc.IncomeDerivationSvc,
	settingsSvc portssvc.UploadWindowSvc,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo: paymentRepo,
		houseRepo:   houseRepo,
		userRepo:    userRepo,
		incomeSvc:   incomeSvc,
		settingsSvc: settingsSvc,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// SubmitPayment creates a resident's own PENDING payment, allocating the
// covered months automatically from the next free month. Admins submit with
// bypassWindow set and are not subject to the upload window.
func (s *paymentService) SubmitPayment(ctx context.Context, req dto.SubmitPaymentRequest, residentID string, bypassWindow bool) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AmountMonths < 1 || req.AmountMonths > maxAmountMonths {
		return nil, fmt.Errorf("%w: got %d", ErrAmountMonthsRange, req.AmountMonths)
	}

	house, err := s.houseRepo.FindHouseByID(ctx, req.HouseID)
	if err != nil {
		return nil, err
	}
	if house.ResidentID == nil || *house.ResidentID != residentID {
		return nil, fmt.Errorf("%w: house %s", ErrHouseNotOwned, house.Code)
	}

	if !bypassWindow {
		decision, err := s.settingsSvc.CheckUploadWindow(ctx, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to check upload window: %w", err)
		}
		if !decision.Allowed {
			logger.Warn("Payment submission outside upload window", slog.String("resident_id", residentID))
			return nil, fmt.Errorf("%w: %s", ErrUploadWindowClosed, decision.Reason)
		}
	}

	return s.createAutoAllocated(ctx, residentID, *house, req.AmountMonths, req.ProofRef, residentID)
}

// AdminCreatePayment creates a payment on behalf of a resident. The upload
// window check is skipped; this is the manual correction path.
func (s *paymentService) AdminCreatePayment(ctx context.Context, req dto.AdminCreatePaymentRequest, adminID string) (*domain.Payment, error) {
	if req.AmountMonths < 1 || req.AmountMonths > maxAmountMonths {
		return nil, fmt.Errorf("%w: got %d", ErrAmountMonthsRange, req.AmountMonths)
	}

	if _, err := s.userRepo.FindUserByID(ctx, req.ResidentID); err != nil {
		return nil, fmt.Errorf("resident %s: %w", req.ResidentID, err)
	}
	house, err := s.houseRepo.FindHouseByID(ctx, req.HouseID)
	if err != nil {
		return nil, err
	}

	return s.createAutoAllocated(ctx, req.ResidentID, *house, req.AmountMonths, req.ProofRef, adminID)
}

// createAutoAllocated runs the allocation pipeline: occupied months -> next
// start month -> covered months -> overlap guard -> persist. The partial
// unique index is the real arbiter under concurrency; when it fires we retry
// exactly once with a freshly recomputed start month.
func (s *paymentService) createAutoAllocated(ctx context.Context, residentID string, house domain.House, amountMonths int, proofRef string, creatorUserID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for attempt := 0; ; attempt++ {
		occupied, err := s.paymentRepo.FindOccupiedMonths(ctx, house.HouseID)
		if err != nil {
			return nil, err
		}

		start := months.NextStartMonth(occupied, s.now())
		covered := months.CoveredMonths(start, amountMonths)

		if colliding := months.Overlap(occupied, covered); len(colliding) > 0 {
			return nil, apperrors.NewConflictError("months already claimed for house " + house.Code + ": " + months.FormatPeriods(colliding))
		}

		payment := s.buildPayment(residentID, house, covered, amountMonths, proofRef, creatorUserID)
		err = s.paymentRepo.SavePaymentWithMonths(ctx, payment, covered)
		if err == nil {
			logger.Info("Payment created",
				slog.String("payment_id", payment.PaymentID),
				slog.String("house_id", house.HouseID),
				slog.Int("amount_months", amountMonths),
				slog.String("first_month", months.FormatPeriods(covered[:1])),
			)
			return &payment, nil
		}
		if errors.Is(err, apperrors.ErrConflict) && attempt == 0 {
			// Lost a race for the same house; recompute the start month once.
			logger.Warn("Month claim collision, retrying allocation", slog.String("house_id", house.HouseID))
			continue
		}
		return nil, err
	}
}

// buildPayment assembles a PENDING payment with its month cells.
func (s *paymentService) buildPayment(residentID string, house domain.House, covered []domain.MonthPeriod, amountMonths int, proofRef string, creatorUserID string) domain.Payment {
	now := s.now()
	paymentID := uuid.NewString()

	monthCells := make([]domain.PaymentMonth, len(covered))
	for i, p := range covered {
		monthCells[i] = domain.PaymentMonth{
			PaymentMonthID: uuid.NewString(),
			PaymentID:      paymentID,
			HouseID:        house.HouseID,
			Year:           p.Year,
			Month:          p.Month,
			Released:       false,
		}
	}

	return domain.Payment{
		PaymentID:    paymentID,
		ResidentID:   residentID,
		HouseID:      house.HouseID,
		AmountMonths: amountMonths,
		TotalAmount:  house.MonthlyRate.Mul(decimal.NewFromInt(int64(amountMonths))),
		Status:       domain.PaymentPending,
		ProofRef:     proofRef,
		Months:       monthCells,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
}

// BulkCreatePayments marks a set of houses paid for explicit months. Each
// house is its own transaction: one house's conflict never blocks the rest,
// and a house with any colliding month is skipped whole.
func (s *paymentService) BulkCreatePayments(ctx context.Context, req dto.BulkCreatePaymentsRequest, adminID string) (*dto.BulkCreateResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	targets := make([]domain.MonthPeriod, len(req.Months))
	for i, m := range req.Months {
		targets[i] = m.ToDomainPeriod()
	}

	result := &dto.BulkCreateResult{
		Created: []dto.PaymentResponse{},
		Errors:  []dto.BulkItemError{},
	}

	for _, houseID := range req.HouseIDs {
		house, err := s.houseRepo.FindHouseByID(ctx, houseID)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkItemError{HouseID: houseID, Reason: err.Error()})
			continue
		}

		occupied, err := s.paymentRepo.FindOccupiedMonths(ctx, houseID)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkItemError{HouseID: houseID, Reason: err.Error()})
			continue
		}
		if colliding := months.Overlap(occupied, targets); len(colliding) > 0 {
			result.Errors = append(result.Errors, dto.BulkItemError{
				HouseID: houseID,
				Reason:  "months already claimed: " + months.FormatPeriods(colliding),
			})
			continue
		}

		residentID := adminID
		if house.ResidentID != nil {
			residentID = *house.ResidentID
		}

		payment := s.buildPayment(residentID, *house, targets, len(targets), req.ProofRef, adminID)
		if err := s.paymentRepo.SavePaymentWithMonths(ctx, payment, targets); err != nil {
			result.Errors = append(result.Errors, dto.BulkItemError{HouseID: houseID, Reason: err.Error()})
			continue
		}
		result.Created = append(result.Created, dto.ToPaymentResponse(&payment))
	}

	logger.Info("Bulk payment creation finished",
		slog.Int("created", len(result.Created)),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// ApprovePayment flips a PENDING payment to APPROVED and derives its income
// inside the same transaction. A payment can never be observed as APPROVED
// without either a linked income or a deliberate exclusion.
func (s *paymentService) ApprovePayment(ctx context.Context, paymentID string, adminID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, apperrors.NewAppError(409, "payment "+paymentID+" is already "+string(payment.Status), apperrors.ErrIllegalState)
	}

	monthCells, err := s.paymentRepo.FindMonthsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	periods := make([]domain.MonthPeriod, len(monthCells))
	for i, m := range monthCells {
		periods[i] = m.Period()
	}

	now := s.now()
	payment.Status = domain.PaymentApproved
	payment.ApprovedBy = &adminID
	payment.ApprovedAt = &now
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = adminID
	payment.Months = monthCells

	income, err := s.incomeSvc.BuildPaymentIncome(ctx, *payment, periods, now, adminID)
	if err != nil {
		return nil, fmt.Errorf("income derivation failed for payment %s: %w", paymentID, err)
	}

	if err := s.paymentRepo.ApprovePayment(ctx, *payment, income); err != nil {
		return nil, err
	}

	logger.Info("Payment approved",
		slog.String("payment_id", paymentID),
		slog.String("approved_by", adminID),
		slog.Bool("income_created", income != nil),
	)
	return payment, nil
}

// BulkApprovePayments approves each payment independently; a failure on one is
// recorded and does not prevent others from succeeding.
func (s *paymentService) BulkApprovePayments(ctx context.Context, req dto.BulkApprovePaymentsRequest, adminID string) (*dto.BulkApproveResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	result := &dto.BulkApproveResult{
		Approved: []dto.PaymentResponse{},
		Errors:   []dto.BulkItemError{},
	}

	for _, paymentID := range req.PaymentIDs {
		payment, err := s.ApprovePayment(ctx, paymentID, adminID)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkItemError{PaymentID: paymentID, Reason: err.Error()})
			continue
		}
		result.Approved = append(result.Approved, dto.ToPaymentResponse(payment))
	}

	logger.Info("Bulk approval finished",
		slog.Int("approved", len(result.Approved)),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// RejectPayment flips a PENDING payment to REJECTED with a mandatory note and
// releases its claimed months, so the resident may immediately resubmit.
func (s *paymentService) RejectPayment(ctx context.Context, paymentID string, note string, adminID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrRejectionNoteRequired
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, apperrors.NewAppError(409, "payment "+paymentID+" is already "+string(payment.Status), apperrors.ErrIllegalState)
	}

	now := s.now()
	payment.Status = domain.PaymentRejected
	payment.RejectionNote = &note
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = adminID

	if err := s.paymentRepo.RejectPayment(ctx, *payment); err != nil {
		return nil, err
	}

	logger.Info("Payment rejected", slog.String("payment_id", paymentID), slog.String("rejected_by", adminID))
	return payment, nil
}

// DeletePayment removes a payment and its month cells. Income already derived
// from the payment keeps its row; bookkeeping history is never un-written.
func (s *paymentService) DeletePayment(ctx context.Context, paymentID string, adminID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.paymentRepo.DeletePayment(ctx, paymentID); err != nil {
		return err
	}

	logger.Info("Payment deleted", slog.String("payment_id", paymentID), slog.String("deleted_by", adminID))
	return nil
}

// GetPaymentByID retrieves a payment with its month cells. Residents may only
// read their own payments; administrators may read any.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string, requestingUserID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.ResidentID != requestingUserID {
		requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
		if err != nil {
			return nil, err
		}
		if !requester.IsAdmin() {
			return nil, apperrors.ErrForbidden
		}
	}

	monthCells, err := s.paymentRepo.FindMonthsByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	payment.Months = monthCells
	return payment, nil
}

// ListPayments retrieves a paginated, filtered payment listing. Non-admin
// requesters are restricted to their own payments.
func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams, requestingUserID string) (*dto.ListPaymentsResponse, error) {
	filter := domain.PaymentFilter{
		HouseID: params.HouseID,
	}
	if params.Status != nil {
		status := domain.PaymentStatus(*params.Status)
		filter.Status = &status
	}

	requester, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() {
		filter.ResidentID = &requestingUserID
	}

	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListPaymentsResponse{
		Payments:  make([]dto.PaymentResponse, len(payments)),
		NextToken: nextToken,
	}
	for i := range payments {
		resp.Payments[i] = dto.ToPaymentResponse(&payments[i])
	}
	return resp, nil
}

// GetOccupiedMonths returns every month cell claimed for a house across
// non-rejected payments.
func (s *paymentService) GetOccupiedMonths(ctx context.Context, houseID string) ([]domain.MonthPeriod, error) {
	if _, err := s.houseRepo.FindHouseByID(ctx, houseID); err != nil {
		return nil, err
	}
	return s.paymentRepo.FindOccupiedMonths(ctx, houseID)
}

// GetAvailableMonths returns the next count free months for a house as
// labeled options, for month pickers.
func (s *paymentService) GetAvailableMonths(ctx context.Context, houseID string, count int) ([]dto.AvailableMonthOption, error) {
	if count <= 0 {
		count = maxAmountMonths
	}
	if count > 36 {
		count = 36
	}

	occupied, err := s.GetOccupiedMonths(ctx, houseID)
	if err != nil {
		return nil, err
	}

	taken := make(map[domain.MonthPeriod]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}

	options := make([]dto.AvailableMonthOption, 0, count)
	candidate := domain.PeriodOf(s.now())
	for len(options) < count {
		if _, ok := taken[candidate]; !ok {
			options = append(options, dto.AvailableMonthOption{
				Label: months.Label(candidate),
				Value: dto.FromDomainPeriod(candidate),
			})
		}
		candidate.Month++
		if candidate.Month > 12 {
			candidate.Month = 1
			candidate.Year++
		}
	}
	return options, nil
}
