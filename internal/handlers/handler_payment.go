package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/core/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers routes related to payments and the per-house
// month lookups they depend on.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.submitPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:paymentID", h.getPaymentByID)

		admin := payments.Group("", middleware.RequireAdmin())
		{
			admin.POST("/admin-create", h.adminCreatePayment)
			admin.POST("/bulk", h.bulkCreatePayments)
			admin.POST("/bulk-approve", h.bulkApprovePayments)
			admin.POST("/:paymentID/approve", h.approvePayment)
			admin.POST("/:paymentID/reject", h.rejectPayment)
			admin.DELETE("/:paymentID", h.deletePayment)
		}
	}

	houses := rg.Group("/houses")
	{
		houses.GET("/:houseID/occupied-months", h.getOccupiedMonths)
		houses.GET("/:houseID/available-months", h.getAvailableMonths)
	}
}

// respondPaymentError maps service errors to HTTP responses. The 4xx family is
// returned with the error text; everything else is logged and masked as 500.
func respondPaymentError(c *gin.Context, err error, logAction string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, services.ErrAmountMonthsRange),
		errors.Is(err, services.ErrRejectionNoteRequired),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrHouseNotOwned),
		errors.Is(err, services.ErrUploadWindowClosed),
		errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrIllegalState),
		errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(logAction, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": logAction})
	}
}

// submitPayment godoc
// @Summary Submit a payment
// @Description Creates a PENDING payment for the authenticated resident's own house. Covered months are allocated automatically from the first free month. Subject to the upload window.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.SubmitPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "House not owned or upload window closed"
// @Failure 409 {object} map[string]string "Months already claimed"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) submitPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	residentID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.SubmitPayment(c.Request.Context(), req, residentID, middleware.IsAdminRequest(c))
	if err != nil {
		respondPaymentError(c, err, "Failed to submit payment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// listPayments godoc
// @Summary List payments
// @Description Returns a paginated payment listing. Residents only ever see their own payments; administrators may filter by house and status.
// @Tags payments
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token"
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Param houseID query string false "Filter by house"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), params, userID)
	if err != nil {
		respondPaymentError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getPaymentByID godoc
// @Summary Get a payment
// @Description Returns a payment with its covered months. Residents may only read their own payments.
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPaymentByID(c *gin.Context) {
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondPaymentError(c, err, "Failed to get payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// adminCreatePayment godoc
// @Summary Create a payment on behalf of a resident
// @Description Administrator records a payment for any resident and house. The upload window check is skipped.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.AdminCreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Resident or house not found"
// @Failure 409 {object} map[string]string "Months already claimed"
// @Security BearerAuth
// @Router /payments/admin-create [post]
func (h *paymentHandler) adminCreatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdminCreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdminCreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.AdminCreatePayment(c.Request.Context(), req, adminID)
	if err != nil {
		respondPaymentError(c, err, "Failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// bulkCreatePayments godoc
// @Summary Mark houses paid in bulk
// @Description Creates payments for a set of houses covering explicit months. Per-item semantics: a house with any colliding month is skipped whole and reported, the rest proceed.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.BulkCreatePaymentsRequest true "Houses and months"
// @Success 200 {object} dto.BulkCreateResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payments/bulk [post]
func (h *paymentHandler) bulkCreatePayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkCreatePaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkCreatePayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.paymentService.BulkCreatePayments(c.Request.Context(), req, adminID)
	if err != nil {
		respondPaymentError(c, err, "Failed to bulk create payments")
		return
	}

	c.JSON(http.StatusOK, result)
}

// approvePayment godoc
// @Summary Approve a payment
// @Description Flips a PENDING payment to APPROVED and records the derived income in the same transaction. Months covered by an excluded period yield no income but the approval still succeeds.
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Security BearerAuth
// @Router /payments/{paymentID}/approve [post]
func (h *paymentHandler) approvePayment(c *gin.Context) {
	paymentID := c.Param("paymentID")

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.ApprovePayment(c.Request.Context(), paymentID, adminID)
	if err != nil {
		respondPaymentError(c, err, "Failed to approve payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// bulkApprovePayments godoc
// @Summary Approve payments in bulk
// @Description Approves each payment independently; failures are reported per item and never roll back the others.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.BulkApprovePaymentsRequest true "Payment IDs"
// @Success 200 {object} dto.BulkApproveResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payments/bulk-approve [post]
func (h *paymentHandler) bulkApprovePayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkApprovePaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkApprovePayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.paymentService.BulkApprovePayments(c.Request.Context(), req, adminID)
	if err != nil {
		respondPaymentError(c, err, "Failed to bulk approve payments")
		return
	}

	c.JSON(http.StatusOK, result)
}

// rejectPayment godoc
// @Summary Reject a payment
// @Description Flips a PENDING payment to REJECTED with a mandatory note and releases its claimed months for re-submission.
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Param rejection body dto.RejectPaymentRequest true "Rejection note"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Missing note"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Security BearerAuth
// @Router /payments/{paymentID}/reject [post]
func (h *paymentHandler) rejectPayment(c *gin.Context) {
	paymentID := c.Param("paymentID")

	var req dto.RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.RejectPayment(c.Request.Context(), paymentID, req.Note, adminID)
	if err != nil {
		respondPaymentError(c, err, "Failed to reject payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Removes a payment and its month cells. Income already derived from the payment is kept with the link cleared.
// @Tags payments
// @Param paymentID path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentID} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	paymentID := c.Param("paymentID")

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), paymentID, adminID); err != nil {
		respondPaymentError(c, err, "Failed to delete payment")
		return
	}

	c.Status(http.StatusNoContent)
}

// getOccupiedMonths godoc
// @Summary List occupied months for a house
// @Description Returns every month claimed by a PENDING or APPROVED payment of the house.
// @Tags payments
// @Produce json
// @Param houseID path string true "House ID"
// @Success 200 {object} map[string][]dto.MonthPeriod
// @Failure 404 {object} map[string]string "House not found"
// @Security BearerAuth
// @Router /houses/{houseID}/occupied-months [get]
func (h *paymentHandler) getOccupiedMonths(c *gin.Context) {
	houseID := c.Param("houseID")

	periods, err := h.paymentService.GetOccupiedMonths(c.Request.Context(), houseID)
	if err != nil {
		respondPaymentError(c, err, "Failed to get occupied months")
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": dto.FromDomainPeriods(periods)})
}

// getAvailableMonths godoc
// @Summary List available months for a house
// @Description Returns the next free months of the house as labeled options, starting from the current month.
// @Tags payments
// @Produce json
// @Param houseID path string true "House ID"
// @Param count query int false "Number of options (default 12, max 36)"
// @Success 200 {object} map[string][]dto.AvailableMonthOption
// @Failure 404 {object} map[string]string "House not found"
// @Security BearerAuth
// @Router /houses/{houseID}/available-months [get]
func (h *paymentHandler) getAvailableMonths(c *gin.Context) {
	houseID := c.Param("houseID")

	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		count = parsed
	}

	options, err := h.paymentService.GetAvailableMonths(c.Request.Context(), houseID, count)
	if err != nil {
		respondPaymentError(c, err, "Failed to get available months")
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": options})
}
