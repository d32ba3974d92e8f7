package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/griyakita/ipl_ledger_app/internal/apperrors"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/core/services"
	"github.com/griyakita/ipl_ledger_app/internal/dto"
	"github.com/griyakita/ipl_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// incomeHandler handles HTTP requests related to the income ledger.
type incomeHandler struct {
	incomeService portssvc.IncomeSvcFacade
}

func newIncomeHandler(is portssvc.IncomeSvcFacade) *incomeHandler {
	return &incomeHandler{
		incomeService: is,
	}
}

// registerIncomeRoutes registers the income ledger routes. The whole group is
// administrator-only; residents see their money through their payments.
func registerIncomeRoutes(rg *gin.RouterGroup, incomeService portssvc.IncomeSvcFacade) {
	h := newIncomeHandler(incomeService)

	incomes := rg.Group("/incomes", middleware.RequireAdmin())
	{
		incomes.POST("", h.createIncome)
		incomes.GET("", h.listIncomes)
		incomes.GET("/:incomeID", h.getIncomeByID)
	}
}

// createIncome godoc
// @Summary Record a manual income
// @Description Adds a manual income entry to the ledger. Payment-derived income is created only by the approval flow, never here.
// @Tags incomes
// @Accept json
// @Produce json
// @Param income body dto.CreateIncomeRequest true "Income details"
// @Success 201 {object} dto.IncomeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /incomes [post]
func (h *incomeHandler) createIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateIncome", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	income, err := h.incomeService.CreateIncome(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, services.ErrIncomeAmountNotPositive) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create income", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create income"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToIncomeResponse(income))
}

// listIncomes godoc
// @Summary List incomes
// @Description Returns a paginated income listing ordered by record date, newest first.
// @Tags incomes
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListIncomesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /incomes [get]
func (h *incomeHandler) listIncomes(c *gin.Context) {
	var params dto.ListIncomesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.incomeService.ListIncomes(c.Request.Context(), params)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list incomes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list incomes"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getIncomeByID godoc
// @Summary Get an income record
// @Description Returns a single income record, including the payment link when the income was derived from an approval.
// @Tags incomes
// @Produce json
// @Param incomeID path string true "Income ID"
// @Success 200 {object} dto.IncomeResponse
// @Failure 404 {object} map[string]string "Income not found"
// @Security BearerAuth
// @Router /incomes/{incomeID} [get]
func (h *incomeHandler) getIncomeByID(c *gin.Context) {
	incomeID := c.Param("incomeID")

	income, err := h.incomeService.GetIncomeByID(c.Request.Context(), incomeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Income not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get income", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get income"})
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeResponse(income))
}
