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

// settingsHandler handles the upload window and excluded period configuration.
type settingsHandler struct {
	settingsService portssvc.SettingsSvcFacade
}

func newSettingsHandler(ss portssvc.SettingsSvcFacade) *settingsHandler {
	return &settingsHandler{
		settingsService: ss,
	}
}

// registerSettingsRoutes registers the configuration routes. Reading the
// upload window is open to every authenticated user (the frontend shows
// residents when submissions open); all writes are administrator-only.
func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvcFacade) {
	h := newSettingsHandler(settingsService)

	settings := rg.Group("/settings")
	{
		settings.GET("/upload-window", h.getUploadWindow)

		admin := settings.Group("", middleware.RequireAdmin())
		{
			admin.PUT("/upload-window", h.updateUploadWindow)
			admin.GET("/excluded-periods", h.listExcludedPeriods)
			admin.POST("/excluded-periods", h.addExcludedPeriod)
			admin.DELETE("/excluded-periods/:excludedPeriodID", h.removeExcludedPeriod)
		}
	}
}

// getUploadWindow godoc
// @Summary Get the upload window
// @Description Returns the day-of-month window during which residents may submit payments. A missing configuration reads as disabled (always open).
// @Tags settings
// @Produce json
// @Success 200 {object} dto.UploadWindowResponse
// @Security BearerAuth
// @Router /settings/upload-window [get]
func (h *settingsHandler) getUploadWindow(c *gin.Context) {
	cfg, err := h.settingsService.GetUploadWindow(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get upload window", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get upload window"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadWindowResponse(cfg))
}

// updateUploadWindow godoc
// @Summary Update the upload window
// @Description Replaces the upload window configuration. The cache is invalidated before the response is sent, so the new window applies to the next submission.
// @Tags settings
// @Accept json
// @Produce json
// @Param window body dto.UpdateUploadWindowRequest true "Window configuration"
// @Success 200 {object} dto.UploadWindowResponse
// @Failure 400 {object} map[string]string "Invalid window bounds"
// @Security BearerAuth
// @Router /settings/upload-window [put]
func (h *settingsHandler) updateUploadWindow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateUploadWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUploadWindow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cfg, err := h.settingsService.UpdateUploadWindow(c.Request.Context(), req, adminID)
	if err != nil {
		if errors.Is(err, services.ErrWindowDayRange) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update upload window", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update upload window"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadWindowResponse(cfg))
}

// listExcludedPeriods godoc
// @Summary List excluded income periods
// @Description Returns every month flagged to suppress income derivation on approval.
// @Tags settings
// @Produce json
// @Success 200 {object} map[string][]dto.ExcludedPeriodResponse
// @Security BearerAuth
// @Router /settings/excluded-periods [get]
func (h *settingsHandler) listExcludedPeriods(c *gin.Context) {
	periods, err := h.settingsService.ListExcludedPeriods(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list excluded periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list excluded periods"})
		return
	}

	out := make([]dto.ExcludedPeriodResponse, len(periods))
	for i := range periods {
		out[i] = dto.ToExcludedPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, gin.H{"excludedPeriods": out})
}

// addExcludedPeriod godoc
// @Summary Flag an excluded income period
// @Description Flags a month so approvals covering it produce no income. Approvals themselves are unaffected.
// @Tags settings
// @Accept json
// @Produce json
// @Param period body dto.CreateExcludedPeriodRequest true "Month to exclude"
// @Success 201 {object} dto.ExcludedPeriodResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Month already excluded"
// @Security BearerAuth
// @Router /settings/excluded-periods [post]
func (h *settingsHandler) addExcludedPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExcludedPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddExcludedPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.settingsService.AddExcludedPeriod(c.Request.Context(), req, adminID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to add excluded period", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add excluded period"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToExcludedPeriodResponse(period))
}

// removeExcludedPeriod godoc
// @Summary Unflag an excluded income period
// @Description Removes the exclusion flag. Only affects approvals from now on; nothing is backfilled automatically.
// @Tags settings
// @Param excludedPeriodID path string true "Excluded period ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Excluded period not found"
// @Security BearerAuth
// @Router /settings/excluded-periods/{excludedPeriodID} [delete]
func (h *settingsHandler) removeExcludedPeriod(c *gin.Context) {
	excludedPeriodID := c.Param("excludedPeriodID")

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.settingsService.RemoveExcludedPeriod(c.Request.Context(), excludedPeriodID, adminID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Excluded period not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to remove excluded period", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove excluded period"})
		return
	}

	c.Status(http.StatusNoContent)
}
