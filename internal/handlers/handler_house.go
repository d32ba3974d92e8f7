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

// houseHandler handles HTTP requests related to the house registry.
type houseHandler struct {
	houseService portssvc.HouseSvcFacade
}

func newHouseHandler(hs portssvc.HouseSvcFacade) *houseHandler {
	return &houseHandler{
		houseService: hs,
	}
}

// registerHouseRoutes registers the house registry routes. Reads are open to
// every authenticated user; registry writes are administrator-only.
func registerHouseRoutes(rg *gin.RouterGroup, houseService portssvc.HouseSvcFacade) {
	h := newHouseHandler(houseService)

	houses := rg.Group("/houses")
	{
		houses.GET("", h.listHouses)
		houses.GET("/:houseID", h.getHouseByID)

		admin := houses.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createHouse)
			admin.PUT("/:houseID/resident", h.assignResident)
		}
	}
}

// createHouse godoc
// @Summary Register a house
// @Description Adds a house to the registry. The monthly rate comes from the house type.
// @Tags houses
// @Accept json
// @Produce json
// @Param house body dto.CreateHouseRequest true "House details"
// @Success 201 {object} dto.HouseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "House code already registered"
// @Security BearerAuth
// @Router /houses [post]
func (h *houseHandler) createHouse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateHouse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	house, err := h.houseService.CreateHouse(c.Request.Context(), req, adminID)
	if err != nil {
		if errors.Is(err, services.ErrHouseCodeTaken) || errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create house", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create house"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToHouseResponse(house))
}

// listHouses godoc
// @Summary List houses
// @Description Returns every registered house ordered by code.
// @Tags houses
// @Produce json
// @Success 200 {object} map[string][]dto.HouseResponse
// @Security BearerAuth
// @Router /houses [get]
func (h *houseHandler) listHouses(c *gin.Context) {
	houses, err := h.houseService.ListHouses(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list houses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list houses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"houses": dto.ToHouseResponses(houses)})
}

// getHouseByID godoc
// @Summary Get a house
// @Description Returns a house with its monthly rate and current resident.
// @Tags houses
// @Produce json
// @Param houseID path string true "House ID"
// @Success 200 {object} dto.HouseResponse
// @Failure 404 {object} map[string]string "House not found"
// @Security BearerAuth
// @Router /houses/{houseID} [get]
func (h *houseHandler) getHouseByID(c *gin.Context) {
	houseID := c.Param("houseID")

	house, err := h.houseService.GetHouseByID(c.Request.Context(), houseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "House not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get house", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get house"})
		return
	}

	c.JSON(http.StatusOK, dto.ToHouseResponse(house))
}

// assignResident godoc
// @Summary Assign or clear a house's resident
// @Description Sets the occupying resident of a house, or clears it when residentID is null.
// @Tags houses
// @Accept json
// @Param houseID path string true "House ID"
// @Param assignment body dto.AssignResidentRequest true "Resident assignment"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "House or resident not found"
// @Security BearerAuth
// @Router /houses/{houseID}/resident [put]
func (h *houseHandler) assignResident(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	houseID := c.Param("houseID")

	var req dto.AssignResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AssignResident", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	adminID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.houseService.AssignResident(c.Request.Context(), houseID, req.ResidentID, adminID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to assign resident", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign resident"})
		return
	}

	c.Status(http.StatusNoContent)
}
