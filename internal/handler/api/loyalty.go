package api

import (
	"errors"
	"net/http"

	reqdto "salon-scheduler/internal/handler/dto/request"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoyaltyHandler struct {
	loyaltyCommands commands.LoyaltyCommands
	loyaltyQueries  queries.LoyaltyQueries
}

func NewLoyaltyHandler(loyaltyCommands commands.LoyaltyCommands, loyaltyQueries queries.LoyaltyQueries) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyCommands: loyaltyCommands,
		loyaltyQueries:  loyaltyQueries,
	}
}

// @Summary Own loyalty status
// @Description Counters, totals, and reward eligibility for the current user
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.LoyaltyStatusView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loyalty/me [get]
func (h *LoyaltyHandler) GetMyStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}
	h.respondStatus(c, userID)
}

// @Summary Client loyalty status
// @Description Counters, totals, and reward eligibility for any client; staff and admin only
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} queries.LoyaltyStatusView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loyalty/clients/{id} [get]
func (h *LoyaltyHandler) GetClientStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}
	h.respondStatus(c, userID)
}

func (h *LoyaltyHandler) respondStatus(c *gin.Context, userID uuid.UUID) {
	status, err := h.loyaltyQueries.GetStatus(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrLoyaltyProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No loyalty profile for this user yet",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, status)
}

// @Summary Own loyalty credits
// @Description Granted credits for the current user, newest first
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.LoyaltyCreditView
// @Failure 401 {object} map[string]string
// @Router /loyalty/me/credits [get]
func (h *LoyaltyHandler) ListMyCredits(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	credits, err := h.loyaltyQueries.ListCredits(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, credits)
}

// @Summary Loyalty settings
// @Description Current thresholds and discount amounts
// @Tags loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.LoyaltySettingsView
// @Router /loyalty/settings [get]
func (h *LoyaltyHandler) GetSettings(c *gin.Context) {
	settings, err := h.loyaltyQueries.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary Update loyalty settings
// @Description Partial update of thresholds and discounts; affects future grants only
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpdateLoyaltySettingsRequest true "Settings patch"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /loyalty/settings [patch]
func (h *LoyaltyHandler) UpdateSettings(c *gin.Context) {
	var req reqdto.UpdateLoyaltySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.loyaltyCommands.UpdateSettings(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidLoyaltySettings):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid settings values",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Grant reward
// @Description Convert an eligible counter into a discount credit; counter decreases by the threshold, surplus is kept
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GrantRewardRequest true "Grant request"
// @Success 201 {object} resdto.GrantRewardResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /loyalty/grants [post]
func (h *LoyaltyHandler) GrantReward(c *gin.Context) {
	var req reqdto.GrantRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.loyaltyCommands.GrantReward(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoyaltyProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Loyalty profile not found",
			})
		case errors.Is(err, commands.ErrThresholdNotMet):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Counter has not reached the reward threshold",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid grant request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromGrantResult(result))
}

// @Summary Adjust loyalty counter
// @Description Manual counter correction, e.g. referral or review bonus; never goes below zero
// @Tags loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AdjustCounterRequest true "Adjustment request"
// @Success 200 {object} resdto.AdjustCounterResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /loyalty/adjustments [post]
func (h *LoyaltyHandler) AdjustCounter(c *gin.Context) {
	var req reqdto.AdjustCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	after, err := h.loyaltyCommands.AdjustCounter(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoyaltyProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Loyalty profile not found",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid adjustment request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.AdjustCounterResponse{CounterAfter: after})
}
