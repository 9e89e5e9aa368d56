package api

import (
	"errors"
	"net/http"

	reqdto "salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type GiftCardHandler struct {
	giftCardQueries queries.GiftCardQueries
}

func NewGiftCardHandler(giftCardQueries queries.GiftCardQueries) *GiftCardHandler {
	return &GiftCardHandler{giftCardQueries: giftCardQueries}
}

// @Summary Verify gift card
// @Description Check a card's balance against a booking total without deducting; expired cards are reported, not rejected
// @Tags gift-cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyGiftCardRequest true "Verification request"
// @Success 200 {object} queries.GiftCardVerificationView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /gift-cards/verify [post]
func (h *GiftCardHandler) Verify(c *gin.Context) {
	var req reqdto.VerifyGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.giftCardQueries.Verify(c.Request.Context(), req.Code, req.TotalCents)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrGiftCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Gift card not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}
