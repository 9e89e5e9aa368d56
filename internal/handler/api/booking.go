package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	reqdto "salon-scheduler/internal/handler/dto/request"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Submit booking
// @Description Submit a booking with an idempotency key; replaying the same key returns the original booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key (UUID)"
// @Param request body reqdto.SubmitBookingRequest true "Booking request"
// @Success 200 {object} resdto.BookingResponse "Replayed from a previous identical submission"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.SubmitBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.SubmitBooking(c.Request.Context(), req, userID, idempotencyKey)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookingView(result.Booking))
}

func (h *BookingHandler) respondSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrUnknownService):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Unknown or inactive service in selection",
		})
	case errors.Is(err, commands.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Slot is outside opening hours or off the grid",
		})
	case errors.Is(err, commands.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot is already booked",
		})
	case errors.Is(err, commands.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Slot is blocked for that date",
		})
	case errors.Is(err, commands.ErrGiftCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Gift card not found",
		})
	case errors.Is(err, commands.ErrGiftCardExpired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Gift card is expired",
		})
	case errors.Is(err, commands.ErrGiftCardBalanceChanged):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Gift card balance changed, verify the card again",
		})
	case errors.Is(err, commands.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Idempotency key already used with different parameters",
		})
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking request is currently being processed",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Booking validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary Get booking
// @Description Get booking by ID; clients only see their own
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, queries.ErrBookingAccess):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to view this booking",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Description Keyset-paginated list of the current user's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (default 20, max 200)"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var after *queries.Cursor
	if raw := strings.TrimSpace(c.Query("after")); raw != "" {
		after = &queries.Cursor{After: raw}
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, next, err := h.bookingQueries.ListByUser(c.Request.Context(), userID, after, limit)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidCursor):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid pagination cursor",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	var nextCursor *string
	if next != nil {
		nextCursor = &next.After
	}
	c.JSON(http.StatusOK, resdto.FromBookingListItems(items, nextCursor))
}

// @Summary Cancel booking
// @Description Cancel an active booking, freeing its slot; clients may only cancel their own
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), userID, role, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrBookingAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Not allowed to cancel this booking",
			})
		case errors.Is(err, commands.ErrBookingNotActive):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is not active",
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

// @Summary Complete booking
// @Description Mark a confirmed booking as completed; feeds the loyalty ledger
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingCommands.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, commands.ErrBookingNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Only confirmed bookings can be completed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, commands.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
