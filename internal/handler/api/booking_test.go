//go:build unit

package api_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/handler/api"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/tests/common/builder"
	"salon-scheduler/tests/common/httptest"
	commandsmock "salon-scheduler/tests/mock/commands"
	queriesmock "salon-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	// Stand-in for RequireAuth
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleClient)
		c.Next()
	})
	s.router.POST("/bookings", s.handler.SubmitBooking)
	s.router.GET("/bookings", s.handler.ListBookings)
	s.router.GET("/bookings/:id", s.handler.GetBooking)
	s.router.POST("/bookings/:id/cancel", s.handler.CancelBooking)
	s.router.POST("/bookings/:id/complete", s.handler.CompleteBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) bookingView() *queries.BookingView {
	return &queries.BookingView{
		ID:              uuid.New(),
		ClientID:        s.userID,
		ClientEmail:     "test@example.com",
		Date:            builder.NextOpenDate(),
		Slot:            "10:00",
		DurationMinutes: 60,
		ServiceSlugs:    []string{"hydro-facial"},
		PackageTypes:    []string{"single"},
		Status:          "confirmed",
		TotalPriceCents: 9000,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func (s *BookingHandlerTestSuite) TestSubmitBooking() {
	url := "/bookings"

	reqBody := builder.NewBookingBuilder().BuildDTO()
	idempotencyKey := uuid.New()
	headers := map[string]string{"Idempotency-Key": idempotencyKey.String()}

	s.Run("success: fresh submission returns 201 Created", func() {
		view := s.bookingView()
		s.mockCommands.EXPECT().
			SubmitBooking(gomock.Any(), reqBody, s.userID, idempotencyKey).
			Return(&commands.SubmitBookingResult{Booking: view, IsReplayed: false}, nil).Times(1)
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, headers, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal("confirmed", response.Status)
		s.Equal(int64(9000), response.TotalPriceCents)
	})

	s.Run("success: replayed submission returns 200 OK", func() {
		view := s.bookingView()
		s.mockCommands.EXPECT().
			SubmitBooking(gomock.Any(), reqBody, s.userID, idempotencyKey).
			Return(&commands.SubmitBookingResult{Booking: view, IsReplayed: true}, nil).Times(1)
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, headers, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("error: 400 Bad Request without an idempotency key", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 400 Bad Request for a malformed idempotency key", func() {
		badHeaders := map[string]string{"Idempotency-Key": "not-a-uuid"}
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, badHeaders, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: command failures map to HTTP statuses", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "unknown service", err: commands.ErrUnknownService, expectCode: http.StatusUnprocessableEntity},
			{name: "slot off the grid", err: commands.ErrInvalidSlot, expectCode: http.StatusBadRequest},
			{name: "slot conflict", err: commands.ErrSlotConflict, expectCode: http.StatusConflict},
			{name: "slot blocked", err: commands.ErrSlotUnavailable, expectCode: http.StatusConflict},
			{name: "gift card not found", err: commands.ErrGiftCardNotFound, expectCode: http.StatusNotFound},
			{name: "gift card expired", err: commands.ErrGiftCardExpired, expectCode: http.StatusUnprocessableEntity},
			{name: "gift card balance raced", err: commands.ErrGiftCardBalanceChanged, expectCode: http.StatusConflict},
			{name: "key reused with different params", err: commands.ErrDuplicateSubmission, expectCode: http.StatusConflict},
			{name: "submission in progress", err: commands.ErrIdempotencyInProgress, expectCode: http.StatusConflict},
			{name: "domain validation", err: commands.ErrDomainValidation, expectCode: http.StatusUnprocessableEntity},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					SubmitBooking(gomock.Any(), reqBody, s.userID, idempotencyKey).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, headers, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	s.Run("success: returns 200 OK with the booking", func() {
		view := s.bookingView()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, user.RoleClient, view.ID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.Slot, response.Slot)
	})

	s.Run("error: 400 Bad Request for a malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 Not Found for unknown bookings", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, user.RoleClient, id).
			Return(nil, queries.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 403 Forbidden for another client's booking", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, user.RoleClient, id).
			Return(nil, queries.ErrBookingAccess).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	s.Run("success: passes cursor and limit through to the query", func() {
		next := &queries.Cursor{After: "next-page-token"}
		items := []*queries.BookingListItem{
			{ID: uuid.New(), Date: builder.NextOpenDate(), Slot: "09:00", Status: "confirmed"},
			{ID: uuid.New(), Date: builder.NextOpenDate(), Slot: "11:00", Status: "confirmed"},
		}
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, &queries.Cursor{After: "page-token"}, 2).
			Return(items, next, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?after=page-token&limit=2", nil, "")

		var response resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Require().NotNil(response.NextCursor)
		s.Equal("next-page-token", *response.NextCursor)
	})

	s.Run("success: omits the cursor on the last page", func() {
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, nil, 0).
			Return([]*queries.BookingListItem{}, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "")

		var response resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response.Items)
		s.Nil(response.NextCursor)
	})

	s.Run("error: 400 Bad Request for an invalid cursor", func() {
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, &queries.Cursor{After: "garbage"}, 0).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?after=garbage", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	cancelURL := func(id uuid.UUID) string {
		return fmt.Sprintf("/bookings/%s/cancel", id)
	}

	s.Run("success: returns 204 No Content", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			CancelBooking(gomock.Any(), s.userID, user.RoleClient, id).
			Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, cancelURL(id), nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: command failures map to HTTP statuses", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "not found", err: commands.ErrBookingNotFound, expectCode: http.StatusNotFound},
			{name: "someone else's booking", err: commands.ErrBookingAccessDenied, expectCode: http.StatusForbidden},
			{name: "already cancelled", err: commands.ErrBookingNotActive, expectCode: http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				id := uuid.New()
				s.mockCommands.EXPECT().
					CancelBooking(gomock.Any(), s.userID, user.RoleClient, id).
					Return(tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, cancelURL(id), nil, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestCompleteBooking() {
	completeURL := func(id uuid.UUID) string {
		return fmt.Sprintf("/bookings/%s/complete", id)
	}

	s.Run("success: returns the completed booking", func() {
		view := s.bookingView()
		view.Status = "completed"
		s.mockCommands.EXPECT().
			CompleteBooking(gomock.Any(), view.ID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, completeURL(view.ID), nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("completed", response.Status)
	})

	s.Run("error: 409 Conflict when the booking is not confirmed", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().
			CompleteBooking(gomock.Any(), id).
			Return(nil, commands.ErrBookingNotConfirmed).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, completeURL(id), nil, "")
		s.Equal(http.StatusConflict, rec.Code)
	})
}
