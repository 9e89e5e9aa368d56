//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"salon-scheduler/internal/domain/loyalty"
	"salon-scheduler/internal/handler/api"
	reqdto "salon-scheduler/internal/handler/dto/request"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/tests/common/httptest"
	"salon-scheduler/tests/common/testutil"
	commandsmock "salon-scheduler/tests/mock/commands"
	queriesmock "salon-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LoyaltyHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLoyaltyCommands
	mockQueries  *queriesmock.MockLoyaltyQueries
	handler      *api.LoyaltyHandler
	userID       uuid.UUID
}

func (s *LoyaltyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLoyaltyCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLoyaltyQueries(s.mockCtrl)
	s.handler = api.NewLoyaltyHandler(s.mockCommands, s.mockQueries)

	// Stand-in for RequireAuth
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Next()
	})
	s.router.GET("/loyalty/me", s.handler.GetMyStatus)
	s.router.GET("/loyalty/me/credits", s.handler.ListMyCredits)
	s.router.GET("/loyalty/clients/:id", s.handler.GetClientStatus)
	s.router.GET("/loyalty/settings", s.handler.GetSettings)
	s.router.PATCH("/loyalty/settings", s.handler.UpdateSettings)
	s.router.POST("/loyalty/grants", s.handler.GrantReward)
	s.router.POST("/loyalty/adjustments", s.handler.AdjustCounter)
}

func (s *LoyaltyHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLoyaltyHandlerSuite(t *testing.T) {
	suite.Run(t, new(LoyaltyHandlerTestSuite))
}

func (s *LoyaltyHandlerTestSuite) TestGetMyStatus() {
	url := "/loyalty/me"

	s.Run("success: returns counters and eligibility", func() {
		view := &queries.LoyaltyStatusView{
			UserID:                  s.userID,
			IndividualServicesCount: 5,
			PackagesCount:           1,
			TotalSpentCents:         45000,
			ServiceRewardEligible:   true,
		}
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), s.userID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response queries.LoyaltyStatusView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(5, response.IndividualServicesCount)
		s.True(response.ServiceRewardEligible)
		s.False(response.PackageRewardEligible)
	})

	s.Run("error: 404 Not Found before the first visit", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), s.userID).
			Return(nil, queries.ErrLoyaltyProfileNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *LoyaltyHandlerTestSuite) TestGetClientStatus() {
	s.Run("success: looks up the requested client", func() {
		clientID := uuid.New()
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), clientID).
			Return(&queries.LoyaltyStatusView{UserID: clientID}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/clients/"+clientID.String(), nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request for a malformed user ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/clients/not-a-uuid", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *LoyaltyHandlerTestSuite) TestListMyCredits() {
	s.Run("success: returns granted credits", func() {
		credits := []*queries.LoyaltyCreditView{
			{ID: uuid.New(), Kind: "individual", AmountCents: 2000},
		}
		s.mockQueries.EXPECT().ListCredits(gomock.Any(), s.userID).
			Return(credits, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/loyalty/me/credits", nil, "")

		var response []*queries.LoyaltyCreditView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
		s.Equal(int64(2000), response[0].AmountCents)
	})
}

func (s *LoyaltyHandlerTestSuite) TestGrantReward() {
	url := "/loyalty/grants"

	clientID := uuid.New()
	reqBody := reqdto.GrantRewardRequest{UserID: clientID.String(), Kind: "individual"}

	s.Run("success: returns 201 Created with the credit", func() {
		result := &commands.GrantRewardResult{
			CreditID:     uuid.New(),
			Kind:         loyalty.KindIndividual,
			AmountCents:  2000,
			CounterAfter: 1,
		}
		s.mockCommands.EXPECT().GrantReward(gomock.Any(), reqBody).
			Return(result, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.GrantRewardResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(result.CreditID, response.CreditID)
		s.Equal("individual", response.Kind)
		s.Equal(1, response.CounterAfter)
	})

	s.Run("error: 409 Conflict below the threshold", func() {
		s.mockCommands.EXPECT().GrantReward(gomock.Any(), reqBody).
			Return(nil, commands.ErrThresholdNotMet).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 404 Not Found without a profile", func() {
		s.mockCommands.EXPECT().GrantReward(gomock.Any(), reqBody).
			Return(nil, commands.ErrLoyaltyProfileNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "unknown kind", mutate: testutil.Field("kind", "vip")},
			{name: "missing user id", mutate: testutil.Field("user_id", nil)},
			{name: "malformed user id", mutate: testutil.Field("user_id", "not-a-uuid")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func (s *LoyaltyHandlerTestSuite) TestAdjustCounter() {
	url := "/loyalty/adjustments"

	clientID := uuid.New()
	reqBody := reqdto.AdjustCounterRequest{UserID: clientID.String(), Kind: "individual", Delta: 3}

	s.Run("success: returns the counter after the adjustment", func() {
		s.mockCommands.EXPECT().AdjustCounter(gomock.Any(), reqBody).
			Return(5, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.AdjustCounterResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(5, response.CounterAfter)
	})

	s.Run("error: 404 Not Found without a profile", func() {
		s.mockCommands.EXPECT().AdjustCounter(gomock.Any(), reqBody).
			Return(0, commands.ErrLoyaltyProfileNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("error: 400 Bad Request for a zero delta", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("delta", 0))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *LoyaltyHandlerTestSuite) TestSettings() {
	url := "/loyalty/settings"

	s.Run("success: GET returns the current settings", func() {
		view := &queries.LoyaltySettingsView{
			ServiceThreshold:     5,
			ServiceDiscountCents: 2000,
			PackageThreshold:     2,
			PackageDiscountCents: 4000,
		}
		s.mockQueries.EXPECT().GetSettings(gomock.Any()).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response queries.LoyaltySettingsView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(5, response.ServiceThreshold)
		s.Equal(int64(2000), response.ServiceDiscountCents)
	})

	s.Run("success: PATCH with a partial body returns 204", func() {
		threshold := 3
		reqBody := reqdto.UpdateLoyaltySettingsRequest{ServiceThreshold: &threshold}
		s.mockCommands.EXPECT().UpdateSettings(gomock.Any(), reqBody).
			Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 422 Unprocessable Entity for rejected values", func() {
		threshold := 3
		reqBody := reqdto.UpdateLoyaltySettingsRequest{ServiceThreshold: &threshold}
		s.mockCommands.EXPECT().UpdateSettings(gomock.Any(), reqBody).
			Return(commands.ErrInvalidLoyaltySettings).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("error: 400 Bad Request for a zero threshold", func() {
		body := map[string]any{"service_threshold": 0}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, body, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
