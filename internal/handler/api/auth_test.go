//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"salon-scheduler/internal/handler/api"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/tests/common/builder"
	"salon-scheduler/tests/common/httptest"
	"salon-scheduler/tests/common/testutil"
	commandsmock "salon-scheduler/tests/mock/commands"
	queriesmock "salon-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, config.NewTestConfig())

	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/register", s.handler.Register)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// Stand-in for RequireAuth
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", uuid.New())
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	reqBody := builder.NewAuthBuilder().BuildDTO()
	returnUser := builder.NewUserBuilder().BuildView()
	expectedToken := "test-jwt-token"
	expectedRefresh := "test-refresh-token"

	s.Run("success: returns 200 OK for valid credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody).
			Return(&commands.LoginResult{
				UserID:    returnUser.ID,
				TokenPair: &commands.TokenPair{AccessToken: expectedToken, RefreshToken: expectedRefresh},
			}, nil).Times(1)
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), returnUser.ID).
			Return(returnUser, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnUser.Email, response.User.Email)
		s.Equal(expectedToken, response.AccessToken)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseAuth{
			{name: "invalid email", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "password below 8 chars", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
			{name: "missing email", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing password", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})

	s.Run("error: 401 Unauthorized for bad credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody).
			Return(nil, commands.ErrInvalidCredentials).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("error: 403 Forbidden for inactive accounts", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody).
			Return(nil, commands.ErrUserInactive).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("error: 500 Internal Server Error on unexpected failures", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody).
			Return(nil, errors.New("database down")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"

	password := "password123"
	reqBody := map[string]any{
		"email":    "new@example.com",
		"password": password,
		"name":     "New Client",
	}

	s.Run("success: returns 201 Created with the new user id", func() {
		newID := uuid.New()
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(&commands.RegisterResult{UserID: newID}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.RegisterResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(newID, response.UserID)
		s.Nil(response.GeneratedPassword)
	})

	s.Run("success: walk-in registration returns the generated password", func() {
		generated := "xK9mQ2pLw4Tz"
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(&commands.RegisterResult{UserID: uuid.New(), GeneratedPassword: &generated}, nil).Times(1)
		body := map[string]any{"email": "walkin@example.com", "name": "Walk In"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")

		var response resdto.RegisterResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.NotNil(response.GeneratedPassword)
		s.Equal(generated, *response.GeneratedPassword)
	})

	s.Run("error: 409 Conflict when the email is taken", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrEmailAlreadyTaken).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("error: 400 Bad Request on short password", func() {
		body := map[string]any{"email": "new@example.com", "password": "short", "name": "New"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: returns the current user", func() {
		returnUser := builder.NewUserBuilder().BuildView()
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
			Return(returnUser, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "some-token")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), returnUser.Email)
	})

	s.Run("error: 401 Unauthorized without auth context", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
