//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/tests/common/authtest"
	"salon-scheduler/tests/common/dbtest"
	"salon-scheduler/tests/common/httptest"
	"salon-scheduler/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	refreshURL  = "/api/auth/refresh"
	registerURL = "/api/auth/register"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "client@example.com", string(user.RoleClient))
	dbtest.CreateTestUser(s.T(), s.DB, "staff@example.com", string(user.RoleStaff))
	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin))
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleClient))

	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          "client@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			email:          "nonexistent@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          "client@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "inactive user",
			email:          "inactive@example.com",
			password:       "password123",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty password",
			email:          "client@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var loginRes response.LoginResponse
				err := httptest.DecodeResponseBody(t, w.Body, &loginRes)
				require.NoError(t, err)
				require.NotEmpty(t, loginRes.AccessToken, "access token is empty")
				require.NotEmpty(t, loginRes.RefreshToken, "refresh token is empty")
				require.NotNil(t, loginRes.User)
				require.Equal(t, tt.email, loginRes.User.Email)

				accessCookie := httptest.ExtractCookie(w, "access_token")
				require.NotNil(t, accessCookie, "access token cookie missing")

				var lastLogin any
				err = s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login was not updated")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	tests := []struct {
		name              string
		setupRefreshToken func() string
		expectedStatus    int
	}{
		{
			name: "valid refresh token",
			setupRefreshToken: func() string {
				reqBody := request.LoginRequest{
					Email:    "client@example.com",
					Password: "password123",
				}
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, loginURL, reqBody, "")
				var loginRes response.LoginResponse
				_ = httptest.DecodeResponseBody(s.T(), w.Body, &loginRes)
				return loginRes.RefreshToken
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "garbage refresh token",
			setupRefreshToken: func() string {
				return "invalid-refresh-token"
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "empty refresh token",
			setupRefreshToken: func() string {
				return ""
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.RefreshRequest{
				RefreshToken: tt.setupRefreshToken(),
			}

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var refreshRes response.RefreshResponse
				err := httptest.DecodeResponseBody(t, w.Body, &refreshRes)
				require.NoError(t, err)
				require.NotEmpty(t, refreshRes.AccessToken, "new access token is empty")
			}
		})
	}
}

func (s *authSuite) TestRegister() {
	password := "mypassword1"

	tests := []struct {
		name           string
		request        request.RegisterRequest
		expectedStatus int
		wantGenerated  bool
	}{
		{
			name: "self signup with password",
			request: request.RegisterRequest{
				Email:    "newclient@example.com",
				Password: &password,
				Name:     "New Client",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "walk-in without password gets a generated one",
			request: request.RegisterRequest{
				Email: "walkin@example.com",
				Name:  "Walk In",
			},
			expectedStatus: http.StatusCreated,
			wantGenerated:  true,
		},
		{
			name: "duplicate email",
			request: request.RegisterRequest{
				Email:    "client@example.com",
				Password: &password,
				Name:     "Duplicate",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "invalid email",
			request: request.RegisterRequest{
				Email:    "not-an-email",
				Password: &password,
				Name:     "Bad Email",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, tt.request, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var registerRes response.RegisterResponse
				err := httptest.DecodeResponseBody(t, w.Body, &registerRes)
				require.NoError(t, err)
				require.NotEmpty(t, registerRes.UserID)

				if tt.wantGenerated {
					require.NotNil(t, registerRes.GeneratedPassword, "expected a generated password")
					// The new account must be able to log in with it.
					token := authtest.LoginUser(t, s.Router, tt.request.Email, *registerRes.GeneratedPassword)
					require.NotEmpty(t, token)
				} else {
					require.Nil(t, registerRes.GeneratedPassword)
				}
			}
		})
	}
}

func (s *authSuite) TestLogout() {
	tests := []struct {
		name           string
		setupToken     func() string
		expectedStatus int
	}{
		{
			name: "authenticated logout",
			setupToken: func() string {
				return authtest.LoginUser(s.T(), s.Router, "client@example.com", "password123")
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "garbage token",
			setupToken: func() string {
				return "invalid-token"
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing token",
			setupToken: func() string {
				return ""
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, tt.setupToken())
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func (s *authSuite) TestMe() {
	tests := []struct {
		name           string
		email          string
		role           string
		expectedStatus int
	}{
		{
			name:           "client profile",
			email:          "client@example.com",
			role:           string(user.RoleClient),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "staff profile",
			email:          "staff@example.com",
			role:           string(user.RoleStaff),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			var token string
			if tt.email != "" {
				token = authtest.LoginUser(t, s.Router, tt.email, "password123")
			}

			w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				responseBody := w.Body.String()
				require.Contains(t, responseBody, tt.email)
				require.Contains(t, responseBody, tt.role)
				require.NotContains(t, responseBody, "password_hash")
			}
		})
	}
}

func (s *authSuite) TestTokenExpiry() {
	s.Run("expired token is rejected", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "expiry@example.com", string(user.RoleClient))
		expiredToken := s.jwtHelper.CreateExpiredToken(t, userID, user.RoleClient)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expiredToken)
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}
