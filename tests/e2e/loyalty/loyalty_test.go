//go:build e2e

package loyalty_test

import (
	"net/http"
	"sync"
	"testing"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/tests/common/authtest"
	"salon-scheduler/tests/common/dbtest"
	"salon-scheduler/tests/common/httptest"
	"salon-scheduler/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	myStatusURL    = "/api/loyalty/me"
	myCreditsURL   = "/api/loyalty/me/credits"
	clientsURL     = "/api/loyalty/clients/"
	settingsURL    = "/api/loyalty/settings"
	grantsURL      = "/api/loyalty/grants"
	adjustmentsURL = "/api/loyalty/adjustments"
)

type loyaltySuite struct {
	e2e.SharedSuite

	clientID uuid.UUID
}

func TestLoyaltySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(loyaltySuite))
}

func (s *loyaltySuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	s.clientID = dbtest.CreateTestUser(s.T(), s.DB, "client@example.com", string(user.RoleClient))
	dbtest.CreateTestUser(s.T(), s.DB, "staff@example.com", string(user.RoleStaff))
	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin))
}

func (s *loyaltySuite) TestGetStatus() {
	s.Run("client with a profile sees counters and eligibility", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 5, 1)
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, myStatusURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var status queries.LoyaltyStatusView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &status))
		require.Equal(t, 5, status.IndividualServicesCount)
		require.Equal(t, 1, status.PackagesCount)
		require.True(t, status.ServiceRewardEligible, "5 services meets the threshold of 5")
		require.False(t, status.PackageRewardEligible, "1 package is below the threshold of 2")
	})

	s.Run("client without a profile gets not found", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, myStatusURL, nil, token)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("staff reads a client's status", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 2, 0)
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, clientsURL+s.clientID.String(), nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("clients cannot read other clients", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, clientsURL+uuid.NewString(), nil, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *loyaltySuite) TestGrantReward() {
	s.Run("grant decrements the counter and records a credit", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 6, 0)
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		reqBody := request.GrantRewardRequest{UserID: s.clientID.String(), Kind: "individual"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantsURL, reqBody, staffToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var grantRes response.GrantRewardResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &grantRes))
		require.Equal(t, "individual", grantRes.Kind)
		require.Equal(t, int64(2000), grantRes.AmountCents)
		require.Equal(t, 1, grantRes.CounterAfter, "counter keeps the surplus above the threshold")

		// The credit shows up in the client's history.
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, myCreditsURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var credits []queries.LoyaltyCreditView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &credits))
		require.Len(t, credits, 1)
		require.Equal(t, grantRes.CreditID, credits[0].ID)
	})

	s.Run("concurrent grants at the threshold yield exactly one credit", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 5, 0)
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		const grants = 2
		reqBody := request.GrantRewardRequest{UserID: s.clientID.String(), Kind: "individual"}
		codes := make(chan int, grants)
		var wg sync.WaitGroup
		for range grants {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantsURL, reqBody, staffToken)
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		created, conflicted := 0, 0
		for code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, 1, conflicted)

		var credits int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM loyalty_credits").Scan(&credits)
		require.NoError(t, err)
		require.Equal(t, 1, credits)

		var counter int
		err = s.DB.QueryRow(t.Context(),
			"SELECT individual_services_count FROM loyalty_profiles WHERE user_id = $1",
			s.clientID).Scan(&counter)
		require.NoError(t, err)
		require.Equal(t, 0, counter)
	})

	s.Run("grant below threshold is rejected", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 3, 0)
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		reqBody := request.GrantRewardRequest{UserID: s.clientID.String(), Kind: "individual"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantsURL, reqBody, staffToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("grant for a user without a profile", func() {
		t := s.T()
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		reqBody := request.GrantRewardRequest{UserID: s.clientID.String(), Kind: "package"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantsURL, reqBody, staffToken)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("clients cannot grant rewards", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		reqBody := request.GrantRewardRequest{UserID: s.clientID.String(), Kind: "individual"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, grantsURL, reqBody, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *loyaltySuite) TestAdjustCounter() {
	s.Run("manual adjustment moves the counter", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 2, 0)
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		reqBody := request.AdjustCounterRequest{UserID: s.clientID.String(), Kind: "individual", Delta: 3}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adjustmentsURL, reqBody, staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var adjustRes response.AdjustCounterResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &adjustRes))
		require.Equal(t, 5, adjustRes.CounterAfter)
	})

	s.Run("adjustment cannot push a counter negative", func() {
		t := s.T()
		dbtest.CreateLoyaltyProfile(t, s.DB, s.clientID, 1, 0)
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		reqBody := request.AdjustCounterRequest{UserID: s.clientID.String(), Kind: "individual", Delta: -5}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adjustmentsURL, reqBody, staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var adjustRes response.AdjustCounterResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &adjustRes))
		require.Equal(t, 0, adjustRes.CounterAfter, "counter floors at zero")
	})
}

func (s *loyaltySuite) TestSettings() {
	s.Run("staff reads current settings", func() {
		t := s.T()
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, settingsURL, nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var settings queries.LoyaltySettingsView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &settings))
		require.Equal(t, 5, settings.ServiceThreshold)
		require.Equal(t, int64(2000), settings.ServiceDiscountCents)
	})

	s.Run("admin patches a single field", func() {
		t := s.T()
		adminToken := authtest.LoginUser(t, s.Router, "admin@example.com", "password123")
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		threshold := 3
		reqBody := request.UpdateLoyaltySettingsRequest{ServiceThreshold: &threshold}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, settingsURL, reqBody, adminToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		// Untouched fields keep their values.
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, settingsURL, nil, staffToken)
		require.Equal(t, http.StatusOK, w.Code)

		var settings queries.LoyaltySettingsView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &settings))
		require.Equal(t, 3, settings.ServiceThreshold)
		require.Equal(t, int64(2000), settings.ServiceDiscountCents)
		require.Equal(t, 2, settings.PackageThreshold)
	})

	s.Run("staff cannot patch settings", func() {
		t := s.T()
		staffToken := authtest.LoginUser(t, s.Router, "staff@example.com", "password123")

		threshold := 3
		reqBody := request.UpdateLoyaltySettingsRequest{ServiceThreshold: &threshold}
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, settingsURL, reqBody, staffToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}
