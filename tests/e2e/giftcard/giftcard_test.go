//go:build e2e

package giftcard_test

import (
	"net/http"
	"testing"
	"time"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/handler/dto/request"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/tests/common/authtest"
	"salon-scheduler/tests/common/dbtest"
	"salon-scheduler/tests/common/httptest"
	"salon-scheduler/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const verifyURL = "/api/gift-cards/verify"

type giftCardSuite struct {
	e2e.SharedSuite
}

func TestGiftCardSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(giftCardSuite))
}

func (s *giftCardSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	dbtest.CreateTestUser(s.T(), s.DB, "client@example.com", string(user.RoleClient))
}

func (s *giftCardSuite) TestVerify() {
	s.Run("card covering the whole total", func() {
		t := s.T()
		dbtest.CreateTestGiftCard(t, s.DB, "CARD-A", 10000, nil)
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		reqBody := request.VerifyGiftCardRequest{Code: "CARD-A", TotalCents: 7000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view queries.GiftCardVerificationView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		require.Equal(t, int64(10000), view.BalanceCents)
		require.Equal(t, int64(7000), view.UsableCents)
		require.Equal(t, int64(0), view.RemainderCents)
		require.False(t, view.Expired)

		// Verification never touches the balance.
		var balance int64
		err := s.DB.QueryRow(t.Context(), "SELECT balance_cents FROM gift_cards WHERE code = 'CARD-A'").Scan(&balance)
		require.NoError(t, err)
		require.Equal(t, int64(10000), balance)
	})

	s.Run("card covering part of the total", func() {
		t := s.T()
		dbtest.CreateTestGiftCard(t, s.DB, "CARD-B", 3000, nil)
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		reqBody := request.VerifyGiftCardRequest{Code: "CARD-B", TotalCents: 9000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view queries.GiftCardVerificationView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		require.Equal(t, int64(3000), view.UsableCents)
		require.Equal(t, int64(6000), view.RemainderCents)
	})

	s.Run("expired card is reported, not rejected", func() {
		t := s.T()
		expired := time.Now().Add(-48 * time.Hour)
		dbtest.CreateTestGiftCard(t, s.DB, "CARD-OLD", 5000, &expired)
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		reqBody := request.VerifyGiftCardRequest{Code: "CARD-OLD", TotalCents: 5000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view queries.GiftCardVerificationView
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &view))
		require.True(t, view.Expired)
		require.NotNil(t, view.ExpiresAt)
	})

	s.Run("unknown code", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "client@example.com", "password123")

		reqBody := request.VerifyGiftCardRequest{Code: "NOPE", TotalCents: 5000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, token)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("requires authentication", func() {
		t := s.T()

		reqBody := request.VerifyGiftCardRequest{Code: "CARD-A", TotalCents: 5000}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())
	})
}
