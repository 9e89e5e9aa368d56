package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	reqdto "salon-scheduler/internal/handler/dto/request"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/cookie"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
	userQueries  queries.UserQueries
	cfg          config.Config
}

func NewAuthHandler(authCommands commands.AuthCommands, userQueries queries.UserQueries, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
		userQueries:  userQueries,
		cfg:          cfg,
	}
}

// @Summary Client login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials),
			errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		case errors.Is(err, commands.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is inactive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), result.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	h.setTokenCookies(c, result.TokenPair)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
		User:         user,
	})
}

// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest false "Refresh request"
// @Success 200 {object} resdto.RefreshResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := cookie.GetRefreshToken(c)
	if token == "" {
		var req reqdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = strings.TrimSpace(req.RefreshToken)
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Refresh token required",
		})
		return
	}

	pair, err := h.authCommands.RefreshToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is inactive",
			})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired refresh token",
			})
		}
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, resdto.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// @Summary Register a client account
// @Description Create a client account; walk-in registrations may omit the password and receive a generated one
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEmailAlreadyTaken):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Email is already registered",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid registration data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.RegisterResponse{
		UserID:            result.UserID,
		GeneratedPassword: result.GeneratedPassword,
	})
}

// @Summary Logout
// @Description Clear the token cookies; JWTs themselves stay valid until expiry
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookies(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.AuthorizedUserView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, queries.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is inactive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair *commands.TokenPair) {
	accessTTL, err := time.ParseDuration(h.cfg.JWT.Duration)
	if err != nil {
		accessTTL = 24 * time.Hour
	}
	cookie.SetTokenCookies(c, h.cfg.Cookie, pair.AccessToken, pair.RefreshToken, accessTTL, accessTTL*7)
}
