package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/handler/api"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Catalog      *api.CatalogHandler
	Availability *api.AvailabilityHandler
	Booking      *api.BookingHandler
	GiftCard     *api.GiftCardHandler
	Loyalty      *api.LoyaltyHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware, rateLimit)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		// Catalog and availability are public so the booking page renders
		// before login.
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/services", Handler: h.Catalog.ListServices},
			{Method: http.MethodGet, Path: "/services/:slug", Handler: h.Catalog.GetService},
			{Method: http.MethodGet, Path: "/availability", Handler: h.Availability.GetDaySlots},
		})

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.SubmitBooking, Mw: []gin.HandlerFunc{rateLimit.SubmitLimiter()}},
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.GetBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Booking.CompleteBooking, Mw: []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleStaff)}},
			})
		}

		giftCards := apiGroup.Group("/gift-cards")
		giftCards.Use(authMiddleware.RequireAuth())
		{
			addRoutes(giftCards, []route{
				{Method: http.MethodPost, Path: "/verify", Handler: h.GiftCard.Verify},
			})
		}

		loyalty := apiGroup.Group("/loyalty")
		loyalty.Use(authMiddleware.RequireAuth())
		{
			staffOnly := authMiddleware.RequireRoleAtLeast(user.RoleStaff)
			adminOnly := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)
			addRoutes(loyalty, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Loyalty.GetMyStatus},
				{Method: http.MethodGet, Path: "/me/credits", Handler: h.Loyalty.ListMyCredits},
				{Method: http.MethodGet, Path: "/clients/:id", Handler: h.Loyalty.GetClientStatus, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodGet, Path: "/settings", Handler: h.Loyalty.GetSettings, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPatch, Path: "/settings", Handler: h.Loyalty.UpdateSettings, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/grants", Handler: h.Loyalty.GrantReward, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/adjustments", Handler: h.Loyalty.AdjustCounter, Mw: []gin.HandlerFunc{staffOnly}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
