package components

import (
	"salon-scheduler/internal/handler"
	"salon-scheduler/internal/handler/api"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCatalogHandler,
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		api.NewGiftCardHandler,
		api.NewLoyaltyHandler,
		middleware.NewAuthMiddleware,
		NewRateLimitMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewRateLimitMiddleware(client *redis.Client, cfg config.Config) *middleware.RateLimitMiddleware {
	return middleware.NewRateLimitMiddleware(client, cfg.Redis)
}

func NewHandlers(
	auth *api.AuthHandler,
	catalog *api.CatalogHandler,
	availability *api.AvailabilityHandler,
	booking *api.BookingHandler,
	giftCard *api.GiftCardHandler,
	loyalty *api.LoyaltyHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Catalog:      catalog,
		Availability: availability,
		Booking:      booking,
		GiftCard:     giftCard,
		Loyalty:      loyalty,
	}
}
