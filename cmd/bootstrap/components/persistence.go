package components

import (
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/infra/readstore"
	"salon-scheduler/internal/infra/uow"
	"salon-scheduler/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// PersistenceModule wires the pool-backed read stores used outside
// transactions. Write repositories are reached through the UnitOfWork only.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			readstore.NewCalendarReadStore,
			fx.As(new(queries.ScheduleReadStore)),
		),
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(queries.CatalogReadStore)),
			fx.As(new(queries.CatalogItemSource)),
		),
		fx.Annotate(
			readstore.NewGiftCardReadStore,
			fx.As(new(queries.GiftCardReadStore)),
		),
		fx.Annotate(
			readstore.NewLoyaltyReadStore,
			fx.As(new(queries.LoyaltyReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
