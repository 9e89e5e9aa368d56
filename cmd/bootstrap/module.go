package bootstrap

import (
	"salon-scheduler/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	AMQPModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
