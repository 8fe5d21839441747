package bootstrap

import (
	"autoservice-workflow/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	components.PersistenceModule,
	components.EventingModule,
	components.UseCaseModule,
	components.SchedulerModule,
	components.HandlerModule,
)
