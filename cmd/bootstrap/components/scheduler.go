package components

import (
	"context"
	"log/slog"

	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/shared"
	"autoservice-workflow/internal/usecase/sla"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewSLAMonitor,
		NewSLAScheduler,
	),
	fx.Invoke(StartSLAScheduler),
)

func NewSLAMonitor(
	uow shared.UnitOfWork,
	workflow commands.WorkflowCommands,
	publisher commands.EventPublisher,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *sla.Monitor {
	return sla.NewMonitor(uow, workflow, publisher, clk, sla.Options{
		StaleDecisionAfter: cfg.SLA.StaleDecisionAfter,
		Location:           cfg.SLA.Location(),
	}, logger)
}

func NewSLAScheduler(monitor *sla.Monitor, clk clock.Clock, cfg config.Config, logger *slog.Logger) *sla.Scheduler {
	return sla.NewScheduler(monitor, clk, cfg.SLA.SweepInterval, logger)
}

func StartSLAScheduler(lc fx.Lifecycle, s *sla.Scheduler, cfg config.Config, logger *slog.Logger) {
	if !cfg.SLA.Enabled {
		logger.Info("sla scheduler disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
