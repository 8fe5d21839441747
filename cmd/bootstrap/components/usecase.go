package components

import (
	"log/slog"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/queries"
	"autoservice-workflow/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewTransitionTable,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewWorkflowUseCase,
		NewBillingUseCase,
		commands.NewNotificationUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAppointmentQueries,
		queries.NewNotificationQueries,
	),
)

func NewTransitionTable(cfg config.Config, logger *slog.Logger) (*appointment.TransitionTable, error) {
	trigger, err := appointment.ParseStatus(cfg.Workflow.TriageTrigger)
	if err != nil {
		return nil, err
	}
	table, err := appointment.NewTransitionTable(trigger)
	if err != nil {
		return nil, err
	}
	logger.Info("appointment lifecycle loaded",
		"triage_at", table.TriageAt(),
		"from_pending", table.Targets(appointment.StatusPending))
	return table, nil
}

func NewBillingUseCase(
	uow shared.UnitOfWork,
	publisher commands.EventPublisher,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) commands.BillingCommands {
	return commands.NewBillingUseCase(uow, publisher, clk, cfg.Workflow.InvoiceDueIn, logger)
}
