package components

import (
	"log/slog"

	"autoservice-workflow/internal/infra/memstore"
	"autoservice-workflow/internal/infra/repository"
	"autoservice-workflow/internal/infra/uow"
	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// PoolOpener connects to Postgres on first call.
type PoolOpener func() (*pgxpool.Pool, error)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
)

type Persistence struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	Directory  shared.CustomerDirectory
}

func NewPersistence(cfg config.Config, open PoolOpener, logger *slog.Logger) (Persistence, error) {
	switch cfg.Store.Driver {
	case StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		store := memstore.New()
		return Persistence{
			UnitOfWork: memstore.NewUnitOfWork(store, cfg.Workflow.TxTimeout),
			Directory:  store,
		}, nil
	case StoreDriverPostgres:
		pool, err := open()
		if err != nil {
			return Persistence{}, err
		}
		return Persistence{
			UnitOfWork: uow.NewPostgresUoW(pool, cfg.Workflow.TxTimeout, logger),
			Directory:  repository.NewCustomerDirectory(pool),
		}, nil
	default:
		return Persistence{}, errs.Newf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
