package bootstrap

import (
	"context"

	"autoservice-workflow/cmd/bootstrap/components"
	"autoservice-workflow/internal/infra/db"
	"autoservice-workflow/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB defers the connection until the persistence layer asks for it, so the in-memory
// store driver never dials Postgres.
func NewDB(lc fx.Lifecycle, cfg config.Config) components.PoolOpener {
	return func() (*pgxpool.Pool, error) {
		pool, cleanup, err := db.Connect(cfg.DB)
		if err != nil {
			return nil, err
		}

		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				if cleanup != nil {
					cleanup()
				}
				return nil
			},
		})

		return pool, nil
	}
}
