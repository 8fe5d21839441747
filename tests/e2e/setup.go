//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"autoservice-workflow/cmd/bootstrap"
	"autoservice-workflow/cmd/bootstrap/components"
	"autoservice-workflow/internal/infra/db"
	"autoservice-workflow/internal/infra/eventbus"
	"autoservice-workflow/internal/pkg/config"
	"autoservice-workflow/internal/usecase/sla"
	"autoservice-workflow/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "workflow"
	pgPassword = "workflow"
	pgPort     = nat.Port("5432/tcp")
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgErr       error
)

// SharedSuite boots the full fx graph against a throwaway Postgres database.
// The SLA scheduler stays off; tests call Monitor.Sweep directly.
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	DB      *pgxpool.Pool
	Bus     *eventbus.Bus
	Monitor *sla.Monitor
	Config  config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	host, port := startPostgres(t)
	dbCfg := createDatabase(t, host, port)
	require.NoError(t, applyMigrations(dbCfg), "migration failed")

	pool, _, err := db.Connect(dbCfg)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)
	s.DB = pool

	s.Config = testConfig(dbCfg)
	app := fx.New(
		fx.Supply(s.Config),
		fx.Provide(
			func() components.PoolOpener {
				return func() (*pgxpool.Pool, error) { return pool, nil }
			},
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		components.PersistenceModule,
		components.EventingModule,
		components.UseCaseModule,
		components.SchedulerModule,
		components.HandlerModule,
		fx.Populate(&s.Router, &s.Bus, &s.Monitor),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err)
		}
	})
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "failed to reset database state")
}

// FlushEvents waits until every published event has been dispatched.
func (s *SharedSuite) FlushEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(s.T(), s.Bus.Flush(ctx), "event bus did not drain")
}

// Sweep runs one SLA pass and waits for the events it published.
func (s *SharedSuite) Sweep() sla.Report {
	report, err := s.Monitor.Sweep(context.Background())
	require.NoError(s.T(), err)
	s.FlushEvents()
	return report
}

func testConfig(dbCfg config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	cfg.Store.Driver = components.StoreDriverPostgres
	cfg.Delivery.Driver = components.DeliveryDriverLog
	cfg.SLA.Enabled = false
	return cfg
}

// startPostgres starts one container per test process.
func startPostgres(t *testing.T) (string, nat.Port) {
	t.Helper()

	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		pgContainer, pgErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17-alpine",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				// durability is irrelevant for a tmpfs test database
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return adminDSN(host, port)
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"purpose": "autoservice-workflow-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, pgErr, "failed to start postgres container")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err)
	return host, port
}

func adminDSN(host string, port nat.Port) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, host, port.Port())
}

// createDatabase gives each test process its own database on the shared container.
func createDatabase(t *testing.T, host string, port nat.Port) config.DBConfig {
	t.Helper()

	dsn := adminDSN(host, port)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	name := "workflow_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	// CREATE DATABASE contends on template1 when packages run in parallel
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+name)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("retrying database creation", "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err)
		}
	})

	cfg := config.NewTestConfig().DB
	cfg.Host, cfg.Port = host, port.Port()
	cfg.User, cfg.Password, cfg.DBName = pgUser, pgPassword, name
	// concurrent request tests hold one connection per in-flight transaction
	cfg.MaxConns = 20
	return cfg
}

// applyMigrations runs migrations/*.sql in lexical order.
func applyMigrations(dbCfg config.DBConfig) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations under %s", root)
	}
	sort.Strings(files)

	pool, _, err := db.Connect(dbCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, f := range files {
		ddl, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(ddl)); err != nil {
			return fmt.Errorf("migration %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// repoRoot walks up from the package directory `go test` runs in.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}
