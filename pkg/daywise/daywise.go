// Package daywise embeds the task lifecycle manager, priority evaluator
// and day planner into a host application, grounded on the teacher's
// pkg/later package.
package daywise

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/httpapi"
	"github.com/usual2970/daywise/internal/planner"
	"github.com/usual2970/daywise/internal/priority"
	"github.com/usual2970/daywise/internal/task"
	"github.com/usual2970/daywise/repository/memory"
	"github.com/usual2970/daywise/repository/mysql"
	"github.com/usual2970/daywise/repository/postgres"
)

// Daywise is the embeddable entry point: a task lifecycle manager, a
// priority evaluator and a day planner wired over a single TaskStore.
type Daywise struct {
	store repository.TaskStore

	pgPool  *pgxpool.Pool
	mysqlDB *sqlx.DB

	tasks   *task.Manager
	eval    *priority.Evaluator
	plans   *planner.Planner
	handler *httpapi.Handler

	config *Config
	logger *zap.Logger

	started bool
	mu      sync.RWMutex
}

// New builds a Daywise instance with functional options. Without options
// it runs against an in-process memory store.
func New(opts ...Option) (*Daywise, error) {
	cfg := &Config{
		StoreMode:     StoreModeMemory,
		AutoMigration: true,
		MigrationsDir: "./migrations",
		RoutePrefix:   "/api/v1",
		Logger:        zap.L(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	d := &Daywise{config: cfg, logger: cfg.Logger}

	if err := d.setupStore(); err != nil {
		return nil, fmt.Errorf("store setup failed: %w", err)
	}

	if cfg.AutoMigration {
		if err := d.runMigrations(context.Background()); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	d.initComponents()

	d.logger.Info("daywise initialized",
		zap.String("store_mode", storeModeString(cfg.StoreMode)),
		zap.String("route_prefix", cfg.RoutePrefix),
	)

	return d, nil
}

func (d *Daywise) setupStore() error {
	switch d.config.StoreMode {
	case StoreModeMemory:
		d.store = memory.New()
		d.logger.Info("using in-memory task store")
		return nil

	case StoreModePostgres:
		pool, err := postgres.NewConnection(context.Background(), d.config.DSN, d.logger)
		if err != nil {
			return err
		}
		d.pgPool = pool
		d.store = postgres.NewStore(pool)
		return nil

	case StoreModeMySQL:
		db, err := mysql.NewConnection(d.config.DSN, mysql.PoolConfig{
			MaxOpenConns:    d.config.DBConfig.MaxOpenConns,
			MaxIdleConns:    d.config.DBConfig.MaxIdleConns,
			ConnMaxLifetime: d.config.DBConfig.ConnMaxLifetime,
			ConnMaxIdleTime: d.config.DBConfig.ConnMaxIdleTime,
		}, d.logger)
		if err != nil {
			return err
		}
		d.mysqlDB = db
		d.store = mysql.NewStore(db)
		return nil

	default:
		return fmt.Errorf("unknown store mode %d", d.config.StoreMode)
	}
}

func (d *Daywise) runMigrations(ctx context.Context) error {
	switch d.config.StoreMode {
	case StoreModePostgres:
		return postgres.RunMigrations(ctx, d.pgPool, d.config.MigrationsDir, d.logger)
	case StoreModeMySQL:
		return mysql.RunMigrations(d.mysqlDB, d.config.MigrationsDir, d.logger)
	default:
		return nil
	}
}

func (d *Daywise) initComponents() {
	d.tasks = task.New(d.store)
	d.eval = priority.New(d.store)
	d.plans = planner.New(d.eval, d.config.PlannerConfig)
	d.handler = httpapi.NewHandler(d.tasks, d.eval, d.plans, d.logger)
}

// RunMigrations explicitly runs the store's schema migration. It can be
// called manually when AutoMigration was disabled.
func (d *Daywise) RunMigrations(ctx context.Context) error {
	return d.runMigrations(ctx)
}

func storeModeString(m StoreMode) string {
	switch m {
	case StoreModeMemory:
		return "memory"
	case StoreModePostgres:
		return "postgres"
	case StoreModeMySQL:
		return "mysql"
	default:
		return "unknown"
	}
}
