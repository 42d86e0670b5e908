package daywise

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/usual2970/daywise/internal/planner"
)

// StoreMode selects which repository.TaskStore backs a Daywise instance.
type StoreMode int

const (
	// StoreModeMemory keeps tasks in an in-process map. Default.
	StoreModeMemory StoreMode = iota
	// StoreModePostgres backs the store with a pgxpool.Pool.
	StoreModePostgres
	// StoreModeMySQL backs the store with a sqlx.DB.
	StoreModeMySQL
)

// Option configures a Daywise instance.
type Option func(*Config) error

// Config holds all configuration for a Daywise instance.
type Config struct {
	StoreMode     StoreMode
	DSN           string
	DBConfig      DatabaseConfig
	AutoMigration bool
	MigrationsDir string

	RoutePrefix string

	PlannerConfig planner.Config

	Logger *zap.Logger
}

// DatabaseConfig holds connection-pool tuning shared by the postgres and
// mysql store modes.
type DatabaseConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// WithMemoryStore selects the in-memory store. This is the default, so the
// option only matters when undoing an earlier WithPostgres/WithMySQL in the
// same options list.
func WithMemoryStore() Option {
	return func(c *Config) error {
		c.StoreMode = StoreModeMemory
		return nil
	}
}

// WithPostgres selects the Postgres store backed by dsn.
func WithPostgres(dsn string, opts ...DBOption) Option {
	return func(c *Config) error {
		if dsn == "" {
			return fmt.Errorf("dsn cannot be empty")
		}
		c.StoreMode = StoreModePostgres
		c.DSN = dsn
		for _, opt := range opts {
			if err := opt(&c.DBConfig); err != nil {
				return fmt.Errorf("database option error: %w", err)
			}
		}
		return nil
	}
}

// WithMySQL selects the MySQL store backed by dsn.
func WithMySQL(dsn string, opts ...DBOption) Option {
	return func(c *Config) error {
		if dsn == "" {
			return fmt.Errorf("dsn cannot be empty")
		}
		c.StoreMode = StoreModeMySQL
		c.DSN = dsn
		for _, opt := range opts {
			if err := opt(&c.DBConfig); err != nil {
				return fmt.Errorf("database option error: %w", err)
			}
		}
		return nil
	}
}

// DBOption configures DatabaseConfig.
type DBOption func(*DatabaseConfig) error

// WithMaxOpenConns caps open connections for a SQL-backed store.
func WithMaxOpenConns(max int) DBOption {
	return func(c *DatabaseConfig) error {
		if max <= 0 {
			return fmt.Errorf("max open conns must be positive")
		}
		c.MaxOpenConns = max
		return nil
	}
}

// WithMaxIdleConns caps idle connections for a SQL-backed store.
func WithMaxIdleConns(max int) DBOption {
	return func(c *DatabaseConfig) error {
		if max < 0 {
			return fmt.Errorf("max idle conns cannot be negative")
		}
		c.MaxIdleConns = max
		return nil
	}
}

// WithAutoMigration enables or disables running the schema migration on
// New. Defaults to true for postgres/mysql, ignored for memory.
func WithAutoMigration(enabled bool) Option {
	return func(c *Config) error {
		c.AutoMigration = enabled
		return nil
	}
}

// WithMigrationsDir overrides the directory RunMigrations reads from.
// Defaults to "./migrations".
func WithMigrationsDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return fmt.Errorf("migrations dir cannot be empty")
		}
		c.MigrationsDir = dir
		return nil
	}
}

// WithPlannerConfig overrides the day planner's work hours and default
// estimate.
func WithPlannerConfig(cfg planner.Config) Option {
	return func(c *Config) error {
		c.PlannerConfig = cfg
		return nil
	}
}

// WithRoutePrefix sets the HTTP route prefix RegisterRoutes mounts under.
// Defaults to "/api/v1".
func WithRoutePrefix(prefix string) Option {
	return func(c *Config) error {
		if prefix == "" {
			return fmt.Errorf("route prefix cannot be empty")
		}
		c.RoutePrefix = prefix
		return nil
	}
}

// WithLogger sets a custom logger. Defaults to the global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}
