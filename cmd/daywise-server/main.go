package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/usual2970/daywise/configs"
	"github.com/usual2970/daywise/domain/repository"
	"github.com/usual2970/daywise/httpapi"
	"github.com/usual2970/daywise/infrastructure/logger"
	"github.com/usual2970/daywise/internal/planner"
	"github.com/usual2970/daywise/internal/priority"
	"github.com/usual2970/daywise/internal/task"
	"github.com/usual2970/daywise/repository/memory"
	"github.com/usual2970/daywise/repository/mysql"
	"github.com/usual2970/daywise/repository/postgres"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.Named("main")

	cfg, err := configs.LoadConfig("")
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open task store", zap.Error(err))
	}
	defer closeStore()

	mgr := task.New(store)
	eval := priority.New(store)
	plan := planner.New(eval, planner.Config{
		WorkHoursStart:         cfg.Planner.WorkHoursStart,
		WorkHoursEnd:           cfg.Planner.WorkHoursEnd,
		DefaultEstimateMinutes: cfg.Planner.DefaultEstimateMinutes,
	})

	h := httpapi.NewHandler(mgr, eval, plan, log)
	srv := httpapi.NewServer(httpapi.ServerConfig{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, h, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("address", cfg.Server.Address()))

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}

// openStore builds the TaskStore named by cfg.Database.Driver and returns a
// close function that releases any underlying connection.
func openStore(cfg *configs.Config, log *zap.Logger) (repository.TaskStore, func(), error) {
	switch cfg.Database.Driver {
	case "memory":
		return memory.New(), func() {}, nil

	case "postgres":
		pool, err := postgres.NewConnection(context.Background(), cfg.Database.URL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.RunMigrations(context.Background(), pool, cfg.Database.MigrationsDir, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStore(pool), func() { postgres.Close(pool, log) }, nil

	case "mysql":
		db, err := mysql.NewConnection(cfg.Database.URL, mysql.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		if err := mysql.RunMigrations(db, cfg.Database.MigrationsDir, log); err != nil {
			db.Close()
			return nil, nil, err
		}
		return mysql.NewStore(db), func() { mysql.Close(db, log) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
