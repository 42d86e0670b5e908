package daywise

import (
	"context"
	"fmt"

	"github.com/usual2970/daywise/repository/mysql"
	"github.com/usual2970/daywise/repository/postgres"
)

// Start marks the instance ready to serve requests. Unlike the teacher's
// queue system there is no background scheduler or worker pool to start;
// this only verifies the backing store (when SQL-backed) is reachable.
func (d *Daywise) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("already started")
	}

	if err := d.ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}

	d.started = true
	d.logger.Info("daywise started")
	return nil
}

// Shutdown releases the underlying store connection, when Daywise owns
// one.
func (d *Daywise) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}

	d.logger.Info("shutting down daywise")

	switch d.config.StoreMode {
	case StoreModePostgres:
		if d.pgPool != nil {
			postgres.Close(d.pgPool, d.logger)
		}
	case StoreModeMySQL:
		if d.mysqlDB != nil {
			if err := mysql.Close(d.mysqlDB, d.logger); err != nil {
				return err
			}
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	d.started = false
	d.logger.Info("daywise shutdown complete")
	return nil
}

// HealthStatus reports whether Daywise and its store are reachable.
type HealthStatus struct {
	Status  string `json:"status"` // healthy, unhealthy, stopped
	Store   string `json:"store"`  // connected, disconnected; empty when stopped
	Started bool   `json:"started"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck returns health status for monitoring.
func (d *Daywise) HealthCheck(ctx context.Context) HealthStatus {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := HealthStatus{Started: d.started}
	if !d.started {
		status.Status = "stopped"
		return status
	}

	if err := d.ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Store = "disconnected"
		status.Error = err.Error()
		return status
	}

	status.Store = "connected"
	status.Status = "healthy"
	return status
}

func (d *Daywise) ping(ctx context.Context) error {
	switch d.config.StoreMode {
	case StoreModePostgres:
		return d.pgPool.Ping(ctx)
	case StoreModeMySQL:
		return d.mysqlDB.PingContext(ctx)
	default:
		return nil
	}
}
