package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/metric"
)

// ObservePoolMetrics registers observable gauges that report pgx pool health.
func ObservePoolMetrics(pool *pgxpool.Pool, meter metric.Meter) error {
	if pool == nil || meter == nil {
		return nil
	}
	total, err := meter.Int64ObservableGauge("teamcowboy.db.pool.connections",
		metric.WithDescription("Total connections (idle + acquired + constructing)"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	idle, err := meter.Int64ObservableGauge("teamcowboy.db.pool.idle",
		metric.WithDescription("Idle connections ready for checkout"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	acquired, err := meter.Int64ObservableGauge("teamcowboy.db.pool.acquired",
		metric.WithDescription("Connections currently acquired by callers"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stat := pool.Stat()
		o.ObserveInt64(total, int64(stat.TotalConns()))
		o.ObserveInt64(idle, int64(stat.IdleConns()))
		o.ObserveInt64(acquired, int64(stat.AcquiredConns()))
		return nil
	}, total, idle, acquired)
	return err
}
