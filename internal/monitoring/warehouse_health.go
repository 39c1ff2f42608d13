package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15 * time.Second

// DatasetChecker is the part of a warehouse the monitor probes.
type DatasetChecker interface {
	DatasetExists(ctx context.Context, dataset string) error
}

// MonitorWarehouseHealth probes the dataset every interval and stores the
// result in healthy. It only logs; forwarding is never paused.
func MonitorWarehouseHealth(ctx context.Context, wh DatasetChecker, dataset string, interval, timeout time.Duration, healthy *atomic.Bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := checkWarehouse(ctx, wh, dataset, timeout)
			if healthy.Swap(isHealthy) != isHealthy && isHealthy {
				slog.Info("[HealthCheck] Warehouse is reachable again", slog.String("dataset", dataset))
			}
		}
	}
}

func checkWarehouse(ctx context.Context, wh DatasetChecker, dataset string, timeout time.Duration) bool {
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := wh.DatasetExists(checkCtx, dataset); err != nil {
		slog.Warn("[HealthCheck] Warehouse is unhealthy",
			slog.String("dataset", dataset),
			slog.String("error", err.Error()))
		return false
	}
	return true
}
