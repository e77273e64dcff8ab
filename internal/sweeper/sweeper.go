// Package sweeper runs the auto-completion sweep on a jittered interval.
package sweeper

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/cleanmatch/cleanmatch/internal/service"
)

type Runner struct {
	sweepSrv *service.SweeperService
	interval time.Duration
}

func New(sweepService *service.SweeperService, interval time.Duration) *Runner {
	return &Runner{
		sweepSrv: sweepService,
		interval: interval,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. A failed sweep is logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) {
	if _, err := r.sweepSrv.Sweep(ctx); err != nil {
		zap.S().Named("sweeper").Errorf("startup sweep failed: %v", err)
	}

	ticker := jitterbug.New(r.interval, &jitterbug.Norm{Stdev: 30 * time.Millisecond, Mean: 0})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.S().Named("sweeper").Info("sweeper terminated")
			return
		case <-ticker.C:
			if _, err := r.sweepSrv.Sweep(ctx); err != nil {
				zap.S().Named("sweeper").Errorf("sweep failed: %v", err)
			}
		}
	}
}
