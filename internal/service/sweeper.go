package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleanmatch/cleanmatch/internal/store"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
	"github.com/cleanmatch/cleanmatch/pkg/metrics"
)

// SweeperService transitions stale accepted jobs to completed. Open
// offers are never swept; a past-due offer only disappears from listing
// queries until the client cancels it.
type SweeperService struct {
	store store.Store
	now   func() time.Time
}

func NewSweeperService(store store.Store, opts ...Option) *SweeperService {
	o := newServiceOptions(opts...)
	return &SweeperService{
		store: store,
		now:   o.now,
	}
}

// Sweep collects accepted jobs whose end time has passed and
// bulk-transitions them to completed. Idempotent: swept jobs leave the
// accepted set, so a second run with no intervening mutation is a no-op.
func (s *SweeperService) Sweep(ctx context.Context) (int64, error) {
	now := s.now()

	accepted, err := s.store.Job().List(ctx, store.NewJobQueryFilter().ByStatus(model.JobStatusAccepted), nil)
	if err != nil {
		metrics.RecordSweep("error", 0)
		return 0, fmt.Errorf("failed to list accepted jobs: %w", err)
	}

	pastDue := make([]uuid.UUID, 0, len(accepted))
	for i := range accepted {
		if accepted[i].ShouldAutoComplete(now) {
			pastDue = append(pastDue, accepted[i].ID)
		}
	}

	if len(pastDue) == 0 {
		metrics.RecordSweep("noop", 0)
		return 0, nil
	}

	completed, err := s.store.Job().CompleteMany(ctx, pastDue, now)
	if err != nil {
		metrics.RecordSweep("error", 0)
		return 0, fmt.Errorf("failed to complete past due jobs: %w", err)
	}

	metrics.RecordSweep("swept", int(completed))
	zap.S().Named("sweeper").Infof("auto-completed %d past due jobs", completed)
	return completed, nil
}

// Refresh runs a sweep on behalf of a read or write entry point so that
// callers never observe a stale accepted job. A sweep failure must not
// block the triggering operation: it is logged and the operation
// proceeds on whatever state is persisted.
func (s *SweeperService) Refresh(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		zap.S().Named("sweeper").Errorf("defensive sweep failed: %v", err)
	}
}
