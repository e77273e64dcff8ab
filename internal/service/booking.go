package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleanmatch/cleanmatch/internal/service/mappers"
	"github.com/cleanmatch/cleanmatch/internal/store"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
	"github.com/cleanmatch/cleanmatch/pkg/metrics"
)

// cleanerTransitions is the closed set of target statuses a cleaner may
// request on a job assigned to them.
var cleanerTransitions = map[model.JobStatus]struct{}{
	model.JobStatusAccepted:  {},
	model.JobStatusDeclined:  {},
	model.JobStatusCancelled: {},
	model.JobStatusCompleted: {},
}

// BookingService is the booking lifecycle engine. It enforces legal
// status transitions, ownership checks and derived fields, and applies a
// defensive sweep before any operation that reads or writes job status.
type BookingService struct {
	store   store.Store
	sweeper *SweeperService
	now     func() time.Time
}

func NewBookingService(store store.Store, sweeper *SweeperService, opts ...Option) *BookingService {
	o := newServiceOptions(opts...)
	return &BookingService{
		store:   store,
		sweeper: sweeper,
		now:     o.now,
	}
}

// CreateDirectJob creates a specific request targeting one cleaner.
// The job's start datetime must lie strictly in the future.
func (b *BookingService) CreateDirectJob(ctx context.Context, form mappers.JobCreateForm) (*model.Job, error) {
	if form.CleanerID == (uuid.UUID{}) {
		return nil, NewErrValidation("cleaner id is required for specific requests")
	}

	job := form.ToModel()
	if err := b.validateSchedule(&job); err != nil {
		return nil, err
	}

	created, err := b.store.Job().Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	metrics.IncreaseJobsCreatedTotalMetric(string(model.RequestTypeSpecific))
	zap.S().Named("booking_service").Infow("direct request created", "job_id", created.ID, "cleaner_id", form.CleanerID)
	return created, nil
}

// CreateOffer creates a general request open to applications. Budget and
// deadline are required for general requests.
func (b *BookingService) CreateOffer(ctx context.Context, form mappers.OfferCreateForm) (*model.Job, error) {
	if form.Budget == nil {
		return nil, NewErrValidation("budget is required for general requests")
	}
	if *form.Budget < 0 {
		return nil, NewErrValidation("budget cannot be negative")
	}
	if form.Deadline == nil {
		return nil, NewErrValidation("deadline is required for general requests")
	}

	job := form.ToModel()
	if err := b.validateSchedule(&job); err != nil {
		return nil, err
	}

	created, err := b.store.Job().Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	metrics.IncreaseJobsCreatedTotalMetric(string(model.RequestTypeGeneral))
	zap.S().Named("booking_service").Infow("offer created", "job_id", created.ID)
	return created, nil
}

// TransitionStatus applies a cleaner-driven status transition to a
// specific job already assigned to that cleaner. Preconditions are
// evaluated in a fixed order: status name, existence, ownership,
// terminal-state guard.
func (b *BookingService) TransitionStatus(ctx context.Context, jobID, actingCleanerID uuid.UUID, newStatus model.JobStatus) (*model.Job, error) {
	if _, ok := cleanerTransitions[newStatus]; !ok {
		return nil, NewErrValidation("invalid status")
	}

	// reclassify stale accepted jobs before deciding anything, so a
	// cleaner cannot decline a job that should already be closed
	b.sweeper.Refresh(ctx)

	job, err := b.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if job.CleanerID == nil || *job.CleanerID != actingCleanerID {
		return nil, NewErrNotJobCleaner(jobID)
	}

	if job.Status == model.JobStatusCompleted {
		return nil, NewErrModifyCompleted(jobID)
	}

	now := b.now()
	job.Status = newStatus
	switch newStatus {
	case model.JobStatusAccepted:
		job.AcceptedAt = &now
	case model.JobStatusCompleted:
		job.CompletedAt = &now
	}

	updated, err := b.store.Job().Update(ctx, *job)
	if err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	metrics.IncreaseJobTransitionsTotalMetric(string(newStatus))
	zap.S().Named("booking_service").Infow("request status updated", "job_id", jobID, "status", newStatus)
	return updated, nil
}

// RateJob records the client's rating of a completed job and flags the
// job as rated.
func (b *BookingService) RateJob(ctx context.Context, jobID, actingClientID uuid.UUID, rating int, review *string) (*model.Job, error) {
	if rating < 1 || rating > 5 {
		return nil, NewErrValidation("rating must be between 1 and 5")
	}

	b.sweeper.Refresh(ctx)

	job, err := b.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if job.ClientID != actingClientID {
		return nil, NewErrNotJobClient(jobID)
	}

	if job.Status != model.JobStatusCompleted {
		return nil, NewErrRateNotCompleted(jobID)
	}

	job.Rating = &rating
	if review != nil {
		job.Review = review
	}
	job.ClientRated = true

	updated, err := b.store.Job().Update(ctx, *job)
	if err != nil {
		return nil, fmt.Errorf("failed to rate request: %w", err)
	}

	zap.S().Named("booking_service").Infow("request rated", "job_id", jobID, "rating", rating)
	return updated, nil
}

// CleanerJob is one record of the cleaner work view.
type CleanerJob struct {
	Job       model.Job
	IsApplied bool

	// merge key; direct requests sort by the job's creation time,
	// applied offers by the application's
	createdAt time.Time
}

// ListRequestsForCleaner returns the union of direct jobs assigned to
// the cleaner (pending or accepted) and the cleaner's pending
// applications on still-open offers, projected into job-shaped records
// tagged IsApplied with status forced to pending. Applications whose
// offer has been selected or cancelled are silently excluded.
func (b *BookingService) ListRequestsForCleaner(ctx context.Context, cleanerID uuid.UUID) ([]CleanerJob, error) {
	b.sweeper.Refresh(ctx)

	direct, err := b.store.Job().List(ctx,
		store.NewJobQueryFilter().ByCleanerID(cleanerID).ByStatus(model.JobStatusPending, model.JobStatusAccepted),
		store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc))
	if err != nil {
		return nil, fmt.Errorf("failed to list cleaner requests: %w", err)
	}

	applications, err := b.store.Application().ListWithOffer(ctx,
		store.NewApplicationQueryFilter().ByCleanerID(cleanerID).ByStatus(model.ApplicationStatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to list cleaner applications: %w", err)
	}

	merged := make([]CleanerJob, 0, len(direct)+len(applications))
	for _, job := range direct {
		merged = append(merged, CleanerJob{Job: job, createdAt: job.CreatedAt})
	}
	for _, application := range applications {
		if application.Offer == nil || application.Offer.Status != model.JobStatusOpen {
			continue
		}
		projected := *application.Offer
		projected.Status = model.JobStatusPending
		merged = append(merged, CleanerJob{Job: projected, IsApplied: true, createdAt: application.CreatedAt})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].createdAt.After(merged[j].createdAt)
	})

	return merged, nil
}

// ListCompletedForCleaner returns the cleaner's completed jobs, most
// recently updated first.
func (b *BookingService) ListCompletedForCleaner(ctx context.Context, cleanerID uuid.UUID) (model.JobList, error) {
	b.sweeper.Refresh(ctx)

	jobs, err := b.store.Job().List(ctx,
		store.NewJobQueryFilter().ByCleanerID(cleanerID).ByStatus(model.JobStatusCompleted),
		store.NewJobQueryOptions().WithSortOrder(store.SortByUpdatedTimeDesc))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}
	return jobs, nil
}

// ListCompletedForClient returns the client's completed jobs, most
// recently updated first.
func (b *BookingService) ListCompletedForClient(ctx context.Context, clientID uuid.UUID) (model.JobList, error) {
	b.sweeper.Refresh(ctx)

	jobs, err := b.store.Job().List(ctx,
		store.NewJobQueryFilter().ByClientID(clientID).ByStatus(model.JobStatusCompleted),
		store.NewJobQueryOptions().WithSortOrder(store.SortByUpdatedTimeDesc))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}
	return jobs, nil
}

// ListPendingDirectForClient returns the client's pending specific
// requests.
func (b *BookingService) ListPendingDirectForClient(ctx context.Context, clientID uuid.UUID) (model.JobList, error) {
	b.sweeper.Refresh(ctx)

	jobs, err := b.store.Job().List(ctx,
		store.NewJobQueryFilter().ByClientID(clientID).ByRequestType(model.RequestTypeSpecific).ByStatus(model.JobStatusPending),
		store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return jobs, nil
}

// GetJob fetches a single job after refreshing stale statuses.
func (b *BookingService) GetJob(ctx context.Context, jobID uuid.UUID) (*model.Job, error) {
	b.sweeper.Refresh(ctx)

	job, err := b.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return job, nil
}

// validateSchedule enforces the shared scheduling rules on a new job:
// a known service type, end time after start time and a start datetime
// strictly in the future.
func (b *BookingService) validateSchedule(job *model.Job) error {
	if job.Service == "" || job.StartTime == "" || job.EndTime == "" || job.Date.IsZero() {
		return NewErrValidation("missing required fields")
	}
	if !model.ValidServiceType(job.Service) {
		return NewErrValidation("unknown service type")
	}
	if job.Duration() <= 0 {
		return NewErrValidation("end time must be after start time")
	}
	if !job.StartsAt().After(b.now()) {
		return NewErrValidation("job time must be in the future")
	}
	return nil
}
