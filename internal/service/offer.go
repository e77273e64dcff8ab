package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cleanmatch/cleanmatch/internal/store"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
	"github.com/cleanmatch/cleanmatch/pkg/metrics"
)

// OfferService implements the offer matching protocol: cleaners apply to
// open general requests, the client selects exactly one applicant, and
// selection converts the offer into an accepted specific job.
type OfferService struct {
	store   store.Store
	sweeper *SweeperService
	now     func() time.Time
}

func NewOfferService(store store.Store, sweeper *SweeperService, opts ...Option) *OfferService {
	o := newServiceOptions(opts...)
	return &OfferService{
		store:   store,
		sweeper: sweeper,
		now:     o.now,
	}
}

// OfferWithApplications pairs an open offer with its pending
// applications for the client's review view.
type OfferWithApplications struct {
	Offer        model.Job
	Applications model.ApplicationList
}

// ApplyToOffer records a cleaner's application to an open offer.
// Preconditions in order: the offer exists, is a general open request,
// its deadline has not passed, its start time has not passed, and the
// cleaner has not already applied. The store's unique index is the
// authoritative guard against concurrent duplicates.
func (o *OfferService) ApplyToOffer(ctx context.Context, offerID, cleanerID uuid.UUID) (*model.Application, error) {
	o.sweeper.Refresh(ctx)

	offer, err := o.store.Job().Get(ctx, offerID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrOfferNotFound(offerID)
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	if offer.RequestType != model.RequestTypeGeneral || offer.Status != model.JobStatusOpen {
		return nil, NewErrOfferUnavailable(offerID)
	}

	now := o.now()
	if offer.Deadline != nil && now.After(*offer.Deadline) {
		return nil, NewErrDeadlinePassed(offerID)
	}
	if !offer.StartsAt().After(now) {
		return nil, NewErrJobTimePassed(offerID)
	}

	exists, err := o.store.Application().ExistsFor(ctx, offerID, cleanerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return nil, NewErrDuplicateApplication(offerID)
	}

	application := model.Application{
		ID:        uuid.New(),
		OfferID:   offerID,
		CleanerID: cleanerID,
		Status:    model.ApplicationStatusPending,
		AppliedAt: now,
	}

	created, err := o.store.Application().Create(ctx, application)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrDuplicateApplication(offerID)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	metrics.IncreaseApplicationsTotalMetric()
	zap.S().Named("offer_service").Infow("application created", "offer_id", offerID, "cleaner_id", cleanerID)
	return created, nil
}

// SelectApplicant converts an open offer into an accepted specific job
// assigned to the selected applicant's cleaner. The winning application
// is marked selected, every other application on the offer is rejected,
// and all three writes commit in one transaction with the job promotion
// last, so a failure leaves the offer open and every application pending.
func (o *OfferService) SelectApplicant(ctx context.Context, offerID, applicationID, actingClientID uuid.UUID) (*model.Job, error) {
	o.sweeper.Refresh(ctx)

	offer, err := o.store.Job().Get(ctx, offerID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrOfferNotFound(offerID)
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}

	if offer.ClientID != actingClientID {
		return nil, NewErrNotJobClient(offerID)
	}

	if offer.RequestType != model.RequestTypeGeneral || offer.Status != model.JobStatusOpen {
		return nil, NewErrOfferUnavailable(offerID)
	}

	application, err := o.store.Application().Get(ctx, applicationID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrApplicationNotFound(applicationID)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if application.OfferID != offerID {
		return nil, NewErrValidation("application does not belong to this offer")
	}

	ctx, err = o.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction: %w", err)
	}

	now := o.now()
	if _, err := o.store.Application().RejectAllExcept(ctx, offerID, applicationID); err != nil {
		if _, rollbackErr := store.Rollback(ctx); rollbackErr != nil {
			zap.S().Named("offer_service").Errorf("rollback failed: %v", rollbackErr)
		}
		return nil, fmt.Errorf("failed to reject applications: %w", err)
	}
	if _, err := o.store.Application().MarkSelected(ctx, applicationID, now); err != nil {
		if _, rollbackErr := store.Rollback(ctx); rollbackErr != nil {
			zap.S().Named("offer_service").Errorf("rollback failed: %v", rollbackErr)
		}
		return nil, fmt.Errorf("failed to mark application selected: %w", err)
	}

	cleanerID := application.CleanerID
	offer.CleanerID = &cleanerID
	offer.Status = model.JobStatusAccepted
	offer.RequestType = model.RequestTypeSpecific
	offer.AcceptedAt = &now

	updated, err := o.store.Job().Update(ctx, *offer)
	if err != nil {
		if _, rollbackErr := store.Rollback(ctx); rollbackErr != nil {
			zap.S().Named("offer_service").Errorf("rollback failed: %v", rollbackErr)
		}
		return nil, fmt.Errorf("failed to convert offer: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit selection: %w", err)
	}

	metrics.IncreaseJobTransitionsTotalMetric(string(model.JobStatusAccepted))
	zap.S().Named("offer_service").Infow("applicant selected",
		"offer_id", offerID, "application_id", applicationID, "cleaner_id", cleanerID)
	return updated, nil
}

// ListOpen returns the open offers visible to cleaners: general open
// requests whose deadline has not passed and whose start datetime is
// still in the future. Expired offers stay in the store but drop out of
// this view.
func (o *OfferService) ListOpen(ctx context.Context) (model.JobList, error) {
	o.sweeper.Refresh(ctx)

	offers, err := o.store.Job().List(ctx,
		store.NewJobQueryFilter().ByRequestType(model.RequestTypeGeneral).ByStatus(model.JobStatusOpen),
		store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc))
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	now := o.now()
	visible := make(model.JobList, 0, len(offers))
	for _, offer := range offers {
		if offer.Deadline != nil && now.After(*offer.Deadline) {
			continue
		}
		if !offer.StartsAt().After(now) {
			continue
		}
		visible = append(visible, offer)
	}
	return visible, nil
}

// ListPendingForClient returns the client's open offers together with
// their pending applications.
func (o *OfferService) ListPendingForClient(ctx context.Context, clientID uuid.UUID) ([]OfferWithApplications, error) {
	o.sweeper.Refresh(ctx)

	offers, err := o.store.Job().List(ctx,
		store.NewJobQueryFilter().ByClientID(clientID).ByRequestType(model.RequestTypeGeneral).ByStatus(model.JobStatusOpen),
		store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc))
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	result := make([]OfferWithApplications, 0, len(offers))
	for _, offer := range offers {
		applications, err := o.store.Application().List(ctx,
			store.NewApplicationQueryFilter().ByOfferID(offer.ID).ByStatus(model.ApplicationStatusPending))
		if err != nil {
			return nil, fmt.Errorf("failed to list applications for offer %s: %w", offer.ID, err)
		}
		result = append(result, OfferWithApplications{Offer: offer, Applications: applications})
	}
	return result, nil
}
