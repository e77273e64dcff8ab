package service

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrValidation covers malformed or missing input and business rules on
// input shape (past-time job, invalid rating value, invalid status name).
type ErrValidation struct {
	error
}

func NewErrValidation(message string) *ErrValidation {
	return &ErrValidation{fmt.Errorf("invalid request: %s", message)}
}

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "request")
}

func NewErrOfferNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "offer")
}

func NewErrApplicationNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "application")
}

// ErrForbidden means the acting principal is not the owning client or
// cleaner of the target entity.
type ErrForbidden struct {
	error
}

func NewErrNotJobCleaner(jobID uuid.UUID) *ErrForbidden {
	return &ErrForbidden{fmt.Errorf("not authorized to update request %s", jobID)}
}

func NewErrNotJobClient(jobID uuid.UUID) *ErrForbidden {
	return &ErrForbidden{fmt.Errorf("not authorized to act on request %s", jobID)}
}

// ErrInvalidTransition means the requested state change violates the
// booking state machine.
type ErrInvalidTransition struct {
	error
}

func NewErrModifyCompleted(jobID uuid.UUID) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("cannot modify completed request %s", jobID)}
}

func NewErrRateNotCompleted(jobID uuid.UUID) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("only completed requests can be rated: %s", jobID)}
}

// ErrOfferUnavailable means the offer is not a general open job anymore.
type ErrOfferUnavailable struct {
	error
}

func NewErrOfferUnavailable(offerID uuid.UUID) *ErrOfferUnavailable {
	return &ErrOfferUnavailable{fmt.Errorf("offer %s is no longer available", offerID)}
}

// ErrOfferExpired means the offer's deadline or job start has passed.
type ErrOfferExpired struct {
	error
}

func NewErrDeadlinePassed(offerID uuid.UUID) *ErrOfferExpired {
	return &ErrOfferExpired{fmt.Errorf("offer %s deadline has passed", offerID)}
}

func NewErrJobTimePassed(offerID uuid.UUID) *ErrOfferExpired {
	return &ErrOfferExpired{fmt.Errorf("offer %s job time has already passed", offerID)}
}

// ErrDuplicateApplication means the cleaner has already applied, detected
// either by the pre-check or by the store's uniqueness constraint.
type ErrDuplicateApplication struct {
	error
}

func NewErrDuplicateApplication(offerID uuid.UUID) *ErrDuplicateApplication {
	return &ErrDuplicateApplication{fmt.Errorf("already applied to offer %s", offerID)}
}
