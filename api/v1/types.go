// Package v1 contains the wire types of the cleanmatch booking API.
package v1

import (
	"time"

	"github.com/google/uuid"
)

// JobCreate is the request body for creating a direct booking request.
type JobCreate struct {
	CleanerID uuid.UUID `json:"cleanerId" validate:"required"`
	Service   string    `json:"service" validate:"required,service_type"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string    `json:"startTime" validate:"required,clock"`
	EndTime   string    `json:"endTime" validate:"required,clock"`
	Note      *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}

// OfferCreate is the request body for creating an open offer.
type OfferCreate struct {
	Service   string     `json:"service" validate:"required,service_type"`
	Date      string     `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string     `json:"startTime" validate:"required,clock"`
	EndTime   string     `json:"endTime" validate:"required,clock"`
	Budget    *float64   `json:"budget" validate:"required,gte=0"`
	Deadline  *time.Time `json:"deadline" validate:"required"`
	Note      *string    `json:"note,omitempty" validate:"omitempty,max=500"`
}

// JobStatusUpdate is the request body for cleaner-driven status transitions.
type JobStatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// JobRating is the request body for rating a completed job.
type JobRating struct {
	Rating int     `json:"rating" validate:"required,gte=1,lte=5"`
	Review *string `json:"review,omitempty" validate:"omitempty,max=500"`
}

// Job is the API representation of a booking, direct or general.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    uuid.UUID  `json:"clientId"`
	CleanerID   *uuid.UUID `json:"cleanerId,omitempty"`
	Service     string     `json:"service"`
	Date        string     `json:"date"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Status      string     `json:"status"`
	RequestType string     `json:"requestType"`
	Note        *string    `json:"note,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	Review      *string    `json:"review,omitempty"`
	ClientRated bool       `json:"clientRated"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type JobList []Job

// CleanerJob is one entry of the cleaner work view: either a direct
// request assigned to the cleaner or an open offer the cleaner applied to.
type CleanerJob struct {
	Job
	IsApplied bool `json:"isApplied"`
}

type CleanerJobList []CleanerJob

// Application is the API representation of a cleaner's bid on an offer.
type Application struct {
	ID         uuid.UUID  `json:"id"`
	OfferID    uuid.UUID  `json:"offerId"`
	CleanerID  uuid.UUID  `json:"cleanerId"`
	Status     string     `json:"status"`
	AppliedAt  time.Time  `json:"appliedAt"`
	SelectedAt *time.Time `json:"selectedAt,omitempty"`
}

type ApplicationList []Application

// OfferWithApplications is a client's open offer together with its
// pending applications.
type OfferWithApplications struct {
	Job
	Applications ApplicationList `json:"applications"`
}

// Error is the common error envelope.
type Error struct {
	Message string `json:"message"`
}
