package mappers

import (
	"time"

	"github.com/google/uuid"

	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

// JobCreateForm carries a validated direct-booking request into the
// lifecycle engine.
type JobCreateForm struct {
	ClientID  uuid.UUID
	CleanerID uuid.UUID
	Service   string
	Date      time.Time
	StartTime string
	EndTime   string
	Note      *string
}

func (f JobCreateForm) ToModel() model.Job {
	cleanerID := f.CleanerID
	return model.Job{
		ID:          uuid.New(),
		ClientID:    f.ClientID,
		CleanerID:   &cleanerID,
		Service:     f.Service,
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Note:        f.Note,
		Status:      model.JobStatusPending,
		RequestType: model.RequestTypeSpecific,
	}
}

// OfferCreateForm carries a validated open-offer request into the
// lifecycle engine.
type OfferCreateForm struct {
	ClientID  uuid.UUID
	Service   string
	Date      time.Time
	StartTime string
	EndTime   string
	Budget    *float64
	Deadline  *time.Time
	Note      *string
}

func (f OfferCreateForm) ToModel() model.Job {
	return model.Job{
		ID:          uuid.New(),
		ClientID:    f.ClientID,
		Service:     f.Service,
		Date:        f.Date,
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		Budget:      f.Budget,
		Deadline:    f.Deadline,
		Note:        f.Note,
		Status:      model.JobStatusOpen,
		RequestType: model.RequestTypeGeneral,
	}
}
