package mappers

import (
	"time"

	"github.com/google/uuid"

	api "github.com/cleanmatch/cleanmatch/api/v1"
	"github.com/cleanmatch/cleanmatch/internal/service/mappers"
)

const dateLayout = "2006-01-02"

// JobFormApi converts a validated JobCreate body into the service form.
// The date string has already passed the datetime validator.
func JobFormApi(resource api.JobCreate, clientID uuid.UUID) mappers.JobCreateForm {
	date, _ := time.Parse(dateLayout, resource.Date)

	return mappers.JobCreateForm{
		ClientID:  clientID,
		CleanerID: resource.CleanerID,
		Service:   resource.Service,
		Date:      date,
		StartTime: resource.StartTime,
		EndTime:   resource.EndTime,
		Note:      resource.Note,
	}
}

func OfferFormApi(resource api.OfferCreate, clientID uuid.UUID) mappers.OfferCreateForm {
	date, _ := time.Parse(dateLayout, resource.Date)

	return mappers.OfferCreateForm{
		ClientID:  clientID,
		Service:   resource.Service,
		Date:      date,
		StartTime: resource.StartTime,
		EndTime:   resource.EndTime,
		Budget:    resource.Budget,
		Deadline:  resource.Deadline,
		Note:      resource.Note,
	}
}
