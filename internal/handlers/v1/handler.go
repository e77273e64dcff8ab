// Package v1 contains the HTTP handlers of the booking API.
package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/cleanmatch/cleanmatch/api/v1"
	"github.com/cleanmatch/cleanmatch/internal/service"
)

type ServiceHandler struct {
	bookingSrv *service.BookingService
	offerSrv   *service.OfferService
}

func NewServiceHandler(bookingService *service.BookingService, offerService *service.OfferService) *ServiceHandler {
	return &ServiceHandler{
		bookingSrv: bookingService,
		offerSrv:   offerService,
	}
}

// replyError maps the service error taxonomy onto HTTP statuses. State
// conflicts (illegal transition, consumed or expired offer, duplicate
// application) all answer 409.
func replyError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *service.ErrValidation:
		status = http.StatusBadRequest
	case *service.ErrResourceNotFound:
		status = http.StatusNotFound
	case *service.ErrForbidden:
		status = http.StatusForbidden
	case *service.ErrInvalidTransition, *service.ErrOfferUnavailable, *service.ErrOfferExpired, *service.ErrDuplicateApplication:
		status = http.StatusConflict
	}

	render.Status(r, status)
	if status == http.StatusInternalServerError {
		render.JSON(w, r, api.Error{Message: "internal server error"})
		return
	}
	render.JSON(w, r, api.Error{Message: err.Error()})
}

func replyBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, api.Error{Message: message})
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
