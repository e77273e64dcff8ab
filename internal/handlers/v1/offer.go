package v1

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/cleanmatch/cleanmatch/internal/auth"
	"github.com/cleanmatch/cleanmatch/internal/handlers/v1/mappers"
)

// (GET /api/v1/offers)
func (s *ServiceHandler) ListOpenOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.offerSrv.ListOpen(r.Context())
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(offers))
}

// (POST /api/v1/offers/{id}/applications)
func (s *ServiceHandler) ApplyToOffer(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid offer id")
		return
	}

	user := auth.MustHaveUser(r.Context())
	application, err := s.offerSrv.ApplyToOffer(r.Context(), offerID, user.ID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.ApplicationToApi(*application))
}

// (POST /api/v1/offers/{id}/select/{applicationId})
func (s *ServiceHandler) SelectApplicant(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid offer id")
		return
	}
	applicationID, err := uuidParam(r, "applicationId")
	if err != nil {
		replyBadRequest(w, r, "invalid application id")
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := s.offerSrv.SelectApplicant(r.Context(), offerID, applicationID, user.ID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

// (GET /api/v1/offers/pending)
func (s *ServiceHandler) ListPendingOffers(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	offers, err := s.offerSrv.ListPendingForClient(r.Context(), user.ID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.OfferWithApplicationsListToApi(offers))
}
