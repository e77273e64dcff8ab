package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/render"

	api "github.com/cleanmatch/cleanmatch/api/v1"
	"github.com/cleanmatch/cleanmatch/internal/auth"
	"github.com/cleanmatch/cleanmatch/internal/handlers/v1/mappers"
	"github.com/cleanmatch/cleanmatch/internal/handlers/validator"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

// (POST /api/v1/jobs)
// The body carries a requestType discriminator, defaulting to specific.
// Each variant is decoded and validated independently.
func (s *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		replyBadRequest(w, r, "empty body")
		return
	}

	var envelope struct {
		RequestType string `json:"requestType"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		replyBadRequest(w, r, "malformed body")
		return
	}
	if envelope.RequestType == "" {
		envelope.RequestType = string(model.RequestTypeSpecific)
	}

	switch envelope.RequestType {
	case string(model.RequestTypeSpecific):
		s.createDirectJob(w, r, body, user)
	case string(model.RequestTypeGeneral):
		s.createOffer(w, r, body, user)
	default:
		replyBadRequest(w, r, "invalid request type")
	}
}

func (s *ServiceHandler) createDirectJob(w http.ResponseWriter, r *http.Request, body []byte, user auth.User) {
	var form api.JobCreate
	if err := json.Unmarshal(body, &form); err != nil {
		replyBadRequest(w, r, "malformed body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	if err := v.Struct(form); err != nil {
		replyBadRequest(w, r, err.Error())
		return
	}

	job, err := s.bookingSrv.CreateDirectJob(r.Context(), mappers.JobFormApi(form, user.ID))
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.JobToApi(*job))
}

func (s *ServiceHandler) createOffer(w http.ResponseWriter, r *http.Request, body []byte, user auth.User) {
	var form api.OfferCreate
	if err := json.Unmarshal(body, &form); err != nil {
		replyBadRequest(w, r, "malformed body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewOfferValidationRules()...)
	if err := v.Struct(form); err != nil {
		replyBadRequest(w, r, err.Error())
		return
	}

	job, err := s.bookingSrv.CreateOffer(r.Context(), mappers.OfferFormApi(form, user.ID))
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, mappers.JobToApi(*job))
}

// (GET /api/v1/jobs/{id})
func (s *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid job id")
		return
	}

	job, err := s.bookingSrv.GetJob(r.Context(), jobID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	if job.ClientID != user.ID && (job.CleanerID == nil || *job.CleanerID != user.ID) {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error{Message: "not authorized to view this request"})
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

// (PUT /api/v1/jobs/{id}/status)
func (s *ServiceHandler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid job id")
		return
	}

	var update api.JobStatusUpdate
	if err := render.DecodeJSON(r.Body, &update); err != nil {
		replyBadRequest(w, r, "malformed body")
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := s.bookingSrv.TransitionStatus(r.Context(), jobID, user.ID, model.JobStatus(update.Status))
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

// (PUT /api/v1/jobs/{id}/rate)
func (s *ServiceHandler) RateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid job id")
		return
	}

	var rating api.JobRating
	if err := render.DecodeJSON(r.Body, &rating); err != nil {
		replyBadRequest(w, r, "malformed body")
		return
	}

	user := auth.MustHaveUser(r.Context())
	job, err := s.bookingSrv.RateJob(r.Context(), jobID, user.ID, rating.Rating, rating.Review)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

// (GET /api/v1/cleaners/{id}/jobs)
func (s *ServiceHandler) ListCleanerJobs(w http.ResponseWriter, r *http.Request) {
	cleanerID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid cleaner id")
		return
	}

	user := auth.MustHaveUser(r.Context())
	if user.ID != cleanerID {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error{Message: "not authorized to view these requests"})
		return
	}

	jobs, err := s.bookingSrv.ListRequestsForCleaner(r.Context(), cleanerID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.CleanerJobListToApi(jobs))
}

// (GET /api/v1/cleaners/{id}/jobs/completed)
func (s *ServiceHandler) ListCleanerCompletedJobs(w http.ResponseWriter, r *http.Request) {
	cleanerID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid cleaner id")
		return
	}

	user := auth.MustHaveUser(r.Context())
	if user.ID != cleanerID {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error{Message: "not authorized to view these requests"})
		return
	}

	jobs, err := s.bookingSrv.ListCompletedForCleaner(r.Context(), cleanerID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /api/v1/clients/{id}/jobs/completed)
func (s *ServiceHandler) ListClientCompletedJobs(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid client id")
		return
	}

	user := auth.MustHaveUser(r.Context())
	if user.ID != clientID {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error{Message: "not authorized to view these requests"})
		return
	}

	jobs, err := s.bookingSrv.ListCompletedForClient(r.Context(), clientID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (GET /api/v1/clients/{id}/jobs/pending)
func (s *ServiceHandler) ListClientPendingJobs(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuidParam(r, "id")
	if err != nil {
		replyBadRequest(w, r, "invalid client id")
		return
	}

	user := auth.MustHaveUser(r.Context())
	if user.ID != clientID {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error{Message: "not authorized to view these requests"})
		return
	}

	jobs, err := s.bookingSrv.ListPendingDirectForClient(r.Context(), clientID)
	if err != nil {
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}
