package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/cleanmatch/cleanmatch/api/v1"
	"github.com/cleanmatch/cleanmatch/internal/auth"
	"github.com/cleanmatch/cleanmatch/internal/config"
	handlers "github.com/cleanmatch/cleanmatch/internal/handlers/v1"
	"github.com/cleanmatch/cleanmatch/internal/service"
	"github.com/cleanmatch/cleanmatch/internal/store"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

// asUser injects a fixed principal the way an authenticator middleware
// would.
func asUser(user auth.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.NewUserContext(r.Context(), user)))
		})
	}
}

func newRouter(h *handlers.ServiceHandler, user auth.User) *chi.Mux {
	router := chi.NewRouter()
	router.Use(asUser(user))
	router.Post("/api/v1/jobs", h.CreateJob)
	router.Get("/api/v1/jobs/{id}", h.GetJob)
	router.Put("/api/v1/jobs/{id}/status", h.UpdateJobStatus)
	router.Put("/api/v1/jobs/{id}/rate", h.RateJob)
	router.Get("/api/v1/offers", h.ListOpenOffers)
	router.Post("/api/v1/offers/{id}/applications", h.ApplyToOffer)
	router.Post("/api/v1/offers/{id}/select/{applicationId}", h.SelectApplicant)
	return router
}

var _ = Describe("booking handler", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		h      *handlers.ServiceHandler

		tomorrow string
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		sweeper := service.NewSweeperService(s)
		h = handlers.NewServiceHandler(
			service.NewBookingService(s, sweeper),
			service.NewOfferService(s, sweeper),
		)

		tomorrow = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM applications;")
		gormdb.Exec("DELETE FROM jobs;")
	})

	Context("create job", func() {
		It("creates a direct job and answers 201", func() {
			clientID := uuid.New()
			body := fmt.Sprintf(`{"cleanerId":"%s","service":"house cleaning","date":"%s","startTime":"10:00","endTime":"12:00"}`,
				uuid.New(), tomorrow)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: clientID, Role: auth.RoleClient}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var job api.Job
			Expect(json.Unmarshal(rec.Body.Bytes(), &job)).To(BeNil())
			Expect(job.Status).To(Equal("pending"))
			Expect(job.RequestType).To(Equal("specific"))
			Expect(job.ClientID).To(Equal(clientID))
		})

		It("creates an offer when requestType is general", func() {
			deadline := time.Now().AddDate(0, 0, 3).Format(time.RFC3339)
			body := fmt.Sprintf(`{"requestType":"general","service":"deep cleaning","date":"%s","startTime":"09:00","endTime":"11:00","budget":50,"deadline":"%s"}`,
				tomorrow, deadline)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: uuid.New(), Role: auth.RoleClient}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var job api.Job
			Expect(json.Unmarshal(rec.Body.Bytes(), &job)).To(BeNil())
			Expect(job.Status).To(Equal("open"))
			Expect(job.CleanerID).To(BeNil())
		})

		It("answers 400 on a validation failure", func() {
			body := fmt.Sprintf(`{"cleanerId":"%s","service":"lawn mowing","date":"%s","startTime":"10:00","endTime":"12:00"}`,
				uuid.New(), tomorrow)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: uuid.New(), Role: auth.RoleClient}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("answers 400 on an empty body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", http.NoBody)
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: uuid.New(), Role: auth.RoleClient}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("status update", func() {
		It("answers 403 when the cleaner does not own the job", func() {
			cleanerID := uuid.New()
			job := model.Job{
				ID:          uuid.New(),
				ClientID:    uuid.New(),
				CleanerID:   &cleanerID,
				Service:     "house cleaning",
				Date:        time.Now().AddDate(0, 0, 1),
				StartTime:   "10:00",
				EndTime:     "12:00",
				Status:      model.JobStatusPending,
				RequestType: model.RequestTypeSpecific,
			}
			_, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())

			req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+job.ID.String()+"/status",
				bytes.NewBufferString(`{"status":"accepted"}`))
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: uuid.New(), Role: auth.RoleCleaner}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("answers 404 for an unknown job", func() {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+uuid.NewString()+"/status",
				bytes.NewBufferString(`{"status":"accepted"}`))
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: uuid.New(), Role: auth.RoleCleaner}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("answers 409 when mutating a completed job", func() {
			cleanerID := uuid.New()
			job := model.Job{
				ID:          uuid.New(),
				ClientID:    uuid.New(),
				CleanerID:   &cleanerID,
				Service:     "house cleaning",
				Date:        time.Now().AddDate(0, 0, 1),
				StartTime:   "10:00",
				EndTime:     "12:00",
				Status:      model.JobStatusCompleted,
				RequestType: model.RequestTypeSpecific,
			}
			_, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())

			req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+job.ID.String()+"/status",
				bytes.NewBufferString(`{"status":"cancelled"}`))
			rec := httptest.NewRecorder()
			newRouter(h, auth.User{ID: cleanerID, Role: auth.RoleCleaner}).ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})

	Context("offer application", func() {
		It("answers 409 on a duplicate application", func() {
			budget := 50.0
			deadline := time.Now().AddDate(0, 0, 3)
			offer := model.Job{
				ID:          uuid.New(),
				ClientID:    uuid.New(),
				Service:     "deep cleaning",
				Date:        time.Now().AddDate(0, 0, 5),
				StartTime:   "09:00",
				EndTime:     "11:00",
				Status:      model.JobStatusOpen,
				RequestType: model.RequestTypeGeneral,
				Budget:      &budget,
				Deadline:    &deadline,
			}
			_, err := s.Job().Create(context.TODO(), offer)
			Expect(err).To(BeNil())

			cleaner := auth.User{ID: uuid.New(), Role: auth.RoleCleaner}
			router := newRouter(h, cleaner)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/"+offer.ID.String()+"/applications", http.NoBody)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			req = httptest.NewRequest(http.MethodPost, "/api/v1/offers/"+offer.ID.String()+"/applications", http.NoBody)
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})
})
