package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/cleanmatch/cleanmatch/internal/config"
	"github.com/cleanmatch/cleanmatch/internal/service"
	"github.com/cleanmatch/cleanmatch/internal/service/mappers"
	"github.com/cleanmatch/cleanmatch/internal/store"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

// fixed reference clock for every lifecycle test
var testNow = time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC)

func seedJob(s store.Store, job model.Job) *model.Job {
	created, err := s.Job().Create(context.TODO(), job)
	Expect(err).To(BeNil())
	return created
}

func directJob(clientID, cleanerID uuid.UUID, status model.JobStatus, date time.Time, start, end string) model.Job {
	id := cleanerID
	return model.Job{
		ID:          uuid.New(),
		ClientID:    clientID,
		CleanerID:   &id,
		Service:     "house cleaning",
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Status:      status,
		RequestType: model.RequestTypeSpecific,
	}
}

func openOffer(clientID uuid.UUID, date time.Time, deadline *time.Time) model.Job {
	budget := 50.0
	return model.Job{
		ID:          uuid.New(),
		ClientID:    clientID,
		Service:     "deep cleaning",
		Date:        date,
		StartTime:   "09:00",
		EndTime:     "11:00",
		Status:      model.JobStatusOpen,
		RequestType: model.RequestTypeGeneral,
		Budget:      &budget,
		Deadline:    deadline,
	}
}

var _ = Describe("booking service", Ordered, func() {
	var (
		s       store.Store
		gormdb  *gorm.DB
		svc     *service.BookingService
		sweeper *service.SweeperService

		tomorrow = testNow.AddDate(0, 0, 1)
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		sweeper = service.NewSweeperService(s, service.WithNowFunc(func() time.Time { return testNow }))
		svc = service.NewBookingService(s, sweeper, service.WithNowFunc(func() time.Time { return testNow }))
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM applications;")
		gormdb.Exec("DELETE FROM jobs;")
	})

	Context("create direct job", func() {
		It("creates a pending specific job for tomorrow", func() {
			clientID := uuid.New()
			cleanerID := uuid.New()

			job, err := svc.CreateDirectJob(context.TODO(), mappers.JobCreateForm{
				ClientID:  clientID,
				CleanerID: cleanerID,
				Service:   "house cleaning",
				Date:      tomorrow,
				StartTime: "10:00",
				EndTime:   "12:00",
			})
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusPending))
			Expect(job.RequestType).To(Equal(model.RequestTypeSpecific))
			Expect(*job.CleanerID).To(Equal(cleanerID))
		})

		It("rejects a job in the past", func() {
			_, err := svc.CreateDirectJob(context.TODO(), mappers.JobCreateForm{
				ClientID:  uuid.New(),
				CleanerID: uuid.New(),
				Service:   "house cleaning",
				Date:      testNow.AddDate(0, 0, -1),
				StartTime: "10:00",
				EndTime:   "12:00",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("rejects a job starting today at the current time", func() {
			_, err := svc.CreateDirectJob(context.TODO(), mappers.JobCreateForm{
				ClientID:  uuid.New(),
				CleanerID: uuid.New(),
				Service:   "house cleaning",
				Date:      testNow,
				StartTime: "08:00",
				EndTime:   "10:00",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("rejects end time before start time", func() {
			_, err := svc.CreateDirectJob(context.TODO(), mappers.JobCreateForm{
				ClientID:  uuid.New(),
				CleanerID: uuid.New(),
				Service:   "house cleaning",
				Date:      tomorrow,
				StartTime: "12:00",
				EndTime:   "10:00",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("rejects an unknown service type", func() {
			_, err := svc.CreateDirectJob(context.TODO(), mappers.JobCreateForm{
				ClientID:  uuid.New(),
				CleanerID: uuid.New(),
				Service:   "lawn mowing",
				Date:      tomorrow,
				StartTime: "10:00",
				EndTime:   "12:00",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("requires a cleaner for specific requests", func() {
			_, err := svc.CreateDirectJob(context.TODO(), mappers.JobCreateForm{
				ClientID:  uuid.New(),
				Service:   "house cleaning",
				Date:      tomorrow,
				StartTime: "10:00",
				EndTime:   "12:00",
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})
	})

	Context("create offer", func() {
		It("creates an open general job", func() {
			budget := 50.0
			deadline := testNow.AddDate(0, 0, 3)

			job, err := svc.CreateOffer(context.TODO(), mappers.OfferCreateForm{
				ClientID:  uuid.New(),
				Service:   "deep cleaning",
				Date:      testNow.AddDate(0, 0, 5),
				StartTime: "09:00",
				EndTime:   "11:00",
				Budget:    &budget,
				Deadline:  &deadline,
			})
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusOpen))
			Expect(job.RequestType).To(Equal(model.RequestTypeGeneral))
			Expect(job.CleanerID).To(BeNil())
		})

		It("requires budget and deadline", func() {
			deadline := testNow.AddDate(0, 0, 3)
			_, err := svc.CreateOffer(context.TODO(), mappers.OfferCreateForm{
				ClientID:  uuid.New(),
				Service:   "deep cleaning",
				Date:      testNow.AddDate(0, 0, 5),
				StartTime: "09:00",
				EndTime:   "11:00",
				Deadline:  &deadline,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))

			budget := 50.0
			_, err = svc.CreateOffer(context.TODO(), mappers.OfferCreateForm{
				ClientID:  uuid.New(),
				Service:   "deep cleaning",
				Date:      testNow.AddDate(0, 0, 5),
				StartTime: "09:00",
				EndTime:   "11:00",
				Budget:    &budget,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("rejects a negative budget", func() {
			budget := -1.0
			deadline := testNow.AddDate(0, 0, 3)
			_, err := svc.CreateOffer(context.TODO(), mappers.OfferCreateForm{
				ClientID:  uuid.New(),
				Service:   "deep cleaning",
				Date:      testNow.AddDate(0, 0, 5),
				StartTime: "09:00",
				EndTime:   "11:00",
				Budget:    &budget,
				Deadline:  &deadline,
			})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})
	})

	Context("status transitions", func() {
		It("lets the assigned cleaner accept a pending job", func() {
			cleanerID := uuid.New()
			job := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusPending, tomorrow, "10:00", "12:00"))

			updated, err := svc.TransitionStatus(context.TODO(), job.ID, cleanerID, model.JobStatusAccepted)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.JobStatusAccepted))
			Expect(updated.AcceptedAt).ToNot(BeNil())
			Expect(updated.AcceptedAt.Equal(testNow)).To(BeTrue())
		})

		It("lets the assigned cleaner decline", func() {
			cleanerID := uuid.New()
			job := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusPending, tomorrow, "10:00", "12:00"))

			updated, err := svc.TransitionStatus(context.TODO(), job.ID, cleanerID, model.JobStatusDeclined)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.JobStatusDeclined))
			Expect(updated.AcceptedAt).To(BeNil())
		})

		It("sets completedAt on completion", func() {
			cleanerID := uuid.New()
			job := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusAccepted, tomorrow, "10:00", "12:00"))

			updated, err := svc.TransitionStatus(context.TODO(), job.ID, cleanerID, model.JobStatusCompleted)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.JobStatusCompleted))
			Expect(updated.CompletedAt).ToNot(BeNil())
		})

		It("rejects an unknown target status", func() {
			cleanerID := uuid.New()
			job := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusPending, tomorrow, "10:00", "12:00"))

			_, err := svc.TransitionStatus(context.TODO(), job.ID, cleanerID, model.JobStatus("open"))
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("rejects a cleaner who does not own the job", func() {
			job := seedJob(s, directJob(uuid.New(), uuid.New(), model.JobStatusPending, tomorrow, "10:00", "12:00"))

			_, err := svc.TransitionStatus(context.TODO(), job.ID, uuid.New(), model.JobStatusAccepted)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("returns not found for a missing job", func() {
			_, err := svc.TransitionStatus(context.TODO(), uuid.New(), uuid.New(), model.JobStatusAccepted)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("refuses to mutate a completed job", func() {
			cleanerID := uuid.New()
			job := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusCompleted, tomorrow, "10:00", "12:00"))

			_, err := svc.TransitionStatus(context.TODO(), job.ID, cleanerID, model.JobStatusCancelled)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})

		It("sweeps a stale accepted job before applying the transition", func() {
			cleanerID := uuid.New()
			yesterday := testNow.AddDate(0, 0, -1)
			job := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusAccepted, yesterday, "10:00", "12:00"))

			// the sweep runs first, so the job is already completed and
			// the cancellation is refused
			_, err := svc.TransitionStatus(context.TODO(), job.ID, cleanerID, model.JobStatusCancelled)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))

			stored, err := s.Job().Get(context.TODO(), job.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.JobStatusCompleted))
		})
	})

	Context("rating", func() {
		It("records rating and review on a completed job", func() {
			clientID := uuid.New()
			job := seedJob(s, directJob(clientID, uuid.New(), model.JobStatusCompleted, tomorrow, "10:00", "12:00"))

			review := "spotless"
			rated, err := svc.RateJob(context.TODO(), job.ID, clientID, 5, &review)
			Expect(err).To(BeNil())
			Expect(*rated.Rating).To(Equal(5))
			Expect(*rated.Review).To(Equal("spotless"))
			Expect(rated.ClientRated).To(BeTrue())
		})

		It("rejects an out-of-range rating", func() {
			clientID := uuid.New()
			job := seedJob(s, directJob(clientID, uuid.New(), model.JobStatusCompleted, tomorrow, "10:00", "12:00"))

			_, err := svc.RateJob(context.TODO(), job.ID, clientID, 6, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))

			_, err = svc.RateJob(context.TODO(), job.ID, clientID, 0, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("rejects rating by a non-owner", func() {
			job := seedJob(s, directJob(uuid.New(), uuid.New(), model.JobStatusCompleted, tomorrow, "10:00", "12:00"))

			_, err := svc.RateJob(context.TODO(), job.ID, uuid.New(), 4, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("rejects rating a job that is not completed", func() {
			clientID := uuid.New()
			job := seedJob(s, directJob(clientID, uuid.New(), model.JobStatusAccepted, tomorrow, "10:00", "12:00"))

			_, err := svc.RateJob(context.TODO(), job.ID, clientID, 4, nil)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})

		It("rates a job auto-completed by the entry sweep", func() {
			clientID := uuid.New()
			yesterday := testNow.AddDate(0, 0, -1)
			job := seedJob(s, directJob(clientID, uuid.New(), model.JobStatusAccepted, yesterday, "10:00", "12:00"))

			rated, err := svc.RateJob(context.TODO(), job.ID, clientID, 4, nil)
			Expect(err).To(BeNil())
			Expect(rated.Status).To(Equal(model.JobStatusCompleted))
			Expect(*rated.Rating).To(Equal(4))
		})
	})

	Context("cleaner work view", func() {
		It("merges direct jobs with pending applications on open offers", func() {
			cleanerID := uuid.New()

			direct := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusPending, tomorrow, "10:00", "12:00"))
			accepted := seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusAccepted, tomorrow, "13:00", "15:00"))
			seedJob(s, directJob(uuid.New(), cleanerID, model.JobStatusDeclined, tomorrow, "16:00", "17:00"))

			deadline := testNow.AddDate(0, 0, 3)
			offer := seedJob(s, openOffer(uuid.New(), testNow.AddDate(0, 0, 5), &deadline))
			_, err := s.Application().Create(context.TODO(), model.Application{
				ID:        uuid.New(),
				OfferID:   offer.ID,
				CleanerID: cleanerID,
				Status:    model.ApplicationStatusPending,
				AppliedAt: testNow,
			})
			Expect(err).To(BeNil())

			jobs, err := svc.ListRequestsForCleaner(context.TODO(), cleanerID)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(3))

			ids := make(map[uuid.UUID]service.CleanerJob, len(jobs))
			for _, j := range jobs {
				ids[j.Job.ID] = j
			}
			Expect(ids).To(HaveKey(direct.ID))
			Expect(ids).To(HaveKey(accepted.ID))
			Expect(ids).To(HaveKey(offer.ID))

			applied := ids[offer.ID]
			Expect(applied.IsApplied).To(BeTrue())
			Expect(applied.Job.Status).To(Equal(model.JobStatusPending))
			Expect(ids[direct.ID].IsApplied).To(BeFalse())
		})

		It("drops applications whose offer is no longer open", func() {
			cleanerID := uuid.New()

			deadline := testNow.AddDate(0, 0, 3)
			offer := openOffer(uuid.New(), testNow.AddDate(0, 0, 5), &deadline)
			offer.Status = model.JobStatusCancelled
			seeded := seedJob(s, offer)

			_, err := s.Application().Create(context.TODO(), model.Application{
				ID:        uuid.New(),
				OfferID:   seeded.ID,
				CleanerID: cleanerID,
				Status:    model.ApplicationStatusPending,
				AppliedAt: testNow,
			})
			Expect(err).To(BeNil())

			jobs, err := svc.ListRequestsForCleaner(context.TODO(), cleanerID)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(0))
		})
	})

	Context("completed and pending listings", func() {
		It("lists completed jobs per cleaner and per client", func() {
			clientID := uuid.New()
			cleanerID := uuid.New()

			seedJob(s, directJob(clientID, cleanerID, model.JobStatusCompleted, tomorrow, "10:00", "12:00"))
			seedJob(s, directJob(clientID, cleanerID, model.JobStatusAccepted, tomorrow, "13:00", "15:00"))

			cleanerJobs, err := svc.ListCompletedForCleaner(context.TODO(), cleanerID)
			Expect(err).To(BeNil())
			Expect(cleanerJobs).To(HaveLen(1))
			Expect(cleanerJobs[0].Status).To(Equal(model.JobStatusCompleted))

			clientJobs, err := svc.ListCompletedForClient(context.TODO(), clientID)
			Expect(err).To(BeNil())
			Expect(clientJobs).To(HaveLen(1))
		})

		It("lists only pending specific jobs for a client", func() {
			clientID := uuid.New()

			seedJob(s, directJob(clientID, uuid.New(), model.JobStatusPending, tomorrow, "10:00", "12:00"))
			seedJob(s, directJob(clientID, uuid.New(), model.JobStatusAccepted, tomorrow, "13:00", "15:00"))
			deadline := testNow.AddDate(0, 0, 3)
			seedJob(s, openOffer(clientID, testNow.AddDate(0, 0, 5), &deadline))

			jobs, err := svc.ListPendingDirectForClient(context.TODO(), clientID)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(Equal(model.JobStatusPending))
			Expect(jobs[0].RequestType).To(Equal(model.RequestTypeSpecific))
		})
	})
})
