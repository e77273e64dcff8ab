package mappers

import (
	api "github.com/cleanmatch/cleanmatch/api/v1"
	"github.com/cleanmatch/cleanmatch/internal/service"
	"github.com/cleanmatch/cleanmatch/internal/store/model"
)

func JobToApi(job model.Job) api.Job {
	return api.Job{
		ID:          job.ID,
		ClientID:    job.ClientID,
		CleanerID:   job.CleanerID,
		Service:     job.Service,
		Date:        job.Date.Format(dateLayout),
		StartTime:   job.StartTime,
		EndTime:     job.EndTime,
		Status:      string(job.Status),
		RequestType: string(job.RequestType),
		Note:        job.Note,
		Budget:      job.Budget,
		Deadline:    job.Deadline,
		AcceptedAt:  job.AcceptedAt,
		CompletedAt: job.CompletedAt,
		Rating:      job.Rating,
		Review:      job.Review,
		ClientRated: job.ClientRated,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func JobListToApi(jobs model.JobList) api.JobList {
	list := make(api.JobList, 0, len(jobs))
	for _, job := range jobs {
		list = append(list, JobToApi(job))
	}
	return list
}

func CleanerJobListToApi(jobs []service.CleanerJob) api.CleanerJobList {
	list := make(api.CleanerJobList, 0, len(jobs))
	for _, job := range jobs {
		list = append(list, api.CleanerJob{Job: JobToApi(job.Job), IsApplied: job.IsApplied})
	}
	return list
}

func ApplicationToApi(application model.Application) api.Application {
	return api.Application{
		ID:         application.ID,
		OfferID:    application.OfferID,
		CleanerID:  application.CleanerID,
		Status:     string(application.Status),
		AppliedAt:  application.AppliedAt,
		SelectedAt: application.SelectedAt,
	}
}

func ApplicationListToApi(applications model.ApplicationList) api.ApplicationList {
	list := make(api.ApplicationList, 0, len(applications))
	for _, application := range applications {
		list = append(list, ApplicationToApi(application))
	}
	return list
}

func OfferWithApplicationsListToApi(offers []service.OfferWithApplications) []api.OfferWithApplications {
	list := make([]api.OfferWithApplications, 0, len(offers))
	for _, offer := range offers {
		list = append(list, api.OfferWithApplications{
			Job:          JobToApi(offer.Offer),
			Applications: ApplicationListToApi(offer.Applications),
		})
	}
	return list
}
