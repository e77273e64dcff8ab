package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	cleanmatch = "cleanmatch"

	jobsCreatedTotal        = "jobs_created_total"
	jobTransitionsTotal     = "job_transitions_total"
	applicationsTotal       = "offer_applications_total"
	sweepRunsTotal          = "sweep_runs_total"
	sweepCompletedJobsTotal = "sweep_completed_jobs_total"

	requestTypeLabel = "request_type"
	statusLabel      = "status"
	resultLabel      = "result"
)

/**
* Metrics definition
**/
var jobsCreatedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: cleanmatch,
		Name:      jobsCreatedTotal,
		Help:      "number of booking jobs created, partitioned by request type",
	},
	[]string{requestTypeLabel},
)

var jobTransitionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: cleanmatch,
		Name:      jobTransitionsTotal,
		Help:      "number of job status transitions, partitioned by target status",
	},
	[]string{statusLabel},
)

var applicationsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: cleanmatch,
		Name:      applicationsTotal,
		Help:      "number of offer applications submitted",
	},
)

var sweepRunsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: cleanmatch,
		Name:      sweepRunsTotal,
		Help:      "number of auto-completion sweeps, partitioned by result",
	},
	[]string{resultLabel},
)

var sweepCompletedJobsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: cleanmatch,
		Name:      sweepCompletedJobsTotal,
		Help:      "number of jobs auto-completed by the sweeper",
	},
)

func IncreaseJobsCreatedTotalMetric(requestType string) {
	jobsCreatedTotalMetric.With(prometheus.Labels{requestTypeLabel: requestType}).Inc()
}

func IncreaseJobTransitionsTotalMetric(status string) {
	jobTransitionsTotalMetric.With(prometheus.Labels{statusLabel: status}).Inc()
}

func IncreaseApplicationsTotalMetric() {
	applicationsTotalMetric.Inc()
}

func RecordSweep(result string, completed int) {
	sweepRunsTotalMetric.With(prometheus.Labels{resultLabel: result}).Inc()
	if completed > 0 {
		sweepCompletedJobsTotalMetric.Add(float64(completed))
	}
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	prometheus.MustRegister(jobsCreatedTotalMetric)
	prometheus.MustRegister(jobTransitionsTotalMetric)
	prometheus.MustRegister(applicationsTotalMetric)
	prometheus.MustRegister(sweepRunsTotalMetric)
	prometheus.MustRegister(sweepCompletedJobsTotalMetric)
	return &PrometheusMetricsHandler{}
}

func (p *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}
