// Package metrics exposes job board and HTTP counters to prometheus
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"CampusHire-backend/internal/model"
)

const namespace = "campushire"

// Recorder counts job board events. It satisfies jobboard.Recorder.
type Recorder struct {
	jobsCreated   *prometheus.CounterVec
	applications  *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		jobsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_created_total",
			Help:      "Jobs posted, by job type.",
		}, []string{"type"}),
		applications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applications_submitted_total",
			Help:      "Application attempts, by outcome.",
		}, []string{"outcome"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_status_changes_total",
			Help:      "Application status updates, by new status.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	for _, c := range []prometheus.Collector{r.jobsCreated, r.applications, r.statusChanges, r.httpRequests, r.httpDurations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// JobCreated counts a posted job
func (r *Recorder) JobCreated(jobType model.JobType) {
	r.jobsCreated.WithLabelValues(string(jobType)).Inc()
}

// ApplicationSubmitted counts an application attempt
func (r *Recorder) ApplicationSubmitted(outcome string) {
	r.applications.WithLabelValues(outcome).Inc()
}

// ApplicationStatusChanged counts a status update
func (r *Recorder) ApplicationStatusChanged(status model.ApplicationStatus) {
	r.statusChanges.WithLabelValues(string(status)).Inc()
}

// Middleware records request counts and latency per matched route
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDurations.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
