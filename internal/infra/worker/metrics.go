package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sportsdesk/internal/pkg/config"
)

// WorkerMetrics covers configuration fallbacks and digest job runs.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	LastSuccessTimestamp prometheus.Gauge
}

func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),
		JobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_digest_job_runs_total",
			Help: "Digest job runs by status (success/failure)",
		}, []string{"status"}),
		JobDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_digest_job_duration_seconds",
			Help:    "Duration of digest job runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		LastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worker_digest_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful digest run",
		}),
	}
}

func (m *WorkerMetrics) Register(reg prometheus.Registerer) error {
	if err := m.ConfigMetrics.Register(reg); err != nil {
		return err
	}
	for _, c := range []prometheus.Collector{m.JobRunsTotal, m.JobDurationSeconds, m.LastSuccessTimestamp} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordJob records one run. A nil error counts as success.
func (m *WorkerMetrics) RecordJob(d time.Duration, err error) {
	m.JobDurationSeconds.Observe(d.Seconds())
	if err != nil {
		m.JobRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.JobRunsTotal.WithLabelValues("success").Inc()
	m.LastSuccessTimestamp.SetToCurrentTime()
}
