package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics tracks rental transition and reconciliation activity.
// A nil *LifecycleMetrics is safe to call, so tests can pass nil.
type LifecycleMetrics struct {
	transitionsApplied   *prometheus.CounterVec
	transitionsFailed    *prometheus.CounterVec
	compensations        prometheus.Counter
	compensationFailures prometheus.Counter
	jobRuns              *prometheus.CounterVec
	jobDuration          *prometheus.HistogramVec
}

// NewLifecycleMetrics registers the collectors on the default registerer.
func NewLifecycleMetrics() *LifecycleMetrics {
	return newLifecycleMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newLifecycleMetricsWithRegisterer(registerer prometheus.Registerer) *LifecycleMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &LifecycleMetrics{
		transitionsApplied: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "rentalhub_transitions_applied_total",
			Help: "Total number of rental transitions applied, by target status",
		}, []string{"to_status"}),
		transitionsFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "rentalhub_transitions_failed_total",
			Help: "Total number of rental transitions that failed, by target status",
		}, []string{"to_status"}),
		compensations: registerCounter(registerer, prometheus.CounterOpts{
			Name: "rentalhub_compensations_total",
			Help: "Total number of compensating inventory calls attempted",
		}),
		compensationFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "rentalhub_compensation_failures_total",
			Help: "Total number of failed compensating inventory calls (inconsistency window)",
		}),
		jobRuns: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "rentalhub_job_runs_total",
			Help: "Total number of reconciliation job runs, by job",
		}, []string{"job"}),
		jobDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "rentalhub_job_duration_seconds",
			Help:    "Duration of reconciliation job runs in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordTransitionApplied increments the applied counter for a target status.
func (m *LifecycleMetrics) RecordTransitionApplied(toStatus string) {
	if m == nil {
		return
	}
	m.transitionsApplied.WithLabelValues(toStatus).Inc()
}

// RecordTransitionFailed increments the failure counter for a target status.
func (m *LifecycleMetrics) RecordTransitionFailed(toStatus string) {
	if m == nil {
		return
	}
	m.transitionsFailed.WithLabelValues(toStatus).Inc()
}

// RecordCompensation increments the compensating-call counter.
func (m *LifecycleMetrics) RecordCompensation() {
	if m == nil {
		return
	}
	m.compensations.Inc()
}

// RecordCompensationFailure increments the failed-compensation counter.
func (m *LifecycleMetrics) RecordCompensationFailure() {
	if m == nil {
		return
	}
	m.compensationFailures.Inc()
}

// RecordJobRun increments the run counter for a job.
func (m *LifecycleMetrics) RecordJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

// RecordJobDuration records how long a job run took.
func (m *LifecycleMetrics) RecordJobDuration(job string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}
