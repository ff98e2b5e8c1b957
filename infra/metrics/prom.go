package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/railoptima/railoptima/core/metrics"
)

// PromSink records schedule optimization events in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	conflicts  prometheus.Counter
	delays     *prometheus.HistogramVec
	trains     prometheus.Gauge
	checks     *prometheus.CounterVec
	probes     *prometheus.HistogramVec
	probeFails *prometheus.CounterVec
}

// NewPromSink registers schedule metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_runs_total",
			Help: "Total number of schedule optimization runs",
		}, []string{"algorithm"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_conflicts_total",
			Help: "Total number of residual conflict pairs reported by runs",
		}),
		delays: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "train_delay_minutes",
			Help:    "Delay applied to trains by the optimizer",
			Buckets: []float64{0, 1, 3, 5, 10, 15, 30, 60},
		}, []string{"priority"}),
		trains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_trains",
			Help: "Number of trains in the last optimized schedule",
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "validation_checks_total",
			Help: "Validator check outcomes",
		}, []string{"check", "status"}),
		probes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "endpoint_probe_latency_ms",
			Help:    "Latency of monitored endpoint probes",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000},
		}, []string{"url"}),
		probeFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "endpoint_probe_failures_total",
			Help: "Failed endpoint probes",
		}, []string{"url"}),
	}

	for _, c := range []prometheus.Collector{s.runs, s.conflicts, s.delays, s.trains, s.checks, s.probes, s.probeFails} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordScheduleRun counts the run and updates the schedule gauges.
func (s *PromSink) RecordScheduleRun(ev coremetrics.ScheduleRunEvent) error {
	s.runs.WithLabelValues(ev.Algorithm).Inc()
	s.conflicts.Add(float64(ev.Conflicts))
	s.trains.Set(float64(ev.Trains))
	return nil
}

// RecordTrainDelays observes each delay in the histogram labelled by rank.
func (s *PromSink) RecordTrainDelays(delays []coremetrics.TrainDelay) error {
	for _, d := range delays {
		s.delays.WithLabelValues(strconv.Itoa(d.Priority)).Observe(float64(d.DelayMin))
	}
	return nil
}

// RecordValidation counts each check outcome.
func (s *PromSink) RecordValidation(events []coremetrics.ValidationEvent) error {
	for _, ev := range events {
		s.checks.WithLabelValues(ev.Check, ev.Status).Inc()
	}
	return nil
}

// RecordProbe observes probe latency and counts failures.
func (s *PromSink) RecordProbe(ev coremetrics.ProbeEvent) error {
	if ev.Error != "" || ev.StatusCode < 200 || ev.StatusCode >= 300 {
		s.probeFails.WithLabelValues(ev.URL).Inc()
		return nil
	}
	s.probes.WithLabelValues(ev.URL).Observe(ev.LatencyMS)
	return nil
}
