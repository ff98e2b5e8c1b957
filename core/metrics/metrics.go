package metrics

import "time"

// ScheduleRunEvent summarises one optimize run for observability purposes.
type ScheduleRunEvent struct {
	RunID       string
	Algorithm   string
	Trains      int
	Conflicts   int
	AvgDelayMin float64
	MaxDelayMin int
	Duration    time.Duration
	Time        time.Time
}

// MetricsSink records optimize runs.
type MetricsSink interface {
	RecordScheduleRun(ev ScheduleRunEvent) error
}

// TrainDelay is the per-train delay produced by a run.
type TrainDelay struct {
	TrainID  string
	Priority int
	DelayMin int
}

// DelayRecorder is implemented by sinks able to record per-train delays.
type DelayRecorder interface {
	RecordTrainDelays(delays []TrainDelay) error
}

// ValidationEvent is the outcome of a single validator check.
type ValidationEvent struct {
	Check  string
	Status string
	Time   time.Time
}

// ValidationRecorder records validator check outcomes.
type ValidationRecorder interface {
	RecordValidation(events []ValidationEvent) error
}

// ProbeEvent captures one endpoint health probe.
type ProbeEvent struct {
	URL        string
	StatusCode int
	LatencyMS  float64
	Error      string
	Time       time.Time
}

// ProbeRecorder records endpoint probes.
type ProbeRecorder interface {
	RecordProbe(ev ProbeEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordScheduleRun(ScheduleRunEvent) error    { return nil }
func (NopSink) RecordTrainDelays([]TrainDelay) error        { return nil }
func (NopSink) RecordValidation([]ValidationEvent) error    { return nil }
func (NopSink) RecordProbe(ProbeEvent) error                { return nil }
