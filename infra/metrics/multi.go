package metrics

import coremetrics "github.com/railoptima/railoptima/core/metrics"

// MultiSink fans schedule events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScheduleRun forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordScheduleRun(ev coremetrics.ScheduleRunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordScheduleRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrainDelays forwards per-train delays to sinks that record them.
func (m *MultiSink) RecordTrainDelays(delays []coremetrics.TrainDelay) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.DelayRecorder); ok {
			if err := rec.RecordTrainDelays(delays); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordValidation forwards check outcomes to sinks that record them.
func (m *MultiSink) RecordValidation(events []coremetrics.ValidationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ValidationRecorder); ok {
			if err := rec.RecordValidation(events); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordProbe forwards probe events to sinks that record them.
func (m *MultiSink) RecordProbe(ev coremetrics.ProbeEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ProbeRecorder); ok {
			if err := rec.RecordProbe(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
