package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/railoptima/railoptima/api"
	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/core/audit"
	"github.com/railoptima/railoptima/core/logger"
	coremetrics "github.com/railoptima/railoptima/core/metrics"
	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/core/optimizer"
	infralogger "github.com/railoptima/railoptima/infra/logger"
	"github.com/railoptima/railoptima/infra/metrics"
	"github.com/railoptima/railoptima/infra/store"
	"github.com/railoptima/railoptima/internal/eventbus"
	"github.com/railoptima/railoptima/pkg/export"
)

// RunEvent is published on the bus after each pipeline run.
type RunEvent struct {
	Record store.RunRecord
	Delays []coremetrics.TrainDelay
	Checks []coremetrics.ValidationEvent
}

// Service orchestrates the schedule pipeline: load, optimize, validate,
// export, serve.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sink      coremetrics.MetricsSink
	opt       optimizer.Optimizer
	validator *audit.Validator
	history   store.RunStore
	bus       *eventbus.Bus[RunEvent]
	done      chan struct{}
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	history, err := store.NewRunStore(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("run store: %w", err)
	}

	var opt optimizer.Optimizer
	switch cfg.Optimizer.Algorithm {
	case "lp":
		opt = optimizer.NewLPOptimizer(cfg.Optimizer)
	default:
		opt = optimizer.NewGreedyOptimizer(cfg.Optimizer, infralogger.New("optimizer"))
	}

	svc := &Service{
		cfg:       cfg,
		log:       logg,
		sink:      sink,
		opt:       opt,
		validator: audit.NewValidator(cfg.Audit, cfg.Optimizer),
		history:   history,
		bus:       eventbus.New[RunEvent](),
		done:      make(chan struct{}),
	}
	// Subscribe before returning so the first published run cannot be missed.
	go svc.record(svc.bus.Subscribe())
	return svc, nil
}

// record drains the bus into the metrics sink and the run history.
func (s *Service) record(sub <-chan RunEvent) {
	defer close(s.done)
	for ev := range sub {
		if err := s.sink.RecordScheduleRun(runEventToMetrics(ev.Record)); err != nil {
			s.log.Warnf("record run: %v", err)
		}
		if rec, ok := s.sink.(coremetrics.DelayRecorder); ok {
			if err := rec.RecordTrainDelays(ev.Delays); err != nil {
				s.log.Warnf("record delays: %v", err)
			}
		}
		if rec, ok := s.sink.(coremetrics.ValidationRecorder); ok {
			if err := rec.RecordValidation(ev.Checks); err != nil {
				s.log.Warnf("record validation: %v", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.history.Append(ctx, ev.Record); err != nil {
			s.log.Warnf("append run history: %v", err)
		}
		cancel()
	}
}

func runEventToMetrics(r store.RunRecord) coremetrics.ScheduleRunEvent {
	return coremetrics.ScheduleRunEvent{
		RunID:       r.RunID,
		Algorithm:   r.Algorithm,
		Trains:      r.Trains,
		Conflicts:   r.Conflicts,
		AvgDelayMin: r.AvgDelayMin,
		MaxDelayMin: r.MaxDelayMin,
		Duration:    time.Duration(r.DurationMS) * time.Millisecond,
		Time:        r.Time,
	}
}

// RunPipeline optimizes records, validates the result against baseline (nil
// skips the agreement check) and publishes the run on the bus.
func (s *Service) RunPipeline(records []model.TrainRecord, baseline []model.BaselineRecord) ([]model.OptimizedRecord, audit.Report, error) {
	start := time.Now()
	optimized, err := s.opt.Optimize(records)
	if err != nil {
		return nil, audit.Report{}, err
	}
	report, err := s.validator.Validate(optimized, baseline)
	if err != nil {
		return nil, audit.Report{}, err
	}

	summary := optimizer.Summarize(optimized, s.cfg.Audit.AuditGapMin)
	ev := RunEvent{
		Record: store.RunRecord{
			RunID:       uuid.NewString(),
			Time:        start,
			Algorithm:   s.cfg.Optimizer.Algorithm,
			Trains:      summary.TotalTrains,
			Conflicts:   len(summary.ConflictPairs),
			AvgDelayMin: summary.AvgDelayMin,
			MaxDelayMin: summary.MaxDelayMin,
			DurationMS:  time.Since(start).Milliseconds(),
			Passed:      report.Passed,
			Failed:      report.Failed,
		},
	}
	for _, r := range optimized {
		ev.Delays = append(ev.Delays, coremetrics.TrainDelay{TrainID: r.TrainID, Priority: r.Priority, DelayMin: r.DelayMinutes})
	}
	now := time.Now()
	for _, res := range report.Results {
		ev.Checks = append(ev.Checks, coremetrics.ValidationEvent{Check: res.Name, Status: string(res.Status), Time: now})
	}
	s.bus.Publish(ev)

	s.log.Infof("pipeline run: %d trains, %d residual conflicts, %d/%d checks passed in %s",
		summary.TotalTrains, len(summary.ConflictPairs), report.Passed, report.Passed+report.Failed, time.Since(start))
	return optimized, report, nil
}

// Export writes the optimized schedule and the validation report to the
// configured paths.
func (s *Service) Export(optimized []model.OptimizedRecord, report audit.Report) error {
	if err := writeFile(s.cfg.Schedule.OutputCSV, func(f *os.File) error {
		return export.WriteScheduleCSV(f, optimized)
	}); err != nil {
		return err
	}
	if err := writeFile(s.cfg.Schedule.OutputJSON, func(f *os.File) error {
		return export.WriteScheduleJSON(f, optimized)
	}); err != nil {
		return err
	}
	if err := writeFile(s.cfg.Schedule.ReportPath, func(f *os.File) error {
		return export.WriteReport(f, report)
	}); err != nil {
		return err
	}
	return writeFile(s.cfg.Schedule.AuditPath, func(f *os.File) error {
		return export.WriteAuditCSV(f, audit.Annotate(optimized, s.cfg.Audit.AuditGapMin))
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Run executes the pipeline once over the configured input and serves the
// results over the API until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	records, err := store.LoadSchedule(s.cfg.Schedule.InputPath)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	var baseline []model.BaselineRecord
	if s.cfg.Schedule.BaselinePath != "" {
		if baseline, err = store.LoadBaseline(s.cfg.Schedule.BaselinePath); err != nil {
			s.log.Warnf("baseline unavailable, skipping agreement check: %v", err)
			baseline = nil
		}
	}

	optimized, report, err := s.RunPipeline(records, baseline)
	if err != nil {
		return err
	}
	if err := s.Export(optimized, report); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	srv := api.NewServer(records, func(recs []model.TrainRecord) ([]model.OptimizedRecord, audit.Report, error) {
		return s.RunPipeline(recs, baseline)
	}, s.log)
	srv.SetResult(optimized, report)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return srv.Serve(ctx, s.cfg.API.Addr)
}

// Close flushes the recorder and releases the run store.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.done
	return s.history.Close()
}
