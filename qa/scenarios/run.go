package scenarios

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/railoptima/railoptima/core/audit"
	coremetrics "github.com/railoptima/railoptima/core/metrics"
	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/core/optimizer"
	"github.com/railoptima/railoptima/infra/metrics"
)

// RunScenario optimizes the scenario's trains, compares the output against
// the expectations and validates the result, recording metrics into a
// private Prometheus registry so scenarios can run in parallel.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	sc.Config.SetDefaults()
	records := make([]model.TrainRecord, len(sc.Trains))
	for i, d := range sc.Trains {
		if records[i], err = d.ToModel(); err != nil {
			t.Fatalf("train %s: %v", d.ID, err)
		}
	}

	opt := optimizer.NewGreedyOptimizer(sc.Config, nil)
	out, err := opt.Optimize(records)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(out) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(out))
	}

	byID := make(map[string]model.OptimizedRecord, len(out))
	var delays []coremetrics.TrainDelay
	for _, r := range out {
		byID[r.TrainID] = r
		delays = append(delays, coremetrics.TrainDelay{TrainID: r.TrainID, Priority: r.Priority, DelayMin: r.DelayMinutes})
	}
	if err := sink.RecordTrainDelays(delays); err != nil {
		t.Fatalf("record delays: %v", err)
	}

	for _, exp := range sc.Expected {
		got, ok := byID[exp.ID]
		if !ok {
			t.Fatalf("train %s missing from output", exp.ID)
		}
		if got.Optimized.String() != exp.Optimized {
			t.Errorf("train %s: optimized %s, want %s", exp.ID, got.Optimized, exp.Optimized)
		}
		if got.DelayMinutes != exp.DelayMin {
			t.Errorf("train %s: delay %d, want %d", exp.ID, got.DelayMinutes, exp.DelayMin)
		}
	}

	var auditCfg audit.Config
	auditCfg.SetDefaults()
	report, err := audit.NewValidator(auditCfg, sc.Config).Validate(out, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	events := make([]coremetrics.ValidationEvent, 0, len(report.Results))
	now := time.Now()
	for _, res := range report.Results {
		events = append(events, coremetrics.ValidationEvent{Check: res.Name, Status: string(res.Status), Time: now})
	}
	if err := sink.RecordValidation(events); err != nil {
		t.Fatalf("record validation: %v", err)
	}
	if sc.ReportOK && !report.OK() {
		t.Errorf("validation failed: %+v", report.Results)
	}
}
