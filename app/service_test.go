package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/infra/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Schedule.OutputCSV = filepath.Join(dir, "schedule_output.csv")
	cfg.Schedule.OutputJSON = filepath.Join(dir, "schedule_output.json")
	cfg.Schedule.ReportPath = filepath.Join(dir, "validation_report.txt")
	cfg.Schedule.AuditPath = filepath.Join(dir, "audit_report.csv")
	cfg.History.Path = filepath.Join(dir, "runs.log")
	return cfg
}

func testTrains(t *testing.T) []model.TrainRecord {
	t.Helper()
	s1, _ := model.ParseTimeOfDay("08:00")
	s2, _ := model.ParseTimeOfDay("08:01")
	return []model.TrainRecord{
		{TrainID: "T1", Scheduled: s1, Priority: 2},
		{TrainID: "T2", Scheduled: s2, Priority: 1},
	}
}

func TestRunPipelineRecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	optimized, report, err := svc.RunPipeline(testTrains(t), nil)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if len(optimized) != 2 {
		t.Fatalf("optimized = %+v", optimized)
	}
	if optimized[1].Optimized.String() != "08:05" {
		t.Errorf("T2 = %s, want 08:05", optimized[1].Optimized)
	}
	if !report.OK() {
		t.Errorf("report failed: %+v", report.Results)
	}

	// Close drains the recorder, so the run must be in the history afterwards.
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	st, err := store.NewJSONLStore(cfg.History.Path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	runs, err := st.Query(context.Background(), store.RunQuery{})
	if err != nil {
		t.Fatalf("query history: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("history runs = %d, want 1", len(runs))
	}
	if runs[0].Trains != 2 || runs[0].Algorithm != "greedy" {
		t.Errorf("run record = %+v", runs[0])
	}
}

func TestRunEventToMetricsCarriesDuration(t *testing.T) {
	ev := runEventToMetrics(store.RunRecord{RunID: "r1", Algorithm: "greedy", DurationMS: 42})
	if ev.Duration != 42*time.Millisecond {
		t.Errorf("duration = %s, want 42ms", ev.Duration)
	}
	if ev.RunID != "r1" || ev.Algorithm != "greedy" {
		t.Errorf("event = %+v", ev)
	}
}

func TestRunPipelineInvalidInput(t *testing.T) {
	svc, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	_, _, err = svc.RunPipeline([]model.TrainRecord{{TrainID: "T1", Priority: 0}}, nil)
	if err == nil {
		t.Fatal("expected error for invalid record")
	}
}

func TestExportWritesAllArtifacts(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	optimized, report, err := svc.RunPipeline(testTrains(t), nil)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if err := svc.Export(optimized, report); err != nil {
		t.Fatalf("export: %v", err)
	}

	for _, path := range []string{
		cfg.Schedule.OutputCSV,
		cfg.Schedule.OutputJSON,
		cfg.Schedule.ReportPath,
		cfg.Schedule.AuditPath,
	} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing artifact %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("artifact %s is empty", path)
		}
	}

	back, err := store.LoadOptimized(cfg.Schedule.OutputCSV)
	if err != nil {
		t.Fatalf("reload exported csv: %v", err)
	}
	if len(back) != 2 {
		t.Errorf("exported records = %d", len(back))
	}
}

func TestNewServiceLPAlgorithm(t *testing.T) {
	cfg := testConfig(t)
	cfg.Optimizer.Algorithm = "lp"
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() { _ = svc.Close() }()

	optimized, _, err := svc.RunPipeline(testTrains(t), nil)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	// The LP never moves a departure earlier than scheduled.
	for _, r := range optimized {
		if r.Optimized < r.Scheduled {
			t.Errorf("%s moved earlier: %s < %s", r.TrainID, r.Optimized, r.Scheduled)
		}
	}
}
