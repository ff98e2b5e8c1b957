package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
schedule:
  input_path: data/trains.csv
optimizer:
  base_buffer_min: 4
  algorithm: lp
history:
  backend: sqlite
  path: runs.db
monitoring:
  endpoints:
    - http://localhost:8000/health
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Schedule.InputPath != "data/trains.csv" {
		t.Errorf("input path = %s", cfg.Schedule.InputPath)
	}
	if cfg.Optimizer.BaseBufferMin != 4 || cfg.Optimizer.Algorithm != "lp" {
		t.Errorf("optimizer = %+v", cfg.Optimizer)
	}
	// Untouched fields fall back to defaults.
	if cfg.Optimizer.MaxDelayMin != 30 {
		t.Errorf("max delay = %d, want default 30", cfg.Optimizer.MaxDelayMin)
	}
	if cfg.History.Backend != "sqlite" || cfg.History.Path != "runs.db" {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.API.Addr != ":8000" {
		t.Errorf("api addr = %s", cfg.API.Addr)
	}
	if len(cfg.Monitoring.Endpoints) != 1 {
		t.Errorf("endpoints = %v", cfg.Monitoring.Endpoints)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"audit":{"tolerance_min":2}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Audit.ToleranceMin != 2 {
		t.Errorf("tolerance = %d", cfg.Audit.ToleranceMin)
	}
	if cfg.Audit.AuditGapMin != 5 {
		t.Errorf("audit gap = %d, want default 5", cfg.Audit.AuditGapMin)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RAIL_HISTORY__BACKEND", "sqlite")
	t.Setenv("RAIL_SCHEDULE__INPUT_PATH", "env/trains.csv")
	path := writeConfig(t, "config.yaml", "history:\n  backend: jsonl\n  path: runs.db\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.History.Backend != "sqlite" {
		t.Errorf("backend = %s, env override lost", cfg.History.Backend)
	}
	// The override merges into the section instead of shadowing it.
	if cfg.History.Path != "runs.db" {
		t.Errorf("path = %s, file value lost", cfg.History.Path)
	}
	if cfg.Schedule.InputPath != "env/trains.csv" {
		t.Errorf("input path = %s, env override lost", cfg.Schedule.InputPath)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "config.toml", "")); err == nil {
		t.Error("expected error for unsupported format")
	}
	bad := writeConfig(t, "config.yaml", "optimizer:\n  algorithm: annealing\n")
	if _, err := Load(bad); err == nil {
		t.Error("expected validation error for unknown algorithm")
	}
	badHistory := writeConfig(t, "config.yaml", "history:\n  backend: redis\n")
	if _, err := Load(badHistory); err == nil {
		t.Error("expected validation error for unknown backend")
	}
}
