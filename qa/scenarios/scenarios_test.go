package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestTrainDefToModel(t *testing.T) {
	d := TrainDef{ID: "T1", Scheduled: "08:15", Priority: 2, Arrival: "08:05"}
	rec, err := d.ToModel()
	if err != nil {
		t.Fatalf("to model: %v", err)
	}
	if rec.Scheduled.String() != "08:15" {
		t.Errorf("scheduled = %s", rec.Scheduled)
	}
	if rec.Arrival == nil || rec.Arrival.String() != "08:05" {
		t.Errorf("arrival = %v", rec.Arrival)
	}

	if _, err := (TrainDef{ID: "T2", Scheduled: "25:99", Priority: 1}).ToModel(); err == nil {
		t.Fatal("expected parse error for 25:99")
	}
}
