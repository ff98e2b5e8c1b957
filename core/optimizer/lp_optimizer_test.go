package optimizer

import (
	"errors"
	"testing"

	"github.com/railoptima/railoptima/core/model"
)

func TestLPOptimizeSpacing(t *testing.T) {
	out, err := NewLPOptimizer(Config{}).Optimize([]model.TrainRecord{
		train(t, "T1", "08:00", 1),
		train(t, "T2", "08:01", 1),
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if out[0].Optimized.String() != "08:00" || out[0].DelayMinutes != 0 {
		t.Errorf("T1 = %s delay %d", out[0].Optimized, out[0].DelayMinutes)
	}
	if out[1].Optimized.String() != "08:03" || out[1].DelayMinutes != 2 {
		t.Errorf("T2 = %s delay %d, want 08:03 delay 2", out[1].Optimized, out[1].DelayMinutes)
	}
}

// The objective weights delays by inverse priority, so the rank-1 train keeps
// its slot and the cheaper train absorbs the full headway.
func TestLPOptimizePriorityWeighting(t *testing.T) {
	out, err := NewLPOptimizer(Config{}).Optimize([]model.TrainRecord{
		train(t, "T1", "08:00", 3),
		train(t, "T2", "08:00", 1),
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if out[1].Optimized.String() != "08:00" || out[1].DelayMinutes != 0 {
		t.Errorf("T2 = %s delay %d, want on time", out[1].Optimized, out[1].DelayMinutes)
	}
	if out[0].Optimized.String() != "08:03" || out[0].DelayMinutes != 3 {
		t.Errorf("T1 = %s delay %d, want 08:03 delay 3", out[0].Optimized, out[0].DelayMinutes)
	}
}

func TestLPOptimizeSingleTrain(t *testing.T) {
	out, err := NewLPOptimizer(Config{}).Optimize([]model.TrainRecord{train(t, "T1", "12:00", 2)})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if out[0].Optimized.String() != "12:00" {
		t.Errorf("lone train moved to %s", out[0].Optimized)
	}
}

func TestLPOptimizeSolverFailure(t *testing.T) {
	orig := lpSolve
	lpSolve = func([]float64, []float64) ([]float64, error) {
		return nil, errors.New("no feasible basis")
	}
	defer func() { lpSolve = orig }()

	_, err := NewLPOptimizer(Config{}).Optimize([]model.TrainRecord{
		train(t, "T1", "08:00", 1),
		train(t, "T2", "08:01", 2),
	})
	if !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestLPOptimizeRejectsInvalidInput(t *testing.T) {
	_, err := NewLPOptimizer(Config{}).Optimize([]model.TrainRecord{
		train(t, "T1", "08:00", 1),
		train(t, "T1", "08:05", 2),
	})
	var dup *model.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
}
