package audit

import (
	"errors"
	"testing"

	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/core/optimizer"
)

func record(t *testing.T, id, sched, opt string, prio, delay int) model.OptimizedRecord {
	t.Helper()
	s, err := model.ParseTimeOfDay(sched)
	if err != nil {
		t.Fatalf("parse %s: %v", sched, err)
	}
	o, err := model.ParseTimeOfDay(opt)
	if err != nil {
		t.Fatalf("parse %s: %v", opt, err)
	}
	return model.OptimizedRecord{
		TrainRecord:  model.TrainRecord{TrainID: id, Scheduled: s, Priority: prio},
		Optimized:    o,
		DelayMinutes: delay,
	}
}

func newValidator() *Validator {
	return NewValidator(Config{}, optimizer.Config{})
}

func resultByName(t *testing.T, rep Report, name string) CheckResult {
	t.Helper()
	for _, res := range rep.Results {
		if res.Name == name {
			return res
		}
	}
	t.Fatalf("check %s missing from report", name)
	return CheckResult{}
}

func TestValidateCleanSchedule(t *testing.T) {
	rep, err := newValidator().Validate([]model.OptimizedRecord{
		record(t, "T1", "08:00", "08:00", 2, 0),
		record(t, "T2", "08:01", "08:05", 1, 4),
	}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("clean schedule failed: %+v", rep.Results)
	}
	// Headway, delay and priority checks pass; the arrival check reports INFO.
	if rep.Passed != 3 {
		t.Errorf("passed = %d, want 3", rep.Passed)
	}
	arr := resultByName(t, rep, CheckArrival)
	if arr.Status != StatusInfo {
		t.Errorf("arrival check = %s, want INFO without arrival data", arr.Status)
	}
}

func TestValidateHeadwayViolation(t *testing.T) {
	rep, err := newValidator().Validate([]model.OptimizedRecord{
		record(t, "T1", "08:00", "08:00", 2, 0),
		record(t, "T2", "08:01", "08:02", 1, 1),
	}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	res := resultByName(t, rep, CheckHeadway)
	if res.Status != StatusFail {
		t.Fatalf("headway check = %s, want FAIL", res.Status)
	}
	if len(res.Pairs) != 1 || res.Pairs[0] != [2]string{"T1", "T2"} {
		t.Errorf("pairs = %v", res.Pairs)
	}
	if rep.OK() {
		t.Error("report should not be OK")
	}
}

func TestValidateNegativeDelay(t *testing.T) {
	rep, err := newValidator().Validate([]model.OptimizedRecord{
		record(t, "T1", "08:00", "07:55", 1, -5),
	}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res := resultByName(t, rep, CheckDelay); res.Status != StatusFail {
		t.Errorf("delay check = %s, want FAIL", res.Status)
	}
}

func TestValidatePriorityInversion(t *testing.T) {
	// T2 outranks T1, was scheduled after it, yet departs before it.
	rep, err := newValidator().Validate([]model.OptimizedRecord{
		record(t, "T1", "08:00", "08:20", 3, 20),
		record(t, "T2", "08:05", "08:05", 1, 0),
	}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	res := resultByName(t, rep, CheckPriorityOrder)
	if res.Status != StatusFail {
		t.Fatalf("priority check = %s, want FAIL", res.Status)
	}
	if len(res.Pairs) != 1 || res.Pairs[0] != [2]string{"T1", "T2"} {
		t.Errorf("pairs = %v", res.Pairs)
	}
}

func TestValidateArrivals(t *testing.T) {
	early := record(t, "T1", "08:00", "08:00", 1, 0)
	arr, _ := model.ParseTimeOfDay("08:10")
	early.Arrival = &arr
	early.Optimized, _ = model.ParseTimeOfDay("08:05")

	rep, err := newValidator().Validate([]model.OptimizedRecord{early}, nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res := resultByName(t, rep, CheckArrival); res.Status != StatusFail {
		t.Errorf("arrival check = %s, want FAIL", res.Status)
	}
}

func TestValidateBaselineTolerance(t *testing.T) {
	optimized := []model.OptimizedRecord{record(t, "T5", "08:10", "08:12", 2, 2)}
	baseline := []model.BaselineRecord{{TrainID: "T5", Expected: "08:10"}}

	rep, err := newValidator().Validate(optimized, baseline)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res := resultByName(t, rep, CheckBaseline); res.Status != StatusOK {
		t.Errorf("diff 2 within default tolerance, got %s", res.Status)
	}

	strict := NewValidator(Config{ToleranceMin: 1}, optimizer.Config{})
	rep, err = strict.Validate(optimized, baseline)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	res := resultByName(t, rep, CheckBaseline)
	if res.Status != StatusFail {
		t.Fatalf("diff 2 beyond tolerance 1, got %s", res.Status)
	}
	if len(res.Mismatches) != 1 {
		t.Fatalf("mismatches = %v", res.Mismatches)
	}
	if res.Mismatches[0].Reason != "conflict adjustment" {
		t.Errorf("reason = %s, want conflict adjustment for a delayed train", res.Mismatches[0].Reason)
	}

	// Same divergence without any recorded delay points at a manual change.
	optimized[0].DelayMinutes = 0
	rep, err = strict.Validate(optimized, baseline)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	res = resultByName(t, rep, CheckBaseline)
	if res.Mismatches[0].Reason != "manual override" {
		t.Errorf("reason = %s, want manual override", res.Mismatches[0].Reason)
	}
}

// A malformed baseline time must surface as a mismatch entry, never as an
// error from Validate.
func TestValidateBaselineUnparseable(t *testing.T) {
	rep, err := newValidator().Validate(
		[]model.OptimizedRecord{record(t, "T1", "08:00", "08:00", 1, 0)},
		[]model.BaselineRecord{{TrainID: "T1", Expected: "8h00"}},
	)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	res := resultByName(t, rep, CheckBaseline)
	if res.Status != StatusFail {
		t.Fatalf("baseline check = %s, want FAIL", res.Status)
	}
	if len(res.Mismatches) != 1 || res.Mismatches[0].Reason != "unparseable baseline time" {
		t.Errorf("mismatches = %v", res.Mismatches)
	}
}

// The detail total counts every usable-or-not baseline train once: a train
// beyond tolerance is already part of the comparison and must not be counted
// again on top of it.
func TestValidateBaselineDetailCounts(t *testing.T) {
	strict := NewValidator(Config{ToleranceMin: 1}, optimizer.Config{})
	rep, err := strict.Validate(
		[]model.OptimizedRecord{
			record(t, "T1", "08:00", "08:00", 1, 0),
			record(t, "T2", "08:10", "08:12", 2, 2),
			record(t, "T3", "09:00", "09:00", 1, 0),
		},
		[]model.BaselineRecord{
			{TrainID: "T1", Expected: "08:00"},
			{TrainID: "T2", Expected: "08:10"},
			{TrainID: "T3", Expected: "9am"},
		},
	)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	res := resultByName(t, rep, CheckBaseline)
	if res.Status != StatusFail {
		t.Fatalf("baseline check = %s, want FAIL", res.Status)
	}
	if want := "2 of 3 trains diverge from baseline beyond 1 min"; res.Detail != want {
		t.Errorf("detail = %q, want %q", res.Detail, want)
	}
}

func TestValidateBaselineDisjoint(t *testing.T) {
	rep, err := newValidator().Validate(
		[]model.OptimizedRecord{record(t, "T1", "08:00", "08:00", 1, 0)},
		[]model.BaselineRecord{{TrainID: "T9", Expected: "09:00"}},
	)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res := resultByName(t, rep, CheckBaseline); res.Status != StatusInfo {
		t.Errorf("baseline check = %s, want INFO for disjoint series", res.Status)
	}
}

func TestValidateStructuralError(t *testing.T) {
	_, err := newValidator().Validate([]model.OptimizedRecord{
		{TrainRecord: model.TrainRecord{TrainID: "", Scheduled: 480, Priority: 1}, Optimized: 480},
	}, nil)
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
