package audit

import (
	"fmt"
	"sort"

	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/core/optimizer"
)

// Status tags a single check outcome.
type Status string

const (
	StatusOK   Status = "OK"
	StatusFail Status = "FAIL"
	StatusInfo Status = "INFO"
)

// Check names as they appear in reports.
const (
	CheckHeadway       = "headway"
	CheckDelay         = "non_negative_delay"
	CheckPriorityOrder = "priority_order"
	CheckArrival       = "arrival_before_departure"
	CheckBaseline      = "baseline_agreement"
)

// Mismatch records one train whose optimized departure diverges from the
// baseline beyond tolerance, or whose baseline entry could not be used.
type Mismatch struct {
	TrainID   string `json:"train_id"`
	Optimized string `json:"optimized_departure"`
	Expected  string `json:"expected_departure"`
	DiffMin   int    `json:"diff_min"`
	Reason    string `json:"reason"`
}

// CheckResult is one entry of a validation report.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     Status      `json:"status"`
	Detail     string      `json:"detail"`
	Pairs      [][2]string `json:"pairs,omitempty"`
	Mismatches []Mismatch  `json:"mismatches,omitempty"`
}

// Report is the full outcome of one validation run.
type Report struct {
	Results []CheckResult `json:"results"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
}

// OK reports whether no check failed.
func (r Report) OK() bool { return r.Failed == 0 }

func (r *Report) add(res CheckResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case StatusOK:
		r.Passed++
	case StatusFail:
		r.Failed++
	}
}

// Validator runs read-only invariant checks over optimizer output.
type Validator struct {
	cfg     Config
	buffers optimizer.Config
}

// NewValidator returns a validator using the given thresholds and the buffer
// rule shared with the optimizer. Defaults are applied to both.
func NewValidator(cfg Config, buffers optimizer.Config) *Validator {
	cfg.SetDefaults()
	buffers.SetDefaults()
	return &Validator{cfg: cfg, buffers: buffers}
}

// Validate checks the optimized schedule and, when baseline is non-nil, its
// agreement with the reference series. It fails only on structurally invalid
// optimized input; individual check violations land in the report.
func (v *Validator) Validate(optimized []model.OptimizedRecord, baseline []model.BaselineRecord) (Report, error) {
	if err := checkStructure(optimized); err != nil {
		return Report{}, err
	}

	byOptimized := make([]model.OptimizedRecord, len(optimized))
	copy(byOptimized, optimized)
	sort.Slice(byOptimized, func(i, j int) bool {
		a, b := byOptimized[i], byOptimized[j]
		if a.Optimized != b.Optimized {
			return a.Optimized < b.Optimized
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.TrainID < b.TrainID
	})

	var rep Report
	rep.add(v.checkHeadway(byOptimized))
	rep.add(checkDelays(optimized))
	rep.add(checkPriorityOrder(optimized))
	rep.add(checkArrivals(optimized))
	if baseline != nil {
		rep.add(v.checkBaseline(optimized, baseline))
	}
	return rep, nil
}

func checkStructure(optimized []model.OptimizedRecord) error {
	for _, r := range optimized {
		if r.TrainID == "" {
			return &model.ValidationError{Field: "train_id", Reason: "must not be empty"}
		}
		if !r.Scheduled.Valid() {
			return &model.ValidationError{Field: "scheduled_departure", Value: r.TrainID, Reason: "out of range"}
		}
		if !r.Optimized.Valid() {
			return &model.ValidationError{Field: "optimized_departure", Value: r.TrainID, Reason: "out of range"}
		}
		if r.Priority <= 0 {
			return &model.ValidationError{Field: "priority", Value: r.TrainID, Reason: "must be a positive integer"}
		}
	}
	return nil
}

// checkHeadway verifies the dynamic buffer between every adjacent pair in
// optimized-time order.
func (v *Validator) checkHeadway(byOptimized []model.OptimizedRecord) CheckResult {
	var pairs [][2]string
	for i := 1; i < len(byOptimized); i++ {
		prev, curr := byOptimized[i-1], byOptimized[i]
		buf := v.buffers.DynamicBuffer(prev.TrainRecord, curr.TrainRecord)
		if curr.Optimized.Sub(prev.Optimized) < buf {
			pairs = append(pairs, [2]string{prev.TrainID, curr.TrainID})
		}
	}
	if len(pairs) > 0 {
		return CheckResult{
			Name:   CheckHeadway,
			Status: StatusFail,
			Detail: fmt.Sprintf("%d adjacent pairs closer than the dynamic buffer", len(pairs)),
			Pairs:  pairs,
		}
	}
	return CheckResult{Name: CheckHeadway, Status: StatusOK, Detail: "all departures honor the minimum headway"}
}

func checkDelays(optimized []model.OptimizedRecord) CheckResult {
	var negative []string
	for _, r := range optimized {
		if r.DelayMinutes < 0 {
			negative = append(negative, r.TrainID)
		}
	}
	if len(negative) > 0 {
		return CheckResult{
			Name:   CheckDelay,
			Status: StatusFail,
			Detail: fmt.Sprintf("negative delays on %v", negative),
		}
	}
	return CheckResult{Name: CheckDelay, Status: StatusOK, Detail: "no negative delays"}
}

// checkPriorityOrder flags a higher-ranked train overtaking an earlier,
// lower-ranked one in the optimized ordering. The buffer rule alone cannot
// produce that inversion: conflict repairs only push the later train forward
// or pull an earlier train further back.
func checkPriorityOrder(optimized []model.OptimizedRecord) CheckResult {
	byScheduled := make([]model.OptimizedRecord, len(optimized))
	copy(byScheduled, optimized)
	sort.Slice(byScheduled, func(i, j int) bool {
		a, b := byScheduled[i], byScheduled[j]
		if a.Scheduled != b.Scheduled {
			return a.Scheduled < b.Scheduled
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.TrainID < b.TrainID
	})
	var pairs [][2]string
	for i := 1; i < len(byScheduled); i++ {
		prev, curr := byScheduled[i-1], byScheduled[i]
		if curr.Optimized < prev.Optimized && curr.Priority < prev.Priority {
			pairs = append(pairs, [2]string{prev.TrainID, curr.TrainID})
		}
	}
	if len(pairs) > 0 {
		return CheckResult{
			Name:   CheckPriorityOrder,
			Status: StatusFail,
			Detail: fmt.Sprintf("%d priority inversions", len(pairs)),
			Pairs:  pairs,
		}
	}
	return CheckResult{Name: CheckPriorityOrder, Status: StatusOK, Detail: "train priorities respected"}
}

func checkArrivals(optimized []model.OptimizedRecord) CheckResult {
	hasArrival := false
	var early []string
	for _, r := range optimized {
		if r.Arrival == nil {
			continue
		}
		hasArrival = true
		if r.Optimized < *r.Arrival {
			early = append(early, r.TrainID)
		}
	}
	if !hasArrival {
		return CheckResult{Name: CheckArrival, Status: StatusInfo, Detail: "no arrival data, check skipped"}
	}
	if len(early) > 0 {
		return CheckResult{
			Name:   CheckArrival,
			Status: StatusFail,
			Detail: fmt.Sprintf("departures before arrival on %v", early),
		}
	}
	return CheckResult{Name: CheckArrival, Status: StatusOK, Detail: "all departures happen after arrivals"}
}

// checkBaseline compares each train present in both series against the
// reference departure. Unusable baseline entries are recorded and skipped.
func (v *Validator) checkBaseline(optimized []model.OptimizedRecord, baseline []model.BaselineRecord) CheckResult {
	expected := make(map[string]string, len(baseline))
	for _, b := range baseline {
		expected[b.TrainID] = b.Expected
	}

	var mismatches []Mismatch
	compared := 0
	unusable := 0
	for _, r := range optimized {
		raw, ok := expected[r.TrainID]
		if !ok {
			continue
		}
		exp, err := model.ParseTimeOfDay(raw)
		if err != nil {
			unusable++
			mismatches = append(mismatches, Mismatch{
				TrainID:   r.TrainID,
				Optimized: r.Optimized.String(),
				Expected:  raw,
				Reason:    "unparseable baseline time",
			})
			continue
		}
		compared++
		diff := r.Optimized.Sub(exp)
		if diff < 0 {
			diff = -diff
		}
		if diff <= v.cfg.ToleranceMin {
			continue
		}
		reason := "manual override"
		if r.DelayMinutes > 0 {
			reason = "conflict adjustment"
		}
		mismatches = append(mismatches, Mismatch{
			TrainID:   r.TrainID,
			Optimized: r.Optimized.String(),
			Expected:  exp.String(),
			DiffMin:   diff,
			Reason:    reason,
		})
	}

	if compared == 0 && len(mismatches) == 0 {
		return CheckResult{Name: CheckBaseline, Status: StatusInfo, Detail: "no trains shared with baseline"}
	}
	if len(mismatches) > 0 {
		return CheckResult{
			Name:       CheckBaseline,
			Status:     StatusFail,
			Detail:     fmt.Sprintf("%d of %d trains diverge from baseline beyond %d min", len(mismatches), compared+unusable, v.cfg.ToleranceMin),
			Mismatches: mismatches,
		}
	}
	return CheckResult{Name: CheckBaseline, Status: StatusOK, Detail: fmt.Sprintf("%d trains within %d min of baseline", compared, v.cfg.ToleranceMin)}
}
