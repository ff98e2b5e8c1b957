package optimizer

import (
	"sort"

	"github.com/railoptima/railoptima/core/logger"
	"github.com/railoptima/railoptima/core/model"
)

// Optimizer computes adjusted departure times for a batch of trains.
type Optimizer interface {
	Optimize(records []model.TrainRecord) ([]model.OptimizedRecord, error)
}

// GreedyOptimizer resolves headway conflicts with a deterministic single
// forward pass over the time-sorted schedule. Each conflict is repaired
// locally: either the later train is pushed forward, or one earlier train is
// pulled back. Fixes never ripple beyond the immediate repair.
type GreedyOptimizer struct {
	cfg Config
	log logger.Logger
}

// NewGreedyOptimizer returns an optimizer using cfg with defaults applied.
// A nil logger disables logging.
func NewGreedyOptimizer(cfg Config, log logger.Logger) *GreedyOptimizer {
	cfg.SetDefaults()
	if log == nil {
		log = nopLogger{}
	}
	return &GreedyOptimizer{cfg: cfg, log: log}
}

type working struct {
	rec  model.TrainRecord
	opt  model.TimeOfDay
	orig int
}

// sortForWalk orders records by scheduled departure, ties broken by ascending
// priority so higher-ranked trains are considered first among simultaneous
// departures. The original index is kept for output re-projection.
func sortForWalk(records []model.TrainRecord) []working {
	work := make([]working, len(records))
	for i, r := range records {
		work[i] = working{rec: r, opt: r.Scheduled, orig: i}
	}
	sort.Slice(work, func(i, j int) bool {
		a, b := work[i], work[j]
		if a.rec.Scheduled != b.rec.Scheduled {
			return a.rec.Scheduled < b.rec.Scheduled
		}
		if a.rec.Priority != b.rec.Priority {
			return a.rec.Priority < b.rec.Priority
		}
		return a.orig < b.orig
	})
	return work
}

// Optimize implements Optimizer. It fails on structurally invalid input and
// never returns a partial schedule.
func (o *GreedyOptimizer) Optimize(records []model.TrainRecord) ([]model.OptimizedRecord, error) {
	if err := model.CheckSchedule(records); err != nil {
		return nil, err
	}
	work := sortForWalk(records)

	for i := 1; i < len(work); i++ {
		prev, curr := &work[i-1], &work[i]
		buf := o.cfg.DynamicBuffer(prev.rec, curr.rec)
		if curr.opt > prev.opt.Add(buf) {
			continue
		}
		if curr.rec.Priority < prev.rec.Priority {
			// The later train outranks the earlier one: keep its schedule and
			// pull the nearest even-higher-ranked predecessor back instead.
			// One corrective shift only, no re-resolution of its own pair.
			if j := scanBack(work, i); j >= 0 {
				work[j].opt = curr.opt.Add(-buf)
				o.log.Debugw("shifted predecessor back", map[string]any{
					"train":   work[j].rec.TrainID,
					"for":     curr.rec.TrainID,
					"new":     work[j].opt.String(),
					"headway": buf,
				})
			} else {
				curr.opt = prev.opt.Add(buf)
				o.log.Debugw("no higher-ranked predecessor, delaying", map[string]any{
					"train": curr.rec.TrainID,
					"new":   curr.opt.String(),
				})
			}
			continue
		}
		// Later train is equal or lower priority, so it absorbs the delay as
		// long as the cap allows; past the cap the earlier train moves back.
		tentative := prev.opt.Add(buf)
		if delay := tentative.Sub(curr.rec.Scheduled); delay <= o.cfg.MaxDelayMin {
			curr.opt = tentative
		} else {
			prev.opt = curr.opt.Add(-buf)
			o.log.Debugw("delay cap reached, shifting predecessor", map[string]any{
				"train": prev.rec.TrainID,
				"new":   prev.opt.String(),
				"cap":   o.cfg.MaxDelayMin,
			})
		}
	}

	return project(work)
}

// scanBack finds the nearest record before i that outranks work[i], or -1.
func scanBack(work []working, i int) int {
	for j := i - 1; j >= 0; j-- {
		if work[j].rec.Priority < work[i].rec.Priority {
			return j
		}
	}
	return -1
}

// project recomputes delays, rejects times outside the operational day and
// restores the caller's original ordering.
func project(work []working) ([]model.OptimizedRecord, error) {
	out := make([]model.OptimizedRecord, len(work))
	for _, w := range work {
		if !w.opt.Valid() {
			return nil, &model.ValidationError{
				Field:  "optimized_departure",
				Value:  w.rec.TrainID,
				Reason: "adjusted time falls outside the operational day",
			}
		}
		delay := w.opt.Sub(w.rec.Scheduled)
		if delay < 0 {
			delay = 0
		}
		out[w.orig] = model.OptimizedRecord{
			TrainRecord:  w.rec,
			Optimized:    w.opt,
			DelayMinutes: delay,
		}
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
