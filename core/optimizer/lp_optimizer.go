package optimizer

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/railoptima/railoptima/core/model"
)

// LPOptimizer computes a minimum-weighted-delay schedule with a simplex
// solve. Departures keep the scheduled order (ties by priority) and satisfy
// the same dynamic headway as the greedy walk; the objective weights each
// train's delay by the inverse of its priority rank, so rank-1 trains are the
// most expensive to delay. Unlike the greedy walk it never moves a departure
// earlier than scheduled, and the delay cap does not apply.
type LPOptimizer struct {
	cfg Config
}

// NewLPOptimizer returns an LP-based optimizer using cfg with defaults applied.
func NewLPOptimizer(cfg Config) *LPOptimizer {
	cfg.SetDefaults()
	return &LPOptimizer{cfg: cfg}
}

// ErrInfeasible indicates the solver found no schedule satisfying the
// headway constraints.
var ErrInfeasible = errors.New("lp infeasible")

// solveDelays minimises sum(weights[i]*d[i]) subject to
// d[i]-d[i-1] >= need[i-1] and d >= 0, in simplex standard form with one
// surplus variable per adjacent pair.
func solveDelays(weights []float64, need []float64) ([]float64, error) {
	n := len(weights)
	cols := n + len(need)
	c := make([]float64, cols)
	copy(c, weights)

	a := mat.NewDense(len(need), cols, nil)
	b := make([]float64, len(need))
	for k, nk := range need {
		a.Set(k, k+1, 1)
		a.Set(k, k, -1)
		a.Set(k, n+k, -1)
		b[k] = nk
	}

	_, sol, err := lp.Simplex(c, a, b, 1e-7, nil)
	if err != nil {
		return nil, err
	}
	return sol[:n], nil
}

// lpSolve points to the function used to solve the LP. It can be overridden
// in tests to simulate solver failures.
var lpSolve = solveDelays

// Optimize implements Optimizer.
func (o *LPOptimizer) Optimize(records []model.TrainRecord) ([]model.OptimizedRecord, error) {
	if err := model.CheckSchedule(records); err != nil {
		return nil, err
	}
	work := sortForWalk(records)
	if len(work) > 1 {
		weights := make([]float64, len(work))
		need := make([]float64, len(work)-1)
		for i, w := range work {
			weights[i] = 1 / float64(w.rec.Priority)
			if i == 0 {
				continue
			}
			buf := o.cfg.DynamicBuffer(work[i-1].rec, w.rec)
			need[i-1] = float64(buf - w.rec.Scheduled.Sub(work[i-1].rec.Scheduled))
		}
		delays, err := lpSolve(weights, need)
		if err != nil {
			return nil, errors.Join(ErrInfeasible, err)
		}
		for i := range work {
			work[i].opt = work[i].rec.Scheduled.Add(int(math.Round(delays[i])))
		}
		// The vertex solution is integral; rounding only strips float noise.
		// A forward sweep restores any headway lost to that rounding.
		for i := 1; i < len(work); i++ {
			buf := o.cfg.DynamicBuffer(work[i-1].rec, work[i].rec)
			if min := work[i-1].opt.Add(buf); work[i].opt < min {
				work[i].opt = min
			}
		}
	}
	return project(work)
}
