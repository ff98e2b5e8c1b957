// Package optimizer resolves departure conflicts in a single-day train
// schedule. The default GreedyOptimizer walks the time-sorted schedule once,
// pushing departures forward to keep a priority-weighted headway between
// consecutive trains, with one corrective lookback per conflict. LPOptimizer
// is an alternative that minimises priority-weighted total delay with a
// simplex solve over the same headway constraints.
package optimizer
