// Package audit verifies optimizer output without ever mutating it. The
// Validator runs a fixed set of invariant checks (headway, non-negative
// delay, priority ordering, arrival-before-departure, baseline agreement)
// and collects the results into a Report. Annotate produces the per-train
// audit rows used in operator-facing audit files, and ExpectedSchedule
// recomputes departures independently from the same rules to serve as a
// baseline series.
package audit
