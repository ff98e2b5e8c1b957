package audit

import (
	"fmt"
	"sort"

	"github.com/railoptima/railoptima/core/model"
)

// RuleResult marks one audit rule outcome for a train.
type RuleResult string

const (
	RulePass       RuleResult = "pass"
	RuleFail       RuleResult = "fail"
	RuleNeedsCheck RuleResult = "needs check"
)

// Entry is one row of the operator-facing audit file: the optimized record
// annotated with per-rule outcomes, ordered by optimized departure.
type Entry struct {
	model.OptimizedRecord
	PriorityRule RuleResult
	HeadwayRule  RuleResult
	Notes        string
}

// Annotate applies the audit rules to an optimized schedule. The priority
// rule fails express trains (rank 1) that carry any delay; the headway rule
// flags departures closer than gapMin minutes to their predecessor for
// manual review.
func Annotate(records []model.OptimizedRecord, gapMin int) []Entry {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{OptimizedRecord: r, PriorityRule: RulePass, HeadwayRule: RulePass}
		if r.Priority == 1 && r.DelayMinutes > 0 {
			entries[i].PriorityRule = RuleFail
			entries[i].Notes = fmt.Sprintf("express train delayed %d min", r.DelayMinutes)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Optimized != entries[j].Optimized {
			return entries[i].Optimized < entries[j].Optimized
		}
		return entries[i].TrainID < entries[j].TrainID
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].Optimized.Sub(entries[i-1].Optimized) < gapMin {
			entries[i].HeadwayRule = RuleNeedsCheck
		}
	}
	return entries
}
