package audit

import (
	"testing"

	"github.com/railoptima/railoptima/core/model"
)

func TestAnnotate(t *testing.T) {
	entries := Annotate([]model.OptimizedRecord{
		record(t, "T3", "08:07", "08:07", 3, 0),
		record(t, "T1", "08:00", "08:00", 2, 0),
		record(t, "T2", "08:01", "08:05", 1, 4),
	}, 5)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Entries come back ordered by optimized departure.
	for i, id := range []string{"T1", "T2", "T3"} {
		if entries[i].TrainID != id {
			t.Fatalf("entry %d = %s, want %s", i, entries[i].TrainID, id)
		}
	}

	if entries[0].PriorityRule != RulePass || entries[0].HeadwayRule != RulePass {
		t.Errorf("T1 rules = %s/%s", entries[0].PriorityRule, entries[0].HeadwayRule)
	}

	// A delayed express train fails the priority rule.
	if entries[1].PriorityRule != RuleFail {
		t.Errorf("T2 priority rule = %s, want fail", entries[1].PriorityRule)
	}
	if entries[1].Notes == "" {
		t.Error("T2 should carry a note")
	}
	// Exactly five minutes behind its predecessor is still acceptable.
	if entries[1].HeadwayRule != RulePass {
		t.Errorf("T2 headway rule = %s, want pass", entries[1].HeadwayRule)
	}

	// Two minutes behind T2, below the audit gap.
	if entries[2].HeadwayRule != RuleNeedsCheck {
		t.Errorf("T3 headway rule = %s, want needs check", entries[2].HeadwayRule)
	}
}

func TestAnnotateEmpty(t *testing.T) {
	if entries := Annotate(nil, 5); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
