package store

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one optimize run in the persistent run history.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	Time        time.Time `json:"time"`
	Algorithm   string    `json:"algorithm"`
	Trains      int       `json:"trains"`
	Conflicts   int       `json:"conflicts"`
	AvgDelayMin float64   `json:"avg_delay_min"`
	MaxDelayMin int       `json:"max_delay_min"`
	DurationMS  int64     `json:"duration_ms"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
}

// RunQuery filters the run history.
type RunQuery struct {
	Since     time.Time
	Until     time.Time
	Algorithm string
	Limit     int
}

func (q RunQuery) matches(r RunRecord) bool {
	if !q.Since.IsZero() && r.Time.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && r.Time.After(q.Until) {
		return false
	}
	if q.Algorithm != "" && r.Algorithm != q.Algorithm {
		return false
	}
	return true
}

// RunStore persists the run history.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// NewRunStore builds a store for the configured backend: "jsonl" or "sqlite".
func NewRunStore(backend, path string) (RunStore, error) {
	switch backend {
	case "jsonl":
		return NewJSONLStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %s", backend)
	}
}
