package model

// TrainRecord is one scheduled departure supplied by a caller. Priority is a
// small positive integer where 1 is the highest operational rank.
type TrainRecord struct {
	TrainID   string     `json:"train_id"`
	Scheduled TimeOfDay  `json:"scheduled_departure"`
	Priority  int        `json:"priority"`
	Arrival   *TimeOfDay `json:"arrival,omitempty"`
}

// Validate checks the single-record invariants.
func (r TrainRecord) Validate() error {
	if r.TrainID == "" {
		return &ValidationError{Field: "train_id", Reason: "must not be empty"}
	}
	if !r.Scheduled.Valid() {
		return &ValidationError{Field: "scheduled_departure", Value: r.Scheduled.String(), Reason: "out of range"}
	}
	if r.Priority <= 0 {
		return &ValidationError{Field: "priority", Value: r.TrainID, Reason: "must be a positive integer"}
	}
	if r.Arrival != nil {
		if !r.Arrival.Valid() {
			return &ValidationError{Field: "arrival", Value: r.Arrival.String(), Reason: "out of range"}
		}
		if *r.Arrival > r.Scheduled {
			return &ValidationError{Field: "arrival", Value: r.TrainID, Reason: "arrival after scheduled departure"}
		}
	}
	return nil
}

// OptimizedRecord is the optimizer's per-train output: the input record plus
// the adjusted departure and the resulting delay in minutes (never negative).
type OptimizedRecord struct {
	TrainRecord
	Optimized    TimeOfDay `json:"optimized_departure"`
	DelayMinutes int       `json:"delay_min"`
}

// BaselineRecord is an independently produced reference departure, keyed by
// train_id, used to sanity-check optimizer output. Expected is kept as the
// raw "HH:MM" string: a malformed baseline entry must degrade to a report
// entry, not abort validation.
type BaselineRecord struct {
	TrainID  string `json:"train_id"`
	Expected string `json:"expected_departure"`
}

// CheckSchedule validates every record and rejects repeated train IDs.
func CheckSchedule(records []TrainRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := seen[r.TrainID]; ok {
			return &DuplicateIDError{TrainID: r.TrainID}
		}
		seen[r.TrainID] = struct{}{}
	}
	return nil
}
