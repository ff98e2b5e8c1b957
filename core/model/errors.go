package model

import "fmt"

// ValidationError reports a malformed or missing input field. It aborts the
// whole optimize or validate call; no partial result is returned.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// DuplicateIDError reports a repeated train_id within one input batch.
type DuplicateIDError struct {
	TrainID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate train_id %q", e.TrainID)
}
