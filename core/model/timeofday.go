package model

import (
	"encoding/json"
	"fmt"
)

// TimeOfDay is a wall-clock instant with minute resolution, stored as minutes
// since midnight. All schedules belong to a single operational day; values
// outside [00:00, 23:59] are invalid.
type TimeOfDay int

// MinutesPerDay bounds the valid TimeOfDay range.
const MinutesPerDay = 24 * 60

// ParseTimeOfDay parses a zero-padded 24-hour "HH:MM" string. Malformed input
// is rejected, never coerced.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, &ValidationError{Field: "time", Value: s, Reason: "expected HH:MM"}
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, &ValidationError{Field: "time", Value: s, Reason: "expected HH:MM"}
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 {
		return 0, &ValidationError{Field: "time", Value: s, Reason: "hour out of range"}
	}
	if m > 59 {
		return 0, &ValidationError{Field: "time", Value: s, Reason: "minute out of range"}
	}
	return TimeOfDay(h*60 + m), nil
}

// Valid reports whether t lies within the operational day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < MinutesPerDay }

// String formats t as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add returns t shifted by the given number of minutes. The result may fall
// outside the operational day; callers must check Valid.
func (t TimeOfDay) Add(minutes int) TimeOfDay { return t + TimeOfDay(minutes) }

// Sub returns the difference t-u in minutes.
func (t TimeOfDay) Sub(u TimeOfDay) int { return int(t) - int(u) }

// MarshalJSON encodes t as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("time of day %d out of range", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}
