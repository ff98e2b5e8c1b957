package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/railoptima/railoptima/core/model"
)

// LoadSchedule reads train records from a CSV or JSON file, chosen by
// extension. Columns and fields are matched case-insensitively.
func LoadSchedule(path string) ([]model.TrainRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return DecodeScheduleCSV(f)
	case ".json":
		return DecodeScheduleJSON(f)
	default:
		return nil, fmt.Errorf("unsupported schedule format: %s", ext)
	}
}

// scheduleDocument accepts either a bare record list or an object with a
// "schedule" key, the two shapes produced by upstream tools.
type scheduleDocument struct {
	Schedule []json.RawMessage `json:"schedule"`
}

// DecodeScheduleJSON decodes train records from r.
func DecodeScheduleJSON(r io.Reader) ([]model.TrainRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var doc scheduleDocument
		if derr := json.Unmarshal(raw, &doc); derr != nil || doc.Schedule == nil {
			return nil, fmt.Errorf("schedule JSON must be a record list or contain a %q key", "schedule")
		}
		items = doc.Schedule
	}
	records := make([]model.TrainRecord, 0, len(items))
	for _, item := range items {
		var rec model.TrainRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeScheduleCSV decodes train records from CSV data with a header row.
func DecodeScheduleCSV(r io.Reader) ([]model.TrainRecord, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{"train_id", "scheduled_departure", "priority"} {
		if _, ok := header[required]; !ok {
			return nil, &model.ValidationError{Field: required, Reason: "missing required column"}
		}
	}
	records := make([]model.TrainRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.TrainRecord{TrainID: strings.TrimSpace(row[header["train_id"]])}
		if rec.Scheduled, err = model.ParseTimeOfDay(strings.TrimSpace(row[header["scheduled_departure"]])); err != nil {
			return nil, err
		}
		prio := strings.TrimSpace(row[header["priority"]])
		if rec.Priority, err = strconv.Atoi(prio); err != nil {
			return nil, &model.ValidationError{Field: "priority", Value: prio, Reason: "not an integer"}
		}
		if col, ok := header["arrival"]; ok {
			if v := strings.TrimSpace(row[col]); v != "" {
				arr, err := model.ParseTimeOfDay(v)
				if err != nil {
					return nil, err
				}
				rec.Arrival = &arr
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadOptimized reads optimizer output back from a CSV or JSON file, for
// standalone validation and audit runs.
func LoadOptimized(path string) ([]model.OptimizedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return DecodeOptimizedCSV(f)
	case ".json":
		var doc struct {
			Schedule []model.OptimizedRecord `json:"schedule"`
		}
		if err := json.NewDecoder(f).Decode(&doc); err != nil {
			return nil, err
		}
		if doc.Schedule == nil {
			return nil, &model.ValidationError{Field: "schedule", Reason: "missing required key"}
		}
		return doc.Schedule, nil
	default:
		return nil, fmt.Errorf("unsupported schedule format: %s", ext)
	}
}

// DecodeOptimizedCSV decodes optimizer output from CSV data with a header
// row. Both delay_min and delay_minutes column names are accepted.
func DecodeOptimizedCSV(r io.Reader) ([]model.OptimizedRecord, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{"train_id", "scheduled_departure", "priority", "optimized_departure"} {
		if _, ok := header[required]; !ok {
			return nil, &model.ValidationError{Field: required, Reason: "missing required column"}
		}
	}
	delayCol, ok := header["delay_min"]
	if !ok {
		if delayCol, ok = header["delay_minutes"]; !ok {
			return nil, &model.ValidationError{Field: "delay_min", Reason: "missing required column"}
		}
	}
	records := make([]model.OptimizedRecord, 0, len(rows))
	for _, row := range rows {
		rec := model.OptimizedRecord{}
		rec.TrainID = strings.TrimSpace(row[header["train_id"]])
		if rec.Scheduled, err = model.ParseTimeOfDay(strings.TrimSpace(row[header["scheduled_departure"]])); err != nil {
			return nil, err
		}
		prio := strings.TrimSpace(row[header["priority"]])
		if rec.Priority, err = strconv.Atoi(prio); err != nil {
			return nil, &model.ValidationError{Field: "priority", Value: prio, Reason: "not an integer"}
		}
		if rec.Optimized, err = model.ParseTimeOfDay(strings.TrimSpace(row[header["optimized_departure"]])); err != nil {
			return nil, err
		}
		delay := strings.TrimSpace(row[delayCol])
		if rec.DelayMinutes, err = strconv.Atoi(delay); err != nil {
			return nil, &model.ValidationError{Field: "delay_min", Value: delay, Reason: "not an integer"}
		}
		if col, ok := header["arrival"]; ok {
			if v := strings.TrimSpace(row[col]); v != "" {
				arr, err := model.ParseTimeOfDay(v)
				if err != nil {
					return nil, err
				}
				rec.Arrival = &arr
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadBaseline reads baseline records from a CSV or JSON file. Expected
// departure strings are kept raw; the validator decides how to treat
// malformed entries.
func LoadBaseline(path string) ([]model.BaselineRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		var records []model.BaselineRecord
		if err := json.NewDecoder(f).Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}
	return DecodeBaselineCSV(f)
}

// DecodeBaselineCSV decodes baseline records from CSV data with a header row.
func DecodeBaselineCSV(r io.Reader) ([]model.BaselineRecord, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idCol, ok := header["train_id"]
	if !ok {
		return nil, &model.ValidationError{Field: "train_id", Reason: "missing required column"}
	}
	expCol, ok := header["expected_departure"]
	if !ok {
		return nil, &model.ValidationError{Field: "expected_departure", Reason: "missing required column"}
	}
	records := make([]model.BaselineRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.BaselineRecord{
			TrainID:  strings.TrimSpace(row[idCol]),
			Expected: strings.TrimSpace(row[expCol]),
		})
	}
	return records, nil
}

// readCSV returns data rows plus a lowercased header index.
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty CSV input")
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return rows[1:], header, nil
}
