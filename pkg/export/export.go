package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/railoptima/railoptima/core/audit"
	"github.com/railoptima/railoptima/core/model"
)

// WriteScheduleJSON writes the optimized schedule to w wrapped in the
// {"schedule": [...]} shape accepted by downstream tools.
func WriteScheduleJSON(w io.Writer, records []model.OptimizedRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string][]model.OptimizedRecord{"schedule": records})
}

// WriteScheduleCSV writes the optimized schedule to w.
func WriteScheduleCSV(w io.Writer, records []model.OptimizedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "scheduled_departure", "priority", "arrival", "optimized_departure", "delay_min"}); err != nil {
		return err
	}
	for _, r := range records {
		arrival := ""
		if r.Arrival != nil {
			arrival = r.Arrival.String()
		}
		rec := []string{
			r.TrainID,
			r.Scheduled.String(),
			strconv.Itoa(r.Priority),
			arrival,
			r.Optimized.String(),
			strconv.Itoa(r.DelayMinutes),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport writes the validation report as tagged text lines followed by
// the pass/fail count.
func WriteReport(w io.Writer, rep audit.Report) error {
	for _, res := range rep.Results {
		if _, err := fmt.Fprintf(w, "[%s] %s: %s\n", res.Status, res.Name, res.Detail); err != nil {
			return err
		}
		for _, p := range res.Pairs {
			if _, err := fmt.Fprintf(w, "       (%s, %s)\n", p[0], p[1]); err != nil {
				return err
			}
		}
		for _, m := range res.Mismatches {
			if _, err := fmt.Fprintf(w, "       %s: optimized %s, expected %s (%s)\n",
				m.TrainID, m.Optimized, m.Expected, m.Reason); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d passed, %d failed\n", rep.Passed, rep.Failed)
	return err
}

// WriteReportJSON writes the validation report as JSON.
func WriteReportJSON(w io.Writer, rep audit.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteAuditCSV writes the per-train audit rows to w.
func WriteAuditCSV(w io.Writer, entries []audit.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "scheduled_departure", "priority", "optimized_departure", "delay_min", "priority_rule", "headway_rule", "notes"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.TrainID,
			e.Scheduled.String(),
			strconv.Itoa(e.Priority),
			e.Optimized.String(),
			strconv.Itoa(e.DelayMinutes),
			string(e.PriorityRule),
			string(e.HeadwayRule),
			e.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBaselineCSV writes a baseline series to w.
func WriteBaselineCSV(w io.Writer, records []model.BaselineRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "expected_departure"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.TrainID, r.Expected}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrainsCSV writes raw train records to w.
func WriteTrainsCSV(w io.Writer, records []model.TrainRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "scheduled_departure", "priority", "arrival"}); err != nil {
		return err
	}
	for _, r := range records {
		arrival := ""
		if r.Arrival != nil {
			arrival = r.Arrival.String()
		}
		if err := cw.Write([]string{r.TrainID, r.Scheduled.String(), strconv.Itoa(r.Priority), arrival}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
