package optimizer

import "github.com/railoptima/railoptima/core/model"

// Summary aggregates an optimized schedule for reporting.
type Summary struct {
	TotalTrains   int         `json:"total_trains"`
	AvgDelayMin   float64     `json:"avg_delay_min"`
	MaxDelayMin   int         `json:"max_delay_min"`
	DelayedOver   int         `json:"delayed_over"`
	ConflictPairs [][2]string `json:"conflict_pairs,omitempty"`
}

// Summarize reports delay statistics and pairs of trains whose optimized
// departures still fall within window minutes of each other. DelayedOver
// counts trains delayed by window minutes or more.
func Summarize(records []model.OptimizedRecord, window int) Summary {
	s := Summary{TotalTrains: len(records)}
	if len(records) == 0 {
		return s
	}
	total := 0
	for _, r := range records {
		total += r.DelayMinutes
		if r.DelayMinutes > s.MaxDelayMin {
			s.MaxDelayMin = r.DelayMinutes
		}
		if r.DelayMinutes >= window {
			s.DelayedOver++
		}
	}
	s.AvgDelayMin = float64(total) / float64(len(records))
	for i := range records {
		for j := i + 1; j < len(records); j++ {
			gap := records[i].Optimized.Sub(records[j].Optimized)
			if gap < 0 {
				gap = -gap
			}
			if gap < window {
				s.ConflictPairs = append(s.ConflictPairs, [2]string{records[i].TrainID, records[j].TrainID})
			}
		}
	}
	return s
}
