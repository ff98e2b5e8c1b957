package audit

import (
	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/core/optimizer"
)

// ExpectedSchedule independently recomputes departures from the agreed rules
// and returns them as a baseline series. Running the recomputation against
// the optimizer output is the cheapest way to catch drift between the two.
func ExpectedSchedule(records []model.TrainRecord, cfg optimizer.Config) ([]model.BaselineRecord, error) {
	out, err := optimizer.NewGreedyOptimizer(cfg, nil).Optimize(records)
	if err != nil {
		return nil, err
	}
	baseline := make([]model.BaselineRecord, len(out))
	for i, r := range out {
		baseline[i] = model.BaselineRecord{TrainID: r.TrainID, Expected: r.Optimized.String()}
	}
	return baseline, nil
}
