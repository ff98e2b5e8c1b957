package generator

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/railoptima/railoptima/core/model"
)

// Config controls sample schedule generation.
type Config struct {
	// Trains is the number of records to produce.
	Trains int `json:"trains" yaml:"trains"`
	// StartHour and EndHour bound the scheduled departures.
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
	// MaxPriority is the lowest rank assigned; priorities run 1..MaxPriority.
	MaxPriority int `json:"max_priority" yaml:"max_priority"`
	// ConflictRate is the fraction of trains placed within a few minutes of
	// the previous one to provoke headway conflicts.
	ConflictRate float64 `json:"conflict_rate" yaml:"conflict_rate"`
	// ArrivalRate is the fraction of trains that get an arrival time.
	ArrivalRate float64 `json:"arrival_rate" yaml:"arrival_rate"`
	// Seed makes departure times and priorities reproducible; train IDs stay
	// random. Zero means a fixed default seed.
	Seed int64 `json:"seed" yaml:"seed"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Trains == 0 {
		c.Trains = 20
	}
	if c.StartHour == 0 && c.EndHour == 0 {
		c.StartHour, c.EndHour = 6, 22
	}
	if c.MaxPriority == 0 {
		c.MaxPriority = 5
	}
	if c.ConflictRate == 0 {
		c.ConflictRate = 0.3
	}
	if c.ArrivalRate == 0 {
		c.ArrivalRate = 0.5
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Trains < 0 {
		return fmt.Errorf("trains must not be negative")
	}
	if c.StartHour < 0 || c.EndHour > 23 || c.StartHour >= c.EndHour {
		return fmt.Errorf("hour window [%d,%d] invalid", c.StartHour, c.EndHour)
	}
	if c.MaxPriority < 1 {
		return fmt.Errorf("max_priority must be at least 1")
	}
	return nil
}

// Generator produces reproducible sample schedules for demos and tests.
type Generator struct {
	cfg Config
	rnd *rand.Rand
}

// New builds a generator with defaults applied.
func New(cfg Config) *Generator {
	cfg.SetDefaults()
	return &Generator{cfg: cfg, rnd: rand.New(rand.NewSource(cfg.Seed))}
}

// Schedule generates Trains records. Departures fall inside the configured
// window; a ConflictRate share of them is placed right on top of the previous
// departure so the optimizer has work to do.
func (g *Generator) Schedule() ([]model.TrainRecord, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	startMin := g.cfg.StartHour * 60
	endMin := g.cfg.EndHour * 60

	records := make([]model.TrainRecord, 0, g.cfg.Trains)
	var prev model.TimeOfDay
	for i := 0; i < g.cfg.Trains; i++ {
		var dep model.TimeOfDay
		if i > 0 && g.rnd.Float64() < g.cfg.ConflictRate {
			dep = prev.Add(g.rnd.Intn(3))
		} else {
			dep = model.TimeOfDay(startMin + g.rnd.Intn(endMin-startMin))
		}
		prev = dep

		rec := model.TrainRecord{
			TrainID:   g.trainID(),
			Scheduled: dep,
			Priority:  1 + g.rnd.Intn(g.cfg.MaxPriority),
		}
		if g.rnd.Float64() < g.cfg.ArrivalRate {
			arr := dep.Add(-(5 + g.rnd.Intn(26)))
			if arr.Valid() {
				rec.Arrival = &arr
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// trainID derives a short unique identifier in the "T-xxxxxxxx" form used
// across sample data.
func (g *Generator) trainID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "T-" + strings.ToUpper(id[:8])
}
