package optimizer

import (
	"fmt"

	"github.com/railoptima/railoptima/core/model"
)

// Default scheduling constants, shared with the independent baseline
// recomputation in core/audit.
const (
	DefaultBaseBufferMin          = 3
	DefaultPriorityBufferExtraMin = 2
	DefaultMaxDelayMin            = 30
)

// Config defines the conflict-resolution parameters.
type Config struct {
	// BaseBufferMin is the minimum headway between any two departures.
	BaseBufferMin int `json:"base_buffer_min" yaml:"base_buffer_min"`
	// PriorityBufferExtraMin widens the headway per rank the earlier train
	// holds over the later one.
	PriorityBufferExtraMin int `json:"priority_buffer_extra_min" yaml:"priority_buffer_extra_min"`
	// MaxDelayMin caps the delay applied on the delay-current branch.
	MaxDelayMin int `json:"max_delay_min" yaml:"max_delay_min"`
	// Algorithm selects the optimizer: "greedy" (default) or "lp".
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// SetDefaults applies the agreed scheduling constants.
func (c *Config) SetDefaults() {
	if c.BaseBufferMin == 0 {
		c.BaseBufferMin = DefaultBaseBufferMin
	}
	if c.PriorityBufferExtraMin == 0 {
		c.PriorityBufferExtraMin = DefaultPriorityBufferExtraMin
	}
	if c.MaxDelayMin == 0 {
		c.MaxDelayMin = DefaultMaxDelayMin
	}
	if c.Algorithm == "" {
		c.Algorithm = "greedy"
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BaseBufferMin < 0 || c.PriorityBufferExtraMin < 0 || c.MaxDelayMin < 0 {
		return fmt.Errorf("buffer and delay settings must not be negative")
	}
	if c.Algorithm != "" && c.Algorithm != "greedy" && c.Algorithm != "lp" {
		return fmt.Errorf("unknown algorithm %s", c.Algorithm)
	}
	return nil
}

// DynamicBuffer returns the headway required between prev and curr. The
// priority gap is clamped at zero: a low-priority train departing first never
// shrinks the buffer.
func (c Config) DynamicBuffer(prev, curr model.TrainRecord) int {
	gap := prev.Priority - curr.Priority
	if gap < 0 {
		gap = 0
	}
	return c.BaseBufferMin + c.PriorityBufferExtraMin*gap
}
