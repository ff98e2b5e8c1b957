package audit

import "fmt"

// Default audit thresholds.
const (
	DefaultToleranceMin = 5
	DefaultAuditGapMin  = 5
)

// Config defines validation and audit thresholds.
type Config struct {
	// ToleranceMin is the allowed divergence from the baseline departure.
	ToleranceMin int `json:"tolerance_min" yaml:"tolerance_min"`
	// AuditGapMin is the headway below which an audit row is marked for
	// manual review.
	AuditGapMin int `json:"audit_gap_min" yaml:"audit_gap_min"`
}

// SetDefaults applies the agreed thresholds.
func (c *Config) SetDefaults() {
	if c.ToleranceMin == 0 {
		c.ToleranceMin = DefaultToleranceMin
	}
	if c.AuditGapMin == 0 {
		c.AuditGapMin = DefaultAuditGapMin
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ToleranceMin < 0 || c.AuditGapMin < 0 {
		return fmt.Errorf("audit thresholds must not be negative")
	}
	return nil
}
