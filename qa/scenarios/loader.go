package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/core/optimizer"
)

// TrainDef describes one input train in a scenario file.
type TrainDef struct {
	ID        string `yaml:"id"`
	Scheduled string `yaml:"scheduled"`
	Priority  int    `yaml:"priority"`
	Arrival   string `yaml:"arrival,omitempty"`
}

// ToModel converts the definition into a TrainRecord.
func (d TrainDef) ToModel() (model.TrainRecord, error) {
	rec := model.TrainRecord{TrainID: d.ID, Priority: d.Priority}
	var err error
	if rec.Scheduled, err = model.ParseTimeOfDay(d.Scheduled); err != nil {
		return rec, err
	}
	if d.Arrival != "" {
		arr, err := model.ParseTimeOfDay(d.Arrival)
		if err != nil {
			return rec, err
		}
		rec.Arrival = &arr
	}
	return rec, nil
}

// ExpectedDef is the expected optimizer output for one train.
type ExpectedDef struct {
	ID        string `yaml:"id"`
	Optimized string `yaml:"optimized"`
	DelayMin  int    `yaml:"delay_min"`
}

// Scenario is one declarative optimizer test case.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Config      optimizer.Config `yaml:"config,omitempty"`
	Trains      []TrainDef       `yaml:"trains"`
	Expected    []ExpectedDef    `yaml:"expected"`
	// ReportOK asserts that the validation report has no failed checks.
	ReportOK bool `yaml:"report_ok"`
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
