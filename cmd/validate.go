package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/core/audit"
	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/infra/store"
	"github.com/railoptima/railoptima/pkg/export"
)

var (
	validateInput     string
	validateBaseline  string
	validateTolerance int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an optimized schedule file",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "optimized schedule (CSV or JSON), overrides config")
	validateCmd.Flags().StringVarP(&validateBaseline, "baseline", "b", "", "baseline CSV, overrides config")
	validateCmd.Flags().IntVarP(&validateTolerance, "tolerance", "t", 0, "baseline tolerance in minutes, overrides config")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	input := cfg.Schedule.OutputCSV
	if validateInput != "" {
		input = validateInput
	}
	if validateBaseline != "" {
		cfg.Schedule.BaselinePath = validateBaseline
	}
	if validateTolerance > 0 {
		cfg.Audit.ToleranceMin = validateTolerance
	}

	optimized, err := store.LoadOptimized(input)
	if err != nil {
		return fmt.Errorf("load optimized schedule: %w", err)
	}
	var baseline []model.BaselineRecord
	if cfg.Schedule.BaselinePath != "" {
		if baseline, err = store.LoadBaseline(cfg.Schedule.BaselinePath); err != nil {
			return fmt.Errorf("load baseline: %w", err)
		}
	}

	report, err := audit.NewValidator(cfg.Audit, cfg.Optimizer).Validate(optimized, baseline)
	if err != nil {
		return err
	}
	if err := export.WriteReport(os.Stdout, report); err != nil {
		return err
	}
	if f, err := os.Create(cfg.Schedule.ReportPath); err == nil {
		if werr := export.WriteReport(f, report); werr != nil {
			_ = f.Close()
			return werr
		}
		if cerr := f.Close(); cerr != nil {
			return cerr
		}
	}
	if !report.OK() {
		return fmt.Errorf("%d checks failed", report.Failed)
	}
	return nil
}
