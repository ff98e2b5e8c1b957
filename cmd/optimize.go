package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railoptima/railoptima/app"
	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/core/model"
	"github.com/railoptima/railoptima/infra/store"
)

var (
	optimizeInput     string
	optimizeBaseline  string
	optimizeAlgorithm string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run one optimize+validate pass and export the results",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeInput, "input", "i", "", "input schedule (CSV or JSON), overrides config")
	optimizeCmd.Flags().StringVarP(&optimizeBaseline, "baseline", "b", "", "baseline CSV, overrides config")
	optimizeCmd.Flags().StringVarP(&optimizeAlgorithm, "algorithm", "a", "", "optimizer algorithm: greedy or lp")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if optimizeInput != "" {
		cfg.Schedule.InputPath = optimizeInput
	}
	if optimizeBaseline != "" {
		cfg.Schedule.BaselinePath = optimizeBaseline
	}
	if optimizeAlgorithm != "" {
		cfg.Optimizer.Algorithm = optimizeAlgorithm
		if err := cfg.Optimizer.Validate(); err != nil {
			return err
		}
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	records, err := store.LoadSchedule(cfg.Schedule.InputPath)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	var baseline []model.BaselineRecord
	if cfg.Schedule.BaselinePath != "" {
		if baseline, err = store.LoadBaseline(cfg.Schedule.BaselinePath); err != nil {
			return fmt.Errorf("load baseline: %w", err)
		}
	}

	optimized, report, err := svc.RunPipeline(records, baseline)
	if err != nil {
		return err
	}
	if err := svc.Export(optimized, report); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("optimized %d trains, report: %d passed, %d failed\n", len(optimized), report.Passed, report.Failed)
	if !report.OK() {
		return fmt.Errorf("validation reported %d failed checks", report.Failed)
	}
	return nil
}
