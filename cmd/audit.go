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
	auditInput         string
	auditWriteBaseline string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Annotate an optimized schedule with per-train audit rules",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&auditInput, "input", "i", "", "optimized schedule (CSV or JSON), overrides config")
	auditCmd.Flags().StringVar(&auditWriteBaseline, "write-baseline", "", "also recompute the expected schedule and write it as a baseline CSV")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	input := cfg.Schedule.OutputCSV
	if auditInput != "" {
		input = auditInput
	}
	optimized, err := store.LoadOptimized(input)
	if err != nil {
		return fmt.Errorf("load optimized schedule: %w", err)
	}

	entries := audit.Annotate(optimized, cfg.Audit.AuditGapMin)
	f, err := os.Create(cfg.Schedule.AuditPath)
	if err != nil {
		return err
	}
	if err := export.WriteAuditCSV(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("audit file written to %s\n", cfg.Schedule.AuditPath)

	if auditWriteBaseline == "" {
		return nil
	}
	inputs := make([]model.TrainRecord, len(optimized))
	for i, r := range optimized {
		inputs[i] = r.TrainRecord
	}
	baseline, err := audit.ExpectedSchedule(inputs, cfg.Optimizer)
	if err != nil {
		return fmt.Errorf("recompute expected schedule: %w", err)
	}
	bf, err := os.Create(auditWriteBaseline)
	if err != nil {
		return err
	}
	if err := export.WriteBaselineCSV(bf, baseline); err != nil {
		_ = bf.Close()
		return err
	}
	if err := bf.Close(); err != nil {
		return err
	}
	fmt.Printf("expected schedule written to %s\n", auditWriteBaseline)
	return nil
}
