package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/core/generator"
	"github.com/railoptima/railoptima/pkg/export"
)

var (
	generateTrains int
	generateSeed   int64
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a sample train schedule",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateTrains, "trains", "n", 0, "number of trains, overrides config")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed, overrides config")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output CSV path, defaults to the configured input path")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if generateTrains > 0 {
		cfg.Generator.Trains = generateTrains
	}
	if generateSeed != 0 {
		cfg.Generator.Seed = generateSeed
	}
	out := cfg.Schedule.InputPath
	if generateOut != "" {
		out = generateOut
	}

	records, err := generator.New(cfg.Generator).Schedule()
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.WriteTrainsCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("%d trains written to %s\n", len(records), out)
	return nil
}
