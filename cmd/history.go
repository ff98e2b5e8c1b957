package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/infra/store"
)

var (
	historyLimit     int
	historyAlgorithm string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded optimize runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list")
	historyCmd.Flags().StringVarP(&historyAlgorithm, "algorithm", "a", "", "filter by algorithm")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, err := store.NewRunStore(cfg.History.Backend, cfg.History.Path)
	if err != nil {
		return fmt.Errorf("run store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	runs, err := st.Query(ctx, store.RunQuery{Limit: historyLimit, Algorithm: historyAlgorithm})
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %-6s  trains=%d conflicts=%d avg_delay=%.1f checks=%d/%d\n",
			r.Time.Format(time.RFC3339), r.RunID, r.Algorithm,
			r.Trains, r.Conflicts, r.AvgDelayMin, r.Passed, r.Passed+r.Failed)
	}
	return nil
}
