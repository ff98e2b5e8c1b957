package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/railoptima/railoptima/config"
	"github.com/railoptima/railoptima/core/monitoring"
	"github.com/railoptima/railoptima/infra/logger"
)

var monitorInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor [endpoints...]",
	Short: "Probe API endpoints and report latency and failures",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "repeat probes at this interval (0 probes once)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Monitoring.Endpoints = args
	}
	if len(cfg.Monitoring.Endpoints) == 0 {
		return fmt.Errorf("no endpoints configured")
	}

	prober := monitoring.NewProber(cfg.Monitoring, logger.New("monitor"), nil, nil)
	prober.CheckAll(ctx)
	if monitorInterval > 0 {
		ticker := time.NewTicker(monitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return summarize(prober)
			case <-ticker.C:
				prober.CheckAll(ctx)
			}
		}
	}
	return summarize(prober)
}

func summarize(p *monitoring.Prober) error {
	failures := p.History().Failures()
	if len(failures) > 0 {
		return fmt.Errorf("%d probe failures", len(failures))
	}
	return nil
}
