package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/config"
	"github.com/marquin311/analytics-do-vale/internal/report"
)

var monitorWatch time.Duration

// monitorCmd shows collection progress against the configured targets.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Show stored matches per platform against the configured targets",
	Long: `Count distinct stored matches per platform and draw a progress bar towards
each platform's target (groups[].platforms[].target in the config). With
--watch the screen is refreshed at that interval until Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorWatch, "watch", 0, "refresh interval, e.g. 30s (0 prints once)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	targets := monitorTargets(cfg)
	draw := func() error {
		counts, err := store.RegionCounts(ctx)
		if err != nil {
			return fmt.Errorf("count matches: %w", err)
		}
		if monitorWatch > 0 {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
		}
		report.PrintMonitor(os.Stdout, counts, targets, time.Now())
		return nil
	}

	if err := draw(); err != nil || monitorWatch <= 0 {
		return err
	}
	ticker := time.NewTicker(monitorWatch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := draw(); err != nil {
				return err
			}
		}
	}
}

// monitorTargets lists platforms in configured group order.
func monitorTargets(cfg *config.Config) []report.Target {
	var out []report.Target
	for _, g := range cfg.Groups {
		for _, p := range g.Platforms {
			out = append(out, report.Target{Platform: p.Name, Target: p.Target})
		}
	}
	return out
}
