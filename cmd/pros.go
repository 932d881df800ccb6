package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/pipeline"
	"github.com/marquin311/analytics-do-vale/internal/report"
)

var (
	prosGroups  []string
	prosMatches int
)

// prosCmd ingests matches of the apex ladder of every configured platform.
var prosCmd = &cobra.Command{
	Use:   "pros",
	Short: "Ingest ranked matches of Challenger, Grandmaster and Master players",
	Long: `Discover players on every configured platform (Challenger first, then
Grandmaster, then Master, until the platform's player target is reached),
enumerate their recent ranked solo matches and store the assembled rows.

One worker runs per routing group (americas, europe, asia, sea); platforms of a
group are processed in order. Ctrl-C stops every worker before its next match
and prints what was stored so far.`,
	Args: cobra.NoArgs,
	RunE: runPros,
}

func init() {
	prosCmd.Flags().StringSliceVar(&prosGroups, "groups", nil, "routing groups to run (default: all configured)")
	prosCmd.Flags().IntVar(&prosMatches, "matches", 0, "recent matches per player (default from config)")
}

func runPros(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	env, err := newIngestEnv(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer env.Close()

	return runProsOnce(ctx, env, env.runner(), prosGroups, prosMatches)
}

// runProsOnce builds the discovery jobs and runs them once.
func runProsOnce(ctx context.Context, env *ingestEnv, runner *pipeline.Runner, groups []string, matches int) error {
	jobs, err := pipeline.Jobs(env.cfg, groups, matches, func(group string) pipeline.Source {
		return env.client(group)
	})
	if err != nil {
		return err
	}

	sum, err := runner.Run(ctx, jobs)
	if sum != nil {
		report.PrintRunSummary(os.Stdout, sum)
	}
	if err != nil {
		return fmt.Errorf("ingest aborted: %w", err)
	}
	return nil
}
