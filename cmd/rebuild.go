package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/report"
)

// rebuildCmd re-assembles archived payloads without calling the API.
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Re-assemble every archived match into the store",
	Long: `Read the raw match and timeline payloads kept in the archive directory
(archive.dir in the config) and store the rows of every match not yet stored.
Use it after dropping the database or when moving to another backend.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Archive.Dir == "" {
		return errors.New("no archive configured: set archive.dir in the config file")
	}
	logger := newLogger()
	defer logger.Sync()

	env, err := newIngestEnv(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer env.Close()

	sum, err := env.runner().Rebuild(ctx, env.archive)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	report.PrintRunSummary(os.Stdout, sum)
	return nil
}
