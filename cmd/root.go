package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/config"
	"github.com/marquin311/analytics-do-vale/internal/logging"
)

var (
	dbPath     string
	configPath string
	backend    string
)

var rootCmd = &cobra.Command{
	Use:   "vale",
	Short: "League of Legends match ingestion and analytics",
	Long: `Collect ranked matches from the Riot Games API, reduce their timelines into
per-player performance rows and query what was stored.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	home := mustUserHome()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join(home, ".vale", "analytics.db"), "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join(home, ".vale", "config.yaml"), "path to config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend for ingestion: sqlite or postgres (overrides config)")

	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(prosCmd)
	rootCmd.AddCommand(friendsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadConfig reads --config (defaults when the file is missing) and applies
// the persistent flags that override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("db") || cfg.Storage.Path == "" {
		cfg.Storage.Path = dbPath
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed, logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
