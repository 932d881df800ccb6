package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// initDBCmd creates the schema of the configured backend.
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the tables of the configured storage backend",
	Args:  cobra.NoArgs,
	RunE:  runInitDB,
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(os.Stdout, "Schema ready (%s).\n", cfg.Storage.Backend)
	return nil
}
