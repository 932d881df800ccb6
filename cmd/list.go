package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/report"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "number of matches to show (0 for all)")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches(listLimit)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'vale pros' or 'vale friends' to add some.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
