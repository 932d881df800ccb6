package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/report"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

var summaryTop int

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about every stored match: match and player
counts, date range, matches per platform and the most picked champions.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "number of champions to list")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'vale pros' or 'vale friends' to add some.")
		return nil
	}
	platforms, err := db.RegionCounts(cmd.Context())
	if err != nil {
		return fmt.Errorf("get platform counts: %w", err)
	}
	champs, err := db.GetTopChampions(summaryTop)
	if err != nil {
		return fmt.Errorf("get top champions: %w", err)
	}

	report.PrintOverview(os.Stdout, ov, platforms, champs)
	return nil
}
