package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/report"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

var (
	showPlayer string
	showKills  bool
)

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show a stored match by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player puuid")
	showCmd.Flags().BoolVar(&showKills, "kills", false, "also print the kill feed")
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showMatch(db, prefix, showPlayer, showKills)
}

// showMatch prints every table of one match. Shared with the shell.
func showMatch(db *storage.DB, prefix, focus string, kills bool) error {
	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}

	perf, err := db.GetMatchPerformance(match.MatchID)
	if err != nil {
		return fmt.Errorf("get performance: %w", err)
	}
	teams, err := db.GetMatchTeams(match.MatchID)
	if err != nil {
		return fmt.Errorf("get teams: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintPerformanceTable(os.Stdout, perf, focus)
	fmt.Fprintln(os.Stdout)
	report.PrintLaneTable(os.Stdout, perf, focus)
	fmt.Fprintln(os.Stdout)
	report.PrintTeamTable(os.Stdout, teams)

	if kills {
		feed, err := db.GetMatchKills(match.MatchID)
		if err != nil {
			return fmt.Errorf("get kills: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintKillTable(os.Stdout, feed)
	}
	return nil
}
