package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/aggregator"
	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/report"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

var playerLast int

// playerCmd is the cobra command for cross-match analysis of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <puuid-prefix|summoner-name> [...]",
	Short: "Cross-match analysis for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerLast, "last", 0, "only use the N most recent matches of each player")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showPlayers(db, args, playerLast)
}

// loadPlayerRows resolves query to a stored player and returns their rows,
// newest first, capped at last when positive. Rows are nil when the player is
// unknown.
func loadPlayerRows(db *storage.DB, query string, last int) ([]model.PerformanceRow, error) {
	puuid, err := db.FindPlayer(query)
	if err != nil {
		return nil, fmt.Errorf("find player %q: %w", query, err)
	}
	if puuid == "" {
		return nil, nil
	}
	rows, err := db.GetPlayerPerformance(puuid)
	if err != nil {
		return nil, fmt.Errorf("query rows for %s: %w", puuid, err)
	}
	if last > 0 && len(rows) > last {
		rows = rows[:last]
	}
	return rows, nil
}

// showPlayers prints the aggregate table of every player and one role table
// per player. Shared with the shell.
func showPlayers(db *storage.DB, queries []string, last int) error {
	var all []model.PerformanceRow
	var perPlayer [][]model.PerformanceRow

	for _, q := range queries {
		rows, err := loadPlayerRows(db, q, last)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintf(os.Stderr, "No data found for player %q\n", q)
			continue
		}
		all = append(all, rows...)
		perPlayer = append(perPlayer, rows)
	}
	if len(all) == 0 {
		return nil
	}

	fmt.Fprintln(os.Stdout)
	report.PrintPlayerAggregate(os.Stdout, aggregator.Players(all))
	for _, rows := range perPlayer {
		fmt.Fprintf(os.Stdout, "\n--- Roles: %s ---\n\n", rows[0].SummonerName)
		report.PrintRoleTable(os.Stdout, aggregator.Roles(rows))
	}
	return nil
}
