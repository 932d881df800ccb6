package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/report"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the analytics database",
	Long: `Run an arbitrary SQL query against the analytics database and print results as a table.

Schema overview:
  fact_match_player_performance(match_id, puuid, summoner_name, platform, queue_id,
    game_version, game_duration_sec, game_start_timestamp, champion_name, team_id,
    team_position, win, kills, deaths, assists, gold_per_min, cs_per_min,
    cs_at_10, gold_at_10, xp_at_10, gold_diff_at_10, cs_diff_at_10, xp_diff_at_10,
    gold_at_15, gold_diff_at_15, gold_gain_10_20, kills_20_plus, ...)
  fact_kill_events(death_id, match_id, event_time_min, victim_puuid, victim_name,
    victim_team_id, killer_puuid, killer_name, pos_x, pos_y, is_in_base)
  fact_match_teams(match_id, team_id, win, baron_kills, dragon_kills, tower_kills,
    horde_kills, infernal_kills, ocean_kills, elder_kills, ...)

Note: win and is_in_base are stored as 0/1. game_start_timestamp is in milliseconds.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRawTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
