package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/marquin311/analytics-do-vale/internal/aggregator"
	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

const analyzeSystemPrompt = `You are a League of Legends ranked performance analyst. You are given
structured data extracted from Riot match timelines and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on what the player can actually improve.
- Avoid generic League advice unless it directly explains a pattern in the data.

Metrics glossary:
- KDA: (kills + assists) / deaths, deaths counted as 1 when zero.
- KP: kill participation, share of team kills the player took part in.
- GOLD/M, CS/M: gold and creep score per minute of game time.
- *_at_10, *_at_15: the player's totals at minute 10 / 15 of the timeline.
- *_diff_at_10: player minus lane opponent (same position, enemy team) at minute 10.
  Positive means ahead in lane.
- plates_at_10: turret plates destroyed by minute 10 (the 10:00 snapshot).
- gain_10_20: gold, xp and cs earned between minute 10 and minute 20.
- 20_plus: kills, deaths and assists from minute 20 to the end.
- solo kills: kills with no assisting ally.`

var (
	analyzeModel  string
	analyzeAPIKey string

	analyzePlayerLast int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <puuid-prefix|summoner-name> <question>",
	Short: "Analyze a player's aggregate stats with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <match-id-prefix> <question>",
	Short: "Analyze a single match with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzePlayerCmd.Flags().IntVar(&analyzePlayerLast, "last", 0, "only use the N most recent matches")

	analyzeCmd.AddCommand(analyzePlayerCmd)
	analyzeCmd.AddCommand(analyzeMatchCmd)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	question := args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := loadPlayerRows(db, args[0], analyzePlayerLast)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data found for player %q", args[0])
	}

	contextJSON, err := buildPlayerContext(rows, analyzePlayerLast)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("no match found with id prefix %q", args[0])
	}
	question := args[1]

	perf, err := db.GetMatchPerformance(match.MatchID)
	if err != nil {
		return fmt.Errorf("query match rows: %w", err)
	}
	teams, err := db.GetMatchTeams(match.MatchID)
	if err != nil {
		return fmt.Errorf("query teams: %w", err)
	}

	contextJSON, err := buildMatchContext(match, perf, teams)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
}

// buildPlayerContext serialises a player's aggregate and role breakdown into compact JSON.
func buildPlayerContext(rows []model.PerformanceRow, last int) (string, error) {
	agg := aggregator.Players(rows)[0]

	type roleEntry struct {
		Role          string  `json:"role"`
		Games         int     `json:"games"`
		WinPct        float64 `json:"win_pct"`
		GoldDiffAt10  float64 `json:"avg_gold_diff_at_10"`
		MedGoldDiff10 float64 `json:"median_gold_diff_at_10"`
		CSDiffAt10    float64 `json:"avg_cs_diff_at_10"`
		XPDiffAt10    float64 `json:"avg_xp_diff_at_10"`
		KillParticPct float64 `json:"avg_kp_pct"`
	}
	roles := aggregator.Roles(rows)
	roleEntries := make([]roleEntry, 0, len(roles))
	for i := range roles {
		r := &roles[i]
		roleEntries = append(roleEntries, roleEntry{
			Role:          r.Role,
			Games:         r.Games,
			WinPct:        round2(r.WinRate()),
			GoldDiffAt10:  round2(r.AvgGoldDiffAt10),
			MedGoldDiff10: round2(r.MedianGoldDiffAt10),
			CSDiffAt10:    round2(r.AvgCSDiffAt10),
			XPDiffAt10:    round2(r.AvgXPDiffAt10),
			KillParticPct: round2(r.AvgKP * 100),
		})
	}

	champs := make(map[string]int)
	for _, r := range rows {
		champs[r.ChampionName]++
	}

	doc := map[string]interface{}{
		"subject":          "player",
		"player":           agg.Name,
		"matches_analyzed": agg.Matches,
		"filters":          map[string]interface{}{"last": last},
		"overview": map[string]interface{}{
			"win_pct":             round2(agg.WinRate()),
			"kda":                 round2(agg.KDA()),
			"kills":               agg.Kills,
			"deaths":              agg.Deaths,
			"assists":             agg.Assists,
			"gold_per_min":        round2(agg.AvgGPM()),
			"cs_per_min":          round2(agg.AvgCSPM()),
			"avg_gold_diff_at_10": round2(agg.AvgGoldDiffAt10()),
			"avg_cs_diff_at_10":   round2(agg.AvgCSDiffAt10()),
			"solo_kills":          agg.SoloKills,
			"vision_score":        agg.VisionScore,
		},
		"roles":     roleEntries,
		"champions": champs,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// buildMatchContext serialises a single match into compact JSON.
func buildMatchContext(match *model.MatchSummary, perf []model.PerformanceRow, teams []model.TeamRow) (string, error) {
	type playerEntry struct {
		Name       string  `json:"name"`
		Team       string  `json:"team"`
		Role       string  `json:"role"`
		Champion   string  `json:"champion"`
		Win        bool    `json:"win"`
		Kills      int     `json:"kills"`
		Deaths     int     `json:"deaths"`
		Assists    int     `json:"assists"`
		KPPct      float64 `json:"kp_pct"`
		GoldPerMin float64 `json:"gold_per_min"`
		CSPerMin   float64 `json:"cs_per_min"`
		GoldAt10   int     `json:"gold_at_10"`
		GoldDiff10 int     `json:"gold_diff_at_10"`
		CSDiff10   int     `json:"cs_diff_at_10"`
		GoldDiff15 int     `json:"gold_diff_at_15"`
		Plates     int     `json:"plates_at_10"`
		Deaths20   int     `json:"deaths_20_plus"`
	}

	players := make([]playerEntry, 0, len(perf))
	for i := range perf {
		r := &perf[i]
		players = append(players, playerEntry{
			Name:       r.SummonerName,
			Team:       model.TeamName(r.TeamID),
			Role:       r.TeamPosition,
			Champion:   r.ChampionName,
			Win:        r.Win,
			Kills:      r.Kills,
			Deaths:     r.Deaths,
			Assists:    r.Assists,
			KPPct:      round2(r.KillParticipation * 100),
			GoldPerMin: round2(r.GoldPerMin),
			CSPerMin:   round2(r.CSPerMin),
			GoldAt10:   r.GoldAt10,
			GoldDiff10: r.GoldDiffAt10,
			CSDiff10:   r.CSDiffAt10,
			GoldDiff15: r.GoldDiffAt15,
			Plates:     r.TurretPlatesTaken,
			Deaths20:   r.Deaths20Plus,
		})
	}

	objectives := make(map[string]interface{}, len(teams))
	for _, t := range teams {
		objectives[model.TeamName(t.TeamID)] = map[string]int{
			"baron":  t.BaronKills,
			"dragon": t.DragonKills,
			"tower":  t.TowerKills,
			"grubs":  t.HordeKills,
			"elder":  t.ElderKills,
		}
	}

	doc := map[string]interface{}{
		"subject":      "match",
		"match_id":     match.MatchID,
		"platform":     match.Platform,
		"queue_id":     match.QueueID,
		"patch":        match.GameVersion,
		"duration_sec": match.GameDurationSec,
		"blue_win":     match.BlueWin,
		"score":        fmt.Sprintf("%d-%d", match.BlueKills, match.RedKills),
		"objectives":   objectives,
		"players":      players,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
