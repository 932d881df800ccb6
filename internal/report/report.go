package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/pipeline"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// QueueName returns a short label for the ranked queues and the id otherwise.
func QueueName(queueID int) string {
	switch queueID {
	case 420:
		return "SOLO"
	case 440:
		return "FLEX"
	default:
		return strconv.Itoa(queueID)
	}
}

// FormatDate renders a millisecond epoch timestamp as a UTC date.
func FormatDate(ms int64) string {
	if ms == 0 {
		return "—"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	winner := model.TeamName(model.TeamRed)
	if s.BlueWin {
		winner = model.TeamName(model.TeamBlue)
	}
	fmt.Fprintf(w, "\nMatch: %s  |  Platform: %s  |  Queue: %s  |  Patch: %s  |  Date: %s  |  Duration: %s  |  Kills: %d-%d  |  Winner: %s\n\n",
		s.MatchID, s.Platform, QueueName(s.QueueID), s.GameVersion, FormatDate(s.GameStartTimestamp),
		FormatDuration(s.GameDurationSec), s.BlueKills, s.RedKills, winner)
}

// PrintMatchList prints one line per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "PLATFORM", "QUEUE", "DATE", "DURATION", "PATCH", "KILLS", "WINNER")
	for _, m := range matches {
		winner := "RED"
		if m.BlueWin {
			winner = "BLUE"
		}
		table.Append(
			m.MatchID,
			m.Platform,
			QueueName(m.QueueID),
			FormatDate(m.GameStartTimestamp),
			FormatDuration(m.GameDurationSec),
			m.GameVersion,
			fmt.Sprintf("%d-%d", m.BlueKills, m.RedKills),
			winner,
		)
	}
	table.Render()
}

// PrintPerformanceTable prints the end-of-game line of every participant.
// If focusPUUID is non-empty, that player's row is marked with ">".
func PrintPerformanceTable(w io.Writer, rows []model.PerformanceRow, focusPUUID string) {
	table := newTable(w)
	table.Header(" ", "NAME", "TEAM", "ROLE", "CHAMPION", "K", "D", "A", "KDA", "KP%",
		"CS/M", "GOLD/M", "DMG", "VISION", "SOLO_K", "W")

	for i := range rows {
		r := &rows[i]
		table.Append(
			marker(r.PUUID, focusPUUID),
			r.SummonerName,
			model.TeamName(r.TeamID),
			r.TeamPosition,
			r.ChampionName,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			fmt.Sprintf("%.2f", r.KDA),
			fmt.Sprintf("%.0f%%", r.KillParticipation*100),
			fmt.Sprintf("%.1f", r.CSPerMin),
			fmt.Sprintf("%.0f", r.GoldPerMin),
			strconv.Itoa(r.TotalDamageDealt),
			strconv.Itoa(r.VisionScore),
			strconv.Itoa(r.SoloKills),
			winMark(r.Win),
		)
	}
	table.Render()
}

// PrintLaneTable prints the minute 10 and 15 snapshots and lane differences.
func PrintLaneTable(w io.Writer, rows []model.PerformanceRow, focusPUUID string) {
	table := newTable(w)
	table.Header(" ", "NAME", "ROLE", "CS@10", "GOLD@10", "XP@10", "KDA@10", "PLATES",
		"CS_DIFF@10", "GOLD_DIFF@10", "XP_DIFF@10", "GOLD@15", "GOLD_DIFF@15", "GOLD_10-20")

	for i := range rows {
		r := &rows[i]
		table.Append(
			marker(r.PUUID, focusPUUID),
			r.SummonerName,
			r.TeamPosition,
			strconv.Itoa(r.CSAt10),
			strconv.Itoa(r.GoldAt10),
			strconv.Itoa(r.XPAt10),
			fmt.Sprintf("%d/%d/%d", r.KillsAt10, r.DeathsAt10, r.AssistsAt10),
			strconv.Itoa(r.TurretPlatesTaken),
			signed(r.CSDiffAt10),
			signed(r.GoldDiffAt10),
			signed(r.XPDiffAt10),
			strconv.Itoa(r.GoldAt15),
			signed(r.GoldDiffAt15),
			strconv.Itoa(r.GoldGain10To20),
		)
	}
	table.Render()
}

// PrintTeamTable prints objective counts per team.
func PrintTeamTable(w io.Writer, teams []model.TeamRow) {
	table := newTable(w)
	table.Header("TEAM", "W", "BARON", "DRAGON", "TOWER", "INHIB", "GRUBS",
		"CLOUD", "INFERNAL", "MOUNTAIN", "OCEAN", "HEXTECH", "CHEMTECH", "ELDER")
	for _, t := range teams {
		table.Append(
			model.TeamName(t.TeamID),
			winMark(t.Win),
			strconv.Itoa(t.BaronKills),
			strconv.Itoa(t.DragonKills),
			strconv.Itoa(t.TowerKills),
			strconv.Itoa(t.InhibitorKills),
			strconv.Itoa(t.HordeKills),
			strconv.Itoa(t.CloudKills),
			strconv.Itoa(t.InfernalKills),
			strconv.Itoa(t.MountainKills),
			strconv.Itoa(t.OceanKills),
			strconv.Itoa(t.HextechKills),
			strconv.Itoa(t.ChemtechKills),
			strconv.Itoa(t.ElderKills),
		)
	}
	table.Render()
}

// PrintKillTable prints the kill feed in time order.
func PrintKillTable(w io.Writer, kills []model.KillRow) {
	table := newTable(w)
	table.Header("MIN", "KILLER", "VICTIM", "VICTIM_TEAM", "X", "Y", "IN_BASE")
	for _, k := range kills {
		killer := k.KillerName
		if k.KillerID == 0 {
			killer = "(executed)"
		}
		inBase := ""
		if k.IsInBase {
			inBase = "yes"
		}
		table.Append(
			fmt.Sprintf("%.2f", k.EventTimeMin),
			killer,
			k.VictimName,
			model.TeamName(k.VictimTeamID),
			strconv.Itoa(k.PosX),
			strconv.Itoa(k.PosY),
			inBase,
		)
	}
	table.Render()
}

// PrintPlayerAggregate prints overall performance aggregated across matches.
func PrintPlayerAggregate(w io.Writer, aggs []model.PlayerAggregate) {
	table := newTable(w)
	table.Header("PLAYER", "MATCHES", "WIN%", "K", "D", "A", "KDA", "GOLD/M", "CS/M",
		"GOLD_DIFF@10", "CS_DIFF@10", "SOLO_K", "VISION")
	for i := range aggs {
		a := &aggs[i]
		table.Append(
			a.Name,
			strconv.Itoa(a.Matches),
			fmt.Sprintf("%.0f%%", a.WinRate()),
			strconv.Itoa(a.Kills),
			strconv.Itoa(a.Deaths),
			strconv.Itoa(a.Assists),
			fmt.Sprintf("%.2f", a.KDA()),
			fmt.Sprintf("%.0f", a.AvgGPM()),
			fmt.Sprintf("%.1f", a.AvgCSPM()),
			fmt.Sprintf("%+.0f", a.AvgGoldDiffAt10()),
			fmt.Sprintf("%+.1f", a.AvgCSDiffAt10()),
			strconv.Itoa(a.SoloKills),
			strconv.Itoa(a.VisionScore),
		)
	}
	table.Render()
}

// PrintRoleTable prints lane-phase results per team position.
func PrintRoleTable(w io.Writer, roles []model.RoleStat) {
	table := newTable(w)
	table.Header("ROLE", "GAMES", "WIN%", "AVG_GOLD_DIFF@10", "MED_GOLD_DIFF@10", "CS_DIFF@10", "XP_DIFF@10", "KP%")
	for i := range roles {
		r := &roles[i]
		table.Append(
			r.Role,
			strconv.Itoa(r.Games),
			fmt.Sprintf("%.0f%%", r.WinRate()),
			fmt.Sprintf("%+.0f", r.AvgGoldDiffAt10),
			fmt.Sprintf("%+.0f", r.MedianGoldDiffAt10),
			fmt.Sprintf("%+.1f", r.AvgCSDiffAt10),
			fmt.Sprintf("%+.0f", r.AvgXPDiffAt10),
			fmt.Sprintf("%.0f%%", r.AvgKP*100),
		)
	}
	table.Render()
}

// PrintOverview prints database totals, per-platform counts and top champions.
func PrintOverview(w io.Writer, ov model.DBOverview, platforms []model.PlatformCount, champs []model.ChampionStat) {
	fmt.Fprintf(w, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(w, "  Matches stored : %d\n", ov.TotalMatches)
	fmt.Fprintf(w, "  Date range     : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(w, "  Players seen   : %d\n", ov.UniquePlayers)
	fmt.Fprintf(w, "  Kill events    : %d\n", ov.TotalKills)

	if len(platforms) > 0 {
		fmt.Fprintf(w, "\n--- Platforms ---\n\n")
		pt := newTable(w)
		pt.Header("PLATFORM", "MATCHES")
		for _, p := range platforms {
			pt.Append(p.Platform, strconv.Itoa(p.Matches))
		}
		pt.Render()
	}

	if len(champs) > 0 {
		fmt.Fprintf(w, "\n--- Most Picked Champions ---\n\n")
		ct := newTable(w)
		ct.Header("CHAMPION", "PICKS", "WIN%")
		for _, c := range champs {
			wr := 0.0
			if c.Picks > 0 {
				wr = 100 * float64(c.Wins) / float64(c.Picks)
			}
			ct.Append(c.Champion, strconv.Itoa(c.Picks), fmt.Sprintf("%.0f%%", wr))
		}
		ct.Render()
	}
}

// PrintRunSummary prints what an ingestion run did per platform.
func PrintRunSummary(w io.Writer, sum *pipeline.Summary) {
	status := "complete"
	if sum.Interrupted {
		status = "interrupted"
	}
	fmt.Fprintf(w, "\nRun %s %s after %s\n\n", sum.RunID, status, sum.Elapsed.Round(time.Second))

	table := newTable(w)
	table.Header("GROUP", "PLATFORM", "PLAYERS", "SAVED", "SKIPPED", "FAILED", "PERF_ROWS", "KILL_ROWS", "TEAM_ROWS")
	for _, p := range sum.Platforms() {
		table.Append(
			p.Group,
			p.Platform,
			strconv.Itoa(p.Players),
			strconv.Itoa(p.Saved),
			strconv.Itoa(p.Skipped),
			strconv.Itoa(p.Failed),
			strconv.Itoa(p.Rows.Performance),
			strconv.Itoa(p.Rows.Kills),
			strconv.Itoa(p.Rows.Teams),
		)
	}
	table.Render()
}

// PrintRawTable prints the result of an ad-hoc query.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, c := range r {
			cells[i] = c
		}
		table.Append(cells...)
	}
	table.Render()
}

func marker(puuid, focus string) string {
	if focus != "" && puuid == focus {
		return ">"
	}
	return " "
}

func winMark(win bool) string {
	if win {
		return "W"
	}
	return ""
}

func signed(v int) string {
	return fmt.Sprintf("%+d", v)
}
