package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var roles = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

// sampleRows builds a ten-player match in which blue wins 12 kills to 7.
func sampleRows(matchID, platform string, start int64) model.MatchRows {
	rows := model.MatchRows{MatchID: matchID}
	for slot := 1; slot <= 10; slot++ {
		teamID := model.TeamBlue
		if slot > 5 {
			teamID = model.TeamRed
		}
		kills := 0
		switch slot {
		case 1:
			kills = 12
		case 6:
			kills = 7
		}
		rows.Performance = append(rows.Performance, model.PerformanceRow{
			MatchID:            matchID,
			MatchTeamKey:       fmt.Sprintf("%s-%d", matchID, teamID),
			PUUID:              fmt.Sprintf("puuid-%d", slot),
			SummonerName:       fmt.Sprintf("player%d#BR1", slot),
			Platform:           platform,
			QueueID:            420,
			GameVersion:        "14.10.1",
			GameDurationSec:    1800,
			GameStartTimestamp: start,
			ChampionName:       fmt.Sprintf("Champ%d", slot%3),
			TeamID:             teamID,
			TeamPosition:       roles[(slot-1)%5],
			Win:                teamID == model.TeamBlue,
			Kills:              kills,
			GoldPerMin:         400.5,
			KPAt10:             0.67,
			GoldDiffAt10:       slot * 10,
			Items:              [7]int{1055, 0, 0, 0, 0, 0, 3340},
		})
	}
	rows.Kills = []model.KillRow{
		{DeathID: matchID + "_90000_6", MatchID: matchID, EventTimeMin: 1.5, VictimID: 6, KillerID: 1, PosX: 13000, PosY: 13500, IsInBase: true},
		{DeathID: matchID + "_60000_7", MatchID: matchID, EventTimeMin: 1, VictimID: 7, KillerID: 2, PosX: 7000, PosY: 7000},
	}
	rows.Teams = []model.TeamRow{
		{MatchID: matchID, MatchTeamKey: matchID + "-200", TeamID: model.TeamRed, DragonKills: 1, OceanKills: 1},
		{MatchID: matchID, MatchTeamKey: matchID + "-100", TeamID: model.TeamBlue, Win: true, BaronKills: 1, DragonKills: 3, InfernalKills: 2, ElderKills: 1},
	}
	return rows
}

func TestSaveMatchAndExists(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	res, err := db.SaveMatch(ctx, sampleRows("BR1_1", "br1", 1700000000000))
	if err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	if res.Performance != 10 || res.Kills != 2 || res.Teams != 2 {
		t.Errorf("inserted = %+v, want 10/2/2", res)
	}

	exists, err := db.MatchExists(ctx, "BR1_1")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after save")
	}
	exists, _ = db.MatchExists(ctx, "BR1_2")
	if exists {
		t.Error("expected unknown match to not exist")
	}
}

func TestSaveMatchIdempotent(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	rows := sampleRows("BR1_1", "br1", 1700000000000)

	if _, err := db.SaveMatch(ctx, rows); err != nil {
		t.Fatalf("first SaveMatch: %v", err)
	}
	rows.Performance[0].Kills = 99
	res, err := db.SaveMatch(ctx, rows)
	if err != nil {
		t.Fatalf("second SaveMatch: %v", err)
	}
	if res.Total() != 0 {
		t.Errorf("second save inserted %d rows, want 0", res.Total())
	}

	perf, err := db.GetMatchPerformance("BR1_1")
	if err != nil {
		t.Fatalf("GetMatchPerformance: %v", err)
	}
	if len(perf) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(perf))
	}
	if perf[0].Kills != 12 {
		t.Errorf("existing row was overwritten: kills = %d", perf[0].Kills)
	}
}

func TestSaveMatchEmptySets(t *testing.T) {
	db := openMemDB(t)
	rows := sampleRows("BR1_1", "br1", 1)
	rows.Kills = nil

	res, err := db.SaveMatch(context.Background(), rows)
	if err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	if res.Kills != 0 || res.Performance != 10 {
		t.Errorf("inserted = %+v", res)
	}
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	for i, id := range []string{"BR1_1", "KR_2", "EUW1_3"} {
		if _, err := db.SaveMatch(ctx, sampleRows(id, "br1", int64(1700000000000+i*1000))); err != nil {
			t.Fatalf("SaveMatch %s: %v", id, err)
		}
	}

	list, err := db.ListMatches(0)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(list))
	}
	if list[0].MatchID != "EUW1_3" {
		t.Errorf("expected newest match first, got %s", list[0].MatchID)
	}
	s := list[0]
	if !s.BlueWin || s.BlueKills != 12 || s.RedKills != 7 {
		t.Errorf("summary = %+v", s)
	}
	if s.GameDurationSec != 1800 || s.QueueID != 420 {
		t.Errorf("summary = %+v", s)
	}

	limited, _ := db.ListMatches(2)
	if len(limited) != 2 {
		t.Errorf("expected 2 matches with limit, got %d", len(limited))
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.SaveMatch(context.Background(), sampleRows("BR1_3001", "br1", 1)); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	m, err := db.GetMatchByPrefix("BR1_30")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if m == nil || m.MatchID != "BR1_3001" {
		t.Fatalf("got %+v", m)
	}

	m, err = db.GetMatchByPrefix("KR_")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", m)
	}
}

func TestGetMatchPerformanceOrder(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.SaveMatch(context.Background(), sampleRows("BR1_1", "br1", 1)); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}
	perf, err := db.GetMatchPerformance("BR1_1")
	if err != nil {
		t.Fatalf("GetMatchPerformance: %v", err)
	}
	for i, r := range perf {
		wantTeam := model.TeamBlue
		if i >= 5 {
			wantTeam = model.TeamRed
		}
		if r.TeamID != wantTeam || r.TeamPosition != roles[i%5] {
			t.Errorf("row %d: team %d %s", i, r.TeamID, r.TeamPosition)
		}
	}
	if !perf[0].Win || perf[5].Win {
		t.Error("win flags not preserved")
	}
	if perf[0].KPAt10 != 0.67 || perf[0].GoldPerMin != 400.5 {
		t.Errorf("float fields = %v %v", perf[0].KPAt10, perf[0].GoldPerMin)
	}
}

func TestKillsAndTeams(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.SaveMatch(context.Background(), sampleRows("BR1_1", "br1", 1)); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	kills, err := db.GetMatchKills("BR1_1")
	if err != nil {
		t.Fatalf("GetMatchKills: %v", err)
	}
	if len(kills) != 2 {
		t.Fatalf("expected 2 kills, got %d", len(kills))
	}
	if kills[0].DeathID != "BR1_1_60000_7" || kills[0].IsInBase {
		t.Errorf("first kill = %+v", kills[0])
	}
	if !kills[1].IsInBase || kills[1].PosX != 13000 {
		t.Errorf("second kill = %+v", kills[1])
	}

	teams, err := db.GetMatchTeams("BR1_1")
	if err != nil {
		t.Fatalf("GetMatchTeams: %v", err)
	}
	if len(teams) != 2 || teams[0].TeamID != model.TeamBlue {
		t.Fatalf("teams = %+v", teams)
	}
	if !teams[0].Win || teams[0].InfernalKills != 2 || teams[0].ElderKills != 1 {
		t.Errorf("blue team = %+v", teams[0])
	}
	if teams[1].Win || teams[1].OceanKills != 1 {
		t.Errorf("red team = %+v", teams[1])
	}
}

func TestPlayerQueries(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()
	for i, id := range []string{"BR1_1", "BR1_2"} {
		if _, err := db.SaveMatch(ctx, sampleRows(id, "br1", int64(1000+i))); err != nil {
			t.Fatalf("SaveMatch: %v", err)
		}
	}

	rows, err := db.GetPlayerPerformance("puuid-1")
	if err != nil {
		t.Fatalf("GetPlayerPerformance: %v", err)
	}
	if len(rows) != 2 || rows[0].MatchID != "BR1_2" {
		t.Errorf("player rows = %+v", rows)
	}

	puuid, err := db.FindPlayer("PLAYER3#br1")
	if err != nil {
		t.Fatalf("FindPlayer: %v", err)
	}
	if puuid != "puuid-3" {
		t.Errorf("FindPlayer by name = %q", puuid)
	}
	puuid, _ = db.FindPlayer("nobody")
	if puuid != "" {
		t.Errorf("FindPlayer unknown = %q", puuid)
	}
}

func TestOverviewAndCounts(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview on empty db: %v", err)
	}
	if ov.TotalMatches != 0 || ov.EarliestMatch != "" {
		t.Errorf("empty overview = %+v", ov)
	}

	saves := []struct{ id, platform string }{{"BR1_1", "br1"}, {"BR1_2", "br1"}, {"KR_1", "kr"}}
	for _, s := range saves {
		if _, err := db.SaveMatch(ctx, sampleRows(s.id, s.platform, 1704067200000)); err != nil {
			t.Fatalf("SaveMatch: %v", err)
		}
	}

	ov, err = db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.TotalMatches != 3 || ov.UniquePlayers != 10 || ov.TotalKills != 6 {
		t.Errorf("overview = %+v", ov)
	}
	if ov.EarliestMatch != "2024-01-01" {
		t.Errorf("earliest = %q", ov.EarliestMatch)
	}

	counts, err := db.RegionCounts(ctx)
	if err != nil {
		t.Fatalf("RegionCounts: %v", err)
	}
	if len(counts) != 2 || counts[0].Platform != "br1" || counts[0].Matches != 2 || counts[1].Matches != 1 {
		t.Errorf("counts = %+v", counts)
	}

	champs, err := db.GetTopChampions(2)
	if err != nil {
		t.Fatalf("GetTopChampions: %v", err)
	}
	if len(champs) != 2 {
		t.Fatalf("expected 2 champions, got %d", len(champs))
	}
	// slot%3 spreads ten slots 4/3/3 across Champ1, Champ0, Champ2.
	if champs[0].Champion != "Champ1" || champs[0].Picks != 12 {
		t.Errorf("top champion = %+v", champs[0])
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.SaveMatch(context.Background(), sampleRows("BR1_1", "br1", 1)); err != nil {
		t.Fatalf("SaveMatch: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT team_id, SUM(kills) AS k FROM fact_match_player_performance GROUP BY team_id ORDER BY team_id")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[1] != "k" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 2 || rows[0][0] != "100" || rows[0][1] != "12" || rows[1][1] != "7" {
		t.Errorf("rows = %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
