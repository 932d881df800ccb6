package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

// MatchExists returns true if performance rows for the match are already stored.
func (db *DB) MatchExists(ctx context.Context, matchID string) (bool, error) {
	var exists int
	err := db.conn.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+TablePerformance+" WHERE match_id = ?)", matchID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}

// SaveMatch writes the three row sets of a match, each in its own transaction.
// Rows whose natural key is already present are left untouched. Performance
// rows go last and are skipped when another set failed, so MatchExists stays
// false until the whole match is stored.
func (db *DB) SaveMatch(ctx context.Context, rows model.MatchRows) (model.SaveResult, error) {
	var res model.SaveResult
	var errs []error

	n, err := insertIgnore(ctx, db.conn, TableTeams, TeamColumns, TeamKey, rows.Teams)
	res.Teams = n
	if err != nil {
		errs = append(errs, fmt.Errorf("insert %s: %w", TableTeams, err))
	}
	n, err = insertIgnore(ctx, db.conn, TableKills, KillColumns, KillKey, rows.Kills)
	res.Kills = n
	if err != nil {
		errs = append(errs, fmt.Errorf("insert %s: %w", TableKills, err))
	}
	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}

	n, err = insertIgnore(ctx, db.conn, TablePerformance, PerformanceColumns, PerformanceKey, rows.Performance)
	res.Performance = n
	if err != nil {
		return res, fmt.Errorf("insert %s: %w", TablePerformance, err)
	}
	return res, nil
}

func insertIgnore[T any](ctx context.Context, conn *sql.DB, table string, cols []Column[T], key []string, rows []T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, InsertIgnoreSQL(table, cols, key, func(int) string { return "?" }))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for i := range rows {
		res, err := stmt.ExecContext(ctx, sqliteArgs(Values(cols, &rows[i]))...)
		if err != nil {
			return 0, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// sqliteArgs stores booleans as 0/1 integers.
func sqliteArgs(vals []any) []any {
	for i, v := range vals {
		if b, ok := v.(bool); ok {
			vals[i] = boolInt(b)
		}
	}
	return vals
}

const matchSummaryColumns = `
	SELECT match_id, MAX(platform), MAX(queue_id), MAX(game_version),
	       MAX(game_duration_sec), MAX(game_start_timestamp),
	       MAX(CASE WHEN team_id = 100 AND win = 1 THEN 1 ELSE 0 END),
	       SUM(CASE WHEN team_id = 100 THEN kills ELSE 0 END),
	       SUM(CASE WHEN team_id = 200 THEN kills ELSE 0 END)
	FROM ` + TablePerformance

func scanMatchSummary(sc interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var s model.MatchSummary
	var blueWinInt int
	err := sc.Scan(&s.MatchID, &s.Platform, &s.QueueID, &s.GameVersion,
		&s.GameDurationSec, &s.GameStartTimestamp, &blueWinInt, &s.BlueKills, &s.RedKills)
	s.BlueWin = blueWinInt != 0
	return s, err
}

// ListMatches returns stored matches, newest first. limit <= 0 returns all.
func (db *DB) ListMatches(limit int) ([]model.MatchSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(matchSummaryColumns+`
		GROUP BY match_id
		ORDER BY MAX(game_start_timestamp) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatchSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(matchSummaryColumns+`
		WHERE match_id LIKE ?
		GROUP BY match_id
		ORDER BY match_id
		LIMIT 1`, prefix+"%")
	s, err := scanMatchSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const performanceSelect = `
	SELECT match_id, puuid, summoner_name, platform, queue_id, game_start_timestamp,
	       game_duration_sec, champion_name, champion_id, team_id, team_position, win,
	       kills, deaths, assists, total_cs, total_gold_earned, gold_per_min, cs_per_min,
	       vision_score, solo_kills, champion_mastery,
	       cs_at_10, gold_at_10, xp_at_10, level_at_10, kp_at_10,
	       cs_diff_at_10, gold_diff_at_10, xp_diff_at_10,
	       cs_diff_at_15, gold_diff_at_15, xp_diff_at_15
	FROM ` + TablePerformance

func scanPerformance(rows *sql.Rows) ([]model.PerformanceRow, error) {
	defer rows.Close()
	var out []model.PerformanceRow
	for rows.Next() {
		var r model.PerformanceRow
		var winInt int
		if err := rows.Scan(&r.MatchID, &r.PUUID, &r.SummonerName, &r.Platform, &r.QueueID,
			&r.GameStartTimestamp, &r.GameDurationSec, &r.ChampionName, &r.ChampionID,
			&r.TeamID, &r.TeamPosition, &winInt,
			&r.Kills, &r.Deaths, &r.Assists, &r.TotalCS, &r.TotalGoldEarned,
			&r.GoldPerMin, &r.CSPerMin, &r.VisionScore, &r.SoloKills, &r.ChampionMastery,
			&r.CSAt10, &r.GoldAt10, &r.XPAt10, &r.LevelAt10, &r.KPAt10,
			&r.CSDiffAt10, &r.GoldDiffAt10, &r.XPDiffAt10,
			&r.CSDiffAt15, &r.GoldDiffAt15, &r.XPDiffAt15); err != nil {
			return nil, err
		}
		r.Win = winInt != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetMatchPerformance returns the performance rows of one match, blue team
// first, each team in role order.
func (db *DB) GetMatchPerformance(matchID string) ([]model.PerformanceRow, error) {
	rows, err := db.conn.Query(performanceSelect+`
		WHERE match_id = ?
		ORDER BY team_id,
		         CASE team_position
		             WHEN 'TOP' THEN 1 WHEN 'JUNGLE' THEN 2 WHEN 'MIDDLE' THEN 3
		             WHEN 'BOTTOM' THEN 4 WHEN 'UTILITY' THEN 5 ELSE 6
		         END`, matchID)
	if err != nil {
		return nil, err
	}
	return scanPerformance(rows)
}

// GetPlayerPerformance returns every stored row of a player, newest first.
func (db *DB) GetPlayerPerformance(puuid string) ([]model.PerformanceRow, error) {
	rows, err := db.conn.Query(performanceSelect+`
		WHERE puuid = ?
		ORDER BY game_start_timestamp DESC`, puuid)
	if err != nil {
		return nil, err
	}
	return scanPerformance(rows)
}

// FindPlayer resolves a summoner name (case-insensitive, "name#tag" form) or a
// puuid prefix to a stored puuid. Returns "" when nothing matches.
func (db *DB) FindPlayer(query string) (string, error) {
	var puuid string
	err := db.conn.QueryRow(`
		SELECT puuid FROM `+TablePerformance+`
		WHERE puuid LIKE ? OR LOWER(summoner_name) = LOWER(?)
		ORDER BY game_start_timestamp DESC
		LIMIT 1`, query+"%", query).Scan(&puuid)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return puuid, err
}

// GetMatchKills returns the kill rows of one match in time order.
func (db *DB) GetMatchKills(matchID string) ([]model.KillRow, error) {
	rows, err := db.conn.Query(`
		SELECT death_id, match_id, event_time_min, victim_id, victim_puuid, victim_name,
		       victim_team_id, killer_id, killer_puuid, killer_name, pos_x, pos_y, is_in_base
		FROM `+TableKills+`
		WHERE match_id = ?
		ORDER BY event_time_min, death_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.KillRow
	for rows.Next() {
		var k model.KillRow
		var inBaseInt int
		if err := rows.Scan(&k.DeathID, &k.MatchID, &k.EventTimeMin, &k.VictimID, &k.VictimPUUID,
			&k.VictimName, &k.VictimTeamID, &k.KillerID, &k.KillerPUUID, &k.KillerName,
			&k.PosX, &k.PosY, &inBaseInt); err != nil {
			return nil, err
		}
		k.IsInBase = inBaseInt != 0
		out = append(out, k)
	}
	return out, rows.Err()
}

// GetMatchTeams returns the objective rows of one match ordered by team id.
func (db *DB) GetMatchTeams(matchID string) ([]model.TeamRow, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, match_team_key, team_id, win, baron_kills, dragon_kills, tower_kills,
		       inhibitor_kills, horde_kills, cloud_kills, infernal_kills, mountain_kills,
		       ocean_kills, hextech_kills, chemtech_kills, elder_kills
		FROM `+TableTeams+`
		WHERE match_id = ?
		ORDER BY team_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamRow
	for rows.Next() {
		var t model.TeamRow
		var winInt int
		if err := rows.Scan(&t.MatchID, &t.MatchTeamKey, &t.TeamID, &winInt, &t.BaronKills,
			&t.DragonKills, &t.TowerKills, &t.InhibitorKills, &t.HordeKills, &t.CloudKills,
			&t.InfernalKills, &t.MountainKills, &t.OceanKills, &t.HextechKills,
			&t.ChemtechKills, &t.ElderKills); err != nil {
			return nil, err
		}
		t.Win = winInt != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetDBOverview returns high-level counts across the store.
func (db *DB) GetDBOverview() (model.DBOverview, error) {
	var ov model.DBOverview
	err := db.conn.QueryRow(`
		SELECT COUNT(DISTINCT match_id), COUNT(DISTINCT puuid),
		       COALESCE(strftime('%Y-%m-%d', MIN(game_start_timestamp) / 1000, 'unixepoch'), ''),
		       COALESCE(strftime('%Y-%m-%d', MAX(game_start_timestamp) / 1000, 'unixepoch'), '')
		FROM `+TablePerformance).
		Scan(&ov.TotalMatches, &ov.UniquePlayers, &ov.EarliestMatch, &ov.LatestMatch)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow("SELECT COUNT(1) FROM " + TableKills).Scan(&ov.TotalKills)
	return ov, err
}

// RegionCounts returns the number of distinct matches stored per platform.
func (db *DB) RegionCounts(ctx context.Context) ([]model.PlatformCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT platform, COUNT(DISTINCT match_id)
		FROM `+TablePerformance+`
		GROUP BY platform
		ORDER BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlatformCount
	for rows.Next() {
		var c model.PlatformCount
		if err := rows.Scan(&c.Platform, &c.Matches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetTopChampions returns the most picked champions with their wins.
func (db *DB) GetTopChampions(limit int) ([]model.ChampionStat, error) {
	rows, err := db.conn.Query(`
		SELECT champion_name, COUNT(1), SUM(win)
		FROM `+TablePerformance+`
		GROUP BY champion_name
		ORDER BY COUNT(1) DESC, champion_name
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChampionStat
	for rows.Next() {
		var c model.ChampionStat
		if err := rows.Scan(&c.Champion, &c.Picks, &c.Wins); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch t := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(t)
			default:
				row[i] = fmt.Sprint(t)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
