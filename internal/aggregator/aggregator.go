// Package aggregator rolls stored performance rows up into per-player and
// per-role views.
package aggregator

import (
	"sort"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

// roleOrder is the display order of team positions.
var roleOrder = map[string]int{
	"TOP":     0,
	"JUNGLE":  1,
	"MIDDLE":  2,
	"BOTTOM":  3,
	"UTILITY": 4,
}

// Players accumulates rows by PUUID. The latest non-empty summoner name wins.
// Result is sorted by matches played, then name.
func Players(rows []model.PerformanceRow) []model.PlayerAggregate {
	byPUUID := make(map[string]*model.PlayerAggregate)
	latest := make(map[string]int64)
	var order []string

	for i := range rows {
		r := &rows[i]
		a, ok := byPUUID[r.PUUID]
		if !ok {
			a = &model.PlayerAggregate{PUUID: r.PUUID}
			byPUUID[r.PUUID] = a
			order = append(order, r.PUUID)
		}
		if r.SummonerName != "" && r.GameStartTimestamp >= latest[r.PUUID] {
			a.Name = r.SummonerName
			latest[r.PUUID] = r.GameStartTimestamp
		}
		a.Matches++
		if r.Win {
			a.Wins++
		}
		a.Kills += r.Kills
		a.Deaths += r.Deaths
		a.Assists += r.Assists
		a.GoldPerMin += r.GoldPerMin
		a.CSPerMin += r.CSPerMin
		a.GoldDiffAt10 += r.GoldDiffAt10
		a.CSDiffAt10 += r.CSDiffAt10
		a.XPDiffAt10 += r.XPDiffAt10
		a.SoloKills += r.SoloKills
		a.VisionScore += r.VisionScore
	}

	out := make([]model.PlayerAggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byPUUID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Roles groups rows by team position. Rows without a position are grouped
// under "NONE" and listed last.
func Roles(rows []model.PerformanceRow) []model.RoleStat {
	type acc struct {
		stat      model.RoleStat
		goldDiffs []float64
		cs, xp    int
		kp        float64
	}
	byRole := make(map[string]*acc)

	for i := range rows {
		r := &rows[i]
		role := r.TeamPosition
		if role == "" {
			role = "NONE"
		}
		a, ok := byRole[role]
		if !ok {
			a = &acc{stat: model.RoleStat{Role: role}}
			byRole[role] = a
		}
		a.stat.Games++
		if r.Win {
			a.stat.Wins++
		}
		a.goldDiffs = append(a.goldDiffs, float64(r.GoldDiffAt10))
		a.cs += r.CSDiffAt10
		a.xp += r.XPDiffAt10
		a.kp += r.KillParticipation
	}

	out := make([]model.RoleStat, 0, len(byRole))
	for _, a := range byRole {
		n := float64(a.stat.Games)
		sort.Float64s(a.goldDiffs)
		var sum float64
		for _, d := range a.goldDiffs {
			sum += d
		}
		a.stat.AvgGoldDiffAt10 = sum / n
		a.stat.MedianGoldDiffAt10 = median(a.goldDiffs)
		a.stat.AvgCSDiffAt10 = float64(a.cs) / n
		a.stat.AvgXPDiffAt10 = float64(a.xp) / n
		a.stat.AvgKP = a.kp / n
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool { return rank(out[i].Role) < rank(out[j].Role) })
	return out
}

func rank(role string) int {
	if r, ok := roleOrder[role]; ok {
		return r
	}
	return len(roleOrder)
}

// median returns the median of a pre-sorted (ascending) slice of float64.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
