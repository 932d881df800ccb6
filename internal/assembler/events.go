package assembler

import (
	"fmt"

	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/riot"
	"github.com/marquin311/analytics-do-vale/internal/timeline"
)

// killRows makes one row per champion kill of the whole match. A kill without
// a position is stored at (0,0) and never counts as in base.
func killRows(matchID string, tl *riot.Timeline, parts participants) []model.KillRow {
	kills := timeline.ChampionKills(tl)
	out := make([]model.KillRow, 0, len(kills))
	seen := make(map[string]struct{}, len(kills))
	for _, ev := range kills {
		id := DeathID(matchID, ev.Timestamp, ev.VictimID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		r := model.KillRow{
			DeathID:      id,
			MatchID:      matchID,
			EventTimeMin: round2(float64(ev.Timestamp) / timeline.MinuteMS),
			VictimID:     ev.VictimID,
			VictimPUUID:  parts.puuid[ev.VictimID],
			VictimName:   parts.name[ev.VictimID],
			VictimTeamID: parts.team[ev.VictimID],
			KillerID:     ev.KillerID,
			KillerPUUID:  parts.puuid[ev.KillerID],
			KillerName:   parts.name[ev.KillerID],
		}
		if ev.Position != nil {
			r.PosX, r.PosY = ev.Position.X, ev.Position.Y
			r.IsInBase = IsInBase(r.PosX, r.PosY)
		}
		out = append(out, r)
	}
	return out
}

func teamRows(matchID string, teams []riot.Team, dragons map[int]timeline.DragonCounts) []model.TeamRow {
	out := make([]model.TeamRow, 0, len(teams))
	for _, t := range teams {
		d := dragons[t.TeamID]
		out = append(out, model.TeamRow{
			MatchID:        matchID,
			MatchTeamKey:   fmt.Sprintf("%s-%d", matchID, t.TeamID),
			TeamID:         t.TeamID,
			Win:            t.Win,
			BaronKills:     t.Objectives["baron"].Kills,
			DragonKills:    t.Objectives["dragon"].Kills,
			TowerKills:     t.Objectives["tower"].Kills,
			InhibitorKills: t.Objectives["inhibitor"].Kills,
			HordeKills:     t.Objectives["horde"].Kills,
			CloudKills:     d[timeline.DragonCloud],
			InfernalKills:  d[timeline.DragonInfernal],
			MountainKills:  d[timeline.DragonMountain],
			OceanKills:     d[timeline.DragonOcean],
			HextechKills:   d[timeline.DragonHextech],
			ChemtechKills:  d[timeline.DragonChemtech],
			ElderKills:     d[timeline.DragonElder],
		})
	}
	return out
}
