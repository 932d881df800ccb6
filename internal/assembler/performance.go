package assembler

import (
	"fmt"

	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/riot"
	"github.com/marquin311/analytics-do-vale/internal/timeline"
)

type snapshots struct {
	at10, at15 timeline.Snapshot
	mid, late  timeline.Window
}

func performanceRows(m *riot.Match, parts participants, s snapshots, opts Options) []model.PerformanceRow {
	info := m.Info
	matchID := m.Metadata.MatchID

	teamKillsAt10 := make(map[int]int, 2)
	for _, p := range parts.list {
		teamKillsAt10[p.TeamID] += s.at10.Get(p.ParticipantID).Kills
	}

	minutes := float64(info.GameDuration) / 60
	rows := make([]model.PerformanceRow, 0, len(parts.list))
	for i := range parts.list {
		p := &parts.list[i]
		e10, e15 := s.at10.Get(p.ParticipantID), s.at15.Get(p.ParticipantID)
		mid, late := s.mid.Get(p.ParticipantID), s.late.Get(p.ParticipantID)
		totalCS := p.TotalMinionsKilled + p.NeutralMinionsKilled

		r := model.PerformanceRow{
			MatchID:            matchID,
			MatchTeamKey:       fmt.Sprintf("%s-%d", matchID, p.TeamID),
			PUUID:              p.PUUID,
			SummonerName:       p.DisplayName(),
			Platform:           opts.Platform,
			QueueID:            info.QueueID,
			GameVersion:        info.GameVersion,
			GameDurationSec:    info.GameDuration,
			GameStartTimestamp: info.GameCreation,
			ChampionName:       p.ChampionName,
			ChampionID:         p.ChampionID,
			TeamID:             p.TeamID,
			TeamPosition:       position(p.TeamPosition),
			Win:                p.Win,

			TotalGoldEarned:      p.GoldEarned,
			GoldSpent:            p.GoldSpent,
			TotalCS:              totalCS,
			NeutralMinionsKilled: p.NeutralMinionsKilled,

			PrimaryRuneID:    p.Perks.Keystone(),
			SecondaryStyleID: p.Perks.SecondaryStyle(),
			SummonerSpell1:   p.Summoner1ID,
			SummonerSpell2:   p.Summoner2ID,
			ChampionMastery:  opts.Mastery[p.PUUID],

			Kills:   p.Kills,
			Deaths:  p.Deaths,
			Assists: p.Assists,

			TotalDamageDealt:    p.TotalDamageDealtToChampions,
			PhysicalDamageDealt: p.PhysicalDamageDealtToChampions,
			MagicDamageDealt:    p.MagicDamageDealtToChampions,
			TrueDamageDealt:     p.TrueDamageDealtToChampions,
			TotalDamageTaken:    p.TotalDamageTaken,
			DamageSelfMitigated: p.DamageSelfMitigated,
			DamageToObjectives:  p.DamageDealtToObjectives,

			VisionScore:             p.VisionScore,
			VisionWardsBought:       p.VisionWardsBoughtInGame,
			TimeCCOthers:            p.TimeCCingOthers,
			TotalHealsOnTeammates:   p.TotalHealsOnTeammates,
			TotalShieldsOnTeammates: p.TotalDamageShieldedOnTeammates,
			TotalTimeSpentDead:      p.TotalTimeSpentDead,

			SoloKills:         int(p.Challenges.SoloKills),
			Multikills:        int(p.Challenges.Multikills),
			Pentakills:        p.PentaKills,
			ObjectivesStolen:  int(p.Challenges.ObjectivesStolen),
			SkillshotsDodged:  int(p.Challenges.SkillshotsDodged),
			FirstBloodKill:    p.FirstBloodKill,
			SpellVamp:         p.SpellVamp + p.PhysicalVamp,
			KDA:               p.Challenges.KDA,
			KillParticipation: p.Challenges.KillParticipation,

			Items: p.Items(),

			CSAt10:                 e10.CS(),
			JungleCSAt10:           e10.JungleCS,
			LaneCSAt10:             e10.LaneCS,
			GoldAt10:               e10.TotalGold,
			XPAt10:                 e10.XP,
			LevelAt10:              e10.Level,
			KillsAt10:              e10.Kills,
			DeathsAt10:             e10.Deaths,
			AssistsAt10:            e10.Assists,
			SoloKillsAt10:          e10.SoloKills,
			TurretPlatesTaken:      e10.Plates,
			KPAt10:                 round2(float64(e10.Kills+e10.Assists) / float64(max(teamKillsAt10[p.TeamID], 1))),
			GoldSpentAt10:          e10.GoldSpent(),
			WardsPlacedAt10:        e10.WardsPlaced,
			ControlWardsPlacedAt10: e10.ControlWardsPlaced,
			WardsKilledAt10:        e10.WardsKilled,

			CSAt15:   e15.CS(),
			GoldAt15: e15.TotalGold,
			XPAt15:   e15.XP,

			GoldGain10To20: mid.Gold,
			XPGain10To20:   mid.XP,
			CSGain10To20:   mid.CS,
			Kills10To20:    mid.Kills,
			Deaths10To20:   mid.Deaths,
			Assists10To20:  mid.Assists,

			Kills20Plus:      late.Kills,
			Deaths20Plus:     late.Deaths,
			Assists20Plus:    late.Assists,
			BaronKills20Plus: late.Barons,
		}
		if minutes > 0 {
			r.GoldPerMin = round2(float64(p.GoldEarned) / minutes)
			r.CSPerMin = round2(float64(totalCS) / minutes)
		}

		if opp := laneOpponent(parts.list, p); opp != nil {
			o10, o15 := s.at10.Get(opp.ParticipantID), s.at15.Get(opp.ParticipantID)
			r.CSDiffAt10 = r.CSAt10 - o10.CS()
			r.GoldDiffAt10 = r.GoldAt10 - o10.TotalGold
			r.XPDiffAt10 = r.XPAt10 - o10.XP
			r.CSDiffAt15 = r.CSAt15 - o15.CS()
			r.GoldDiffAt15 = r.GoldAt15 - o15.TotalGold
			r.XPDiffAt15 = r.XPAt15 - o15.XP
		}
		rows = append(rows, r)
	}
	return rows
}

// unknownPosition is stored when the API leaves teamPosition empty.
const unknownPosition = "UNKNOWN"

func position(p string) string {
	if p == "" {
		return unknownPosition
	}
	return p
}

// laneOpponent returns the first participant of the other team playing the
// same role, or nil when the role is unknown or has no counterpart.
func laneOpponent(list []riot.Participant, p *riot.Participant) *riot.Participant {
	if position(p.TeamPosition) == unknownPosition {
		return nil
	}
	for i := range list {
		q := &list[i]
		if q.TeamID != p.TeamID && q.TeamPosition == p.TeamPosition {
			return q
		}
	}
	return nil
}
