package storage

import (
	"fmt"
	"strings"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

// Table names and their natural keys. Both backends share them.
const (
	TablePerformance = "fact_match_player_performance"
	TableKills       = "fact_kill_events"
	TableTeams       = "fact_match_teams"
)

// Conflict keys per table.
var (
	PerformanceKey = []string{"match_id", "puuid"}
	KillKey        = []string{"death_id"}
	TeamKey        = []string{"match_id", "team_id"}
)

// Column pairs a column name with the accessor of its value.
type Column[T any] struct {
	Name  string
	Value func(*T) any
}

type perf = model.PerformanceRow

// PerformanceColumns lists every stored column of a performance row.
var PerformanceColumns = []Column[perf]{
	{"match_id", func(r *perf) any { return r.MatchID }},
	{"match_team_key", func(r *perf) any { return r.MatchTeamKey }},
	{"puuid", func(r *perf) any { return r.PUUID }},
	{"summoner_name", func(r *perf) any { return r.SummonerName }},
	{"platform", func(r *perf) any { return r.Platform }},
	{"queue_id", func(r *perf) any { return r.QueueID }},
	{"game_version", func(r *perf) any { return r.GameVersion }},
	{"game_duration_sec", func(r *perf) any { return r.GameDurationSec }},
	{"game_start_timestamp", func(r *perf) any { return r.GameStartTimestamp }},
	{"champion_name", func(r *perf) any { return r.ChampionName }},
	{"champion_id", func(r *perf) any { return r.ChampionID }},
	{"team_id", func(r *perf) any { return r.TeamID }},
	{"team_position", func(r *perf) any { return r.TeamPosition }},
	{"win", func(r *perf) any { return r.Win }},

	{"total_gold_earned", func(r *perf) any { return r.TotalGoldEarned }},
	{"gold_spent", func(r *perf) any { return r.GoldSpent }},
	{"total_cs", func(r *perf) any { return r.TotalCS }},
	{"neutral_minions_killed", func(r *perf) any { return r.NeutralMinionsKilled }},

	{"primary_rune_id", func(r *perf) any { return r.PrimaryRuneID }},
	{"secondary_style_id", func(r *perf) any { return r.SecondaryStyleID }},
	{"summoner_spell1", func(r *perf) any { return r.SummonerSpell1 }},
	{"summoner_spell2", func(r *perf) any { return r.SummonerSpell2 }},
	{"champion_mastery", func(r *perf) any { return r.ChampionMastery }},

	{"kills", func(r *perf) any { return r.Kills }},
	{"deaths", func(r *perf) any { return r.Deaths }},
	{"assists", func(r *perf) any { return r.Assists }},

	{"total_damage_dealt", func(r *perf) any { return r.TotalDamageDealt }},
	{"physical_damage_dealt", func(r *perf) any { return r.PhysicalDamageDealt }},
	{"magic_damage_dealt", func(r *perf) any { return r.MagicDamageDealt }},
	{"true_damage_dealt", func(r *perf) any { return r.TrueDamageDealt }},
	{"total_damage_taken", func(r *perf) any { return r.TotalDamageTaken }},
	{"damage_self_mitigated", func(r *perf) any { return r.DamageSelfMitigated }},
	{"damage_to_objectives", func(r *perf) any { return r.DamageToObjectives }},

	{"vision_score", func(r *perf) any { return r.VisionScore }},
	{"vision_wards_bought", func(r *perf) any { return r.VisionWardsBought }},
	{"time_cc_others", func(r *perf) any { return r.TimeCCOthers }},
	{"total_heals_on_teammates", func(r *perf) any { return r.TotalHealsOnTeammates }},
	{"total_shields_on_teammates", func(r *perf) any { return r.TotalShieldsOnTeammates }},
	{"total_time_spent_dead", func(r *perf) any { return r.TotalTimeSpentDead }},

	{"solo_kills", func(r *perf) any { return r.SoloKills }},
	{"multikills", func(r *perf) any { return r.Multikills }},
	{"pentakills", func(r *perf) any { return r.Pentakills }},
	{"objectives_stolen", func(r *perf) any { return r.ObjectivesStolen }},
	{"skillshots_dodged", func(r *perf) any { return r.SkillshotsDodged }},
	{"first_blood_kill", func(r *perf) any { return r.FirstBloodKill }},
	{"spell_vamp", func(r *perf) any { return r.SpellVamp }},
	{"kda", func(r *perf) any { return r.KDA }},
	{"kill_participation", func(r *perf) any { return r.KillParticipation }},

	{"item0", func(r *perf) any { return r.Items[0] }},
	{"item1", func(r *perf) any { return r.Items[1] }},
	{"item2", func(r *perf) any { return r.Items[2] }},
	{"item3", func(r *perf) any { return r.Items[3] }},
	{"item4", func(r *perf) any { return r.Items[4] }},
	{"item5", func(r *perf) any { return r.Items[5] }},
	{"item6", func(r *perf) any { return r.Items[6] }},

	{"gold_per_min", func(r *perf) any { return r.GoldPerMin }},
	{"cs_per_min", func(r *perf) any { return r.CSPerMin }},

	{"cs_at_10", func(r *perf) any { return r.CSAt10 }},
	{"jungle_cs_at_10", func(r *perf) any { return r.JungleCSAt10 }},
	{"lane_cs_at_10", func(r *perf) any { return r.LaneCSAt10 }},
	{"gold_at_10", func(r *perf) any { return r.GoldAt10 }},
	{"xp_at_10", func(r *perf) any { return r.XPAt10 }},
	{"level_at_10", func(r *perf) any { return r.LevelAt10 }},
	{"kills_at_10", func(r *perf) any { return r.KillsAt10 }},
	{"deaths_at_10", func(r *perf) any { return r.DeathsAt10 }},
	{"assists_at_10", func(r *perf) any { return r.AssistsAt10 }},
	{"solo_kills_at_10", func(r *perf) any { return r.SoloKillsAt10 }},
	{"turret_plates_taken", func(r *perf) any { return r.TurretPlatesTaken }},
	{"kp_at_10", func(r *perf) any { return r.KPAt10 }},
	{"gold_spent_at_10", func(r *perf) any { return r.GoldSpentAt10 }},
	{"wards_placed_at_10", func(r *perf) any { return r.WardsPlacedAt10 }},
	{"control_wards_placed_at_10", func(r *perf) any { return r.ControlWardsPlacedAt10 }},
	{"wards_killed_at_10", func(r *perf) any { return r.WardsKilledAt10 }},

	{"cs_at_15", func(r *perf) any { return r.CSAt15 }},
	{"gold_at_15", func(r *perf) any { return r.GoldAt15 }},
	{"xp_at_15", func(r *perf) any { return r.XPAt15 }},

	{"gold_gain_10_20", func(r *perf) any { return r.GoldGain10To20 }},
	{"xp_gain_10_20", func(r *perf) any { return r.XPGain10To20 }},
	{"cs_gain_10_20", func(r *perf) any { return r.CSGain10To20 }},
	{"kills_10_20", func(r *perf) any { return r.Kills10To20 }},
	{"deaths_10_20", func(r *perf) any { return r.Deaths10To20 }},
	{"assists_10_20", func(r *perf) any { return r.Assists10To20 }},

	{"kills_20_plus", func(r *perf) any { return r.Kills20Plus }},
	{"deaths_20_plus", func(r *perf) any { return r.Deaths20Plus }},
	{"assists_20_plus", func(r *perf) any { return r.Assists20Plus }},
	{"baron_kills_20_plus", func(r *perf) any { return r.BaronKills20Plus }},

	{"cs_diff_at_10", func(r *perf) any { return r.CSDiffAt10 }},
	{"gold_diff_at_10", func(r *perf) any { return r.GoldDiffAt10 }},
	{"xp_diff_at_10", func(r *perf) any { return r.XPDiffAt10 }},
	{"cs_diff_at_15", func(r *perf) any { return r.CSDiffAt15 }},
	{"gold_diff_at_15", func(r *perf) any { return r.GoldDiffAt15 }},
	{"xp_diff_at_15", func(r *perf) any { return r.XPDiffAt15 }},
}

type kill = model.KillRow

// KillColumns lists every stored column of a kill row.
var KillColumns = []Column[kill]{
	{"death_id", func(r *kill) any { return r.DeathID }},
	{"match_id", func(r *kill) any { return r.MatchID }},
	{"event_time_min", func(r *kill) any { return r.EventTimeMin }},
	{"victim_id", func(r *kill) any { return r.VictimID }},
	{"victim_puuid", func(r *kill) any { return r.VictimPUUID }},
	{"victim_name", func(r *kill) any { return r.VictimName }},
	{"victim_team_id", func(r *kill) any { return r.VictimTeamID }},
	{"killer_id", func(r *kill) any { return r.KillerID }},
	{"killer_puuid", func(r *kill) any { return r.KillerPUUID }},
	{"killer_name", func(r *kill) any { return r.KillerName }},
	{"pos_x", func(r *kill) any { return r.PosX }},
	{"pos_y", func(r *kill) any { return r.PosY }},
	{"is_in_base", func(r *kill) any { return r.IsInBase }},
}

type team = model.TeamRow

// TeamColumns lists every stored column of a team row.
var TeamColumns = []Column[team]{
	{"match_id", func(r *team) any { return r.MatchID }},
	{"match_team_key", func(r *team) any { return r.MatchTeamKey }},
	{"team_id", func(r *team) any { return r.TeamID }},
	{"win", func(r *team) any { return r.Win }},
	{"baron_kills", func(r *team) any { return r.BaronKills }},
	{"dragon_kills", func(r *team) any { return r.DragonKills }},
	{"tower_kills", func(r *team) any { return r.TowerKills }},
	{"inhibitor_kills", func(r *team) any { return r.InhibitorKills }},
	{"horde_kills", func(r *team) any { return r.HordeKills }},
	{"cloud_kills", func(r *team) any { return r.CloudKills }},
	{"infernal_kills", func(r *team) any { return r.InfernalKills }},
	{"mountain_kills", func(r *team) any { return r.MountainKills }},
	{"ocean_kills", func(r *team) any { return r.OceanKills }},
	{"hextech_kills", func(r *team) any { return r.HextechKills }},
	{"chemtech_kills", func(r *team) any { return r.ChemtechKills }},
	{"elder_kills", func(r *team) any { return r.ElderKills }},
}

// InsertIgnoreSQL builds an insert that does nothing when the conflict key
// already exists. placeholder returns the bind marker for 1-based position i.
func InsertIgnoreSQL[T any](table string, cols []Column[T], key []string, placeholder func(i int) string) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		marks[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		table, strings.Join(names, ", "), strings.Join(marks, ", "), strings.Join(key, ", "))
}

// Values returns the column values of r in column order.
func Values[T any](cols []Column[T], r *T) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = c.Value(r)
	}
	return out
}
