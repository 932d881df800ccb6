package timeline

import (
	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/riot"
)

// Dragon subtypes as sent in monsterSubType.
const (
	DragonCloud    = "AIR_DRAGON"
	DragonInfernal = "FIRE_DRAGON"
	DragonMountain = "EARTH_DRAGON"
	DragonOcean    = "WATER_DRAGON"
	DragonHextech  = "HEX_DRAGON"
	DragonChemtech = "CHEM_DRAGON"
	DragonElder    = "ELDER_DRAGON"
)

// DragonSubtypes lists every subtype that is counted.
var DragonSubtypes = []string{
	DragonCloud, DragonInfernal, DragonMountain, DragonOcean,
	DragonHextech, DragonChemtech, DragonElder,
}

// DragonCounts maps subtype to kills.
type DragonCounts map[string]int

// CountDragons buckets every dragon kill of the whole match by the killing
// team and subtype. slotTeam maps participant slot to team id; when the killer
// slot is unknown the event's killerTeamId is used. Both teams are always
// present; unknown subtypes are ignored.
func CountDragons(tl *riot.Timeline, slotTeam map[int]int) map[int]DragonCounts {
	out := map[int]DragonCounts{
		model.TeamBlue: emptyDragons(),
		model.TeamRed:  emptyDragons(),
	}
	eachEvent(tl, func(ev *riot.Event) {
		if ev.Type != riot.EventEliteMonster || ev.MonsterType != riot.MonsterDragon {
			return
		}
		team, ok := slotTeam[ev.KillerID]
		if !ok {
			team = ev.KillerTeamID
		}
		counts, ok := out[team]
		if !ok {
			return
		}
		if _, known := counts[ev.MonsterSubType]; known {
			counts[ev.MonsterSubType]++
		}
	})
	return out
}

func emptyDragons() DragonCounts {
	c := make(DragonCounts, len(DragonSubtypes))
	for _, s := range DragonSubtypes {
		c[s] = 0
	}
	return c
}
