package assembler

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/riot"
)

var roles = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

// makeMatch builds a ranked solo match of 30 minutes. Slots 1-5 are blue and
// 6-10 red, each side in roles order; blue wins.
func makeMatch(id string) *riot.Match {
	m := &riot.Match{}
	m.Metadata.MatchID = id
	m.Info = riot.MatchInfo{
		GameCreation: 1700000000000,
		GameDuration: 1800,
		GameVersion:  "14.10.1",
		QueueID:      QueueRankedSolo,
		PlatformID:   "BR1",
	}
	for slot := 1; slot <= 10; slot++ {
		team := model.TeamBlue
		if slot > 5 {
			team = model.TeamRed
		}
		m.Info.Participants = append(m.Info.Participants, riot.Participant{
			ParticipantID:        slot,
			PUUID:                "puuid-" + strconv.Itoa(slot),
			RiotIDGameName:       "player" + strconv.Itoa(slot),
			ChampionID:           100 + slot,
			ChampionName:         "Champ" + strconv.Itoa(slot),
			TeamID:               team,
			TeamPosition:         roles[(slot-1)%5],
			Win:                  team == model.TeamBlue,
			GoldEarned:           9000 + slot*100,
			TotalMinionsKilled:   150 + slot,
			NeutralMinionsKilled: 30,
			Challenges:           riot.Challenges{SoloKills: 2, KDA: 3.5, KillParticipation: 0.61},
		})
	}
	m.Info.Teams = []riot.Team{
		{TeamID: model.TeamBlue, Win: true, Objectives: map[string]riot.Objective{
			"baron": {Kills: 1}, "dragon": {Kills: 3}, "tower": {Kills: 9}, "inhibitor": {Kills: 2}, "horde": {Kills: 4},
		}},
		{TeamID: model.TeamRed, Win: false, Objectives: map[string]riot.Objective{
			"dragon": {Kills: 1}, "tower": {Kills: 3},
		}},
	}
	return m
}

// makeTimeline builds one frame per minute up to minutes. Slot s has
// gold = m*(300+7s), lane cs = m*(5+s%4) and xp = m*(350+11s) at minute m.
func makeTimeline(minutes int, events ...riot.Event) *riot.Timeline {
	tl := &riot.Timeline{}
	tl.Info.FrameInterval = 60000
	for m := 0; m <= minutes; m++ {
		f := riot.Frame{Timestamp: int64(m) * 60000, ParticipantFrames: map[string]riot.ParticipantFrame{}}
		for s := 1; s <= 10; s++ {
			f.ParticipantFrames[strconv.Itoa(s)] = riot.ParticipantFrame{
				TotalGold: m * (300 + 7*s), CurrentGold: m * 20,
				MinionsKilled: m * (5 + s%4), XP: m * (350 + 11*s), Level: 1 + m/2,
			}
		}
		tl.Info.Frames = append(tl.Info.Frames, f)
	}
	for _, ev := range events {
		idx := min(int(ev.Timestamp/60000)+1, minutes)
		tl.Info.Frames[idx].Events = append(tl.Info.Frames[idx].Events, ev)
	}
	return tl
}

func killAt(ts int64, killer, victim, x, y int, assists ...int) riot.Event {
	return riot.Event{
		Type: riot.EventChampionKill, Timestamp: ts, KillerID: killer, VictimID: victim,
		AssistingParticipantIDs: assists, Position: &riot.Position{X: x, Y: y},
	}
}

func rowFor(t *testing.T, rows model.MatchRows, slot int) model.PerformanceRow {
	t.Helper()
	for _, r := range rows.Performance {
		if r.PUUID == "puuid-"+strconv.Itoa(slot) {
			return r
		}
	}
	t.Fatalf("no row for slot %d", slot)
	return model.PerformanceRow{}
}

// Two frames (10:00 and 20:00) and a solo kill of slot 2 by slot 1 at 15:00.
func TestSyntheticScenario(t *testing.T) {
	tl := &riot.Timeline{}
	tl.Info.Frames = []riot.Frame{
		{Timestamp: 600000, ParticipantFrames: map[string]riot.ParticipantFrame{"1": {TotalGold: 1000, MinionsKilled: 50}}},
		{Timestamp: 1200000, ParticipantFrames: map[string]riot.ParticipantFrame{"1": {TotalGold: 4000, MinionsKilled: 120}},
			Events: []riot.Event{{Type: riot.EventChampionKill, Timestamp: 900000, KillerID: 1, VictimID: 2}}},
	}

	rows, err := Assemble(makeMatch("BR1_100"), tl, Options{Platform: "br1"})
	require.NoError(t, err)

	p1 := rowFor(t, rows, 1)
	assert.Equal(t, 1000, p1.GoldAt10)
	assert.Equal(t, 50, p1.CSAt10)
	assert.Equal(t, 3000, p1.GoldGain10To20)
	assert.Equal(t, 70, p1.CSGain10To20)
	assert.Equal(t, 1, p1.Kills10To20)

	require.Len(t, rows.Kills, 1)
	assert.Equal(t, "BR1_100_900000_2", rows.Kills[0].DeathID)
	assert.Equal(t, 15.0, rows.Kills[0].EventTimeMin)
}

func TestPerformanceRows(t *testing.T) {
	tl := makeTimeline(30,
		killAt(300000, 1, 6, 5000, 5000),
		killAt(400000, 2, 7, 6000, 6000, 1, 3),
		killAt(500000, 8, 4, 9000, 9000),
		killAt(1300000, 3, 8, 10000, 10000, 2),
		riot.Event{Type: riot.EventEliteMonster, Timestamp: 1500000, KillerID: 2, MonsterType: riot.MonsterBaron},
	)
	rows, err := Assemble(makeMatch("BR1_1"), tl, Options{Platform: "br1", Mastery: map[string]int{"puuid-1": 123456}})
	require.NoError(t, err)
	require.Len(t, rows.Performance, 10)
	assert.Equal(t, "BR1_1", rows.MatchID)

	p1 := rowFor(t, rows, 1)
	assert.Equal(t, "BR1_1-100", p1.MatchTeamKey)
	assert.Equal(t, "player1", p1.SummonerName)
	assert.Equal(t, "br1", p1.Platform)
	assert.Equal(t, 123456, p1.ChampionMastery)
	assert.Equal(t, 0, rowFor(t, rows, 2).ChampionMastery)
	assert.Equal(t, 181, p1.TotalCS)
	assert.Equal(t, 303.33, p1.GoldPerMin) // 9100 / 30
	assert.Equal(t, 6.03, p1.CSPerMin)     // 181 / 30
	assert.Equal(t, 2, p1.SoloKills)

	assert.Equal(t, 10*307, p1.GoldAt10)
	assert.Equal(t, 10*6, p1.CSAt10)
	assert.Equal(t, 6, p1.LevelAt10)
	assert.Equal(t, 10*307-10*20, p1.GoldSpentAt10)
	assert.Equal(t, 1, p1.KillsAt10)
	assert.Equal(t, 1, p1.AssistsAt10)
	assert.Equal(t, 1, p1.SoloKillsAt10)
	// Blue has two kills by minute 10; slot 1 took part in both.
	assert.Equal(t, 1.0, p1.KPAt10)
	assert.Equal(t, 15*307, p1.GoldAt15)
	assert.Equal(t, 10*307, p1.GoldGain10To20)

	p2 := rowFor(t, rows, 2)
	assert.Equal(t, 1, p2.BaronKills20Plus)
	assert.Equal(t, 1, p2.Assists20Plus)
	assert.Equal(t, 0.5, p2.KPAt10)

	p3 := rowFor(t, rows, 3)
	assert.Equal(t, 1, p3.Kills20Plus)
	assert.Equal(t, 1, rowFor(t, rows, 8).Deaths20Plus)
}

func TestOpponentDiffSymmetry(t *testing.T) {
	rows, err := Assemble(makeMatch("KR_7"), makeTimeline(25), Options{})
	require.NoError(t, err)

	for slot := 1; slot <= 5; slot++ {
		a, b := rowFor(t, rows, slot), rowFor(t, rows, slot+5)
		assert.Equal(t, a.TeamPosition, b.TeamPosition)
		assert.Equal(t, a.GoldDiffAt10, -b.GoldDiffAt10, "slot %d", slot)
		assert.Equal(t, a.CSDiffAt10, -b.CSDiffAt10, "slot %d", slot)
		assert.Equal(t, a.XPDiffAt10, -b.XPDiffAt10, "slot %d", slot)
		assert.Equal(t, a.GoldDiffAt15, -b.GoldDiffAt15, "slot %d", slot)
		assert.Equal(t, a.CSDiffAt15, -b.CSDiffAt15, "slot %d", slot)
		assert.Equal(t, a.XPDiffAt15, -b.XPDiffAt15, "slot %d", slot)
		assert.Equal(t, a.GoldAt10-b.GoldAt10, a.GoldDiffAt10)
	}
	// gold at 10 differs by 10*7*5 between lane opponents.
	assert.Equal(t, -350, rowFor(t, rows, 1).GoldDiffAt10)
}

func TestOpponentDiffZeroWithoutOpponent(t *testing.T) {
	m := makeMatch("EUW1_3")
	m.Info.Participants[2].TeamPosition = "" // slot 3, blue MIDDLE
	m.Info.Participants[3].TeamPosition = "UNKNOWN"

	rows, err := Assemble(m, makeTimeline(20), Options{})
	require.NoError(t, err)

	for _, slot := range []int{3, 4, 8, 9} {
		r := rowFor(t, rows, slot)
		assert.Zero(t, r.GoldDiffAt10, "slot %d", slot)
		assert.Zero(t, r.CSDiffAt10, "slot %d", slot)
		assert.Zero(t, r.XPDiffAt15, "slot %d", slot)
	}
	assert.Equal(t, "UNKNOWN", rowFor(t, rows, 3).TeamPosition)
	assert.NotZero(t, rowFor(t, rows, 1).GoldDiffAt10)
}

func TestUnsupportedQueue(t *testing.T) {
	m := makeMatch("NA1_9")
	m.Info.QueueID = 450
	_, err := Assemble(m, nil, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedQueue)

	rows, err := Assemble(m, nil, Options{Queues: []int{450}})
	require.NoError(t, err)
	assert.Len(t, rows.Performance, 10)

	m.Info.QueueID = QueueRankedFlex
	_, err = Assemble(m, nil, Options{})
	assert.NoError(t, err)
}

func TestWithoutTimeline(t *testing.T) {
	rows, err := Assemble(makeMatch("LA1_5"), nil, Options{})
	require.NoError(t, err)
	require.Len(t, rows.Performance, 10)
	assert.Empty(t, rows.Kills)
	require.Len(t, rows.Teams, 2)

	for _, r := range rows.Performance {
		assert.Zero(t, r.GoldAt10)
		assert.Zero(t, r.CSGain10To20)
		assert.Zero(t, r.GoldDiffAt10)
		assert.Equal(t, 1, r.LevelAt10)
		assert.Zero(t, r.KPAt10)
	}
}

func TestKillRows(t *testing.T) {
	tl := makeTimeline(30,
		killAt(200000, 1, 6, 1500, 1200),     // blue fountain corner
		killAt(800000, 7, 2, 13000, 14000),   // red corner
		killAt(900000, 3, 8, 7000, 7000, 1),  // mid
		killAt(900000, 3, 8, 7000, 7000, 1),  // duplicate event
		killAt(1000000, 9, 4, 1900, 12900),   // x low, y high: not a base
		riot.Event{Type: riot.EventChampionKill, Timestamp: 1100000, KillerID: 0, VictimID: 5},
	)
	rows, err := Assemble(makeMatch("OC1_2"), tl, Options{})
	require.NoError(t, err)
	require.Len(t, rows.Kills, 5)

	k := rows.Kills[0]
	assert.Equal(t, "OC1_2_200000_6", k.DeathID)
	assert.Equal(t, 3.33, k.EventTimeMin)
	assert.Equal(t, "puuid-6", k.VictimPUUID)
	assert.Equal(t, "player1", k.KillerName)
	assert.Equal(t, model.TeamRed, k.VictimTeamID)
	assert.True(t, k.IsInBase)

	assert.True(t, rows.Kills[1].IsInBase)
	assert.False(t, rows.Kills[2].IsInBase)
	assert.False(t, rows.Kills[3].IsInBase)

	exec := rows.Kills[4]
	assert.Equal(t, 0, exec.KillerID)
	assert.Empty(t, exec.KillerPUUID)
	assert.False(t, exec.IsInBase, "no position")
}

func TestIsInBase(t *testing.T) {
	assert.True(t, IsInBase(0, 0))
	assert.True(t, IsInBase(1999, 1999))
	assert.False(t, IsInBase(2000, 1000))
	assert.True(t, IsInBase(12801, 14000))
	assert.False(t, IsInBase(12800, 14000))
	assert.False(t, IsInBase(7000, 7000))
}

func TestTeamRows(t *testing.T) {
	dragon := func(ts int64, killer int, sub string) riot.Event {
		return riot.Event{Type: riot.EventEliteMonster, Timestamp: ts, KillerID: killer, MonsterType: riot.MonsterDragon, MonsterSubType: sub}
	}
	tl := makeTimeline(35,
		dragon(400000, 2, "FIRE_DRAGON"),
		dragon(900000, 2, "FIRE_DRAGON"),
		dragon(1400000, 7, "HEX_DRAGON"),
		dragon(1900000, 2, "AIR_DRAGON"),
		dragon(2050000, 2, "ELDER_DRAGON"),
	)
	rows, err := Assemble(makeMatch("TR1_4"), tl, Options{})
	require.NoError(t, err)
	require.Len(t, rows.Teams, 2)

	blue, red := rows.Teams[0], rows.Teams[1]
	assert.Equal(t, "TR1_4-100", blue.MatchTeamKey)
	assert.True(t, blue.Win)
	assert.Equal(t, 1, blue.BaronKills)
	assert.Equal(t, 3, blue.DragonKills)
	assert.Equal(t, 9, blue.TowerKills)
	assert.Equal(t, 2, blue.InhibitorKills)
	assert.Equal(t, 4, blue.HordeKills)
	assert.Equal(t, 2, blue.InfernalKills)
	assert.Equal(t, 1, blue.CloudKills)
	assert.Equal(t, 1, blue.ElderKills)
	assert.Zero(t, blue.HextechKills)

	assert.False(t, red.Win)
	assert.Zero(t, red.BaronKills)
	assert.Equal(t, 1, red.HextechKills)
}
