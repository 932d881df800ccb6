// Package timeline reduces a match timeline to per-player state at fixed
// minute marks. Every function here is pure: the timeline is never modified
// and each call can be computed on its own.
package timeline

import (
	"strconv"

	"github.com/marquin311/analytics-do-vale/internal/riot"
)

const (
	// MinuteMS is one minute of game time in event timestamps.
	MinuteMS = 60000
	// Slots is the number of participants in a 5v5 match.
	Slots = 10

	defaultFrameInterval = MinuteMS
)

// PlayerState is a player's cumulative state at a minute mark.
type PlayerState struct {
	// From the selected frame.
	LaneCS      int
	JungleCS    int
	TotalGold   int
	CurrentGold int
	XP          int
	Level       int

	// From events up to the minute mark.
	Kills              int
	Deaths             int
	Assists            int
	SoloKills          int
	Plates             int
	WardsPlaced        int
	ControlWardsPlaced int
	WardsKilled        int
}

// CS returns lane plus jungle creep score.
func (p PlayerState) CS() int { return p.LaneCS + p.JungleCS }

// GoldSpent returns gold earned so far minus gold still held.
func (p PlayerState) GoldSpent() int { return p.TotalGold - p.CurrentGold }

// Snapshot maps participant slot (1-based) to state.
type Snapshot map[int]*PlayerState

// Get returns the state of a slot, or a zero state at level 1 when absent.
func (s Snapshot) Get(slot int) PlayerState {
	if st, ok := s[slot]; ok {
		return *st
	}
	return PlayerState{Level: 1}
}

func (s Snapshot) at(slot int) *PlayerState {
	st, ok := s[slot]
	if !ok {
		st = &PlayerState{Level: 1}
		s[slot] = st
	}
	return st
}

func newSnapshot() Snapshot {
	s := make(Snapshot, Slots)
	for i := 1; i <= Slots; i++ {
		s[i] = &PlayerState{Level: 1}
	}
	return s
}

// SnapshotAt reconstructs every player's state at minute. Counters come from
// the frame at that minute (the last frame when the match ended earlier) and
// events are counted when their timestamp is at or before minute*60000.
// Slots 1..10 are always present.
func SnapshotAt(tl *riot.Timeline, minute int) Snapshot {
	snap := newSnapshot()
	if tl == nil || len(tl.Info.Frames) == 0 {
		return snap
	}

	frame := tl.Info.Frames[FrameIndex(tl, minute)]
	for key, pf := range frame.ParticipantFrames {
		slot, err := strconv.Atoi(key)
		if err != nil || slot <= 0 {
			continue
		}
		st := snap.at(slot)
		st.LaneCS = pf.MinionsKilled
		st.JungleCS = pf.JungleMinionsKilled
		st.TotalGold = pf.TotalGold
		st.CurrentGold = pf.CurrentGold
		st.XP = pf.XP
		if pf.Level > 0 {
			st.Level = pf.Level
		}
	}

	limit := int64(minute) * MinuteMS
	eachEvent(tl, func(ev *riot.Event) {
		if ev.Timestamp <= limit {
			applyEvent(snap, ev)
		}
	})
	return snap
}

// FrameIndex returns the frame standing in for minute: min(minute, last) on a
// regular one-frame-per-minute timeline. When that frame's timestamp is more
// than half a frame interval away from the minute mark (sparse frames, or a
// minute past the end), the last frame at or before the mark is used instead.
// Returns -1 for a timeline without frames.
func FrameIndex(tl *riot.Timeline, minute int) int {
	if tl == nil {
		return -1
	}
	frames := tl.Info.Frames
	last := len(frames) - 1
	if last < 0 {
		return -1
	}
	if minute < 0 {
		minute = 0
	}
	c := min(minute, last)
	if last == 0 || frames[last].Timestamp == 0 {
		return c
	}

	interval := tl.Info.FrameInterval
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	mark := int64(minute) * MinuteMS
	if d := frames[c].Timestamp - mark; d >= -interval/2 && d <= interval/2 {
		return c
	}

	limit := mark + interval/2
	idx := 0
	for i := range frames {
		if frames[i].Timestamp > limit {
			break
		}
		idx = i
	}
	return idx
}

// applyEvent adds one event to the counters. Ids <= 0 (towers, minions,
// monsters) are ignored.
func applyEvent(s Snapshot, ev *riot.Event) {
	switch ev.Type {
	case riot.EventChampionKill:
		if ev.KillerID > 0 {
			st := s.at(ev.KillerID)
			st.Kills++
			if len(ev.AssistingParticipantIDs) == 0 {
				st.SoloKills++
			}
		}
		if ev.VictimID > 0 {
			s.at(ev.VictimID).Deaths++
		}
		for _, a := range ev.AssistingParticipantIDs {
			if a > 0 {
				s.at(a).Assists++
			}
		}
	case riot.EventPlateDestroyed:
		if ev.KillerID > 0 {
			s.at(ev.KillerID).Plates++
		}
	case riot.EventWardPlaced:
		if ev.CreatorID > 0 {
			st := s.at(ev.CreatorID)
			st.WardsPlaced++
			if ev.WardType == riot.WardControl {
				st.ControlWardsPlaced++
			}
		}
	case riot.EventWardKill:
		if ev.KillerID > 0 {
			s.at(ev.KillerID).WardsKilled++
		}
	}
}

// eachEvent calls fn for every event of every frame in order.
func eachEvent(tl *riot.Timeline, fn func(ev *riot.Event)) {
	if tl == nil {
		return
	}
	for i := range tl.Info.Frames {
		events := tl.Info.Frames[i].Events
		for j := range events {
			fn(&events[j])
		}
	}
}

// ChampionKills returns every champion kill of the timeline in order.
func ChampionKills(tl *riot.Timeline) []riot.Event {
	var out []riot.Event
	eachEvent(tl, func(ev *riot.Event) {
		if ev.Type == riot.EventChampionKill {
			out = append(out, *ev)
		}
	})
	return out
}
