package timeline

import "github.com/marquin311/analytics-do-vale/internal/riot"

// WindowStats is what a player gained over a window of game time.
type WindowStats struct {
	Gold    int
	XP      int
	CS      int
	Kills   int
	Deaths  int
	Assists int
	Barons  int
}

// Window maps participant slot to window stats.
type Window map[int]*WindowStats

// Get returns the stats of a slot, zero when absent.
func (w Window) Get(slot int) WindowStats {
	if st, ok := w[slot]; ok {
		return *st
	}
	return WindowStats{}
}

func (w Window) at(slot int) *WindowStats {
	st, ok := w[slot]
	if !ok {
		st = &WindowStats{}
		w[slot] = st
	}
	return st
}

func newWindow() Window {
	w := make(Window, Slots)
	for i := 1; i <= Slots; i++ {
		w[i] = &WindowStats{}
	}
	return w
}

// Between returns gains from minute from to minute to. Gold, xp and cs are the
// difference of the two snapshots, never below zero. Kills, deaths and assists
// count events with from*60000 <= t < to*60000.
func Between(tl *riot.Timeline, from, to int) Window {
	w := newWindow()
	if tl == nil || len(tl.Info.Frames) == 0 {
		return w
	}

	start, end := SnapshotAt(tl, from), SnapshotAt(tl, to)
	for slot, e := range end {
		s := start.Get(slot)
		st := w.at(slot)
		st.Gold = max(0, e.TotalGold-s.TotalGold)
		st.XP = max(0, e.XP-s.XP)
		st.CS = max(0, e.CS()-s.CS())
	}

	lo, hi := int64(from)*MinuteMS, int64(to)*MinuteMS
	eachEvent(tl, func(ev *riot.Event) {
		if ev.Timestamp >= lo && ev.Timestamp < hi {
			applyWindowEvent(w, ev)
		}
	})
	return w
}

// Since counts kills, deaths, assists and baron takes for every event at or
// after minute from until the end of the match.
func Since(tl *riot.Timeline, from int) Window {
	w := newWindow()
	lo := int64(from) * MinuteMS
	eachEvent(tl, func(ev *riot.Event) {
		if ev.Timestamp >= lo {
			applyWindowEvent(w, ev)
		}
	})
	return w
}

func applyWindowEvent(w Window, ev *riot.Event) {
	switch ev.Type {
	case riot.EventChampionKill:
		if ev.KillerID > 0 {
			w.at(ev.KillerID).Kills++
		}
		if ev.VictimID > 0 {
			w.at(ev.VictimID).Deaths++
		}
		for _, a := range ev.AssistingParticipantIDs {
			if a > 0 {
				w.at(a).Assists++
			}
		}
	case riot.EventEliteMonster:
		if ev.MonsterType == riot.MonsterBaron && ev.KillerID > 0 {
			w.at(ev.KillerID).Barons++
		}
	}
}
