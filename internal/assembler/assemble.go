// Package assembler turns one match and its timeline into the rows that are
// stored: one performance row per participant, one row per champion kill and
// one objective row per team.
package assembler

import (
	"errors"
	"fmt"
	"math"

	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/riot"
	"github.com/marquin311/analytics-do-vale/internal/timeline"
)

// Ranked queues.
const (
	QueueRankedSolo = 420
	QueueRankedFlex = 440
)

// ErrUnsupportedQueue is returned for matches outside the accepted queues.
var ErrUnsupportedQueue = errors.New("unsupported queue")

// Options tune Assemble.
type Options struct {
	// Platform is stored on every performance row (na1, kr...).
	Platform string
	// Queues lists accepted queue ids. Empty means ranked solo and flex.
	Queues []int
	// Mastery holds champion mastery points per puuid; missing entries are 0.
	Mastery map[string]int
}

// Accepts reports whether matches of queue are assembled.
func (o Options) Accepts(queue int) bool {
	if len(o.Queues) == 0 {
		return queue == QueueRankedSolo || queue == QueueRankedFlex
	}
	for _, q := range o.Queues {
		if q == queue {
			return true
		}
	}
	return false
}

// participants indexes a match's participants by slot.
type participants struct {
	list  []riot.Participant
	team  map[int]int
	puuid map[int]string
	name  map[int]string
}

func indexParticipants(list []riot.Participant) participants {
	p := participants{
		list:  list,
		team:  make(map[int]int, len(list)),
		puuid: make(map[int]string, len(list)),
		name:  make(map[int]string, len(list)),
	}
	for i := range list {
		id := list[i].ParticipantID
		p.team[id] = list[i].TeamID
		p.puuid[id] = list[i].PUUID
		p.name[id] = list[i].DisplayName()
	}
	return p
}

// Assemble builds every row of a match. tl may be nil when the timeline is
// unavailable: timeline-derived fields are then zero and no kill rows are made.
func Assemble(m *riot.Match, tl *riot.Timeline, opts Options) (model.MatchRows, error) {
	if m == nil {
		return model.MatchRows{}, errors.New("assemble: nil match")
	}
	matchID := m.Metadata.MatchID
	if !opts.Accepts(m.Info.QueueID) {
		return model.MatchRows{}, fmt.Errorf("%s: queue %d: %w", matchID, m.Info.QueueID, ErrUnsupportedQueue)
	}

	parts := indexParticipants(m.Info.Participants)
	snaps := snapshots{
		at10: timeline.SnapshotAt(tl, 10),
		at15: timeline.SnapshotAt(tl, 15),
		mid:  timeline.Between(tl, 10, 20),
		late: timeline.Since(tl, 20),
	}

	rows := model.MatchRows{
		MatchID:     matchID,
		Performance: performanceRows(m, parts, snaps, opts),
		Kills:       killRows(matchID, tl, parts),
		Teams:       teamRows(matchID, m.Info.Teams, timeline.CountDragons(tl, parts.team)),
	}
	return rows, nil
}

// IsInBase reports whether a map position lies in either fountain corner.
func IsInBase(x, y int) bool {
	return (x < 2000 && y < 2000) || (x > 12800 && y > 12800)
}

// DeathID is the natural key of a kill row.
func DeathID(matchID string, timestamp int64, victimID int) string {
	return fmt.Sprintf("%s_%d_%d", matchID, timestamp, victimID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
