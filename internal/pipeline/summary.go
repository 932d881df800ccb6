package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/marquin311/analytics-do-vale/internal/model"
)

// PlatformStats counts what happened on one platform during a run.
type PlatformStats struct {
	Group    string
	Platform string
	Players  int
	Saved    int
	Skipped  int
	Failed   int
	Rows     model.SaveResult
}

// Summary is the outcome of a run. Counters are updated by the workers under
// a mutex; read them after Run returns or through snapshot.
type Summary struct {
	RunID       string
	Started     time.Time
	Elapsed     time.Duration
	Interrupted bool

	mu        sync.Mutex
	platforms []*PlatformStats
	index     map[string]*PlatformStats
}

func newSummary(runID string) *Summary {
	return &Summary{
		RunID:   runID,
		Started: time.Now(),
		index:   make(map[string]*PlatformStats),
	}
}

// Platforms returns per-platform stats in the order platforms were started.
func (s *Summary) Platforms() []PlatformStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PlatformStats, len(s.platforms))
	for i, p := range s.platforms {
		out[i] = *p
	}
	return out
}

// Saved returns the number of matches stored across platforms.
func (s *Summary) Saved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.platforms {
		n += p.Saved
	}
	return n
}

// Skipped returns the number of matches skipped across platforms.
func (s *Summary) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.platforms {
		n += p.Skipped
	}
	return n
}

func (s *Summary) platform(group, platform string) *PlatformStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := group + "/" + platform
	if p, ok := s.index[key]; ok {
		return p
	}
	p := &PlatformStats{Group: group, Platform: platform}
	s.index[key] = p
	s.platforms = append(s.platforms, p)
	return p
}

func (s *Summary) snapshot(p *PlatformStats) PlatformStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *p
}

func (s *Summary) addPlayers(p *PlatformStats, n int) {
	s.mu.Lock()
	p.Players += n
	s.mu.Unlock()
}

func (s *Summary) skip(p *PlatformStats) {
	s.mu.Lock()
	p.Skipped++
	s.mu.Unlock()
}

func (s *Summary) fail(p *PlatformStats) {
	s.mu.Lock()
	p.Failed++
	s.mu.Unlock()
}

func (s *Summary) save(p *PlatformStats, res model.SaveResult) {
	s.mu.Lock()
	p.Saved++
	p.Rows.Performance += res.Performance
	p.Rows.Kills += res.Kills
	p.Rows.Teams += res.Teams
	s.mu.Unlock()
}

func (s *Summary) finish(ctx context.Context) {
	s.Elapsed = time.Since(s.Started)
	s.Interrupted = ctx.Err() != nil
}
