// Package pipeline drives ingestion: one worker per routing group discovers
// players, enumerates their matches and stores the assembled rows.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/archive"
	"github.com/marquin311/analytics-do-vale/internal/assembler"
	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/notify"
	"github.com/marquin311/analytics-do-vale/internal/riot"
	"github.com/marquin311/analytics-do-vale/internal/seen"
)

// Store persists assembled rows.
type Store interface {
	MatchExists(ctx context.Context, matchID string) (bool, error)
	SaveMatch(ctx context.Context, rows model.MatchRows) (model.SaveResult, error)
}

// Source is the part of the Riot API a worker needs. *riot.Client implements it.
type Source interface {
	DiscoverPlayers(ctx context.Context, platform string, target int) ([]string, error)
	MatchIDs(ctx context.Context, puuid string, queue, start, count int) ([]string, error)
	Match(ctx context.Context, matchID string) (*riot.Match, error)
	Timeline(ctx context.Context, matchID string) (*riot.Timeline, error)
	MasteryPoints(ctx context.Context, platform, puuid string, championID int) (int, error)
}

// Archiver keeps raw payloads.
type Archiver interface {
	Save(matchID, kind string, raw []byte) error
}

// GroupJob is the work of one routing group. Its platforms are processed in
// order by a single worker through a single Source.
type GroupJob struct {
	Group     string
	Source    Source
	Platforms []PlatformJob
}

// PlatformJob describes what to collect on one platform.
type PlatformJob struct {
	Platform string
	// Players is the discovery target. Ignored when PUUIDs is set.
	Players int
	// PUUIDs skips discovery and uses these players.
	PUUIDs []string
	// Queues to enumerate per player; 0 means every queue.
	Queues []int
	// Matches is the number of recent matches requested per player and queue.
	Matches int
}

const defaultProgressEvery = 10

// Runner executes group jobs.
type Runner struct {
	store         Store
	seen          *seen.Set
	archive       Archiver
	publisher     notify.Publisher
	logger        *zap.Logger
	mastery       bool
	queues        []int
	progressEvery int
	runID         string
}

// Option configures a Runner.
type Option func(*Runner)

// WithSeen sets the seen set. Its attempted filter only lasts one Run; its
// Redis set, when configured, is kept across runs and processes.
func WithSeen(s *seen.Set) Option { return func(r *Runner) { r.seen = s } }

// WithArchive stores raw match and timeline payloads.
func WithArchive(a Archiver) Option { return func(r *Runner) { r.archive = a } }

// WithPublisher announces every stored match.
func WithPublisher(p notify.Publisher) Option { return func(r *Runner) { r.publisher = p } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMastery fetches champion mastery for every participant. Costs ten extra
// requests per match.
func WithMastery(on bool) Option { return func(r *Runner) { r.mastery = on } }

// WithAcceptedQueues restricts which queues are stored.
func WithAcceptedQueues(q []int) Option { return func(r *Runner) { r.queues = q } }

// WithProgressEvery sets how many matches pass between progress logs.
func WithProgressEvery(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.progressEvery = n
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option { return func(r *Runner) { r.runID = id } }

// New returns a Runner writing to store.
func New(store Store, opts ...Option) *Runner {
	r := &Runner{
		store:         store,
		publisher:     notify.Noop{},
		logger:        zap.NewNop(),
		progressEvery: defaultProgressEvery,
	}
	for _, o := range opts {
		o(r)
	}
	if r.seen == nil {
		r.seen = seen.New(seen.DefaultCapacity, seen.DefaultFPRate, r.logger)
	}
	return r
}

// Run processes every job concurrently, one worker per group. Cancelling ctx
// stops all workers before their next match and Run returns the partial
// summary with Interrupted set. An authentication failure in any worker stops
// all of them and is returned. Runs of one Runner must not overlap.
func (r *Runner) Run(ctx context.Context, jobs []GroupJob) (*Summary, error) {
	runID := r.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	sum := newSummary(runID)
	if len(jobs) == 0 {
		sum.finish(ctx)
		return sum, nil
	}
	// A match that failed in an earlier run is not in the store and must be
	// tried again.
	r.seen.Reset()
	log := r.logger.With(zap.String("run_id", runID))
	log.Info("run started", zap.Int("groups", len(jobs)))

	runCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	pool := pond.NewPool(len(jobs))
	defer pool.StopAndWait()
	group := pool.NewGroupContext(runCtx)
	groupCtx := group.Context()

	for _, job := range jobs {
		job := job
		group.SubmitErr(func() error {
			err := r.runGroup(groupCtx, log.With(zap.String("group", job.Group)), job, sum)
			if err != nil {
				abort(err)
			}
			return err
		})
	}

	err := group.Wait()
	sum.finish(ctx)
	if cause := context.Cause(runCtx); riot.IsFatal(cause) {
		err = cause
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		log.Error("run aborted", zap.Error(err))
		return sum, err
	}
	log.Info("run finished",
		zap.Int("saved", sum.Saved()),
		zap.Int("skipped", sum.Skipped()),
		zap.Bool("interrupted", sum.Interrupted),
		zap.Duration("elapsed", sum.Elapsed))
	return sum, nil
}

// runGroup returns only fatal errors; everything else is logged and counted.
func (r *Runner) runGroup(ctx context.Context, log *zap.Logger, job GroupJob, sum *Summary) error {
	processed := 0
	for _, pj := range job.Platforms {
		if ctx.Err() != nil {
			return nil
		}
		stats := sum.platform(job.Group, pj.Platform)
		plog := log.With(zap.String("platform", pj.Platform))

		players := pj.PUUIDs
		if len(players) == 0 {
			found, err := job.Source.DiscoverPlayers(ctx, pj.Platform, pj.Players)
			if err != nil {
				return fatalOnly(err)
			}
			players = found
		}
		sum.addPlayers(stats, len(players))
		plog.Info("players ready", zap.Int("players", len(players)))

		queues := pj.Queues
		if len(queues) == 0 {
			queues = []int{0}
		}
		for i, puuid := range players {
			for _, q := range queues {
				if ctx.Err() != nil {
					return nil
				}
				ids, err := job.Source.MatchIDs(ctx, puuid, q, 0, pj.Matches)
				if err != nil {
					return fatalOnly(err)
				}
				for _, id := range ids {
					if ctx.Err() != nil {
						return nil
					}
					if err := r.processMatch(ctx, plog, job.Source, pj.Platform, id, stats, sum); err != nil {
						return fatalOnly(err)
					}
					processed++
					if processed%r.progressEvery == 0 {
						snap := sum.snapshot(stats)
						plog.Info("progress",
							zap.Int("processed", processed),
							zap.Int("player", i+1),
							zap.Int("players", len(players)),
							zap.Int("saved", snap.Saved),
							zap.Int("skipped", snap.Skipped))
					}
				}
			}
		}
		snap := sum.snapshot(stats)
		plog.Info("platform done", zap.Int("saved", snap.Saved), zap.Int("skipped", snap.Skipped), zap.Int("failed", snap.Failed))
	}
	return nil
}

// fatalOnly keeps the errors that stop the run (authentication failure and
// cancellation) and drops the rest.
func fatalOnly(err error) error {
	if riot.IsFatal(err) {
		return err
	}
	return nil
}

// processMatch dedups, fetches, assembles and stores one match. Only errors
// from the Source (fatal or cancellation) are returned.
func (r *Runner) processMatch(ctx context.Context, log *zap.Logger, src Source, platform, matchID string, stats *PlatformStats, sum *Summary) error {
	log = log.With(zap.String("match_id", matchID))

	if r.seen.Attempted(matchID) {
		sum.skip(stats)
		return nil
	}
	r.seen.MarkAttempted(matchID)
	if r.seen.Stored(ctx, matchID) {
		sum.skip(stats)
		return nil
	}
	exists, err := r.store.MatchExists(ctx, matchID)
	if err != nil {
		log.Warn("existence check failed", zap.Error(err))
		sum.fail(stats)
		return nil
	}
	if exists {
		r.seen.MarkStored(ctx, matchID)
		sum.skip(stats)
		return nil
	}

	m, err := src.Match(ctx, matchID)
	if err != nil {
		return err
	}
	if m == nil {
		log.Warn("match unavailable")
		sum.fail(stats)
		return nil
	}
	opts := assembler.Options{Platform: platform, Queues: r.queues}
	if !opts.Accepts(m.Info.QueueID) {
		log.Debug("queue not ingested", zap.Int("queue", m.Info.QueueID))
		sum.skip(stats)
		return nil
	}

	tl, err := src.Timeline(ctx, matchID)
	if err != nil {
		return err
	}
	if tl == nil {
		log.Warn("timeline unavailable, storing without timeline fields")
	}

	if r.mastery {
		if opts.Mastery, err = r.fetchMastery(ctx, src, platform, m); err != nil {
			return err
		}
	}
	rows, err := assembler.Assemble(m, tl, opts)
	if err != nil {
		log.Warn("assemble failed", zap.Error(err))
		sum.fail(stats)
		return nil
	}

	r.archivePayloads(log, m, tl)

	res, err := r.store.SaveMatch(ctx, rows)
	if err != nil {
		log.Error("save failed", zap.Error(err))
		sum.fail(stats)
		return nil
	}
	r.seen.MarkStored(ctx, matchID)
	sum.save(stats, res)

	msg := notify.MatchIngested{
		RunID:           sum.RunID,
		MatchID:         matchID,
		Platform:        platform,
		QueueID:         m.Info.QueueID,
		GameVersion:     m.Info.GameVersion,
		PerformanceRows: res.Performance,
		KillRows:        res.Kills,
		TeamRows:        res.Teams,
		IngestedAt:      time.Now().UTC(),
	}
	if err := r.publisher.Publish(ctx, msg); err != nil {
		log.Warn("publish failed", zap.Error(err))
	}
	return nil
}

func (r *Runner) fetchMastery(ctx context.Context, src Source, platform string, m *riot.Match) (map[string]int, error) {
	out := make(map[string]int, len(m.Info.Participants))
	for _, p := range m.Info.Participants {
		if p.PUUID == "" {
			continue
		}
		pts, err := src.MasteryPoints(ctx, platform, p.PUUID, p.ChampionID)
		if err != nil {
			return nil, err
		}
		out[p.PUUID] = pts
	}
	return out, nil
}

func (r *Runner) archivePayloads(log *zap.Logger, m *riot.Match, tl *riot.Timeline) {
	if r.archive == nil {
		return
	}
	id := m.Metadata.MatchID
	if err := r.archive.Save(id, archive.KindMatch, m.Raw()); err != nil {
		log.Warn("archive match failed", zap.Error(err))
	}
	if tl != nil {
		if err := r.archive.Save(id, archive.KindTimeline, tl.Raw()); err != nil {
			log.Warn("archive timeline failed", zap.Error(err))
		}
	}
}
