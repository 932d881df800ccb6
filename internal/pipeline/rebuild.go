package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/archive"
	"github.com/marquin311/analytics-do-vale/internal/assembler"
	"github.com/marquin311/analytics-do-vale/internal/riot"
)

// ArchiveReader lists and loads archived payloads. *archive.Archive implements it.
type ArchiveReader interface {
	MatchIDs() ([]string, error)
	Load(matchID, kind string) ([]byte, error)
}

// Rebuild assembles every archived match again and stores rows that are not
// yet present. No API request is made; champion mastery is left at zero.
func (r *Runner) Rebuild(ctx context.Context, src ArchiveReader) (*Summary, error) {
	sum := newSummary(r.runID)
	ids, err := src.MatchIDs()
	if err != nil {
		return sum, err
	}
	r.logger.Info("rebuild started", zap.Int("matches", len(ids)))

	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		log := r.logger.With(zap.String("match_id", id))

		raw, err := src.Load(id, archive.KindMatch)
		if err != nil {
			log.Warn("load match failed", zap.Error(err))
			sum.fail(sum.platform("archive", "unknown"))
			continue
		}
		m, err := riot.DecodeMatch(raw)
		if err != nil {
			log.Warn("decode match failed", zap.Error(err))
			sum.fail(sum.platform("archive", "unknown"))
			continue
		}
		platform := strings.ToLower(m.Info.PlatformID)
		stats := sum.platform("archive", platform)

		var tl *riot.Timeline
		raw, err = src.Load(id, archive.KindTimeline)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			log.Warn("load timeline failed", zap.Error(err))
		default:
			if tl, err = riot.DecodeTimeline(raw); err != nil {
				log.Warn("decode timeline failed", zap.Error(err))
			}
		}

		rows, err := assembler.Assemble(m, tl, assembler.Options{Platform: platform, Queues: r.queues})
		if err != nil {
			log.Debug("skipped", zap.Error(err))
			sum.skip(stats)
			continue
		}
		res, err := r.store.SaveMatch(ctx, rows)
		if err != nil {
			log.Error("save failed", zap.Error(err))
			sum.fail(stats)
			continue
		}
		if res.Total() == 0 {
			sum.skip(stats)
		} else {
			sum.save(stats, res)
		}
		if (i+1)%r.progressEvery == 0 {
			log.Info("progress", zap.Int("done", i+1), zap.Int("total", len(ids)))
		}
	}
	sum.finish(ctx)
	return sum, nil
}
