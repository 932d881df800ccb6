package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/config"
	"github.com/marquin311/analytics-do-vale/internal/riot"
)

// SourceFactory returns the Source of a routing group. It is called once
// per group so every platform of the group shares one rate limit.
type SourceFactory func(group string) Source

// Jobs builds discovery jobs for the named groups, or every configured group
// when names is empty. matches overrides the configured matches per player
// when positive.
func Jobs(cfg *config.Config, names []string, matches int, newSource SourceFactory) ([]GroupJob, error) {
	if matches <= 0 {
		matches = cfg.Ingest.MatchesPerPlayer
	}
	groups := cfg.Groups
	if len(names) > 0 {
		groups = groups[:0:0]
		for _, n := range names {
			g, ok := cfg.Group(n)
			if !ok {
				return nil, fmt.Errorf("unknown region group %q", n)
			}
			groups = append(groups, g)
		}
	}

	jobs := make([]GroupJob, 0, len(groups))
	for _, g := range groups {
		job := GroupJob{Group: g.Name, Source: newSource(g.Name)}
		for _, p := range g.Platforms {
			job.Platforms = append(job.Platforms, PlatformJob{
				Platform: p.Name,
				Players:  p.Players,
				Queues:   []int{*cfg.Ingest.Queue},
				Matches:  matches,
			})
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// AccountResolver resolves Riot IDs. *riot.Client implements it.
type AccountResolver interface {
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
}

// SeedSource is a Source that can also resolve Riot IDs.
type SeedSource interface {
	Source
	AccountResolver
}

// SeedJobs resolves every seed's Riot ID and builds one job per group with the
// resolved players on their platforms. Unknown Riot IDs are logged and
// skipped; only authentication failures are returned.
func SeedJobs(ctx context.Context, seeds []config.SeedConfig, queues []int, matches int, newSource func(group string) SeedSource, logger *zap.Logger) ([]GroupJob, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	byGroup := make(map[string]*GroupJob)
	var order []string
	sources := make(map[string]SeedSource)

	for _, s := range seeds {
		src, ok := sources[s.Group]
		if !ok {
			src = newSource(s.Group)
			sources[s.Group] = src
		}
		acc, err := src.AccountByRiotID(ctx, s.GameName, s.TagLine)
		if err != nil {
			if riot.IsFatal(err) {
				return nil, err
			}
			return nil, fmt.Errorf("resolve %s#%s: %w", s.GameName, s.TagLine, err)
		}
		if acc == nil || acc.PUUID == "" {
			logger.Warn("seed not found", zap.String("riot_id", s.GameName+"#"+s.TagLine))
			continue
		}

		job, ok := byGroup[s.Group]
		if !ok {
			job = &GroupJob{Group: s.Group, Source: src}
			byGroup[s.Group] = job
			order = append(order, s.Group)
		}
		addSeed(job, s.Platform, acc.PUUID, queues, matches)
	}

	jobs := make([]GroupJob, 0, len(order))
	for _, g := range order {
		jobs = append(jobs, *byGroup[g])
	}
	return jobs, nil
}

func addSeed(job *GroupJob, platform, puuid string, queues []int, matches int) {
	for i := range job.Platforms {
		if job.Platforms[i].Platform == platform {
			job.Platforms[i].PUUIDs = append(job.Platforms[i].PUUIDs, puuid)
			return
		}
	}
	job.Platforms = append(job.Platforms, PlatformJob{
		Platform: platform,
		PUUIDs:   []string{puuid},
		Queues:   queues,
		Matches:  matches,
	})
}
