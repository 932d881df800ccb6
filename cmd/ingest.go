package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/archive"
	"github.com/marquin311/analytics-do-vale/internal/config"
	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/notify"
	"github.com/marquin311/analytics-do-vale/internal/pipeline"
	"github.com/marquin311/analytics-do-vale/internal/riot"
	"github.com/marquin311/analytics-do-vale/internal/seen"
	"github.com/marquin311/analytics-do-vale/internal/storage"
	"github.com/marquin311/analytics-do-vale/internal/storage/postgres"
)

// ingestStore is what the ingestion commands need from either backend.
type ingestStore interface {
	pipeline.Store
	RegionCounts(ctx context.Context) ([]model.PlatformCount, error)
	Close() error
}

// openStore opens the configured backend. Postgres migrations are applied on
// open; the SQLite schema is embedded.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ingestStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		db, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return db, nil
	case config.BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("postgres backend selected but no dsn configured (postgres.dsn or DATABASE_URL)")
		}
		st, err := postgres.Open(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := st.RunMigrations(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// ingestEnv holds everything an ingestion command wires into a Runner.
type ingestEnv struct {
	cfg       *config.Config
	logger    *zap.Logger
	apiKey    string
	store     ingestStore
	seen      *seen.Set
	archive   *archive.Archive
	publisher notify.Publisher
	redis     *redis.Client
}

// newIngestEnv opens the store and the optional seen-set, archive and
// publisher described by cfg. needKey is false for commands that never call
// the API.
func newIngestEnv(ctx context.Context, cfg *config.Config, logger *zap.Logger, needKey bool) (*ingestEnv, error) {
	env := &ingestEnv{cfg: cfg, logger: logger, publisher: notify.Noop{}}
	if needKey {
		key, err := cfg.APIKey()
		if err != nil {
			return nil, err
		}
		env.apiKey = key
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	env.store = store

	env.seen = seen.New(seen.DefaultCapacity, seen.DefaultFPRate, logger)
	if cfg.Redis.Enabled {
		rdb, err := seen.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		env.redis = rdb
		env.seen.UseRedis(rdb, cfg.Redis.Key)
	}

	if cfg.Archive.Dir != "" {
		a, err := archive.New(cfg.Archive.Dir)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("open archive: %w", err)
		}
		env.archive = a
	}

	if cfg.Kafka.Enabled {
		k, err := notify.NewKafka(cfg.Kafka, logger)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		env.publisher = k
	}
	return env, nil
}

// runner builds a pipeline.Runner over the environment.
func (e *ingestEnv) runner(opts ...pipeline.Option) *pipeline.Runner {
	base := []pipeline.Option{
		pipeline.WithSeen(e.seen),
		pipeline.WithPublisher(e.publisher),
		pipeline.WithLogger(e.logger),
		pipeline.WithMastery(e.cfg.Ingest.Mastery),
	}
	if e.archive != nil {
		base = append(base, pipeline.WithArchive(e.archive))
	}
	return pipeline.New(e.store, append(base, opts...)...)
}

// client returns a Riot client for one routing group.
func (e *ingestEnv) client(group string) *riot.Client {
	rc := e.cfg.Riot
	return riot.NewClient(e.apiKey, group,
		riot.WithSpacing(rc.Spacing),
		riot.WithMaxRetries(*rc.MaxRetries),
		riot.WithRetryMargin(rc.RetryMargin),
		riot.WithHTTPClient(&http.Client{Timeout: rc.Timeout}),
		riot.WithLogger(e.logger),
	)
}

// Close releases everything opened by newIngestEnv.
func (e *ingestEnv) Close() {
	if e.publisher != nil {
		if err := e.publisher.Close(); err != nil {
			e.logger.Warn("close publisher", zap.Error(err))
		}
	}
	if e.archive != nil {
		e.archive.Close()
	}
	if e.redis != nil {
		e.redis.Close()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close store", zap.Error(err))
		}
	}
}
