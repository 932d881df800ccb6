// Package seen remembers match ids so that a run does not fetch the same match
// twice. An in-process bloom filter records every match attempted during the
// run; an optional Redis set records matches stored by any run or process.
package seen

import (
	"context"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/config"
)

// Default bloom sizing: half a million matches at a 0.1% false positive rate.
const (
	DefaultCapacity = 500000
	DefaultFPRate   = 0.001
)

// Set is safe for concurrent use.
type Set struct {
	mu        sync.Mutex
	attempted *bloom.BloomFilter

	rdb    *redis.Client
	key    string
	logger *zap.Logger
}

// New returns a Set without a Redis backing.
func New(capacity uint, fpRate float64, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{
		attempted: bloom.NewWithEstimates(capacity, fpRate),
		logger:    logger,
	}
}

// UseRedis backs the stored set with a Redis set under key.
func (s *Set) UseRedis(rdb *redis.Client, key string) {
	s.rdb = rdb
	s.key = key
}

// Attempted reports whether the match was probably attempted by this run.
// False positives are possible at the configured rate; false negatives are not.
func (s *Set) Attempted(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempted.TestString(matchID)
}

// MarkAttempted records the match as attempted.
func (s *Set) MarkAttempted(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempted.AddString(matchID)
}

// Stored reports whether the shared set holds the match. Without Redis, or
// when Redis fails, it reports false and the caller falls back to the store.
func (s *Set) Stored(ctx context.Context, matchID string) bool {
	if s.rdb == nil {
		return false
	}
	ok, err := s.rdb.SIsMember(ctx, s.key, matchID).Result()
	if err != nil {
		s.logger.Warn("redis seen lookup failed", zap.String("match_id", matchID), zap.Error(err))
		return false
	}
	return ok
}

// MarkStored adds the match to the shared set.
func (s *Set) MarkStored(ctx context.Context, matchID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.SAdd(ctx, s.key, matchID).Err(); err != nil {
		s.logger.Warn("redis seen update failed", zap.String("match_id", matchID), zap.Error(err))
	}
}

// Reset clears the attempted filter.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempted.ClearAll()
}

// NewRedisClient connects to Redis and checks connectivity.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}
