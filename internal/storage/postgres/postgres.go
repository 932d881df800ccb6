// Package postgres stores match rows in PostgreSQL. It shares table names,
// columns and conflict keys with the SQLite store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/marquin311/analytics-do-vale/internal/config"
	"github.com/marquin311/analytics-do-vale/internal/model"
	"github.com/marquin311/analytics-do-vale/internal/storage"
)

// Store provides PostgreSQL-based persistence.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Open creates the connection pool and checks connectivity.
func Open(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// RunMigrations creates the tables and indexes when missing.
func (s *Store) RunMigrations(ctx context.Context) error {
	for _, m := range Migrations() {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	s.logger.Info("migrations applied")
	return nil
}

// Migrations returns the DDL statements in execution order.
func Migrations() []string {
	return []string{
		createTable(storage.TablePerformance, storage.PerformanceColumns, storage.PerformanceKey),
		`CREATE INDEX IF NOT EXISTS idx_perf_puuid ON ` + storage.TablePerformance + `(puuid)`,
		`CREATE INDEX IF NOT EXISTS idx_perf_platform ON ` + storage.TablePerformance + `(platform)`,
		createTable(storage.TableKills, storage.KillColumns, storage.KillKey),
		`CREATE INDEX IF NOT EXISTS idx_kills_match ON ` + storage.TableKills + `(match_id)`,
		createTable(storage.TableTeams, storage.TeamColumns, storage.TeamKey),
	}
}

// createTable derives column types from the Go type of each column value.
func createTable[T any](table string, cols []storage.Column[T], key []string) string {
	var zero T
	defs := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		defs = append(defs, fmt.Sprintf("%s %s", c.Name, sqlType(c.Value(&zero))))
	}
	defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(key, ", ")))
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}

func sqlType(v any) string {
	switch v.(type) {
	case bool:
		return "BOOLEAN NOT NULL DEFAULT FALSE"
	case int64:
		return "BIGINT NOT NULL DEFAULT 0"
	case int:
		return "INTEGER NOT NULL DEFAULT 0"
	case float64:
		return "DOUBLE PRECISION NOT NULL DEFAULT 0"
	default:
		return "TEXT NOT NULL DEFAULT ''"
	}
}

func placeholder(i int) string { return fmt.Sprintf("$%d", i) }

// MatchExists returns true if performance rows for the match are already stored.
func (s *Store) MatchExists(ctx context.Context, matchID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+storage.TablePerformance+" WHERE match_id = $1)", matchID).Scan(&exists)
	return exists, err
}

// SaveMatch writes the three row sets of a match, each in its own transaction
// and batch. Performance rows go last and are skipped when another set
// failed, so MatchExists stays false until the whole match is stored.
func (s *Store) SaveMatch(ctx context.Context, rows model.MatchRows) (model.SaveResult, error) {
	var res model.SaveResult
	var errs []error

	n, err := insertIgnore(ctx, s.pool, storage.TableTeams, storage.TeamColumns, storage.TeamKey, rows.Teams)
	res.Teams = n
	if err != nil {
		errs = append(errs, fmt.Errorf("insert %s: %w", storage.TableTeams, err))
	}
	n, err = insertIgnore(ctx, s.pool, storage.TableKills, storage.KillColumns, storage.KillKey, rows.Kills)
	res.Kills = n
	if err != nil {
		errs = append(errs, fmt.Errorf("insert %s: %w", storage.TableKills, err))
	}
	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}

	n, err = insertIgnore(ctx, s.pool, storage.TablePerformance, storage.PerformanceColumns, storage.PerformanceKey, rows.Performance)
	res.Performance = n
	if err != nil {
		return res, fmt.Errorf("insert %s: %w", storage.TablePerformance, err)
	}
	return res, nil
}

func insertIgnore[T any](ctx context.Context, pool *pgxpool.Pool, table string, cols []storage.Column[T], key []string, rows []T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query := storage.InsertIgnoreSQL(table, cols, key, placeholder)
	batch := &pgx.Batch{}
	for i := range rows {
		batch.Queue(query, storage.Values(cols, &rows[i])...)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (int, error) {
	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for i := 0; i < batch.Len(); i++ {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("batch statement %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, br.Close()
}

// RegionCounts returns the number of distinct matches stored per platform.
func (s *Store) RegionCounts(ctx context.Context) ([]model.PlatformCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT platform, COUNT(DISTINCT match_id)
		FROM `+storage.TablePerformance+`
		GROUP BY platform
		ORDER BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlatformCount
	for rows.Next() {
		var c model.PlatformCount
		if err := rows.Scan(&c.Platform, &c.Matches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
