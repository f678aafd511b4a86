// Package postgres provides the Postgres-backed download record store.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"docharvester/internal/archive"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool for download records.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// RecordStore persists one row per downloaded document and answers the
// record-existence probe by URL.
type RecordStore struct {
	pool  pool
	table string
}

// New connects a pool and returns a RecordStore.
func New(ctx context.Context, cfg Config) (*RecordStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "downloads"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &RecordStore{pool: p, table: table}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for
// testing).
func NewWithPool(p pool, table string) (*RecordStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "downloads"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &RecordStore{pool: p, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *RecordStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Exists reports whether a record for the document URL is present.
func (s *RecordStore) Exists(ctx context.Context, doc archive.Document) (bool, error) {
	if s == nil || s.pool == nil {
		return false, fmt.Errorf("record store is not configured")
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE url = $1)`, s.table)
	var exists bool
	if err := s.pool.QueryRow(ctx, query, doc.URL).Scan(&exists); err != nil {
		return false, fmt.Errorf("query record existence: %w", err)
	}
	return exists, nil
}

// Insert writes one download record.
func (s *RecordStore) Insert(ctx context.Context, rec archive.DownloadRecord) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("record store is not configured")
	}
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}
	if rec.URL == "" {
		return fmt.Errorf("record url is required")
	}

	var published *time.Time
	if rec.Published != nil {
		t := rec.Published.Time()
		published = &t
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	url,
	title,
	published_on,
	file_path,
	size_bytes,
	fetched_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7
)`, s.table)

	args := []any{
		rec.ID,
		rec.URL,
		rec.Title,
		published,
		rec.FilePath,
		rec.SizeBytes,
		rec.FetchedAt,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert download record: %w", err)
	}
	return nil
}
