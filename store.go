package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("folio: not found")

// Store wraps a SQLite database holding rendered OG cards and build
// history. Cards are keyed by og.Key, so a changed title or design
// revision simply misses.
type Store struct {
	db *sql.DB
	qb sq.StatementBuilderType
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the preview server read cards while a build writes them.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, qb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS og_images (
    key TEXT PRIMARY KEY,
    route TEXT NOT NULL,
    png BLOB NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    pages INTEGER NOT NULL,
    images INTEGER NOT NULL,
    degraded INTEGER NOT NULL,
    cached INTEGER NOT NULL,
    bytes INTEGER NOT NULL
);
`)
	return err
}

// GetImage returns the stored PNG for key, or ErrNotFound.
func (s *Store) GetImage(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.qb.Select("png").From("og_images").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, err
	}
	var data []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("folio: get image: %w", err)
	}
	return data, nil
}

// PutImage upserts the PNG rendered for key.
func (s *Store) PutImage(ctx context.Context, key, route string, png []byte) error {
	query, args, err := s.qb.Insert("og_images").
		Columns("key", "route", "png", "created_at").
		Values(key, route, png, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(key) DO UPDATE SET route = excluded.route, png = excluded.png, created_at = excluded.created_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("folio: put image: %w", err)
	}
	return nil
}

// CountImages returns the number of stored cards.
func (s *Store) CountImages(ctx context.Context) (int, error) {
	query, args, err := s.qb.Select("COUNT(*)").From("og_images").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// RecordBuild stores a finished build.
func (s *Store) RecordBuild(ctx context.Context, r BuildReport) error {
	query, args, err := s.qb.Insert("builds").
		Columns("id", "started_at", "finished_at", "pages", "images", "degraded", "cached", "bytes").
		Values(r.ID,
			r.StartedAt.UTC().Format(time.RFC3339Nano),
			r.StartedAt.Add(r.Duration).UTC().Format(time.RFC3339Nano),
			r.Pages, r.Images, r.Degraded, r.Cached, r.Bytes).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("folio: record build: %w", err)
	}
	return nil
}

// ListBuilds returns up to limit builds, newest first.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]BuildReport, error) {
	b := s.qb.Select("id", "started_at", "finished_at", "pages", "images", "degraded", "cached", "bytes").
		From("builds").
		OrderBy("started_at DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("folio: list builds: %w", err)
	}
	defer rows.Close()

	var out []BuildReport
	for rows.Next() {
		var r BuildReport
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Pages, &r.Images, &r.Degraded, &r.Cached, &r.Bytes); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if end, err := time.Parse(time.RFC3339Nano, finished); err == nil {
			r.Duration = end.Sub(r.StartedAt)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
