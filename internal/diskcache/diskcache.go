// Package diskcache persists fetched dataset bodies in a local SQLite
// database so previously viewed days remain available offline.
package diskcache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/dailyview/pkg/debug"
)

// DefaultMaxEntries bounds the number of snapshots kept per kind. Oldest
// dates are evicted first.
const DefaultMaxEntries = 90

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	kind       TEXT NOT NULL,
	date       TEXT NOT NULL,
	body       BLOB NOT NULL,
	fetched_at TIMESTAMP NOT NULL,
	PRIMARY KEY (kind, date)
);
`

// Store is a persistent snapshot cache keyed by (kind, date).
type Store struct {
	db         *sql.DB
	path       string
	maxEntries int
}

// Open opens (or creates) a snapshot store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open snapshot cache: %w", err)
	}

	// Pragmas for read performance
	pragmas := []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			debug.Log("diskcache: %s failed: %v", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize snapshot cache: %w", err)
	}

	return &Store{
		db:         db,
		path:       path,
		maxEntries: DefaultMaxEntries,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SetMaxEntries overrides the per-kind snapshot limit. Zero or negative
// disables eviction.
func (s *Store) SetMaxEntries(n int) {
	s.maxEntries = n
}

// Put stores a snapshot and evicts the oldest dates beyond the per-kind
// limit.
func (s *Store) Put(kind, date string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (kind, date, body, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (kind, date) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		kind, date, body, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cannot store snapshot %s/%s: %w", kind, date, err)
	}

	if s.maxEntries > 0 {
		// Date strings sort chronologically, so lexicographic order is
		// eviction order.
		_, err = s.db.Exec(
			`DELETE FROM snapshots WHERE kind = ? AND date NOT IN (
				SELECT date FROM snapshots WHERE kind = ? ORDER BY date DESC LIMIT ?
			)`,
			kind, kind, s.maxEntries,
		)
		if err != nil {
			return fmt.Errorf("cannot evict snapshots for %s: %w", kind, err)
		}
	}

	return nil
}

// Get retrieves a snapshot. The boolean reports whether it was found.
func (s *Store) Get(kind, date string) ([]byte, time.Time, bool, error) {
	var body []byte
	var fetchedAt sql.NullTime
	err := s.db.QueryRow(
		`SELECT body, fetched_at FROM snapshots WHERE kind = ? AND date = ?`,
		kind, date,
	).Scan(&body, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("cannot read snapshot %s/%s: %w", kind, date, err)
	}

	var at time.Time
	if fetchedAt.Valid {
		at = fetchedAt.Time
	}
	return body, at, true, nil
}

// Dates returns the stored dates for a kind, newest first.
func (s *Store) Dates(kind string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT date FROM snapshots WHERE kind = ? ORDER BY date DESC`, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot list snapshots for %s: %w", kind, err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			continue
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return dates, nil
}

// Count returns the number of snapshots stored for a kind.
func (s *Store) Count(kind string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM snapshots WHERE kind = ?`, kind,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Prune removes snapshots fetched before the cutoff, across all kinds.
func (s *Store) Prune(olderThan time.Time) (int, error) {
	res, err := s.db.Exec(
		`DELETE FROM snapshots WHERE fetched_at < ?`, olderThan.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("cannot prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// LastFetched returns the most recent fetch time across all snapshots.
func (s *Store) LastFetched() (time.Time, error) {
	var fetchedAt sql.NullTime
	err := s.db.QueryRow(`SELECT MAX(fetched_at) FROM snapshots`).Scan(&fetchedAt)
	if err != nil {
		return time.Time{}, err
	}
	if !fetchedAt.Valid {
		return time.Time{}, nil
	}
	return fetchedAt.Time, nil
}
