package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
)

const defaultTable = "teetime_cache"

// PostgresStore keeps one row per key. Unspecified holes and window bounds are
// stored as NULL and matched with IS NOT DISTINCT FROM, so NULL only matches NULL.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// NewPostgresStore wraps an open database handle. An empty table name uses the default.
func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = defaultTable
	}
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// OpenPostgresStore opens a lib/pq connection, checks it and ensures the schema.
func OpenPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := NewPostgresStore(db, "")
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the cache table and its lookup index.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			course_id   TEXT        NOT NULL,
			date        TEXT        NOT NULL,
			holes       INTEGER     NULL,
			party_size  INTEGER     NOT NULL,
			earliest    TEXT        NULL,
			latest      TEXT        NULL,
			course_name TEXT        NOT NULL,
			provider    TEXT        NOT NULL,
			slots       JSONB       NOT NULL,
			stored_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS teetime_cache_lookup_idx ON ` + s.table + ` (course_id, date, party_size)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure cache schema: %w", err)
		}
	}
	return nil
}

// Lookup returns the newest row for key.
func (s *PostgresStore) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	query := `SELECT course_name, provider, slots, stored_at FROM ` + s.table + `
		WHERE course_id = $1 AND date = $2 AND holes IS NOT DISTINCT FROM $3
		AND party_size = $4 AND earliest IS NOT DISTINCT FROM $5 AND latest IS NOT DISTINCT FROM $6
		ORDER BY stored_at DESC LIMIT 1`

	var (
		name     string
		provider string
		payload  []byte
		storedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, keyArgs(key)...).Scan(&name, &provider, &payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("postgres lookup %s: %w", key, err)
	}
	list, err := decodeSlots(payload)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{
		Key:        key,
		CourseName: name,
		Provider:   courses.Provider(provider),
		Slots:      list,
		StoredAt:   storedAt,
	}, true, nil
}

// Store replaces the key's row inside one transaction.
func (s *PostgresStore) Store(ctx context.Context, entry Entry) (err error) {
	payload, err := encodeSlots(entry.Slots)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres store begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del := `DELETE FROM ` + s.table + `
		WHERE course_id = $1 AND date = $2 AND holes IS NOT DISTINCT FROM $3
		AND party_size = $4 AND earliest IS NOT DISTINCT FROM $5 AND latest IS NOT DISTINCT FROM $6`
	if _, err = tx.ExecContext(ctx, del, keyArgs(entry.Key)...); err != nil {
		return fmt.Errorf("postgres store delete: %w", err)
	}

	ins := `INSERT INTO ` + s.table + `
		(course_id, date, holes, party_size, earliest, latest, course_name, provider, slots, stored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	args := append(keyArgs(entry.Key), entry.CourseName, string(entry.Provider), payload, entry.StoredAt.UTC())
	if _, err = tx.ExecContext(ctx, ins, args...); err != nil {
		return fmt.Errorf("postgres store insert: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("postgres store commit: %w", err)
	}
	return nil
}

// Prune deletes rows written before olderThan.
func (s *PostgresStore) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE stored_at < $1`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("postgres prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func keyArgs(k Key) []any {
	holes := sql.NullInt64{Int64: int64(k.Holes), Valid: k.Holes > 0}
	earliest := sql.NullString{String: k.Earliest, Valid: k.Earliest != ""}
	latest := sql.NullString{String: k.Latest, Valid: k.Latest != ""}
	return []any{k.CourseID, k.Date, holes, k.PartySize, earliest, latest}
}
