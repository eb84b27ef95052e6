package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ QueryHistoryStore = (*SQLiteStore)(nil)

// SQLiteStore implements QueryHistoryStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS query_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	query       TEXT    NOT NULL,
	stock_score REAL    NOT NULL,
	label       TEXT    NOT NULL,
	item_count  INTEGER NOT NULL,
	queried_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_history_query ON query_history(query, queried_at DESC);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveQuery inserts a completed query record and fills in its assigned ID.
func (s *SQLiteStore) SaveQuery(ctx context.Context, rec *QueryRecord) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (query, stock_score, label, item_count, queried_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Query, rec.StockScore, rec.Label, rec.ItemCount, rec.QueriedAt)
	if err != nil {
		return fmt.Errorf("inserting query record: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	return err
}

// RecentQueries returns the most recent records, newest first.
func (s *SQLiteStore) RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, stock_score, label, item_count, queried_at
		 FROM query_history ORDER BY queried_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QueryRecord
	for rows.Next() {
		var rec QueryRecord
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.StockScore, &rec.Label,
			&rec.ItemCount, &rec.QueriedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LastForQuery returns the newest record for the exact query string.
func (s *SQLiteStore) LastForQuery(ctx context.Context, query string) (*QueryRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, stock_score, label, item_count, queried_at
		 FROM query_history WHERE query = ? ORDER BY queried_at DESC, id DESC LIMIT 1`, query)

	var rec QueryRecord
	err := row.Scan(&rec.ID, &rec.Query, &rec.StockScore, &rec.Label,
		&rec.ItemCount, &rec.QueriedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
