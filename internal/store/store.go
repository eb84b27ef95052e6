// Package store persists client-side records: the insight query history in
// SQLite and live quote samples in Parquet files on disk.
package store

import (
	"context"
	"time"
)

// QueryRecord is one completed insight query with its outcome.
type QueryRecord struct {
	ID         int64
	Query      string
	StockScore float64
	Label      string
	ItemCount  int
	QueriedAt  time.Time
}

// QueryHistoryStore persists and retrieves insight query history.
type QueryHistoryStore interface {
	// SaveQuery inserts a completed query record.
	SaveQuery(ctx context.Context, rec *QueryRecord) error

	// RecentQueries returns the most recent records, newest first, up to limit.
	RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error)

	// LastForQuery returns the newest record for the exact query string, or
	// nil when the query has never been run.
	LastForQuery(ctx context.Context, query string) (*QueryRecord, error)
}

// QuoteSample is one live price observation for a ticker.
type QuoteSample struct {
	Ticker    string
	Timestamp time.Time
	Price     float64
	Volume    int64
}

// QuoteLogStore persists and retrieves live quote samples.
type QuoteLogStore interface {
	// WriteQuotes persists a batch of quote samples.
	WriteQuotes(ctx context.Context, samples []QuoteSample) error

	// ReadQuotes returns samples for the given ticker within [start, end].
	ReadQuotes(ctx context.Context, ticker string, start, end time.Time) ([]QuoteSample, error)

	// ListTickers returns all tickers with recorded samples.
	ListTickers(ctx context.Context) ([]string, error)
}
