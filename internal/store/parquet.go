package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Compile-time interface check.
var _ QuoteLogStore = (*ParquetStore)(nil)

// ParquetStore implements QuoteLogStore using Parquet files on disk, one
// file per ticker and trading day.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// QuoteRecord is the Parquet schema for quote samples.
type QuoteRecord struct {
	Ticker    string  `parquet:"ticker"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Price     float64 `parquet:"price"`
	Volume    int64   `parquet:"volume"`
}

// WriteQuotes writes quote samples to Parquet files organized by ticker and
// date. Each ticker+date combination produces a separate file at:
//
//	<DataDir>/quotes/<TICKER>/<YYYY-MM-DD>.parquet
func (s *ParquetStore) WriteQuotes(_ context.Context, samples []QuoteSample) error {
	if len(samples) == 0 {
		return nil
	}

	type key struct {
		ticker string
		date   string // YYYY-MM-DD
	}
	groups := make(map[key][]QuoteRecord)
	for _, q := range samples {
		k := key{ticker: q.Ticker, date: q.Timestamp.Format("2006-01-02")}
		groups[k] = append(groups[k], QuoteRecord{
			Ticker:    q.Ticker,
			Timestamp: q.Timestamp.UnixMilli(),
			Price:     q.Price,
			Volume:    q.Volume,
		})
	}

	for k, records := range groups {
		day, _ := time.Parse("2006-01-02", k.date)
		path := s.quotePath(k.ticker, day)

		existing, _ := readParquetFile[QuoteRecord](path)
		merged := mergeQuoteRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing quotes for %s/%s: %w", k.ticker, k.date, err)
		}
	}
	return nil
}

// ReadQuotes reads quote samples for the given ticker and time range.
func (s *ParquetStore) ReadQuotes(_ context.Context, ticker string, start, end time.Time) ([]QuoteSample, error) {
	var out []QuoteSample
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		path := s.quotePath(ticker, d)
		records, err := readParquetFile[QuoteRecord](path)
		if err != nil {
			// No file for this day.
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp)
			if (ts.Equal(start) || ts.After(start)) && (ts.Equal(end) || ts.Before(end)) {
				out = append(out, QuoteSample{
					Ticker:    r.Ticker,
					Timestamp: ts,
					Price:     r.Price,
					Volume:    r.Volume,
				})
			}
		}
	}
	return out, nil
}

// ListTickers returns all tickers with recorded samples, sorted.
func (s *ParquetStore) ListTickers(_ context.Context) ([]string, error) {
	dir := filepath.Join(s.DataDir, "quotes")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var tickers []string
	for _, e := range entries {
		if e.IsDir() {
			tickers = append(tickers, e.Name())
		}
	}
	sort.Strings(tickers)
	return tickers, nil
}

// quotePath returns the filesystem path for a quote Parquet file.
// Layout: <dataDir>/quotes/<TICKER>/<YYYY-MM-DD>.parquet
func (s *ParquetStore) quotePath(ticker string, t time.Time) string {
	return filepath.Join(s.DataDir, "quotes", ticker, t.Format("2006-01-02")+".parquet")
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeQuoteRecords deduplicates records by (ticker, timestamp), preferring
// incoming over existing. Results are sorted by timestamp.
func mergeQuoteRecords(existing, incoming []QuoteRecord) []QuoteRecord {
	type key struct {
		ticker string
		ts     int64
	}
	seen := make(map[key]QuoteRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Ticker, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Ticker, r.Timestamp}] = r
	}

	merged := make([]QuoteRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
