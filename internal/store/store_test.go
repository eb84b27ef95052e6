package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestQuotePathLayout(t *testing.T) {
	ps := NewParquetStore("/data")
	ts := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	got := ps.quotePath("2330", ts)
	want := filepath.Join("/data", "quotes", "2330", "2026-08-28.parquet")
	if got != want {
		t.Errorf("quotePath mismatch:\n  got  %s\n  want %s", got, want)
	}
}

func TestParquetWriteReadQuotes(t *testing.T) {
	ps := NewParquetStore(t.TempDir())
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	samples := []QuoteSample{
		{Ticker: "2330", Timestamp: base, Price: 610, Volume: 1200},
		{Ticker: "2330", Timestamp: base.Add(time.Minute), Price: 611.5, Volume: 800},
		{Ticker: "2454", Timestamp: base, Price: 1300, Volume: 400},
	}
	if err := ps.WriteQuotes(ctx, samples); err != nil {
		t.Fatalf("WriteQuotes: %v", err)
	}

	got, err := ps.ReadQuotes(ctx, "2330", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("ReadQuotes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0].Price != 610 || got[1].Price != 611.5 {
		t.Errorf("unexpected prices: %v, %v", got[0].Price, got[1].Price)
	}

	tickers, err := ps.ListTickers(ctx)
	if err != nil {
		t.Fatalf("ListTickers: %v", err)
	}
	if len(tickers) != 2 || tickers[0] != "2330" || tickers[1] != "2454" {
		t.Errorf("unexpected tickers: %v", tickers)
	}
}

func TestParquetMergeDeduplicates(t *testing.T) {
	ps := NewParquetStore(t.TempDir())
	ctx := context.Background()

	ts := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	first := []QuoteSample{{Ticker: "2330", Timestamp: ts, Price: 610, Volume: 100}}
	// Same timestamp with a corrected price: the rewrite wins.
	second := []QuoteSample{
		{Ticker: "2330", Timestamp: ts, Price: 612, Volume: 100},
		{Ticker: "2330", Timestamp: ts.Add(time.Minute), Price: 613, Volume: 50},
	}

	if err := ps.WriteQuotes(ctx, first); err != nil {
		t.Fatalf("WriteQuotes first: %v", err)
	}
	if err := ps.WriteQuotes(ctx, second); err != nil {
		t.Fatalf("WriteQuotes second: %v", err)
	}

	got, err := ps.ReadQuotes(ctx, "2330", ts, ts.Add(time.Hour))
	if err != nil {
		t.Fatalf("ReadQuotes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 merged samples, got %d", len(got))
	}
	if got[0].Price != 612 {
		t.Errorf("expected incoming record to win the merge, got price %v", got[0].Price)
	}
}

func TestSQLiteQueryHistory(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	recs := []QueryRecord{
		{Query: "2330", StockScore: 2.5, Label: "bullish", ItemCount: 6, QueriedAt: now.Add(-2 * time.Hour)},
		{Query: "2454", StockScore: -1.0, Label: "negative-leaning", ItemCount: 3, QueriedAt: now.Add(-time.Hour)},
		{Query: "2330", StockScore: 0.5, Label: "neutral", ItemCount: 2, QueriedAt: now},
	}
	for i := range recs {
		if err := s.SaveQuery(ctx, &recs[i]); err != nil {
			t.Fatalf("SaveQuery: %v", err)
		}
		if recs[i].ID == 0 {
			t.Error("expected assigned ID after save")
		}
	}

	recent, err := s.RecentQueries(ctx, 2)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].Query != "2330" || recent[0].StockScore != 0.5 {
		t.Errorf("expected newest record first, got %+v", recent[0])
	}

	last, err := s.LastForQuery(ctx, "2330")
	if err != nil {
		t.Fatalf("LastForQuery: %v", err)
	}
	if last == nil || last.Label != "neutral" {
		t.Errorf("expected newest 2330 record, got %+v", last)
	}

	missing, err := s.LastForQuery(ctx, "9999")
	if err != nil {
		t.Fatalf("LastForQuery missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown query, got %+v", missing)
	}
}
