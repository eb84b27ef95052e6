package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tradeview/internal/config"
	"tradeview/internal/domain"
	"tradeview/internal/sse"
	"tradeview/internal/store"
	"tradeview/internal/util"
)

const flushEvery = 200

func main() {
	_ = godotenv.Load()

	var (
		ticker   = flag.String("ticker", "", "ticker to record (defaults to the configured ticker)")
		flushSec = flag.Int("flush", 30, "flush interval in seconds")
	)
	flag.Parse()

	cfg := config.Default()
	if *ticker == "" {
		*ticker = cfg.Query.DefaultTicker
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	if cfg.Storage.DataDir == "" {
		fmt.Fprintln(os.Stderr, "data directory not configured (DATA_DIR)")
		os.Exit(1)
	}
	ps := store.NewParquetStore(cfg.Storage.DataDir)

	cal := util.NewTradingCalendar()
	if !cal.IsMarketOpen(time.Now()) {
		logger.Warn("market is closed", "next_open", cal.NextOpen(time.Now()))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := sse.NewStream(cfg.Backend.BaseURL, logger)
	logger.Info("recording quotes", "ticker", *ticker, "data_dir", cfg.Storage.DataDir)

	var pending []store.QuoteSample
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if err := ps.WriteQuotes(ctx, pending); err != nil {
			logger.Error("writing quotes", "error", err, "samples", len(pending))
			return
		}
		logger.Info("flushed", "samples", len(pending))
		pending = pending[:0]
	}

	flushInterval := time.Duration(*flushSec) * time.Second
	lastFlush := time.Now()

	// Reconnect with backoff while the context is live. Flushing happens on
	// the consume goroutine, so no locking is needed around pending.
	for ctx.Err() == nil {
		err := s.Quotes(ctx, *ticker, cfg.Backend.Exchange, func(q domain.Quote) error {
			pending = append(pending, store.QuoteSample{
				Ticker:    *ticker,
				Timestamp: time.Now().UTC(),
				Price:     q.Last,
				Volume:    q.Volume,
			})
			if len(pending) >= flushEvery || time.Since(lastFlush) > flushInterval {
				flush()
				lastFlush = time.Now()
			}
			return nil
		})
		if ctx.Err() != nil {
			break
		}
		logger.Warn("stream ended, reconnecting", "error", err)
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
		}
	}

	flush()
	logger.Info("stopped")
}
