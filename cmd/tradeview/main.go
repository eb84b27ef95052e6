package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"tradeview/internal/api"
	"tradeview/internal/config"
	"tradeview/internal/sse"
	"tradeview/internal/store"
	"tradeview/internal/ui"
	"tradeview/internal/util"
)

func main() {
	// Optional .env for local overrides.
	_ = godotenv.Load()

	cfgPath := os.Getenv("TRADEVIEW_CONFIG")
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	// Log to a file: slog output on stderr would corrupt the display.
	logPath := fmt.Sprintf("/tmp/tradeview-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(cfg.Logging.Level, "text", logFile)

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestsPerMin, logger)
	stream := sse.NewStream(cfg.Backend.BaseURL, logger)

	var history store.QueryHistoryStore
	if cfg.Storage.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "creating data dir: %v\n", err)
			os.Exit(1)
		}
		hs, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Warn("query history unavailable", "error", err)
		} else {
			defer hs.Close()
			history = hs
		}
	}

	logger.Info("starting", "backend", cfg.Backend.BaseURL, "ticker", cfg.Query.DefaultTicker)

	p := tea.NewProgram(
		ui.NewModel(ui.Deps{
			Client:  client,
			Stream:  stream,
			History: history,
			Logger:  logger,
			Ticker:  cfg.Query.DefaultTicker,
			Hours:   cfg.Query.Hours,
			Limit:   cfg.Query.Limit,
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
