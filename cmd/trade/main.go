package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tradeview/internal/api"
	"tradeview/internal/config"
	"tradeview/internal/portfolio"
	"tradeview/internal/util"
)

func main() {
	_ = godotenv.Load()

	var (
		lots   = flag.Int64("lots", 0, "whole lots to trade (1000 shares each)")
		shares = flag.Int64("shares", 0, "odd-lot shares to trade (1-999)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: trade [options] buy|sell <ticker>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	verb, ticker := flag.Arg(0), flag.Arg(1)
	if *lots == 0 && *shares == 0 {
		*lots = 1
	}

	cfg := config.Default()
	logger := util.NewLogger(cfg.Logging.Level, "text", os.Stderr)
	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestsPerMin, logger)
	ctx := context.Background()

	var err error
	switch verb {
	case "buy":
		if *lots > 0 {
			err = client.Buy(ctx, ticker, *lots)
		}
		if err == nil && *shares > 0 {
			err = client.TradeOddLot(ctx, ticker, api.TradeBuy, *shares)
		}
	case "sell":
		if *lots > 0 {
			err = client.Sell(ctx, ticker, *lots)
		}
		if err == nil && *shares > 0 {
			err = client.TradeOddLot(ctx, ticker, api.TradeSell, *shares)
		}
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		if se, ok := api.AsServerError(err); ok {
			fmt.Fprintf(os.Stderr, "rejected: %s\n", se.Message)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	// Show the resulting account state.
	resp, err := client.Portfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trade placed, but portfolio fetch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("balance %s\n", portfolio.FormatCurrency(resp.Balance))
	for _, p := range resp.Portfolio {
		fmt.Printf("  %-8s %-12s avg %.2f\n",
			p.Ticker, portfolio.FormatQuantity(p.Quantity), p.CostAvg)
	}
}
