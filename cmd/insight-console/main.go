package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tradeview/internal/api"
	"tradeview/internal/config"
	"tradeview/internal/insight"
	"tradeview/internal/render"
	"tradeview/internal/sse"
	"tradeview/internal/util"
)

func main() {
	_ = godotenv.Load()

	var (
		streamMode = flag.Bool("stream", false, "consume the event stream instead of the batch endpoint")
		htmlOut    = flag.Bool("html", false, "emit the list as an HTML fragment")
		hours      = flag.Int("hours", 0, "lookback window in hours (0 = backend default)")
		limit      = flag.Int("limit", 0, "page size (0 = backend default)")
		allPages   = flag.Bool("all", false, "follow server pagination to the end (batch mode)")
		timeline   = flag.Bool("timeline", false, "also print the intraday price timeline")
		rawEvents  = flag.Bool("events", false, "fetch the unscored event list instead of scored insight")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: insight-console [options] <ticker-or-query>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	query := flag.Arg(0)

	cfg := config.Default()
	if *hours == 0 {
		*hours = cfg.Query.Hours
	}
	if *limit == 0 {
		*limit = cfg.Query.Limit
	}

	logger := util.NewLogger(cfg.Logging.Level, "text", os.Stderr)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctrl := insight.NewController()
	gen := ctrl.Begin()

	if *rawEvents {
		client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestsPerMin, logger)
		resp, err := client.Events(ctx, query, *hours)
		if err != nil {
			fail(err)
		}
		for _, it := range resp.Items {
			fmt.Printf("%s  %s  (%s)\n", it.Time, it.Title, it.Source)
		}
		fmt.Printf("%d events\n", len(resp.Items))
		return
	}

	if *streamMode {
		s := sse.NewStream(cfg.Backend.BaseURL, logger)
		err := s.Insight(ctx, query, *hours, *limit, func(ev sse.InsightEvent) error {
			changed := ctrl.ApplyStreamEvent(gen, insight.StreamEvent{
				Type:       ev.Type,
				Item:       ev.Item,
				StockScore: ev.StockScore,
				Message:    ev.Message,
			})
			if changed && ev.Item != nil && !*htmlOut {
				fmt.Printf("%+5.1f  %s  (%s · %s)\n",
					ev.Item.EventScore, ev.Item.Title, ev.Item.Source, ev.Item.Time)
			}
			return nil
		})
		if err != nil {
			fail(err)
		}
		// A stream that ends cleanly without a done frame never settled;
		// the provisional numbers must not pass for a finished analysis.
		if sum, ok := ctrl.Summary(); !ok || sum.Provisional {
			fail(api.ErrStreamClosed)
		}
	} else {
		client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestsPerMin, logger)
		resp, err := fetchPage(ctx, client, query, *hours, *limit, 0)
		if err != nil {
			fail(err)
		}
		ctrl.ApplyBatch(gen, resp.Items, resp.StockScore, resp.Total, resp.HasMore, resp.Offset+len(resp.Items))

		for *allPages && ctrl.HasMore() {
			resp, err = fetchPage(ctx, client, query, *hours, *limit, ctrl.NextOffset())
			if err != nil {
				fail(err)
			}
			ctrl.ApplyMore(gen, resp.Items, resp.HasMore, resp.Offset+len(resp.Items))
		}
		if !*htmlOut {
			for _, it := range ctrl.List().Items() {
				fmt.Printf("%+5.1f  %s  (%s · %s)\n", it.EventScore, it.Title, it.Source, it.Time)
			}
		}
	}

	if *htmlOut {
		ctrl.List().Expand()
		if sum, ok := ctrl.Summary(); ok {
			fmt.Println(render.SummaryLine(sum))
		}
		fmt.Println(render.InsightList(ctrl.List()))
		return
	}

	if sum, ok := ctrl.Summary(); ok {
		fmt.Printf("\n%s: %+.2f %s · %s", query, sum.Score, sum.Label, sum.Advice)
		if sum.Provisional {
			fmt.Print(" (provisional)")
		}
		fmt.Println()
	}
	fmt.Printf("%d events\n", ctrl.List().Len())

	if *timeline {
		client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestsPerMin, logger)
		tl, err := client.IntradayTimeline(ctx, query, 0)
		if err != nil {
			fail(err)
		}
		fmt.Printf("\nintraday (open %.2f, %d marks)\n", tl.Meta.Open, tl.Meta.Count)
		for _, mark := range tl.Marks {
			fmt.Printf("  %s  %8.2f  %+6.2f%%  %s\n",
				mark.Time, mark.Price, mark.ChgFromOpenPct, mark.Kind)
		}
	}
}

// fetchPage loads one insight page, retrying transient transport failures.
// Authentication and backend-reported errors are permanent and returned
// immediately.
func fetchPage(ctx context.Context, client *api.Client, query string, hours, limit, offset int) (*api.InsightResponse, error) {
	var resp *api.InsightResponse
	var permErr error
	err := util.Retry(ctx, 3, time.Second, func() error {
		r, err := client.Insight(ctx, query, hours, limit, offset)
		if err != nil {
			if errors.Is(err, api.ErrNotAuthenticated) || errors.Is(err, api.ErrEmptyQuery) {
				permErr = err
				return nil
			}
			if _, ok := api.AsServerError(err); ok {
				permErr = err
				return nil
			}
			return err
		}
		resp = r
		return nil
	})
	if permErr != nil {
		return nil, permErr
	}
	return resp, err
}

func fail(err error) {
	if se, ok := api.AsServerError(err); ok {
		fmt.Fprintf(os.Stderr, "backend error: %s\n", se.Message)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
