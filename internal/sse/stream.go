// Package sse consumes the backend's server-sent-event streams. The backend
// emits insight items incrementally as the analysis pipeline produces them,
// then a terminal event with the authoritative score; live quote streams run
// until the client disconnects.
package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tradeview/internal/api"
	"tradeview/internal/domain"
)

// Insight stream event types.
const (
	EventMeta   = "meta"
	EventItem   = "item"
	EventUpdate = "update"
	EventDone   = "done"
	EventError  = "error"
)

// InsightEvent is one decoded frame from the insight stream. Item is set
// for item/update events; StockScore for meta and done events; Message
// for done and error events.
type InsightEvent struct {
	Type       string            `json:"type"`
	Item       *domain.EventItem `json:"item"`
	StockScore *float64          `json:"stock_score"`
	Message    string            `json:"message"`
}

// Stream consumes server-sent-event endpoints from the backend.
type Stream struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

// NewStream creates a stream consumer for the backend at baseURL. The
// underlying HTTP client carries no overall timeout: streams are long-lived
// and are ended by cancelling the context.
func NewStream(baseURL string, log *slog.Logger) *Stream {
	return &Stream{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		log:     log,
	}
}

// Insight opens the streaming insight endpoint and calls fn for every
// decoded event, in arrival order, on the calling goroutine. It returns nil
// after a done event or clean end of stream, the callback's error if fn
// fails, a ServerError on an error event, and ctx.Err() on cancellation.
func (s *Stream) Insight(ctx context.Context, query string, hours, limit int, fn func(InsightEvent) error) error {
	if strings.TrimSpace(query) == "" {
		return api.ErrEmptyQuery
	}
	q := url.Values{"query": {query}}
	if hours > 0 {
		q.Set("hours", strconv.Itoa(hours))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	return s.consume(ctx, "/api/ai/insight/stream?"+q.Encode(), func(data []byte) (bool, error) {
		var ev InsightEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return false, fmt.Errorf("decoding insight event: %w", err)
		}
		if err := fn(ev); err != nil {
			return false, err
		}
		if ev.Type == EventError {
			return false, &api.ServerError{Message: ev.Message}
		}
		return ev.Type == EventDone, nil
	})
}

// Quotes opens the live quote stream for a ticker and calls fn for every
// decoded quote. exchange selects the market segment and may be empty. It
// blocks until ctx is cancelled or the stream ends.
func (s *Stream) Quotes(ctx context.Context, ticker, exchange string, fn func(domain.Quote) error) error {
	if strings.TrimSpace(ticker) == "" {
		return api.ErrEmptyQuery
	}
	q := url.Values{}
	if exchange != "" {
		q.Set("ex", exchange)
	}
	path := "/rt/stream/quote/" + url.PathEscape(ticker)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	return s.consume(ctx, path, func(data []byte) (bool, error) {
		var q domain.Quote
		if err := json.Unmarshal(data, &q); err != nil {
			return false, fmt.Errorf("decoding quote: %w", err)
		}
		return false, fn(q)
	})
}

// consume opens the endpoint and dispatches each SSE data payload to handle.
// handle returns true to stop reading after a terminal frame.
func (s *Stream) consume(ctx context.Context, pathAndQuery string, handle func([]byte) (bool, error)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+pathAndQuery, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return api.ErrNotAuthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream: unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		return api.ErrNotAuthenticated
	}

	s.log.Debug("stream opened", "path", pathAndQuery)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// SSE framing: "data:" lines accumulate until a blank line dispatches
	// the event. Comment lines start with ":" and are ignored.
	var data []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" {
			if len(data) > 0 {
				done, err := handle([]byte(strings.Join(data, "\n")))
				data = data[:0]
				if err != nil {
					return err
				}
				if done {
					return nil
				}
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(payload, " "))
		}
		// Other fields (event:, id:, retry:) are not used by the backend.
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("reading stream: %w", err)
	}
	return ctx.Err()
}
