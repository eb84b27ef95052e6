// Package api is the HTTP client for the trading backend. It wraps the
// backend's JSON and form endpoints, normalizing transport failures,
// login redirects, and success:false answers into Go errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tradeview/internal/domain"
	"tradeview/internal/util"
)

// Trade side values expected by the odd-lot form endpoint.
const (
	TradeBuy  = "買入"
	TradeSell = "賣出"
)

const oddLotMode = "零股"

// Client talks to the trading backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *util.RateLimiter
	log        *slog.Logger
}

// NewClient creates a client for the backend at baseURL. requestsPerMin
// caps the outbound request rate; zero disables the limiter.
func NewClient(baseURL string, requestsPerMin int, log *slog.Logger) *Client {
	var limiter *util.RateLimiter
	if requestsPerMin > 0 {
		limiter = util.NewRateLimiter(requestsPerMin)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
		log:        log,
	}
}

// --- request plumbing ---

func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrNotAuthenticated
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", req.URL.Path, err)
	}

	// An unauthenticated session gets redirected to the HTML login page
	// instead of a JSON error, so a non-JSON content type means the same
	// thing as a 401.
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		return nil, ErrNotAuthenticated
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}
	return body, nil
}

// getJSON performs a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// postJSON performs a POST with a JSON body and decodes the answer into out.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// postForm performs a form-encoded POST and decodes the answer into out.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// --- quotes and history ---

// Price fetches the latest price for a ticker.
func (c *Client) Price(ctx context.Context, ticker string) (float64, error) {
	if strings.TrimSpace(ticker) == "" {
		return 0, ErrEmptyQuery
	}
	var resp priceResponse
	if err := c.getJSON(ctx, "/price", url.Values{"ticker": {ticker}}, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, &ServerError{Message: resp.Message}
	}
	return resp.Price, nil
}

// History fetches daily closing prices for a ticker.
func (c *Client) History(ctx context.Context, ticker string) ([]domain.HistoryPoint, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, ErrEmptyQuery
	}
	var resp historyResponse
	if err := c.getJSON(ctx, "/history", url.Values{"ticker": {ticker}}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Message: resp.Message}
	}
	return resp.Data, nil
}

// IntradayTimeline fetches the intraday price timeline for a ticker. step
// is the sampling interval in minutes; zero takes the backend default.
func (c *Client) IntradayTimeline(ctx context.Context, ticker string, step int) (*TimelineResponse, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, ErrEmptyQuery
	}
	q := url.Values{}
	if step > 0 {
		q.Set("step", strconv.Itoa(step))
	}
	var resp TimelineResponse
	if err := c.getJSON(ctx, "/api/intraday_timeline/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Message: resp.Message}
	}
	return &resp, nil
}

// --- trading ---

type tradeRequest struct {
	Ticker   string `json:"ticker"`
	Quantity int64  `json:"quantity"`
}

// Buy places a buy order for the given number of whole lots.
func (c *Client) Buy(ctx context.Context, ticker string, lots int64) error {
	return c.trade(ctx, "/buy", ticker, lots)
}

// Sell places a sell order for the given number of whole lots.
func (c *Client) Sell(ctx context.Context, ticker string, lots int64) error {
	return c.trade(ctx, "/sell", ticker, lots)
}

func (c *Client) trade(ctx context.Context, path, ticker string, lots int64) error {
	if strings.TrimSpace(ticker) == "" {
		return ErrEmptyQuery
	}
	if lots <= 0 {
		return fmt.Errorf("lots must be positive, got %d", lots)
	}
	var resp tradeResponse
	payload := tradeRequest{Ticker: ticker, Quantity: lots * domain.SharesPerLot}
	if err := c.postJSON(ctx, path, payload, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &ServerError{Message: resp.Message}
	}
	c.log.Info("trade accepted", "path", path, "ticker", ticker, "lots", lots)
	return nil
}

// TradeOddLot places an odd-lot order for a share count below one lot.
// side must be TradeBuy or TradeSell.
func (c *Client) TradeOddLot(ctx context.Context, ticker, side string, shares int64) error {
	if strings.TrimSpace(ticker) == "" {
		return ErrEmptyQuery
	}
	if side != TradeBuy && side != TradeSell {
		return fmt.Errorf("invalid trade side %q", side)
	}
	if shares <= 0 || shares >= domain.SharesPerLot {
		return fmt.Errorf("odd-lot shares must be in 1..%d, got %d", domain.SharesPerLot-1, shares)
	}
	form := url.Values{
		"ticker":     {ticker},
		"quantity":   {strconv.FormatInt(shares, 10)},
		"trade_type": {side},
		"mode":       {oddLotMode},
	}
	var resp tradeResponse
	if err := c.postForm(ctx, "/trade", form, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &ServerError{Message: resp.Message}
	}
	c.log.Info("odd-lot trade accepted", "ticker", ticker, "side", side, "shares", shares)
	return nil
}

// --- account ---

// Portfolio fetches the cash balance and held positions.
func (c *Client) Portfolio(ctx context.Context) (*PortfolioResponse, error) {
	var resp PortfolioResponse
	if err := c.getJSON(ctx, "/api/portfolio", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserRank fetches the user's asset rank among all accounts.
func (c *Client) UserRank(ctx context.Context) (rank, total int, err error) {
	var resp rankResponse
	if err := c.getJSON(ctx, "/api/user-rank", nil, &resp); err != nil {
		return 0, 0, err
	}
	if !resp.Success {
		return 0, 0, &ServerError{Message: "rank unavailable"}
	}
	return resp.Rank, resp.Total, nil
}

// --- insight ---

// Events fetches the unscored event list for a ticker or free-text query.
func (c *Client) Events(ctx context.Context, query string, hours int) (*EventsResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	q := url.Values{"query": {query}}
	if hours > 0 {
		q.Set("hours", strconv.Itoa(hours))
	}
	var resp EventsResponse
	if err := c.getJSON(ctx, "/api/events", q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Message: resp.Message}
	}
	return &resp, nil
}

// Insight fetches one page of the scored insight list. offset selects the
// server-side page; the first call uses offset 0.
func (c *Client) Insight(ctx context.Context, query string, hours, limit, offset int) (*InsightResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	q := url.Values{"query": {query}}
	if hours > 0 {
		q.Set("hours", strconv.Itoa(hours))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var resp InsightResponse
	if err := c.getJSON(ctx, "/api/news-ai-insight", q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Message: resp.Message}
	}
	return &resp, nil
}
