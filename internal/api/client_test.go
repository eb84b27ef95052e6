package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, 0, testLogger())
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestPriceSuccess(t *testing.T) {
	_, c := newTestServer(t, jsonHandler(200, `{"success":true,"price":612.5}`))

	price, err := c.Price(context.Background(), "2330")
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if price != 612.5 {
		t.Errorf("expected price 612.5, got %v", price)
	}
}

func TestPriceServerError(t *testing.T) {
	_, c := newTestServer(t, jsonHandler(200, `{"success":false,"message":"找不到股票"}`))

	_, err := c.Price(context.Background(), "9999")
	se, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.Message != "找不到股票" {
		t.Errorf("unexpected message %q", se.Message)
	}
}

func TestUnauthorizedStatus(t *testing.T) {
	_, c := newTestServer(t, jsonHandler(401, `{}`))

	_, err := c.Portfolio(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLoginRedirectHTML(t *testing.T) {
	// Unauthenticated requests get the HTML login page with a 200 status.
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>login</body></html>"))
	})

	_, err := c.Portfolio(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestEmptyQueryRejectedBeforeRequest(t *testing.T) {
	called := false
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := c.Insight(context.Background(), "   ", 48, 50, 0); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := c.Price(context.Background(), ""); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if called {
		t.Error("no request should be sent for an empty query")
	}
}

func TestBuySendsSharesFromLots(t *testing.T) {
	var gotBody string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		jsonHandler(200, `{"success":true,"message":"ok"}`)(w, r)
	})

	if err := c.Buy(context.Background(), "2330", 2); err != nil {
		t.Fatalf("Buy: %v", err)
	}
	want := `{"ticker":"2330","quantity":2000}`
	if gotBody != want {
		t.Errorf("expected body %s, got %s", want, gotBody)
	}
}

func TestTradeOddLotForm(t *testing.T) {
	var gotType, gotMode, gotQty string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotType = r.PostFormValue("trade_type")
		gotMode = r.PostFormValue("mode")
		gotQty = r.PostFormValue("quantity")
		jsonHandler(200, `{"success":true,"message":"ok"}`)(w, r)
	})

	if err := c.TradeOddLot(context.Background(), "2330", TradeSell, 150); err != nil {
		t.Fatalf("TradeOddLot: %v", err)
	}
	if gotType != TradeSell {
		t.Errorf("expected trade_type %q, got %q", TradeSell, gotType)
	}
	if gotMode != "零股" {
		t.Errorf("expected odd-lot mode, got %q", gotMode)
	}
	if gotQty != "150" {
		t.Errorf("expected quantity 150, got %q", gotQty)
	}
}

func TestTradeOddLotValidation(t *testing.T) {
	c := NewClient("http://localhost:1", 0, testLogger())

	if err := c.TradeOddLot(context.Background(), "2330", "hold", 10); err == nil {
		t.Error("expected error for invalid side")
	}
	if err := c.TradeOddLot(context.Background(), "2330", TradeBuy, 1000); err == nil {
		t.Error("expected error for a full lot via odd-lot endpoint")
	}
	if err := c.TradeOddLot(context.Background(), "2330", TradeBuy, 0); err == nil {
		t.Error("expected error for zero shares")
	}
}

func TestInsightPagination(t *testing.T) {
	var gotOffset string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotOffset = r.URL.Query().Get("offset")
		jsonHandler(200, `{"success":true,"stock_score":1.2,"items":[],"total":12,"offset":50,"limit":50,"has_more":false}`)(w, r)
	})

	resp, err := c.Insight(context.Background(), "2330", 48, 50, 50)
	if err != nil {
		t.Fatalf("Insight: %v", err)
	}
	if gotOffset != "50" {
		t.Errorf("expected offset query 50, got %q", gotOffset)
	}
	if resp.StockScore != 1.2 {
		t.Errorf("expected stock_score 1.2, got %v", resp.StockScore)
	}
	if resp.HasMore {
		t.Error("expected has_more false")
	}
}

func TestPortfolioDecoding(t *testing.T) {
	_, c := newTestServer(t, jsonHandler(200,
		`{"balance":52000.5,"portfolio":[{"ticker":"2330","quantity":3000,"costAvg":580.0}]}`))

	resp, err := c.Portfolio(context.Background())
	if err != nil {
		t.Fatalf("Portfolio: %v", err)
	}
	if resp.Balance != 52000.5 {
		t.Errorf("expected balance 52000.5, got %v", resp.Balance)
	}
	if len(resp.Portfolio) != 1 || resp.Portfolio[0].Quantity != 3000 {
		t.Errorf("unexpected positions: %+v", resp.Portfolio)
	}
}
