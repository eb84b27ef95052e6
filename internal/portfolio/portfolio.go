// Package portfolio tracks the account snapshot on the client side: cash
// balance, held positions, live price history per ticker, and the derived
// profit/loss figures shown in the TUI.
package portfolio

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tradeview/internal/domain"
)

// RingSize is the number of recent price samples kept per ticker for the
// sparkline and flash direction.
const RingSize = 30

// PriceRing is a fixed-capacity ring of recent prices for one ticker.
type PriceRing struct {
	samples []float64
	next    int
	full    bool
}

// Push records a price sample, evicting the oldest once the ring is full.
func (r *PriceRing) Push(p float64) {
	if r.samples == nil {
		r.samples = make([]float64, RingSize)
	}
	r.samples[r.next] = p
	r.next = (r.next + 1) % RingSize
	if r.next == 0 {
		r.full = true
	}
}

// Samples returns the recorded prices oldest first.
func (r *PriceRing) Samples() []float64 {
	if r.samples == nil {
		return nil
	}
	if !r.full {
		out := make([]float64, r.next)
		copy(out, r.samples[:r.next])
		return out
	}
	out := make([]float64, 0, RingSize)
	out = append(out, r.samples[r.next:]...)
	out = append(out, r.samples[:r.next]...)
	return out
}

// Last returns the most recent sample, or 0 when empty.
func (r *PriceRing) Last() float64 {
	if r.samples == nil || (!r.full && r.next == 0) {
		return 0
	}
	idx := r.next - 1
	if idx < 0 {
		idx = RingSize - 1
	}
	return r.samples[idx]
}

// Holding is one position enriched with the latest price and derived P/L.
type Holding struct {
	Ticker      string
	Quantity    int64 // shares
	Lots        int64
	OddShares   int64
	CostAvg     float64
	LastPrice   float64
	MarketValue float64
	PL          float64 // absolute profit/loss
	PLPct       float64 // profit/loss as a percentage of cost
}

// Book is the client-side account state. It has a single logical owner
// (the UI event loop) and is not safe for concurrent mutation.
type Book struct {
	balance   float64
	positions map[string]domain.Position
	prices    map[string]*PriceRing
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{
		positions: make(map[string]domain.Position),
		prices:    make(map[string]*PriceRing),
	}
}

// SetSnapshot replaces the balance and positions from a backend snapshot.
// Price history survives the refresh.
func (b *Book) SetSnapshot(balance float64, positions []domain.Position) {
	b.balance = balance
	b.positions = make(map[string]domain.Position, len(positions))
	for _, p := range positions {
		b.positions[p.Ticker] = p
	}
}

// RecordPrice appends a live price sample for a ticker.
func (b *Book) RecordPrice(ticker string, price float64) {
	r := b.prices[ticker]
	if r == nil {
		r = &PriceRing{}
		b.prices[ticker] = r
	}
	r.Push(price)
}

// PriceHistory returns the recorded samples for a ticker, oldest first.
func (b *Book) PriceHistory(ticker string) []float64 {
	r := b.prices[ticker]
	if r == nil {
		return nil
	}
	return r.Samples()
}

// LastPrice returns the latest recorded price for a ticker, or the cost
// average when no sample has arrived yet.
func (b *Book) LastPrice(ticker string) float64 {
	if r := b.prices[ticker]; r != nil {
		if p := r.Last(); p > 0 {
			return p
		}
	}
	return b.positions[ticker].CostAvg
}

// Balance returns the cash balance.
func (b *Book) Balance() float64 { return b.balance }

// Holdings returns all positions with derived figures, sorted by ticker.
func (b *Book) Holdings() []Holding {
	out := make([]Holding, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, b.holding(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

func (b *Book) holding(p domain.Position) Holding {
	last := b.LastPrice(p.Ticker)
	cost := p.CostAvg * float64(p.Quantity)
	value := last * float64(p.Quantity)
	pl := value - cost
	plPct := 0.0
	if cost != 0 {
		plPct = pl / cost * 100
	}
	return Holding{
		Ticker:      p.Ticker,
		Quantity:    p.Quantity,
		Lots:        p.Quantity / domain.SharesPerLot,
		OddShares:   p.Quantity % domain.SharesPerLot,
		CostAvg:     p.CostAvg,
		LastPrice:   last,
		MarketValue: value,
		PL:          pl,
		PLPct:       plPct,
	}
}

// TotalAssets returns cash plus the market value of all positions.
func (b *Book) TotalAssets() float64 {
	total := b.balance
	for _, p := range b.positions {
		total += b.LastPrice(p.Ticker) * float64(p.Quantity)
	}
	return total
}

// TotalPL returns the absolute profit/loss across all positions.
func (b *Book) TotalPL() float64 {
	var pl float64
	for _, p := range b.positions {
		pl += (b.LastPrice(p.Ticker) - p.CostAvg) * float64(p.Quantity)
	}
	return pl
}

// --- formatting ---

// FormatCurrency formats a dollar amount as $1,234.56, with a leading
// minus before the dollar sign for negative values.
func FormatCurrency(v float64) string {
	neg := v < 0 || (v == 0 && math.Signbit(v))
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	s := fmt.Sprintf("$%s.%02d", groupThousands(whole), cents)
	if neg {
		return "-" + s
	}
	return s
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPL formats a signed profit/loss amount with an explicit plus for
// gains.
func FormatPL(v float64) string {
	if v > 0 {
		return "+" + FormatCurrency(v)
	}
	return FormatCurrency(v)
}

// FormatQuantity renders a share count as lots plus odd shares, e.g.
// "3張" or "3張+150股".
func FormatQuantity(shares int64) string {
	lots := shares / domain.SharesPerLot
	odd := shares % domain.SharesPerLot
	switch {
	case lots > 0 && odd > 0:
		return fmt.Sprintf("%d張+%d股", lots, odd)
	case lots > 0:
		return fmt.Sprintf("%d張", lots)
	default:
		return fmt.Sprintf("%d股", odd)
	}
}
