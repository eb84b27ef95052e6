// Package domain defines the core data types exchanged with the trading
// backend: scored event items, quote snapshots, portfolio positions, and
// intraday timeline marks.
package domain

// ItemType distinguishes the two kinds of scored events the backend emits.
type ItemType string

const (
	ItemNews         ItemType = "news"
	ItemAnnouncement ItemType = "announcement"
)

// EventItem is one news article or announcement relevant to a queried
// symbol, carrying the backend's sentiment metadata. Title, Source, Time
// and Why are untrusted display text and must be escaped before they are
// rendered into markup.
type EventItem struct {
	Title      string   `json:"title"`
	Source     string   `json:"source"`
	Time       string   `json:"time"`
	URL        string   `json:"url,omitempty"`
	Type       ItemType `json:"type"`
	Direction  float64  `json:"direction"`
	EventScore float64  `json:"event_score"`
	Why        string   `json:"why,omitempty"`
}

// Key returns the identity key used for duplicate suppression. The NUL
// separator cannot appear in legitimate field values, so concatenation is
// unambiguous. The key is not a stable primary identifier.
func (e EventItem) Key() string {
	return e.Title + "\x00" + e.Source + "\x00" + e.Time
}

// Quote is one snapshot from the live quote push channel.
type Quote struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Last     float64 `json:"last"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Volume   int64   `json:"volume"`
	Time     string  `json:"time"`
	Provider string  `json:"provider"`
}

// Position is one holding as reported by the portfolio endpoint. Quantity
// is in shares; whole lots are 1000 shares on this market.
type Position struct {
	Ticker   string  `json:"ticker"`
	Quantity int64   `json:"quantity"`
	CostAvg  float64 `json:"costAvg"`
}

// SharesPerLot is the whole-lot size used when submitting lot orders.
const SharesPerLot = 1000

// TimelineMark is one annotated point on the intraday price timeline.
type TimelineMark struct {
	Time           string  `json:"time"`
	Price          float64 `json:"price"`
	Kind           string  `json:"kind"`
	Dir            int     `json:"dir"`
	ChgFromOpenPct float64 `json:"chg_from_open_pct"`
}

// HistoryPoint is one daily close from the price-history endpoint.
type HistoryPoint struct {
	Date  string  `json:"Date"`
	Close float64 `json:"Close"`
}
