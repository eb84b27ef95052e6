// Package ui implements the interactive terminal client: a live quote
// header, the portfolio table, and the incremental insight panel, driven by
// the backend's batch endpoints and event stream.
package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"tradeview/internal/api"
	"tradeview/internal/domain"
	"tradeview/internal/insight"
	"tradeview/internal/portfolio"
	"tradeview/internal/sse"
	"tradeview/internal/store"
)

// Deps carries the wired collaborators for the model.
type Deps struct {
	Client  *api.Client
	Stream  *sse.Stream
	History store.QueryHistoryStore // optional
	Logger  *slog.Logger

	Ticker string // initial query
	Hours  int
	Limit  int
}

// Messages.
type tickMsg time.Time

type priceMsg struct {
	ticker string
	price  float64
	err    error
}

type portfolioMsg struct {
	resp *api.PortfolioResponse
	err  error
}

type historyMsg struct {
	ticker string
	points []domain.HistoryPoint
	err    error
}

type rankMsg struct {
	rank  int
	total int
	err   error
}

type insightBatchMsg struct {
	gen  uint64
	resp *api.InsightResponse
	err  error
}

type insightMoreMsg struct {
	gen  uint64
	resp *api.InsightResponse
	err  error
}

type streamEventMsg struct {
	gen uint64
	ev  sse.InsightEvent
}

type streamClosedMsg struct {
	gen uint64
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the client.
type Model struct {
	deps Deps
	ctrl *insight.Controller
	book *portfolio.Book

	ticker    string
	lastPrice float64
	prevPrice float64

	rank      int
	rankTotal int

	queryInput textinput.Model
	inputOpen  bool

	viewport      viewport.Model
	ready         bool
	width, height int

	// Active stream bridge; nil when no stream is open.
	streamCh     chan sse.InsightEvent
	streamCancel context.CancelFunc
	streamGen    uint64

	status string
}

// NewModel creates the initial model.
func NewModel(deps Deps) Model {
	ti := textinput.New()
	ti.Placeholder = "ticker or query"
	ti.CharLimit = 64
	ti.Width = 32

	return Model{
		deps:       deps,
		ctrl:       insight.NewController(),
		book:       portfolio.NewBook(),
		ticker:     deps.Ticker,
		queryInput: ti,
	}
}

// startQueryMsg kicks off an insight query; the stream bridge has to be
// installed inside Update so the model mutation survives.
type startQueryMsg struct{ query string }

func (m Model) Init() tea.Cmd {
	query := m.ticker
	return tea.Batch(
		tickCmd(),
		m.fetchPortfolio(),
		m.fetchPrice(m.ticker),
		m.fetchHistory(m.ticker),
		m.fetchRank(),
		func() tea.Msg { return startQueryMsg{query: query} },
	)
}

// --- commands ---

func (m *Model) fetchPortfolio() tea.Cmd {
	c := m.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		resp, err := c.Portfolio(ctx)
		return portfolioMsg{resp: resp, err: err}
	}
}

func (m *Model) fetchPrice(ticker string) tea.Cmd {
	c := m.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		price, err := c.Price(ctx, ticker)
		return priceMsg{ticker: ticker, price: price, err: err}
	}
}

// fetchHistory loads daily closes to seed the sparkline before live
// samples accumulate.
func (m *Model) fetchHistory(ticker string) tea.Cmd {
	c := m.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		points, err := c.History(ctx, ticker)
		return historyMsg{ticker: ticker, points: points, err: err}
	}
}

func (m *Model) fetchRank() tea.Cmd {
	c := m.deps.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rank, total, err := c.UserRank(ctx)
		return rankMsg{rank: rank, total: total, err: err}
	}
}

// startQuery begins a new insight generation and opens the event stream for
// it. Any previous stream is cancelled; its late events carry a stale token
// and are dropped by the controller. Without a stream consumer the query
// falls back to the batch endpoint.
func (m *Model) startQuery(query string) tea.Cmd {
	if m.streamCancel != nil {
		m.streamCancel()
		m.streamCancel = nil
	}

	gen := m.ctrl.Begin()
	m.streamGen = gen

	if m.deps.Stream == nil {
		c := m.deps.Client
		hours, limit := m.deps.Hours, m.deps.Limit
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			resp, err := c.Insight(ctx, query, hours, limit, 0)
			return insightBatchMsg{gen: gen, resp: resp, err: err}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel
	ch := make(chan sse.InsightEvent, 16)
	m.streamCh = ch

	s := m.deps.Stream
	log := m.deps.Logger
	hours, limit := m.deps.Hours, m.deps.Limit

	go func() {
		err := s.Insight(ctx, query, hours, limit, func(ev sse.InsightEvent) error {
			select {
			case ch <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Warn("insight stream ended", "query", query, "error", err)
		}
		close(ch)
	}()

	return m.waitStream(ch, gen)
}

// waitStream yields the next stream event, or a closed message when the
// stream ends.
func (m *Model) waitStream(ch chan sse.InsightEvent, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return streamClosedMsg{gen: gen}
		}
		return streamEventMsg{gen: gen, ev: ev}
	}
}

// fetchMore loads the next server page for the current generation.
func (m *Model) fetchMore() tea.Cmd {
	if !m.ctrl.HasMore() {
		return nil
	}
	c := m.deps.Client
	gen := m.streamGen
	query := m.ticker
	hours, limit := m.deps.Hours, m.deps.Limit
	offset := m.ctrl.NextOffset()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := c.Insight(ctx, query, hours, limit, offset)
		return insightMoreMsg{gen: gen, resp: resp, err: err}
	}
}

func (m *Model) saveHistory() tea.Cmd {
	if m.deps.History == nil {
		return nil
	}
	sum, ok := m.ctrl.Summary()
	if !ok {
		return nil
	}
	h := m.deps.History
	log := m.deps.Logger
	rec := store.QueryRecord{
		Query:      m.ticker,
		StockScore: sum.Score,
		Label:      string(sum.Label),
		ItemCount:  m.ctrl.List().Len(),
		QueriedAt:  time.Now().UTC(),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.SaveQuery(ctx, &rec); err != nil {
			log.Warn("saving query history", "error", err)
		}
		return nil
	}
}

// --- update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputOpen {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			if m.streamCancel != nil {
				m.streamCancel()
			}
			return m, tea.Quit
		case "tab", "e":
			m.ctrl.List().Toggle()
			m.refresh()
			return m, nil
		case "m":
			return m, m.fetchMore()
		case "r":
			return m, tea.Batch(m.fetchPortfolio(), m.fetchPrice(m.ticker), m.fetchRank())
		case "/":
			m.inputOpen = true
			m.queryInput.SetValue("")
			m.queryInput.Focus()
			return m, textinput.Blink
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refresh()
		return m, nil

	case startQueryMsg:
		cmd := m.startQuery(msg.query)
		m.refresh()
		return m, cmd

	case tickMsg:
		return m, tea.Batch(tickCmd(), m.fetchPrice(m.ticker), m.fetchPortfolio())

	case priceMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if msg.ticker == m.ticker {
			m.prevPrice = m.lastPrice
			m.lastPrice = msg.price
		}
		m.book.RecordPrice(msg.ticker, msg.price)
		m.refresh()
		return m, nil

	case historyMsg:
		if msg.err == nil && msg.ticker == m.ticker && len(m.book.PriceHistory(msg.ticker)) == 0 {
			for _, p := range msg.points {
				m.book.RecordPrice(msg.ticker, p.Close)
			}
			m.refresh()
		}
		return m, nil

	case portfolioMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.book.SetSnapshot(msg.resp.Balance, msg.resp.Portfolio)
		m.refresh()
		return m, nil

	case rankMsg:
		if msg.err == nil {
			m.rank, m.rankTotal = msg.rank, msg.total
			m.refresh()
		}
		return m, nil

	case insightBatchMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.gen, msg.err)
		} else {
			m.ctrl.ApplyBatch(msg.gen, msg.resp.Items, msg.resp.StockScore,
				msg.resp.Total, msg.resp.HasMore, msg.resp.Offset+len(msg.resp.Items))
		}
		m.refresh()
		return m, m.saveHistory()

	case insightMoreMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.ctrl.ApplyMore(msg.gen, msg.resp.Items, msg.resp.HasMore,
				msg.resp.Offset+len(msg.resp.Items))
		}
		m.refresh()
		return m, nil

	case streamEventMsg:
		if msg.gen != m.streamGen {
			// A superseded query's reader. Re-arming it would pair the
			// stale token with the live channel and steal the current
			// query's events, so it stops here.
			return m, nil
		}
		changed := m.ctrl.ApplyStreamEvent(msg.gen, insight.StreamEvent{
			Type:       msg.ev.Type,
			Item:       msg.ev.Item,
			StockScore: msg.ev.StockScore,
			Message:    msg.ev.Message,
		})
		if changed {
			m.refresh()
		}
		if msg.ev.Type == sse.EventDone {
			if m.streamCancel != nil {
				m.streamCancel()
				m.streamCancel = nil
			}
			return m, m.saveHistory()
		}
		return m, m.waitStream(m.streamCh, msg.gen)

	case streamClosedMsg:
		// A stream that closes before its done event leaves the query
		// unsettled; admitted items stay visible alongside the error.
		if msg.gen == m.streamGen {
			if sum, ok := m.ctrl.Summary(); !ok || sum.Provisional {
				m.ctrl.Fail(msg.gen, api.ErrStreamClosed)
				m.refresh()
			}
		}
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.queryInput.Value()
		m.inputOpen = false
		m.queryInput.Blur()
		if query == "" {
			return m, nil
		}
		m.ticker = query
		m.lastPrice, m.prevPrice = 0, 0
		cmd := m.startQuery(query)
		m.refresh()
		return m, tea.Batch(cmd, m.fetchPrice(query), m.fetchHistory(query))
	case "esc":
		m.inputOpen = false
		m.queryInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, cmd
}

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
	}
}
