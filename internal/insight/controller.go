package insight

import (
	"tradeview/internal/domain"
)

// State is the lifecycle phase of one insight query.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateEmpty
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Controller owns the list state for the insight panel across queries. Each
// Begin hands out a generation token; results delivered with a stale token
// are from a superseded query and are dropped without touching the list.
// Like List, a Controller has a single logical owner and is not safe for
// concurrent use.
type Controller struct {
	list  *List
	gen   uint64
	state State

	summary    Summary
	hasSummary bool
	err        error

	// running stream statistics for the provisional score
	streamSum   float64
	streamCount int

	// server-side pagination cursor
	hasMore    bool
	nextOffset int
}

// NewController creates a controller in the idle state.
func NewController() *Controller {
	return &Controller{list: NewList(), state: StateIdle}
}

// Begin starts a new query: the list resets, the state becomes loading, and
// all previously issued tokens go stale. Returns the new generation token.
func (c *Controller) Begin() uint64 {
	c.gen++
	c.list.Reset()
	c.state = StateLoading
	c.summary = Summary{}
	c.hasSummary = false
	c.err = nil
	c.streamSum = 0
	c.streamCount = 0
	c.hasMore = false
	c.nextOffset = 0
	return c.gen
}

// Current reports whether gen is the live generation token.
func (c *Controller) Current(gen uint64) bool {
	return gen == c.gen
}

// ApplyBatch installs a full batch response: items pass through the
// duplicate guard in order, the backend's score becomes the authoritative
// summary, and the state settles to populated or empty. Stale tokens are
// ignored.
func (c *Controller) ApplyBatch(gen uint64, items []domain.EventItem, stockScore float64, total int, hasMore bool, nextOffset int) {
	if gen != c.gen {
		return
	}
	for _, it := range items {
		c.list.Append(it)
	}
	c.summary = NewSummary(stockScore, false)
	c.hasSummary = true
	c.hasMore = hasMore
	c.nextOffset = nextOffset
	c.settle()
}

// ApplyMore appends a later server page to the current query. The summary
// is left as the first page delivered it.
func (c *Controller) ApplyMore(gen uint64, items []domain.EventItem, hasMore bool, nextOffset int) {
	if gen != c.gen {
		return
	}
	for _, it := range items {
		c.list.Append(it)
	}
	c.hasMore = hasMore
	c.nextOffset = nextOffset
	c.settle()
}

// ApplyStreamEvent folds one stream event into the list. Item and update
// events go through the duplicate guard and advance a provisional running
// average; meta events replace the provisional score; a done event installs
// the authoritative score and settles the state. Returns true when the
// panel should re-render: an item was admitted or the summary changed.
func (c *Controller) ApplyStreamEvent(gen uint64, ev StreamEvent) bool {
	if gen != c.gen {
		return false
	}
	switch ev.Type {
	case StreamItem, StreamUpdate:
		if ev.Item == nil {
			return false
		}
		// The average runs over every admitted item, including ones a
		// collapsed list keeps below the fold, so admission is judged by
		// list growth rather than Append's visible-change report.
		before := c.list.Len()
		c.list.Append(*ev.Item)
		if c.list.Len() == before {
			return false
		}
		c.streamSum += ev.Item.EventScore
		c.streamCount++
		c.summary = NewSummary(c.streamSum/float64(c.streamCount), true)
		c.hasSummary = true
		if c.state == StateLoading {
			c.state = StatePopulated
		}
		return true
	case StreamMeta:
		// Meta frames may carry an early score estimate; it stays
		// provisional until done.
		if ev.StockScore != nil {
			c.summary = NewSummary(*ev.StockScore, true)
			c.hasSummary = true
			return true
		}
		return false
	case StreamDone:
		if ev.StockScore != nil {
			c.summary = NewSummary(*ev.StockScore, false)
			c.hasSummary = true
		} else if c.hasSummary {
			c.summary.Provisional = false
		}
		c.settle()
		return true
	default:
		return false
	}
}

// StreamEvent is the controller's view of one stream frame.
type StreamEvent struct {
	Type       string
	Item       *domain.EventItem
	StockScore *float64
	Message    string
}

// Stream event types accepted by ApplyStreamEvent.
const (
	StreamMeta   = "meta"
	StreamItem   = "item"
	StreamUpdate = "update"
	StreamDone   = "done"
)

// Fail records a query failure. Items already admitted stay visible; only
// the state and error change. Stale tokens are ignored.
func (c *Controller) Fail(gen uint64, err error) {
	if gen != c.gen {
		return
	}
	c.state = StateFailed
	c.err = err
}

func (c *Controller) settle() {
	if c.list.Len() == 0 {
		c.state = StateEmpty
	} else {
		c.state = StatePopulated
	}
}

// State returns the current lifecycle phase.
func (c *Controller) State() State { return c.state }

// Err returns the recorded failure, or nil.
func (c *Controller) Err() error { return c.err }

// Summary returns the current aggregate sentiment and whether one exists
// yet for this query.
func (c *Controller) Summary() (Summary, bool) {
	return c.summary, c.hasSummary
}

// List exposes the underlying list for rendering and expand/collapse.
func (c *Controller) List() *List { return c.list }

// HasMore reports whether another server page exists, and NextOffset where
// it starts.
func (c *Controller) HasMore() bool   { return c.hasMore }
func (c *Controller) NextOffset() int { return c.nextOffset }
