package api

import (
	"tradeview/internal/domain"
)

// Response envelopes for the backend's JSON endpoints. Field names follow
// the backend's wire format exactly.

type priceResponse struct {
	Success bool    `json:"success"`
	Price   float64 `json:"price"`
	Message string  `json:"message"`
}

type historyResponse struct {
	Success bool                  `json:"success"`
	Data    []domain.HistoryPoint `json:"data"`
	Message string                `json:"message"`
}

type tradeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PortfolioResponse is the full portfolio snapshot: cash balance plus one
// entry per held ticker.
type PortfolioResponse struct {
	Balance   float64           `json:"balance"`
	Portfolio []domain.Position `json:"portfolio"`
}

type rankResponse struct {
	Success bool `json:"success"`
	Rank    int  `json:"rank"`
	Total   int  `json:"total"`
}

// EventsResponse is the batch answer from the events endpoint.
type EventsResponse struct {
	Success bool               `json:"success"`
	Items   []domain.EventItem `json:"items"`
	Message string             `json:"message"`
	Debug   string             `json:"debug,omitempty"`
}

// InsightResponse is the batch answer from the scored-insight endpoint.
// Offset/Limit/HasMore drive server-side pagination, which is a separate
// strategy from the client-side collapsed-list cap.
type InsightResponse struct {
	Success    bool               `json:"success"`
	StockScore float64            `json:"stock_score"`
	Items      []domain.EventItem `json:"items"`
	TopItems   []domain.EventItem `json:"top_items"`
	Total      int                `json:"total"`
	Offset     int                `json:"offset"`
	Limit      int                `json:"limit"`
	HasMore    bool               `json:"has_more"`
	Message    string             `json:"message"`
}

// TimelineMeta describes the intraday timeline window.
type TimelineMeta struct {
	Open  float64 `json:"open"`
	Step  int     `json:"step"`
	Count int     `json:"count"`
}

// TimelineResponse is the intraday timeline answer.
type TimelineResponse struct {
	Success bool                  `json:"success"`
	Meta    TimelineMeta          `json:"meta"`
	Marks   []domain.TimelineMark `json:"marks"`
	Message string                `json:"message"`
}
