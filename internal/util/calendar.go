package util

import (
	"time"
)

// TradingCalendar provides session awareness for the Taiwan exchange, whose
// continuous session runs 09:00-13:30 local time on weekdays. Holidays are
// not modelled; the backend simply returns stale quotes on those days.
type TradingCalendar struct {
	loc *time.Location
}

// NewTradingCalendar creates a calendar pinned to Asia/Taipei. It falls back
// to a fixed +8 zone if the tz database is unavailable.
func NewTradingCalendar() *TradingCalendar {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		loc = time.FixedZone("CST", 8*3600)
	}
	return &TradingCalendar{loc: loc}
}

// sessionBounds returns the open and close instants for the trading day
// containing t (in exchange-local time).
func (tc *TradingCalendar) sessionBounds(t time.Time) (open, close time.Time) {
	lt := t.In(tc.loc)
	open = time.Date(lt.Year(), lt.Month(), lt.Day(), 9, 0, 0, 0, tc.loc)
	close = time.Date(lt.Year(), lt.Month(), lt.Day(), 13, 30, 0, 0, tc.loc)
	return open, close
}

// IsMarketOpen returns whether the exchange session is in progress at t.
func (tc *TradingCalendar) IsMarketOpen(t time.Time) bool {
	lt := t.In(tc.loc)
	if lt.Weekday() == time.Saturday || lt.Weekday() == time.Sunday {
		return false
	}
	open, close := tc.sessionBounds(t)
	return !lt.Before(open) && lt.Before(close)
}

// NextOpen returns the next session open at or after t.
func (tc *TradingCalendar) NextOpen(t time.Time) time.Time {
	lt := t.In(tc.loc)
	for {
		open, _ := tc.sessionBounds(lt)
		if lt.Weekday() != time.Saturday && lt.Weekday() != time.Sunday && !lt.After(open) {
			return open
		}
		lt = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, tc.loc).AddDate(0, 0, 1)
	}
}

// NextClose returns the close of the session containing or following t.
func (tc *TradingCalendar) NextClose(t time.Time) time.Time {
	lt := t.In(tc.loc)
	for {
		_, close := tc.sessionBounds(lt)
		if lt.Weekday() != time.Saturday && lt.Weekday() != time.Sunday && lt.Before(close) {
			return close
		}
		lt = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, tc.loc).AddDate(0, 0, 1)
	}
}
