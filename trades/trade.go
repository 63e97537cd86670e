// Package trades holds the domain model for the dashboard: trades as the
// trading terminal reports them, user annotations, and account snapshots.
// Everything here is shape plus invariants; behavior lives in the packages
// that derive views from it.
package trades

import (
	"sort"
)

// Side is the direction of a trade. The terminal encodes Sell as 0 and Buy
// as 1 on the wire.
type Side int

const (
	Sell Side = 0
	Buy  Side = 1
)

func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

// Trade is a single position as observed from the remote terminal. Trades
// are read-only on this side: they are created and closed remotely and the
// dashboard never mutates one locally.
type Trade struct {
	Ticket    int64     `json:"ticket"`
	Symbol    string    `json:"symbol"`
	Type      Side      `json:"type"`
	Lots      float64   `json:"lots"`
	OpenPrice float64   `json:"open_price"`
	SL        *float64  `json:"sl"`
	TP        *float64  `json:"tp"`
	Profit    *float64  `json:"profit"`
	OpenTime  Timestamp `json:"open_time"`
	CloseTime Timestamp `json:"close_time"`
}

// Closed reports whether the trade has been closed on the terminal side.
// A trade is open iff it lacks a close time and a realized profit.
func (t Trade) Closed() bool {
	return !t.CloseTime.IsZero() && t.Profit != nil
}

// RealizedProfit returns the closed profit, or 0 for an open trade.
func (t Trade) RealizedProfit() float64 {
	if t.Profit == nil {
		return 0
	}
	return *t.Profit
}

// Valid reports whether the record passes the ingestion data-quality guard.
// The terminal occasionally emits rows with a blank symbol; those are
// dropped wherever trades enter the cache.
func (t Trade) Valid() bool {
	return t.Symbol != ""
}

// SortByCloseTime orders trades by non-decreasing close time in place.
// Drawdown and capital-curve computations require this ordering.
func SortByCloseTime(ts []Trade) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].CloseTime.Before(ts[j].CloseTime.Time)
	})
}

// SortByCloseTimeDesc orders trades most recently closed first, the order
// the closed-trades listing is browsed in.
func SortByCloseTimeDesc(ts []Trade) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[j].CloseTime.Before(ts[i].CloseTime.Time)
	})
}
