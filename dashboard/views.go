package dashboard

import (
	"fmt"

	"github.com/theglitchis/mt4dash/curve"
	"github.com/theglitchis/mt4dash/paging"
	"github.com/theglitchis/mt4dash/stats"
	"github.com/theglitchis/mt4dash/store"
	"github.com/theglitchis/mt4dash/trades"
)

// StatsView bundles the derived metrics for display.
type StatsView struct {
	Summary     stats.Summary
	MaxDrawdown float64
}

// FormatRR renders the average risk/reward with two decimals, "n/a" when no
// closed trade contributed a defined ratio.
func (v StatsView) FormatRR() string {
	if v.Summary.GainCount+v.Summary.LossCount == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", stats.Round2(v.Summary.AvgRR))
}

// Page describes the pager position alongside a slice of closed trades.
type Page struct {
	Trades  []trades.Trade
	Number  int
	HasPrev bool
	HasNext bool
}

// Views derives read models from the store on demand. Every call reads the
// current cached state; nothing is precomputed or memoized.
type Views struct {
	store   *store.Store
	pager   *paging.Pager
	palette curve.Palette
}

// NewViews builds a view service over the shared store and pager.
func NewViews(st *store.Store, pager *paging.Pager, palette curve.Palette) *Views {
	return &Views{store: st, pager: pager, palette: palette}
}

// Stats summarizes the closed trades currently in the store.
func (v *Views) Stats() StatsView {
	closed := v.store.ClosedTrades()
	trades.SortByCloseTime(closed)
	return StatsView{
		Summary:     stats.Summarize(closed),
		MaxDrawdown: stats.MaxDrawdown(closed),
	}
}

// Curve builds the capital curve from the cached closed trades and capital
// base. curve.ErrNoData passes through when no trade has closed yet.
func (v *Views) Curve() (*curve.Curve, error) {
	closed := v.store.ClosedTrades()
	trades.SortByCloseTime(closed)
	return curve.Build(closed, v.store.CapitalBase(), v.palette)
}

// ClosedPage returns the pager's current window over the closed trades,
// newest first.
func (v *Views) ClosedPage() Page {
	closed := v.store.ClosedTrades()
	v.pager.Clamp(len(closed))
	return Page{
		Trades:  paging.View(v.pager, closed),
		Number:  v.pager.Page(),
		HasPrev: v.pager.HasPrev(),
		HasNext: v.pager.HasNext(len(closed)),
	}
}

// OpenTrades lists the cached open positions.
func (v *Views) OpenTrades() []trades.Trade {
	return v.store.OpenTrades()
}

// Comment looks up the cached comment for a ticket.
func (v *Views) Comment(ticket int64) (trades.Comment, bool) {
	return v.store.Comment(ticket)
}

// Account returns the latest account snapshot, if one has been fetched.
func (v *Views) Account() (trades.AccountSnapshot, bool) {
	return v.store.Account()
}
