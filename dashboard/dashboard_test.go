package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theglitchis/mt4dash/comments"
	"github.com/theglitchis/mt4dash/curve"
	"github.com/theglitchis/mt4dash/dashapi"
	"github.com/theglitchis/mt4dash/paging"
	"github.com/theglitchis/mt4dash/poll"
	"github.com/theglitchis/mt4dash/store"
	"github.com/theglitchis/mt4dash/trades"
)

func ptr(f float64) *float64 { return &f }

func closedTrade(ticket int64, symbol string, profit float64, closeTime string) trades.Trade {
	ct, _ := time.Parse(trades.Layout, closeTime)
	return trades.Trade{
		Ticket:    ticket,
		Symbol:    symbol,
		Type:      trades.Buy,
		Lots:      0.1,
		OpenPrice: 1.1,
		Profit:    &profit,
		OpenTime:  trades.Timestamp{Time: ct.Add(-time.Hour)},
		CloseTime: trades.Timestamp{Time: ct},
	}
}

type harness struct {
	disp  *Dispatcher
	views *Views
	store *store.Store
	pager *paging.Pager
	paths []string
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()

	h := &harness{
		store: store.New(zerolog.Nop()),
		pager: paging.NewPager(10),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.paths = append(h.paths, r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	api := dashapi.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	rec := comments.New(api, h.store, &poll.EditLock{}, zerolog.Nop())
	h.disp = NewDispatcher(api, h.store, h.pager, rec, zerolog.Nop())
	h.views = NewViews(h.store, h.pager, curve.FallbackPalette())
	return h
}

func successHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/comments" {
		w.Write([]byte(`{"status": "success", "data": {}}`))
		return
	}
	w.Write([]byte(`{"status": "success"}`))
}

func seedClosed(s *store.Store, n int) {
	ts := make([]trades.Trade, n)
	for i := range ts {
		ts[i] = closedTrade(int64(i+1), "EURUSD", float64(i),
			fmt.Sprintf("2024.03.%02d 12:00", i%28+1))
	}
	s.ReplaceTrades(nil, ts)
}

func TestPagingCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t, successHandler)
	seedClosed(h.store, 25)
	ctx := context.Background()

	require.NoError(t, h.disp.Handle(ctx, NextPage{}))
	require.NoError(t, h.disp.Handle(ctx, NextPage{}))
	assert.Equal(t, 2, h.pager.Page())
	assert.Len(t, h.views.ClosedPage().Trades, 5)

	// Bounded at the last page.
	require.NoError(t, h.disp.Handle(ctx, NextPage{}))
	assert.Equal(t, 2, h.pager.Page())

	require.NoError(t, h.disp.Handle(ctx, PrevPage{}))
	assert.Equal(t, 1, h.pager.Page())
	assert.True(t, h.views.ClosedPage().HasPrev)
	assert.True(t, h.views.ClosedPage().HasNext)
}

func TestReloadClosed_ResetsPager(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/trades", r.URL.Path)
		w.Write([]byte(`{"status": "success", "data": {
			"account": {"balance": 1500, "currency": "EUR"},
			"open_trades": [],
			"closed_trades": [
				{"ticket": 9, "symbol": "GBPUSD", "type": 0, "lots": 0.2,
				 "open_price": 1.27, "profit": -12.5,
				 "open_time": "2024.04.01 08:00", "close_time": "2024.04.01 09:30"}
			]
		}}`))
	})
	seedClosed(h.store, 25)
	h.pager.Next(25)
	require.Equal(t, 1, h.pager.Page())

	require.NoError(t, h.disp.Handle(context.Background(), ReloadClosed{}))

	assert.Equal(t, 0, h.pager.Page())
	closed := h.store.ClosedTrades()
	require.Len(t, closed, 1)
	assert.Equal(t, int64(9), closed[0].Ticket)
	acc, ok := h.store.Account()
	require.True(t, ok)
	assert.Equal(t, 1500.0, acc.Balance)
}

func TestCloseTrade_InvalidatesCommentAndRefetches(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/trades/close":
			w.Write([]byte(`{"status": "success"}`))
		case "/api/comments":
			w.Write([]byte(`{"status": "success", "data": {"2": {"text": "kept"}}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	h.store.MergeComments(map[int64]trades.Comment{
		1: {Text: "stale"},
		2: {Text: "kept"},
	})

	require.NoError(t, h.disp.Handle(context.Background(), CloseTrade{Ticket: 1}))

	_, ok := h.store.Comment(1)
	assert.False(t, ok)
	_, ok = h.store.Comment(2)
	assert.True(t, ok)
	assert.Equal(t, []string{"/api/trades/close", "/api/comments"}, h.paths)
}

func TestAnnotateTrade_Refetches(t *testing.T) {
	t.Parallel()

	h := newHarness(t, successHandler)
	require.NoError(t, h.disp.Handle(context.Background(), AnnotateTrade{Ticket: 3}))
	assert.Equal(t, []string{"/api/trades/annotate", "/api/comments"}, h.paths)
}

func TestEditFlowThroughDispatcher(t *testing.T) {
	t.Parallel()

	h := newHarness(t, successHandler)
	ctx := context.Background()

	// Submitting without an open session fails.
	err := h.disp.Handle(ctx, SubmitComment{Draft: comments.Draft{Text: "x"}})
	assert.ErrorIs(t, err, comments.ErrNoSession)

	require.NoError(t, h.disp.Handle(ctx, OpenEdit{Ticket: 42}))
	// Only one edit at a time.
	err = h.disp.Handle(ctx, OpenEdit{Ticket: 43})
	assert.ErrorIs(t, err, comments.ErrEditInProgress)

	require.NoError(t, h.disp.Handle(ctx, SubmitComment{
		Draft: comments.Draft{Text: "solid entry", Confidence: 4, Satisfaction: 3},
	}))
	c, ok := h.store.Comment(42)
	require.True(t, ok)
	assert.Equal(t, "solid entry", c.Text)

	// The lock is free again after the save.
	require.NoError(t, h.disp.Handle(ctx, OpenEdit{Ticket: 43}))
	require.NoError(t, h.disp.Handle(ctx, CancelEdit{}))
}

func TestUnhandledCommand(t *testing.T) {
	t.Parallel()

	type rogue struct{ Command }
	h := newHarness(t, successHandler)
	err := h.disp.Handle(context.Background(), rogue{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unhandled command"))
}

func TestViewsStats(t *testing.T) {
	t.Parallel()

	h := newHarness(t, successHandler)

	sl, tp := ptr(1.0950), ptr(1.1100)
	win := closedTrade(1, "EURUSD", 100, "2024.03.01 10:00")
	win.SL, win.TP = sl, tp
	loss := closedTrade(2, "EURUSD", -50, "2024.03.02 10:00")
	h.store.ReplaceTrades(nil, []trades.Trade{win, loss})

	sv := h.views.Stats()
	assert.Equal(t, 1, sv.Summary.GainCount)
	assert.Equal(t, 1, sv.Summary.LossCount)
	assert.Equal(t, 100.0, sv.Summary.Best)
	assert.Equal(t, -50.0, sv.Summary.Worst)
	assert.InDelta(t, 50.0, sv.MaxDrawdown, 1e-9)
	assert.NotEqual(t, "n/a", sv.FormatRR())
}

func TestViewsStats_EmptyRR(t *testing.T) {
	t.Parallel()

	h := newHarness(t, successHandler)
	assert.Equal(t, "n/a", h.views.Stats().FormatRR())
}

func TestViewsCurve(t *testing.T) {
	t.Parallel()

	h := newHarness(t, successHandler)

	_, err := h.views.Curve()
	assert.ErrorIs(t, err, curve.ErrNoData)

	h.store.SetCapitalBase(1000)
	h.store.ReplaceTrades(nil, []trades.Trade{
		closedTrade(1, "EURUSD", 100, "2024.03.01 10:00"),
		closedTrade(2, "GBPUSD", -30, "2024.03.02 10:00"),
	})

	c, err := h.views.Curve()
	require.NoError(t, err)
	assert.InDelta(t, 1070.0, c.FinalCapital(), 1e-9)
	assert.Len(t, c.Segments, 2)
}
