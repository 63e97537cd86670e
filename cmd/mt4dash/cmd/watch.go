package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theglitchis/mt4dash/comments"
	"github.com/theglitchis/mt4dash/curve"
	"github.com/theglitchis/mt4dash/dashboard"
	"github.com/theglitchis/mt4dash/paging"
	"github.com/theglitchis/mt4dash/poll"
	"github.com/theglitchis/mt4dash/store"
	"github.com/theglitchis/mt4dash/trades"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the account live",
	Long: `Poll the dashboard service and render the account, open trades, the
latest closed trades and realized metrics until interrupted.

Example:
  mt4dash watch -f mt4dash.yaml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	api := newAPIClient(cfg, log)
	st := store.New(log)
	st.SetCapitalBase(cfg.FallbackCapital)

	lock := &poll.EditLock{}
	rec := comments.New(api, st, lock, log)
	pager := paging.NewPager(cfg.PageSize)
	views := dashboard.NewViews(st, pager, loadPalette(cfg, log))
	disp := dashboard.NewDispatcher(api, st, pager, rec, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prime the cache with a full load; the poller keeps it fresh after.
	if err := disp.Handle(ctx, dashboard.ReloadClosed{}); err != nil {
		log.Warn().Err(err).Msg("initial load failed, starting with an empty cache")
	}

	sched := poll.NewScheduler(lock, log)
	resources := []poll.Resource{
		{Name: "trades", Interval: cfg.Poll(), Refresh: func(ctx context.Context) error {
			dash, err := api.GetDashboard(ctx)
			if err != nil {
				return err
			}
			st.ReplaceTrades(dash.OpenTrades, dash.ClosedTrades)
			st.ReplaceAccount(dash.Account)
			return nil
		}},
		{Name: "capital", Interval: cfg.Poll(), Refresh: func(ctx context.Context) error {
			capital, err := api.GetCapital(ctx)
			if err != nil {
				return err
			}
			st.SetCapitalBase(capital)
			return nil
		}},
		{Name: "comments", Interval: cfg.Poll(), Refresh: rec.Resync},
		{Name: "config", Interval: cfg.Poll(), Refresh: func(ctx context.Context) error {
			remote, err := api.GetConfig(ctx)
			if err != nil {
				return err
			}
			st.ReplaceConfig(remote)
			return nil
		}},
		{Name: "curve", Interval: cfg.Curve(), Refresh: func(ctx context.Context) error {
			c, err := views.Curve()
			if errors.Is(err, curve.ErrNoData) {
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Float64("capital", c.FinalCapital()).Int("segments", len(c.Segments)).Msg("capital curve rebuilt")
			return nil
		}},
	}
	for _, r := range resources {
		if err := sched.Add(r); err != nil {
			return fmt.Errorf("register resource: %w", err)
		}
	}

	go sched.Run(ctx)

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nstopped")
			return nil
		case <-ticker.C:
			render(os.Stdout, views)
		}
	}
}

func render(w io.Writer, views *dashboard.Views) {
	if acc, ok := views.Account(); ok {
		fmt.Fprintf(w, "== %s (#%d) balance %.2f %s  equity %.2f  free margin %.2f\n",
			acc.Name, acc.Number, acc.Balance, acc.Currency, acc.Equity, acc.FreeMargin)
	}

	sv := views.Stats()
	fmt.Fprintf(w, "R/R %s  avg gain %.2f  avg loss %.2f  best %.2f  worst %.2f  drawdown %.2f%%\n",
		sv.FormatRR(), sv.Summary.AvgGain, sv.Summary.AvgLoss, sv.Summary.Best, sv.Summary.Worst, sv.MaxDrawdown)

	open := views.OpenTrades()
	fmt.Fprintf(w, "-- open (%d)\n", len(open))
	for _, t := range open {
		fmt.Fprintf(w, "  #%d %-10s %-4s %.2f lots @ %.5f\n",
			t.Ticket, t.Symbol, t.Type, t.Lots, t.OpenPrice)
	}

	page := views.ClosedPage()
	fmt.Fprintf(w, "-- closed (page %d)\n", page.Number+1)
	for _, t := range page.Trades {
		fmt.Fprintf(w, "  #%d %-10s %-4s %+.2f  closed %s%s\n",
			t.Ticket, t.Symbol, t.Type, t.RealizedProfit(),
			t.CloseTime.Format(trades.Layout), commentMarker(views, t.Ticket))
	}
	fmt.Fprintln(w)
}

func commentMarker(views *dashboard.Views, ticket int64) string {
	c, ok := views.Comment(ticket)
	if !ok || c.Empty() {
		return ""
	}
	return "  [commented]"
}
