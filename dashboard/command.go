// Package dashboard glues the client core together: typed commands routed by
// a Dispatcher, and derived read views over the shared store.
package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/theglitchis/mt4dash/comments"
	"github.com/theglitchis/mt4dash/dashapi"
	"github.com/theglitchis/mt4dash/paging"
	"github.com/theglitchis/mt4dash/store"
)

// Command is a user action against the dashboard. Each concrete command
// carries its own parameters; the Dispatcher routes on the concrete type.
type Command interface {
	command()
}

// OpenEdit starts a comment edit session for a ticket.
type OpenEdit struct {
	Ticket int64
}

// SubmitComment replaces the open session's draft and saves it.
type SubmitComment struct {
	Draft comments.Draft
}

// CancelEdit abandons the open edit session.
type CancelEdit struct{}

// DeleteComment removes a ticket's comment remotely and locally.
type DeleteComment struct {
	Ticket int64
}

// CloseTrade asks the remote service to close an open trade.
type CloseTrade struct {
	Ticket int64
}

// AnnotateTrade asks the remote service to apply protective levels to a
// trade.
type AnnotateTrade struct {
	Ticket int64
}

// NextPage advances the closed-trades pager.
type NextPage struct{}

// PrevPage steps the closed-trades pager back.
type PrevPage struct{}

// ReloadClosed refetches the full dashboard and resets the pager to the
// first page. This is the only path that resets the page index.
type ReloadClosed struct{}

func (OpenEdit) command()      {}
func (SubmitComment) command() {}
func (CancelEdit) command()    {}
func (DeleteComment) command() {}
func (CloseTrade) command()    {}
func (AnnotateTrade) command() {}
func (NextPage) command()      {}
func (PrevPage) command()      {}
func (ReloadClosed) command()  {}

// Dispatcher routes commands to the reconciler, pager, remote client and
// store. It is not safe for concurrent use; callers serialize commands the
// way a single UI loop would.
type Dispatcher struct {
	api   *dashapi.Client
	store *store.Store
	pager *paging.Pager
	rec   *comments.Reconciler
	log   zerolog.Logger
}

// NewDispatcher wires a dispatcher over already-constructed parts.
func NewDispatcher(api *dashapi.Client, st *store.Store, pager *paging.Pager, rec *comments.Reconciler, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		api:   api,
		store: st,
		pager: pager,
		rec:   rec,
		log:   log.With().Str("component", "dispatcher").Logger(),
	}
}

// Handle executes one command. Errors from the underlying parts are wrapped
// with the command name; an unrecognized command type is a programming
// error and is reported as such.
func (d *Dispatcher) Handle(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case OpenEdit:
		if _, err := d.rec.Begin(c.Ticket); err != nil {
			return fmt.Errorf("open edit: %w", err)
		}
		return nil

	case SubmitComment:
		s := d.rec.Session()
		if s == nil {
			return fmt.Errorf("submit comment: %w", comments.ErrNoSession)
		}
		s.Draft = c.Draft
		if err := d.rec.Save(ctx); err != nil {
			return fmt.Errorf("submit comment: %w", err)
		}
		return nil

	case CancelEdit:
		if err := d.rec.Cancel(); err != nil {
			return fmt.Errorf("cancel edit: %w", err)
		}
		return nil

	case DeleteComment:
		if err := d.rec.Delete(ctx, c.Ticket); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil

	case CloseTrade:
		if err := d.api.CloseTrade(ctx, c.Ticket); err != nil {
			return fmt.Errorf("close trade %d: %w", c.Ticket, err)
		}
		// The closed trade's comment may have been consumed server-side;
		// drop it and refetch the authoritative set.
		d.store.RemoveComment(c.Ticket)
		if err := d.rec.Resync(ctx); err != nil {
			d.log.Warn().Err(err).Int64("ticket", c.Ticket).Msg("comment refetch after close failed")
		}
		return nil

	case AnnotateTrade:
		if err := d.api.AnnotateTrade(ctx, c.Ticket); err != nil {
			return fmt.Errorf("annotate trade %d: %w", c.Ticket, err)
		}
		if err := d.rec.Resync(ctx); err != nil {
			d.log.Warn().Err(err).Int64("ticket", c.Ticket).Msg("comment refetch after annotate failed")
		}
		return nil

	case NextPage:
		d.pager.Next(len(d.store.ClosedTrades()))
		return nil

	case PrevPage:
		d.pager.Prev()
		return nil

	case ReloadClosed:
		dash, err := d.api.GetDashboard(ctx)
		if err != nil {
			return fmt.Errorf("reload trades: %w", err)
		}
		d.store.ReplaceTrades(dash.OpenTrades, dash.ClosedTrades)
		d.store.ReplaceAccount(dash.Account)
		d.pager.Reset()
		return nil

	default:
		return fmt.Errorf("unhandled command type %T", cmd)
	}
}
