// Package store is the process-wide cache of the latest known remote state:
// trades, comments, account, capital baseline, and terminal configuration.
// Writers are the polling completion handlers and confirmed comment writes;
// every other component reads copies.
package store

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/theglitchis/mt4dash/trades"
)

// Store holds the latest fetched state. All methods are safe for concurrent
// use; read accessors return copies so callers can never observe a write in
// progress.
type Store struct {
	mu sync.RWMutex

	open    []trades.Trade
	closed  []trades.Trade
	byTick  map[int64]trades.Comment
	account trades.AccountSnapshot
	hasAcct bool
	capital float64
	config  trades.RemoteConfig
	hasCfg  bool

	log zerolog.Logger
}

// New creates an empty store. The logger is used only for data-quality
// drops; pass zerolog.Nop() when that noise is unwanted.
func New(log zerolog.Logger) *Store {
	return &Store{
		byTick: make(map[int64]trades.Comment),
		log:    log,
	}
}

// ReplaceTrades swaps in a freshly fetched trade snapshot. This is the
// single ingestion point for trades: rows with a blank symbol are dropped
// here, silently as far as the user is concerned.
func (s *Store) ReplaceTrades(open, closed []trades.Trade) {
	openOK := filterValid(open)
	closedOK := filterValid(closed)
	if dropped := len(open) + len(closed) - len(openOK) - len(closedOK); dropped > 0 {
		s.log.Debug().Int("dropped", dropped).Msg("excluded trades with missing symbol")
	}
	trades.SortByCloseTimeDesc(closedOK)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = openOK
	s.closed = closedOK
}

func filterValid(ts []trades.Trade) []trades.Trade {
	out := make([]trades.Trade, 0, len(ts))
	for _, t := range ts {
		if t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// ReplaceAccount swaps in the latest account snapshot wholesale.
func (s *Store) ReplaceAccount(acc trades.AccountSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = acc
	s.hasAcct = true
}

// SetCapitalBase records the capital baseline used as the reference for
// percentage display and the curve's starting value.
func (s *Store) SetCapitalBase(capital float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capital = capital
}

// MergeComments replaces the comment cache with an authoritative fetch.
func (s *Store) MergeComments(byTicket map[int64]trades.Comment) {
	next := make(map[int64]trades.Comment, len(byTicket))
	for k, v := range byTicket {
		next[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTick = next
}

// UpsertComment applies a confirmed save: the saved fields win, while
// fields the edit form does not carry (date, status, printer, created_at)
// are preserved from the cached copy if one exists.
func (s *Store) UpsertComment(ticket int64, saved trades.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byTick[ticket]; ok {
		if saved.Date == "" {
			saved.Date = prev.Date
		}
		if saved.Status == "" {
			saved.Status = prev.Status
		}
		if saved.Printer == "" {
			saved.Printer = prev.Printer
		}
		if saved.CreatedAt == "" {
			saved.CreatedAt = prev.CreatedAt
		}
		if saved.UpdatedAt == "" {
			saved.UpdatedAt = prev.UpdatedAt
		}
	}
	s.byTick[ticket] = saved
}

// RemoveComment deletes a comment after remote confirmation.
func (s *Store) RemoveComment(ticket int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byTick, ticket)
}

// ReplaceConfig swaps in a freshly fetched terminal configuration.
func (s *Store) ReplaceConfig(cfg trades.RemoteConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.hasCfg = true
}

// MergeConfigSection applies a confirmed section-scoped partial update.
// An empty section name patches root-level fields. Unknown sections and
// fields are ignored; the payload mirrors what the server acknowledged.
func (s *Store) MergeConfigSection(section string, partial map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if section == "" {
		if v, ok := partial["closeBloc_allTrade"]; ok {
			s.config.CloseAllTrades = cast.ToBool(v)
		}
		return
	}
	sec := s.config.Section(section)
	if sec == nil {
		s.log.Debug().Str("section", section).Msg("ignoring unknown config section")
		return
	}
	if v, ok := partial["enabled"]; ok {
		sec.Enabled = cast.ToBool(v)
	}
	if v, ok := partial["distance_pips"]; ok {
		sec.DistancePips = cast.ToInt(v)
	}
}

// OpenTrades returns a copy of the cached open trades.
func (s *Store) OpenTrades() []trades.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]trades.Trade(nil), s.open...)
}

// ClosedTrades returns a copy of the cached closed trades, most recently
// closed first.
func (s *Store) ClosedTrades() []trades.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]trades.Trade(nil), s.closed...)
}

// Comment returns the cached comment for a ticket, if any.
func (s *Store) Comment(ticket int64) (trades.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byTick[ticket]
	return c, ok
}

// Comments returns a copy of the whole comment cache.
func (s *Store) Comments() map[int64]trades.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]trades.Comment, len(s.byTick))
	for k, v := range s.byTick {
		out[k] = v
	}
	return out
}

// Account returns the latest account snapshot; ok is false before the first
// successful poll.
func (s *Store) Account() (trades.AccountSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.hasAcct
}

// CapitalBase returns the recorded capital baseline.
func (s *Store) CapitalBase() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capital
}

// Config returns the cached terminal configuration; ok is false before the
// first successful fetch.
func (s *Store) Config() (trades.RemoteConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.hasCfg
}
