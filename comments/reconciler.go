// Package comments reconciles user edits to trade annotations with the
// remote authoritative copy. An edit runs as an explicit session state
// machine (Idle, Editing, Saving) so the rule for what wins on conflict is
// auditable: the draft is applied optimistically to the cache only after
// the remote accepts it, and a failed save keeps the draft for retry.
package comments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/theglitchis/mt4dash/dashapi"
	"github.com/theglitchis/mt4dash/poll"
	"github.com/theglitchis/mt4dash/store"
	"github.com/theglitchis/mt4dash/trades"
)

// State is the edit-session lifecycle phase.
type State int

const (
	Idle State = iota
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "idle"
	}
}

// ErrEditInProgress is returned by Begin while another session holds the
// edit lock.
var ErrEditInProgress = errors.New("another comment edit is in progress")

// ErrNoSession is returned by Save and Cancel when no session is open.
var ErrNoSession = errors.New("no edit session open")

// ValidationError reports a draft that failed local validation. No remote
// call is made for an invalid draft and the session stays in Editing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid comment: " + e.Reason
}

// Draft is the editable comment copy a session works on.
type Draft struct {
	Text         string `validate:"-"`
	Attente      string `validate:"-"`
	Confidence   int    `validate:"min=0,max=5"`
	Satisfaction int    `validate:"min=0,max=5"`
}

// Session is one comment edit in progress, keyed by ticket.
type Session struct {
	ID     string
	Ticket int64
	Draft  Draft
	state  State
}

// State returns the session's current phase.
func (s *Session) State() State { return s.state }

// Reconciler mediates comment writes between the user and the remote store.
type Reconciler struct {
	api      *dashapi.Client
	cache    *store.Store
	lock     *poll.EditLock
	validate *validator.Validate
	log      zerolog.Logger

	session *Session
}

// New creates a reconciler bound to the shared cache and edit lock.
func New(api *dashapi.Client, cache *store.Store, lock *poll.EditLock, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		api:      api,
		cache:    cache,
		lock:     lock,
		validate: validator.New(),
		log:      log.With().Str("component", "comments").Logger(),
	}
}

// Begin opens an edit session for a ticket, acquiring the edit lock so
// background refresh pauses. The draft is seeded from the cached comment
// when one exists, or an empty template otherwise.
func (r *Reconciler) Begin(ticket int64) (*Session, error) {
	if !r.lock.TryAcquire() {
		return nil, ErrEditInProgress
	}

	draft := Draft{}
	if cached, ok := r.cache.Comment(ticket); ok {
		draft = Draft{
			Text:         cached.Text,
			Attente:      cached.Attente,
			Confidence:   cached.Confidence,
			Satisfaction: cached.Satisfaction,
		}
	}

	r.session = &Session{
		ID:     ulid.Make().String(),
		Ticket: ticket,
		Draft:  draft,
		state:  Editing,
	}
	r.log.Debug().Str("session", r.session.ID).Int64("ticket", ticket).Msg("edit session opened")
	return r.session, nil
}

// Session returns the open session, if any.
func (r *Reconciler) Session() *Session { return r.session }

// Save validates the current draft and pushes it to the remote service.
// Validation failures never reach the network and leave the session in
// Editing. A remote failure also leaves the session in Editing with the
// draft intact so the user can retry; only success commits the draft to the
// cache, releases the lock, and closes the session.
func (r *Reconciler) Save(ctx context.Context) error {
	s := r.session
	if s == nil || s.state == Idle {
		return ErrNoSession
	}

	if err := r.validateDraft(s.Draft); err != nil {
		s.state = Editing
		return err
	}

	s.state = Saving
	payload := dashapi.NewCommentPayload(s.Ticket, trades.Comment{
		Text:         s.Draft.Text,
		Satisfaction: s.Draft.Satisfaction,
		Confidence:   s.Draft.Confidence,
		Attente:      s.Draft.Attente,
	})

	// Create or update is a client-side guess from the cache. It can race
	// with a concurrent deletion; the next comments poll corrects either
	// way.
	_, exists := r.cache.Comment(s.Ticket)
	var err error
	if exists {
		err = r.api.EditComment(ctx, payload)
	} else {
		err = r.api.AddComment(ctx, payload)
	}
	if err != nil {
		s.state = Editing
		r.log.Warn().Err(err).Str("session", s.ID).Int64("ticket", s.Ticket).Msg("comment save rejected")
		return fmt.Errorf("save comment %d: %w", s.Ticket, err)
	}

	r.cache.UpsertComment(s.Ticket, trades.Comment{
		Text:         s.Draft.Text,
		Attente:      s.Draft.Attente,
		Confidence:   s.Draft.Confidence,
		Satisfaction: s.Draft.Satisfaction,
		Date:         time.Now().Format(trades.Layout),
	})

	s.state = Idle
	r.session = nil
	r.lock.Release()
	r.log.Debug().Str("session", s.ID).Int64("ticket", s.Ticket).Msg("comment saved")
	return nil
}

// Cancel abandons the open session, discarding the draft and releasing the
// lock without touching the cache.
func (r *Reconciler) Cancel() error {
	if r.session == nil {
		return ErrNoSession
	}
	r.log.Debug().Str("session", r.session.ID).Msg("edit session canceled")
	r.session = nil
	r.lock.Release()
	return nil
}

// Delete removes a ticket's comment. No session is needed: the cache is
// touched only after the remote confirms, and a full re-fetch then
// resynchronizes in case a concurrent update was missed.
func (r *Reconciler) Delete(ctx context.Context, ticket int64) error {
	if err := r.api.DeleteComment(ctx, ticket); err != nil {
		return fmt.Errorf("delete comment %d: %w", ticket, err)
	}
	r.cache.RemoveComment(ticket)
	return r.Resync(ctx)
}

// Resync replaces the comment cache with a fresh authoritative fetch.
func (r *Reconciler) Resync(ctx context.Context) error {
	byTicket, err := r.api.GetComments(ctx)
	if err != nil {
		return fmt.Errorf("refetch comments: %w", err)
	}
	r.cache.MergeComments(byTicket)
	return nil
}

func (r *Reconciler) validateDraft(d Draft) error {
	if d.Text == "" && d.Attente == "" {
		return &ValidationError{Reason: "text or attente required"}
	}
	if err := r.validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return &ValidationError{Reason: fmt.Sprintf("%s must be between 0 and 5", f.Field())}
		}
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}
