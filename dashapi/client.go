// Package dashapi is the client for the dashboard's remote HTTP service:
// the account/trade feed, the capital baseline, terminal configuration, and
// comment CRUD. Every response arrives in a status envelope; server-reported
// failures surface as *RemoteError values rather than panics or partial
// state.
package dashapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/theglitchis/mt4dash/trades"
)

// DefaultTimeout bounds a single request. The polling layer relies on this
// to avoid a hung call blocking a resource's refresh timeline forever.
const DefaultTimeout = 30 * time.Second

// Client talks to the dashboard API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "dashapi").Logger(),
	}
}

// RemoteError is a failure the server reported in its response envelope.
type RemoteError struct {
	Status  int    // HTTP status code
	Message string // server-provided message, may be empty
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status %d)", e.Status)
	}
	return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
}

// envelope is the common response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Capital float64         `json:"capital"`
}

// Dashboard is the combined account and trade feed.
type Dashboard struct {
	Account      trades.AccountSnapshot `json:"account"`
	OpenTrades   []trades.Trade         `json:"open_trades"`
	ClosedTrades []trades.Trade         `json:"closed_trades"`
}

// GetDashboard fetches the account snapshot together with open and closed
// trades.
func (c *Client) GetDashboard(ctx context.Context) (*Dashboard, error) {
	env, err := c.get(ctx, "/api/trades")
	if err != nil {
		return nil, err
	}
	var d Dashboard
	if err := json.Unmarshal(env.Data, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &d, nil
}

// GetCapital fetches the capital baseline configured server-side.
func (c *Client) GetCapital(ctx context.Context) (float64, error) {
	env, err := c.get(ctx, "/api/capital")
	if err != nil {
		return 0, err
	}
	return env.Capital, nil
}

// configDocument is how the config endpoint nests the payload.
type configDocument struct {
	Config trades.RemoteConfig `json:"config"`
}

// GetConfig fetches the terminal configuration.
func (c *Client) GetConfig(ctx context.Context) (trades.RemoteConfig, error) {
	env, err := c.get(ctx, "/api/config")
	if err != nil {
		return trades.RemoteConfig{}, err
	}
	var doc configDocument
	if err := json.Unmarshal(env.Data, &doc); err != nil {
		return trades.RemoteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return doc.Config, nil
}

// ConfigUpdate is a partial configuration write. With a Section, only that
// section's present fields are merged server-side; without one, the
// root-level fields are.
type ConfigUpdate struct {
	Section string
	Fields  map[string]any
}

// MarshalJSON flattens the section name next to the patched fields, which
// is the wire shape the config endpoint expects.
func (u ConfigUpdate) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(u.Fields)+1)
	for k, v := range u.Fields {
		payload[k] = v
	}
	if u.Section != "" {
		payload["section"] = u.Section
	}
	return json.Marshal(payload)
}

// UpdateConfig applies a partial configuration write.
func (c *Client) UpdateConfig(ctx context.Context, update ConfigUpdate) error {
	_, err := c.post(ctx, "/api/config/edit", update)
	return err
}

// GetComments fetches the full comment map keyed by ticket. Tickets with an
// unparseable key are skipped; the terminal only ever emits numeric ones.
func (c *Client) GetComments(ctx context.Context) (map[int64]trades.Comment, error) {
	env, err := c.get(ctx, "/api/comments")
	if err != nil {
		return nil, err
	}
	var raw map[string]trades.Comment
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	out := make(map[int64]trades.Comment, len(raw))
	for k, v := range raw {
		ticket, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			c.log.Debug().Str("key", k).Msg("skipping comment with non-numeric ticket")
			continue
		}
		out[ticket] = v
	}
	return out, nil
}

// CommentPayload is the create/update request body for a comment.
type CommentPayload struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Satisfaction int    `json:"satisfaction"`
	Confidence   int    `json:"confiance"`
	Attente      string `json:"attente"`
}

// NewCommentPayload builds the wire payload for a ticket's comment. The
// server keys comments by the ticket rendered as a string.
func NewCommentPayload(ticket int64, c trades.Comment) CommentPayload {
	return CommentPayload{
		ID:           strconv.FormatInt(ticket, 10),
		Text:         c.Text,
		Satisfaction: c.Satisfaction,
		Confidence:   c.Confidence,
		Attente:      c.Attente,
	}
}

// AddComment creates a comment for a trade that has none.
func (c *Client) AddComment(ctx context.Context, payload CommentPayload) error {
	_, err := c.post(ctx, "/api/comments/add", payload)
	return err
}

// EditComment updates an existing comment.
func (c *Client) EditComment(ctx context.Context, payload CommentPayload) error {
	_, err := c.post(ctx, "/api/comments/edit", payload)
	return err
}

// DeleteComment removes a trade's comment.
func (c *Client) DeleteComment(ctx context.Context, ticket int64) error {
	_, err := c.post(ctx, "/api/comments/delete", idPayload{ID: strconv.FormatInt(ticket, 10)})
	return err
}

// CloseTrade asks the terminal to close a trade.
func (c *Client) CloseTrade(ctx context.Context, ticket int64) error {
	_, err := c.post(ctx, "/api/trades/close", idPayload{ID: strconv.FormatInt(ticket, 10)})
	return err
}

// AnnotateTrade asks the terminal to attach protective levels to a trade.
func (c *Client) AnnotateTrade(ctx context.Context, ticket int64) error {
	_, err := c.post(ctx, "/api/trades/annotate", idPayload{ID: strconv.FormatInt(ticket, 10)})
	return err
}

type idPayload struct {
	ID string `json:"id"`
}

func (c *Client) get(ctx context.Context, path string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &RemoteError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if env.Status != "success" || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}
