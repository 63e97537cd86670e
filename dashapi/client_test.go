package dashapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, zerolog.Nop())
}

func TestGetDashboard_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/trades", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"status": "success",
			"data": {
				"account": {"balance": 2500.5, "equity": 2480, "currency": "EUR", "leverage": 30, "number": 123456, "name": "demo"},
				"open_trades": [
					{"ticket": 1, "symbol": "EURUSD", "type": 1, "lots": 0.1, "open_price": 1.08, "sl": 1.07, "tp": 1.10, "open_time": "2024.02.01 09:00"}
				],
				"closed_trades": [
					{"ticket": 2, "symbol": "AUDJPY", "type": 0, "lots": 0.2, "open_price": 97.1, "profit": -12.3, "open_time": "2024.01.20 10:00", "close_time": "2024.01.21 16:30"}
				]
			}
		}`))
	}))
	defer server.Close()

	d, err := newTestClient(server.URL).GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2500.5, d.Account.Balance)
	assert.Equal(t, "EUR", d.Account.Currency)
	require.Len(t, d.OpenTrades, 1)
	assert.False(t, d.OpenTrades[0].Closed())
	require.Len(t, d.ClosedTrades, 1)
	assert.True(t, d.ClosedTrades[0].Closed())
	assert.Equal(t, -12.3, d.ClosedTrades[0].RealizedProfit())
}

func TestGetCapital(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/capital", r.URL.Path)
		w.Write([]byte(`{"status": "success", "capital": 1500.75}`))
	}))
	defer server.Close()

	capital, err := newTestClient(server.URL).GetCapital(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500.75, capital)
}

func TestGetComments(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "success",
			"data": {
				"10001": {"text": "good entry", "satisfaction": 4, "confiance": 3, "attente": "breakout", "date": "2024.02.01 09:05"},
				"oops": {"text": "bad key"}
			}
		}`))
	}))
	defer server.Close()

	comments, err := newTestClient(server.URL).GetComments(context.Background())
	require.NoError(t, err)

	// The non-numeric key is skipped, not fatal.
	require.Len(t, comments, 1)
	c := comments[10001]
	assert.Equal(t, "good entry", c.Text)
	assert.Equal(t, 3, c.Confidence)
	assert.Equal(t, "2024.02.01 09:05", c.Date)
}

func TestServerReportedFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": "error", "message": "Commentaire ID 99 introuvable"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).DeleteComment(context.Background(), 99)
	require.Error(t, err)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.Status)
	assert.Contains(t, remote.Message, "introuvable")
}

func TestErrorStatusWithSuccessBodyIsStillFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetCapital(context.Background())
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.Status)
}

func TestNonJSONErrorBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetDashboard(context.Background())
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
}

func TestAddComment_PayloadShape(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/comments/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status": "success", "message": "Commentaire ajouté"}`))
	}))
	defer server.Close()

	payload := CommentPayload{ID: "10001", Text: "note", Satisfaction: 2, Confidence: 5, Attente: "retest"}
	require.NoError(t, newTestClient(server.URL).AddComment(context.Background(), payload))

	// The server keys comments by the ticket as a string.
	assert.Equal(t, "10001", got["id"])
	assert.Equal(t, "note", got["text"])
	assert.Equal(t, float64(5), got["confiance"])
}

func TestUpdateConfig_SectionFlattened(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/config/edit", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	update := ConfigUpdate{
		Section: "auto_stop_loss",
		Fields:  map[string]any{"enabled": true, "distance_pips": 20},
	}
	require.NoError(t, newTestClient(server.URL).UpdateConfig(context.Background(), update))

	assert.Equal(t, "auto_stop_loss", got["section"])
	assert.Equal(t, true, got["enabled"])
	assert.Equal(t, float64(20), got["distance_pips"])
}

func TestGetConfig(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "success",
			"data": {
				"config": {
					"closeBloc_allTrade": true,
					"auto_stop_loss": {"enabled": true, "distance_pips": 15},
					"trailing_stop": {"enabled": false, "distance_pips": 0}
				}
			}
		}`))
	}))
	defer server.Close()

	cfg, err := newTestClient(server.URL).GetConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.CloseAllTrades)
	assert.True(t, cfg.AutoStopLoss.Enabled)
	assert.Equal(t, 15, cfg.AutoStopLoss.DistancePips)
}

func TestCloseTrade(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/trades/close", r.URL.Path)
		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "42", got["id"])
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	require.NoError(t, newTestClient(server.URL).CloseTrade(context.Background(), 42))
}
