//go:build blackbox

package blackbox

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// newDashServer fakes the dashboard service with two closed trades and a
// capital baseline.
func newDashServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/trades":
			w.Write([]byte(`{"status": "success", "data": {
				"account": {"balance": 1070, "equity": 1070, "currency": "EUR", "number": 1234, "name": "demo"},
				"open_trades": [],
				"closed_trades": [
					{"ticket": 1, "symbol": "EURUSD", "type": 1, "lots": 0.1,
					 "open_price": 1.1000, "sl": 1.0950, "tp": 1.1100, "profit": 100,
					 "open_time": "2024.03.01 09:00", "close_time": "2024.03.01 10:00"},
					{"ticket": 2, "symbol": "GBPUSD", "type": 0, "lots": 0.1,
					 "open_price": 1.2700, "profit": -30,
					 "open_time": "2024.03.02 09:00", "close_time": "2024.03.02 10:00"}
				]
			}}`))
		case "/api/capital":
			w.Write([]byte(`{"status": "success", "capital": 1000}`))
		case "/api/config":
			w.Write([]byte(`{"status": "success", "data": {"config": {
				"closeBloc_allTrade": false,
				"auto_stop_loss": {"enabled": true, "distance_pips": 30},
				"trailing_stop": {"enabled": false, "distance_pips": 0}
			}}}`))
		case "/api/config/edit":
			w.Write([]byte(`{"status": "success"}`))
		default:
			w.Write([]byte(`{"status": "success", "data": {}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeClientConfig(t *testing.T, baseURL string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mt4dash.yaml")
	body := fmt.Sprintf("api_base_url: %s\n", baseURL)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
