package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSight/internal/domain/models"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/alerts" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Len() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDeliversFilteredAlerts(t *testing.T) {
	hub := NewHub(nil, 4)
	e := echo.New()
	e.GET("/ws/alerts", hub.ServeWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	all := dial(t, srv, "")
	acme := dial(t, srv, "?symbols=acme")
	waitClients(t, hub, 2)

	assert.Equal(t, 1, hub.Broadcast(models.RiskAlert{Symbol: "OTHR", Type: "beta"}))
	assert.Equal(t, 2, hub.Broadcast(models.RiskAlert{Symbol: "ACME", Type: "volatility", Severity: models.SeverityCritical}))

	read := func(c *websocket.Conn) models.RiskAlert {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, b, err := c.ReadMessage()
		require.NoError(t, err)
		var a models.RiskAlert
		require.NoError(t, json.Unmarshal(b, &a))
		return a
	}

	assert.Equal(t, "OTHR", read(all).Symbol)
	assert.Equal(t, "ACME", read(all).Symbol)
	got := read(acme)
	assert.Equal(t, "volatility", got.Type)
	assert.Equal(t, models.SeverityCritical, got.Severity)
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub(nil, 1)
	cl := &client{send: make(chan []byte, 1)}
	hub.add(cl)

	assert.Equal(t, 1, hub.Broadcast(models.RiskAlert{Symbol: "A"}))
	assert.Equal(t, 0, hub.Broadcast(models.RiskAlert{Symbol: "A"}))
	assert.Equal(t, 0, hub.Len())

	hub.remove(cl)
	hub.Close()
}

func TestParseSymbols(t *testing.T) {
	assert.Equal(t, map[string]struct{}{"AAPL": {}, "MSFT": {}}, parseSymbols(" aapl,,MSFT "))
	assert.Empty(t, parseSymbols(""))
}
