package stream

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"FinSight/internal/domain/models"
	applogger "FinSight/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type client struct {
	send    chan []byte
	symbols map[string]struct{}
}

func (c *client) wants(symbol string) bool {
	if len(c.symbols) == 0 {
		return true
	}
	_, ok := c.symbols[symbol]
	return ok
}

// Hub fans risk alerts out to websocket subscribers. Broadcast never blocks:
// a client whose buffer is full is disconnected.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	buffer   int
	upgrader websocket.Upgrader
	log      *applogger.Logger
}

func NewHub(l *applogger.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		buffer:  buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: l,
	}
}

// Len reports connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers alert to every subscriber interested in its symbol and
// returns how many received it.
func (h *Hub) Broadcast(alert models.RiskAlert) int {
	b, err := json.Marshal(alert)
	if err != nil {
		h.log.Error("stream marshal alert", applogger.Error(err))
		return 0
	}

	var slow []*client
	sent := 0
	h.mu.RLock()
	for c := range h.clients {
		if !c.wants(alert.Symbol) {
			continue
		}
		select {
		case c.send <- b:
			sent++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("stream client too slow, dropping")
		h.remove(c)
	}
	return sent
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// remove is idempotent; closing send ends the client's write loop.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ServeWS upgrades the request and streams alerts until the peer goes away.
// The optional symbols query parameter is a comma-separated filter.
func (h *Hub) ServeWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("stream upgrade failed", applogger.Error(err))
		return nil
	}

	cl := &client{send: make(chan []byte, h.buffer), symbols: parseSymbols(c.QueryParam("symbols"))}
	h.add(cl)
	h.log.Debug("stream client connected", applogger.Int("clients", h.Len()))

	go h.writeLoop(conn, cl)
	h.readLoop(conn, cl)
	return nil
}

// readLoop discards inbound frames and keeps the read deadline fresh on pong.
func (h *Hub) readLoop(conn *websocket.Conn, cl *client) {
	defer h.remove(cl)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func parseSymbols(raw string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out[s] = struct{}{}
		}
	}
	return out
}
