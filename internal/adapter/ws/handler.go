// Package ws implements the WebSocket push channel for progress events.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/metrics"
	"github.com/Strob0t/DocuCrew/internal/port/broadcast"
)

// writeTimeout bounds a single write so one stalled listener cannot hold up a run.
const writeTimeout = 5 * time.Second

// conn wraps a single WebSocket connection.
type conn struct {
	ws     *websocket.Conn
	cancel context.CancelFunc
}

// Hub manages all active WebSocket connections and broadcasts progress events.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*conn]struct{}
	recorder metrics.Recorder
}

var _ broadcast.Broadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub. rec may be nil.
func NewHub(rec metrics.Recorder) *Hub {
	return &Hub{
		conns:    make(map[*conn]struct{}),
		recorder: metrics.OrNoop(rec),
	}
}

// HandleWS upgrades the request to a WebSocket and keeps the listener
// registered until the client disconnects. Inbound frames are discarded.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS handled by middleware
	})
	if err != nil {
		slog.Error("websocket accept failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	c := &conn{ws: ws, cancel: cancel}
	h.add(c)

	slog.Info("websocket connected", "remote", r.RemoteAddr)

	defer func() {
		h.remove(c)
		_ = ws.Close(websocket.StatusNormalClosure, "")
	}()
	for {
		if _, _, err := ws.Read(ctx); err != nil {
			return
		}
	}
}

// BroadcastProgress sends ev as JSON to every connected listener. Listeners
// whose write fails are dropped.
func (h *Hub) BroadcastProgress(ctx context.Context, ev crew.ProgressEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("websocket marshal failed", "error", err)
		return
	}
	h.broadcast(ctx, data)
}

func (h *Hub) broadcast(ctx context.Context, data []byte) {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	// A cancelled write closes the socket, so the run's cancellation must
	// not reach listeners.
	ctx = context.WithoutCancel(ctx)
	for _, c := range targets {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := c.ws.Write(wctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			slog.Debug("websocket write failed", "error", err)
			h.remove(c)
		}
	}
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) add(c *conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.recorder.SetListeners(n)
}

func (h *Hub) remove(c *conn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	if ok {
		c.cancel()
		delete(h.conns, c)
	}
	n := len(h.conns)
	h.mu.Unlock()

	if ok {
		h.recorder.SetListeners(n)
		slog.Info("websocket disconnected")
	}
}
