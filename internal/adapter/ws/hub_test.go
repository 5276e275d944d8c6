package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/metrics"
)

type listenerGauge struct {
	metrics.NoopRecorder
	last chan int
}

func (g *listenerGauge) SetListeners(n int) { g.last <- n }

func httpHandler(h *Hub) http.Handler {
	return http.HandlerFunc(h.HandleWS)
}

func (g *listenerGauge) next(t *testing.T) int {
	t.Helper()
	select {
	case n := <-g.last:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener gauge")
		return -1
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.Dial(context.Background(), url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return c
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)
	if hub.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastNoConnections(t *testing.T) {
	hub := NewHub(nil)

	// Broadcast with no connections should not panic.
	hub.BroadcastProgress(context.Background(), crew.ProgressEvent{Agent: crew.KeyEditor})
}

func TestHubRemoveNonexistent(t *testing.T) {
	hub := NewHub(nil)

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.remove(&conn{cancel: cancel})
}

func TestHubBroadcastReachesListeners(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	defer a.CloseNow()
	defer b.CloseNow()
	waitFor(t, func() bool { return hub.ConnectionCount() == 2 })

	ev := crew.ProgressEvent{
		RunID:     "run-1",
		Agent:     crew.KeyAnalyst,
		Status:    crew.StatusWorking,
		Message:   crew.MsgAnalyzing,
		Timestamp: time.Now().UTC(),
	}
	hub.BroadcastProgress(context.Background(), ev)

	for i, c := range []*websocket.Conn{a, b} {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, data, err := c.Read(ctx)
		cancel()
		if err != nil {
			t.Fatalf("listener %d: read: %v", i, err)
		}
		var got crew.ProgressEvent
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("listener %d: decode: %v", i, err)
		}
		if got.Agent != ev.Agent || got.Status != ev.Status || got.Message != ev.Message {
			t.Errorf("listener %d: unexpected event %+v", i, got)
		}
	}
}

func TestHubRemovesClosedListener(t *testing.T) {
	gauge := &listenerGauge{last: make(chan int, 8)}
	hub := NewHub(gauge)
	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	c := dial(t, srv)
	if n := gauge.next(t); n != 1 {
		t.Fatalf("expected gauge 1 after connect, got %d", n)
	}

	_ = c.Close(websocket.StatusNormalClosure, "bye")
	if n := gauge.next(t); n != 0 {
		t.Fatalf("expected gauge 0 after disconnect, got %d", n)
	}
	if hub.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastIgnoresRunCancellation(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(httpHandler(hub))
	defer srv.Close()

	c := dial(t, srv)
	defer c.CloseNow()
	waitFor(t, func() bool { return hub.ConnectionCount() == 1 })

	runCtx, cancelRun := context.WithCancel(context.Background())
	cancelRun()
	hub.BroadcastProgress(runCtx, crew.ProgressEvent{Agent: crew.KeyEditor, Status: crew.StatusWaiting})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got crew.ProgressEvent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Agent != crew.KeyEditor {
		t.Errorf("unexpected event %+v", got)
	}
	if n := hub.ConnectionCount(); n != 1 {
		t.Errorf("expected listener to stay registered, got %d connections", n)
	}
}
