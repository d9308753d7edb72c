package frontend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventPresent = "present"
	EventMissing = "missing"
	EventChanged = "changed"

	DefaultWatchPingInterval = 5 * time.Second

	watchWriteTimeout = 5 * time.Second
)

// WatchEvent is sent to watchers whenever the entry file appears, disappears, or is rewritten
type WatchEvent struct {
	Event   string `json:"event"`
	ModTime string `json:"modTime,omitempty"`
}

type assetState struct {
	present bool
	modTime time.Time
	size    int64
}

func (a assetState) equal(b assetState) bool {
	return a.present == b.present && a.size == b.size && a.modTime.Equal(b.modTime)
}

// observe returns false if the state could not be determined
func (s *Server) observe() (assetState, bool) {
	info, err := s.index.Stat()
	if errors.Is(err, ErrAssetMissing) {
		return assetState{}, true
	}
	if err != nil {
		slog.Warn("could not stat index", "path", s.index.Path(), "error", err)
		return assetState{}, false
	}
	return assetState{present: true, modTime: info.ModTime(), size: info.Size()}, true
}

func nextEvent(prev, cur assetState, first bool) (WatchEvent, bool) {
	if !first && prev.equal(cur) {
		return WatchEvent{}, false
	}
	switch {
	case !cur.present:
		return WatchEvent{Event: EventMissing}, true
	case first || !prev.present:
		return WatchEvent{Event: EventPresent, ModTime: cur.modTime.UTC().Format(time.RFC3339Nano)}, true
	default:
		return WatchEvent{Event: EventChanged, ModTime: cur.modTime.UTC().Format(time.RFC3339Nano)}, true
	}
}

// watch ignores the context handed over by the router and follows the request's own, which is cancelled when the server shuts down
func (s *Server) watch(_ context.Context, w http.ResponseWriter, req *http.Request, _ map[string]string, _ error) error {
	var upgrader websocket.Upgrader
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade to websocket: %w", err)
	}
	s.metrics.WatchConnections.Inc()
	defer s.metrics.WatchConnections.Dec()
	defer func() {
		slog.Info("stopping watch conn", "remote-addr", req.RemoteAddr)
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(watchWriteTimeout))
		conn.Close()
	}()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	// A watcher that misses two pings in a row is considered gone
	pongWait := 2 * s.WatchPingInterval
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Watchers never send anything meaningful, but reading is required to process pongs and notice the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	go sendWebsocketPings(ctx, conn, s.WatchPingInterval)

	ticker := time.NewTicker(s.WatchPollPeriod)
	defer ticker.Stop()

	var last assetState
	first := true
	for {
		if cur, ok := s.observe(); ok {
			if event, changed := nextEvent(last, cur, first); changed {
				conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
				if err := conn.WriteJSON(event); err != nil {
					return fmt.Errorf("failed to send watch event: %w", err)
				}
				slog.Debug("sent watch event", "event", event.Event, "path", s.index.Path())
			}
			last = cur
			first = false
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil
		}
	}
}

func sendWebsocketPings(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(watchWriteTimeout))
		case <-ctx.Done():
			return
		}
	}
}
