package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/revhud/overlay/pkg/telemetry"
)

const (
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
)

// WSFeed subscribes to the vehicle-state stream over WebSocket and holds
// the newest snapshot. The held snapshot is invalidated whenever the
// connection drops, so the overlay skips ticks until the stream recovers.
type WSFeed struct {
	latest *Feed

	mu     sync.Mutex
	conn   *ws.Conn
	done   chan struct{}
	closed bool

	wsURL  string
	secret string

	logger *slog.Logger
}

// Dial connects to the stream and starts the read loop.
func Dial(rawURL, secret string, logger *slog.Logger) (*WSFeed, error) {
	f := &WSFeed{
		latest: New(),
		done:   make(chan struct{}),
		wsURL:  rawURL,
		secret: secret,
		logger: logger,
	}

	conn, err := f.dialOnce()
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	go f.readLoop()
	return f, nil
}

// Latest returns the newest snapshot from the stream.
func (f *WSFeed) Latest() (telemetry.VehicleState, bool) {
	return f.latest.Latest()
}

// dialOnce performs a single WebSocket dial with the secret query param.
func (f *WSFeed) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(f.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	if f.secret != "" {
		q := u.Query()
		q.Set("secret", f.secret)
		u.RawQuery = q.Encode()
	}

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// readLoop decodes vehicle-state envelopes into the latest-value feed.
// It returns on error or shutdown; errors hand off to reconnect.
func (f *WSFeed) readLoop() {
	for {
		f.mu.Lock()
		conn := f.conn
		f.mu.Unlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-f.done:
				return
			default:
			}
			f.logger.Warn("WebSocket read error", "error", err)
			f.latest.Invalidate()
			go f.reconnect()
			return
		}

		var env telemetry.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			f.logger.Debug("Undecodable feed message", "raw", string(message))
			continue
		}
		if env.Type != telemetry.TypeVehicleState {
			continue
		}

		var state telemetry.VehicleState
		if err := json.Unmarshal(env.Payload, &state); err != nil {
			f.logger.Debug("Undecodable vehicle state payload", "error", err)
			continue
		}
		f.latest.Publish(state)
	}
}

// reconnect re-establishes the connection with exponential backoff and
// restarts the read loop.
func (f *WSFeed) reconnect() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if f.conn != nil {
		_ = f.conn.Close()
		f.conn = nil
	}
	f.mu.Unlock()

	backoff := time.Second
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-f.done:
			return
		default:
		}

		f.logger.Info("Reconnecting to vehicle-state stream", "attempt", attempt, "backoff", backoff)
		time.Sleep(backoff)

		conn, err := f.dialOnce()
		if err != nil {
			f.logger.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		f.mu.Lock()
		f.conn = conn
		f.mu.Unlock()

		f.logger.Info("Vehicle-state stream reconnected", "attempt", attempt)
		go f.readLoop()
		return
	}

	f.logger.Error("Vehicle-state stream reconnect failed after max attempts", "maxAttempts", maxReconnect)
}

// Close sends a close frame and shuts the read loop down.
func (f *WSFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	close(f.done)
	conn := f.conn
	f.conn = nil
	f.mu.Unlock()

	f.latest.Invalidate()

	if conn != nil {
		_ = conn.WriteMessage(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		)
		return conn.Close()
	}
	return nil
}
