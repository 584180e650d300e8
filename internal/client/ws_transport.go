package client

import (
	"log"
	"sync"
	"time"

	"tickethub/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	dialTimeout    = 10 * time.Second
)

// WebSocketTransport implements Transport over gorilla/websocket. It owns
// the reconnection policy: on any drop it redials with exponential
// backoff until Close is called, reporting each transition on States.
type WebSocketTransport struct {
	url string

	events chan models.Event
	states chan ConnState
	done   chan struct{}

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewWebSocketTransport creates a transport for the given websocket URL
// (e.g. "ws://host:8080/ws"). The session token is passed as a query
// parameter, the way a browser client authenticates the upgrade.
func NewWebSocketTransport(wsURL, token string) *WebSocketTransport {
	if token != "" {
		wsURL += "?token=" + token
	}
	return &WebSocketTransport{
		url:    wsURL,
		events: make(chan models.Event, 256),
		states: make(chan ConnState, 16),
		done:   make(chan struct{}),
	}
}

func (t *WebSocketTransport) Events() <-chan models.Event { return t.events }

func (t *WebSocketTransport) States() <-chan ConnState { return t.states }

// Start launches the connect/reconnect loop.
func (t *WebSocketTransport) Start() error {
	go t.run()
	return nil
}

// Send writes one event to the live connection. Fails with
// ErrNotConnected while the connection is down.
func (t *WebSocketTransport) Send(ev models.Event) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return conn.WriteJSON(ev)
}

// Close tears the transport down permanently.
func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conn := t.conn
	t.mu.Unlock()

	close(t.done)
	if conn != nil {
		conn.Close()
	}
	return nil
}

func (t *WebSocketTransport) run() {
	defer close(t.events)
	defer close(t.states)

	backoff := initialBackoff

	for {
		select {
		case <-t.done:
			return
		default:
		}

		t.states <- Connecting

		dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
		conn, _, err := dialer.Dial(t.url, nil)
		if err != nil {
			log.Printf("transport: dial failed: %v", err)
			t.states <- Disconnected
			if !t.sleep(backoff) {
				return
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			conn.Close()
			return
		}
		t.conn = conn
		t.mu.Unlock()

		backoff = initialBackoff
		t.states <- Connected

		t.readLoop(conn)

		t.mu.Lock()
		t.conn = nil
		closed := t.closed
		t.mu.Unlock()

		t.states <- Disconnected
		if closed {
			return
		}
		if !t.sleep(backoff) {
			return
		}
	}
}

// readLoop delivers inbound events until the connection drops.
func (t *WebSocketTransport) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		var ev models.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("transport: read failed: %v", err)
			}
			return
		}
		t.events <- ev
	}
}

// sleep waits out the backoff, returning false when Close interrupts it.
func (t *WebSocketTransport) sleep(d time.Duration) bool {
	select {
	case <-t.done:
		return false
	case <-time.After(d):
		return true
	}
}
