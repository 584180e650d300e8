package client

import (
	"log"
	"sync"

	"tickethub/backend/internal/models"
)

// ConnManager owns the session's single transport connection. It tracks
// the Connected/Disconnected state, forwards inbound events to a single
// handler, and invokes registered callbacks whenever the transport comes
// up, so room membership can be re-established.
//
// The transport's Events and States channels are consumed by one
// goroutine, so the event handler and the reconnect callbacks never run
// concurrently with each other.
type ConnManager struct {
	tr Transport

	mu           sync.Mutex
	state        ConnState
	started      bool
	reconnectFns []func()
	stateFns     []func(ConnState)
	handler      func(models.Event)

	done chan struct{}
}

func NewConnManager(tr Transport) *ConnManager {
	return &ConnManager{
		tr:    tr,
		state: Disconnected,
		done:  make(chan struct{}),
	}
}

// SetEventHandler registers the single inbound event handler. It must be
// called before Connect.
func (m *ConnManager) SetEventHandler(fn func(models.Event)) {
	m.mu.Lock()
	m.handler = fn
	m.mu.Unlock()
}

// OnReconnect registers a callback invoked every time the transport
// reaches Connected, including the first time. Callbacks run on the
// connection's event goroutine in registration order.
func (m *ConnManager) OnReconnect(fn func()) {
	m.mu.Lock()
	m.reconnectFns = append(m.reconnectFns, fn)
	m.mu.Unlock()
}

// OnStateChange registers a callback invoked on every connection state
// transition, after the state is recorded.
func (m *ConnManager) OnStateChange(fn func(ConnState)) {
	m.mu.Lock()
	m.stateFns = append(m.stateFns, fn)
	m.mu.Unlock()
}

// Connect starts the transport and the event loop.
func (m *ConnManager) Connect() error {
	if err := m.tr.Start(); err != nil {
		return err
	}
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	go m.run()
	return nil
}

// IsConnected reports whether the transport is currently up.
func (m *ConnManager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Connected
}

// State returns the current connection state.
func (m *ConnManager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Send hands one event to the transport. It fails fast with
// ErrNotConnected while the connection is down so callers can take the
// offline path instead of silently dropping the event.
func (m *ConnManager) Send(ev models.Event) error {
	if !m.IsConnected() {
		return ErrNotConnected
	}
	return m.tr.Send(ev)
}

// Close shuts the connection down permanently. Closing a manager that
// never connected is a no-op.
func (m *ConnManager) Close() error {
	err := m.tr.Close()

	m.mu.Lock()
	started := m.started
	m.mu.Unlock()
	if started {
		// Wait for the event loop to drain the closed channels.
		<-m.done
	}
	return err
}

func (m *ConnManager) run() {
	defer close(m.done)

	events := m.tr.Events()
	states := m.tr.States()

	for events != nil || states != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			m.mu.Lock()
			handler := m.handler
			m.mu.Unlock()
			if handler != nil {
				handler(ev)
			}

		case st, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			m.setState(st)
		}
	}
}

func (m *ConnManager) setState(st ConnState) {
	m.mu.Lock()
	prev := m.state
	m.state = st
	reconnectFns := make([]func(), len(m.reconnectFns))
	copy(reconnectFns, m.reconnectFns)
	stateFns := make([]func(ConnState), len(m.stateFns))
	copy(stateFns, m.stateFns)
	m.mu.Unlock()

	if st == prev {
		return
	}
	log.Printf("connection: %s -> %s", prev, st)

	for _, fn := range stateFns {
		fn(st)
	}
	if st == Connected {
		for _, fn := range reconnectFns {
			fn()
		}
	}
}
