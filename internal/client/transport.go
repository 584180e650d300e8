// Package client implements the browser-side half of the ticket chat:
// the connection lifecycle, ticket-room membership, message dispatch and
// the offline ticket queue. It is transport-agnostic; the production
// transport speaks websocket to the hub.
package client

import (
	"errors"

	"tickethub/backend/internal/models"
)

var (
	// ErrNotConnected is returned by sends attempted while the transport
	// is down. Callers use it to route ticket creation to the offline
	// queue; chat messages are never queued.
	ErrNotConnected = errors.New("not connected")
	// ErrNoActiveRoom is returned when a message targets a ticket whose
	// room is not the currently joined one.
	ErrNoActiveRoom = errors.New("no active ticket room")
	// ErrEmptyMessage is returned for blank message content.
	ErrEmptyMessage = errors.New("message content is empty")
)

// ConnState is the connection lifecycle state of a session.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Transport is the persistent bidirectional connection abstraction.
// Implementations own reconnection and backoff; the connection manager
// only reacts to the state transitions they report.
type Transport interface {
	// Start begins connecting. It returns immediately; progress is
	// reported through States.
	Start() error
	// Send writes one event to the live connection. It fails when the
	// connection is down rather than buffering.
	Send(ev models.Event) error
	// Events delivers inbound events in the order the server emitted them.
	Events() <-chan models.Event
	// States delivers connection state transitions.
	States() <-chan ConnState
	// Close tears the transport down permanently and closes both channels.
	Close() error
}
