package chathub

import "tickethub/backend/internal/models"

// Client is the interface for any connection attached to the hub. It
// abstracts the underlying transport so the hub can manage browser
// websockets and test doubles uniformly.
type Client interface {
	// GetSessionID returns the unique identifier for this client instance.
	GetSessionID() string
	// GetTicketID returns the ticket room the client is currently in,
	// or zero when it is in no room.
	GetTicketID() uint
	// SetTicketID moves the client into a ticket room. The hub calls this
	// when handling join_room/leave_room; a client is in at most one room.
	SetTicketID(uint)
	// IsAdmin reports whether this connection belongs to an agent. The hub
	// stamps outbound messages with this flag rather than trusting the
	// client-supplied one.
	IsAdmin() bool

	// GetSendChannel returns the channel through which the hub delivers
	// events intended for this specific client.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and associated channels.
	Close()
}

// Inbound pairs an event read from a connection with the client that sent
// it, so the hub's dispatch loop knows whose room state to mutate.
type Inbound struct {
	Client Client
	Event  models.Event
}
