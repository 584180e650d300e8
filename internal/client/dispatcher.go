package client

import (
	"strings"

	"tickethub/backend/internal/models"
)

// View is the interface the dispatcher renders through. It replaces the
// ambient DOM wiring of a browser client with explicit methods a UI (or a
// test) implements.
type View interface {
	// OnMessageReceived appends one message to the conversation. Calls
	// arrive in the order the server emitted the messages for the room.
	OnMessageReceived(msg models.ChatMessage)
	// OnRoomJoined is called when the server acknowledges a room join.
	OnRoomJoined(ticketID uint)
	// OnRoomListStale signals that unread counts / last-message times in
	// the room list should be refreshed.
	OnRoomListStale()
	// OnConnectionChanged reports transport state for the status
	// indicator.
	OnConnectionChanged(state ConnState)
}

// Dispatcher is the single entry and exit point for chat message traffic.
//
// Outbound messages are only ever handed to the live connection; the view
// is not updated until the server echoes the message back, so the
// rendered order always equals the server's emission order for the room.
// This is the deliberate asymmetry with ticket creation, which is queued
// offline instead.
type Dispatcher struct {
	conn    *ConnManager
	rooms   *RoomTracker
	view    View
	isAdmin bool
}

func NewDispatcher(conn *ConnManager, rooms *RoomTracker, view View, isAdmin bool) *Dispatcher {
	d := &Dispatcher{
		conn:    conn,
		rooms:   rooms,
		view:    view,
		isAdmin: isAdmin,
	}
	conn.SetEventHandler(d.handleEvent)
	conn.OnStateChange(view.OnConnectionChanged)
	return d
}

// Send submits one chat message for the given ticket. The content must be
// non-empty and the ticket's room must be the currently joined one. While
// disconnected the send fails with ErrNotConnected; chat messages are not
// queued for later delivery.
func (d *Dispatcher) Send(ticketID uint, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}
	if d.rooms.Current() == 0 || d.rooms.Current() != ticketID {
		return ErrNoActiveRoom
	}

	return d.conn.Send(models.Event{
		Name:     models.EventSendMessage,
		TicketID: ticketID,
		Content:  content,
		IsAdmin:  d.isAdmin,
	})
}

// handleEvent routes one inbound event. Messages for any room other than
// the currently joined one are dropped: switching rooms cancels interest
// in the old room's events by filter, not by unsubscribing mid-flight.
func (d *Dispatcher) handleEvent(ev models.Event) {
	switch ev.Name {
	case models.EventNewMessage:
		if ev.TicketID != d.rooms.Current() {
			return
		}
		d.view.OnMessageReceived(models.ChatMessage{
			TicketID:  ev.TicketID,
			Content:   ev.Content,
			IsAdmin:   ev.IsAdmin,
			CreatedAt: ev.CreatedAt,
		})
		d.view.OnRoomListStale()

	case models.EventRoomJoined:
		d.view.OnRoomJoined(ev.TicketID)
	}
}
