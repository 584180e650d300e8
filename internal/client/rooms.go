package client

import (
	"log"
	"sync"

	"tickethub/backend/internal/models"
)

// RoomTracker records which ticket room the session is subscribed to and
// guarantees join exclusivity: at most one room at a time, with leave and
// join paired correctly across ticket switches.
type RoomTracker struct {
	conn *ConnManager

	mu      sync.Mutex
	current uint // 0 = no room
}

// NewRoomTracker creates the tracker and hooks it into the connection's
// reconnect path: rooms do not survive a transport reconnect, so the
// recorded room is re-joined each time the connection comes up.
func NewRoomTracker(conn *ConnManager) *RoomTracker {
	t := &RoomTracker{conn: conn}
	conn.OnReconnect(t.rejoin)
	return t
}

// Current returns the ticket id of the joined room, or zero.
func (t *RoomTracker) Current() uint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// JoinRoom switches the session to the given ticket's room. Joining the
// room that is already current is a no-op. If a different room is joined,
// a leave for it is emitted before the join. While disconnected the
// desired room is only recorded; the reconnect handler performs the
// actual join once the connection is up.
func (t *RoomTracker) JoinRoom(ticketID uint) error {
	if ticketID == 0 {
		return ErrNoActiveRoom
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == ticketID {
		return nil
	}
	old := t.current
	t.current = ticketID

	if !t.conn.IsConnected() {
		// Deferred: rejoin() emits the join after the next connect.
		return nil
	}

	if old != 0 {
		if err := t.conn.Send(models.Event{Name: models.EventLeaveRoom, TicketID: old}); err != nil {
			log.Printf("rooms: leave %d failed: %v", old, err)
		}
	}
	return t.conn.Send(models.Event{Name: models.EventJoinRoom, TicketID: ticketID})
}

// LeaveRoom leaves the current room, if any.
func (t *RoomTracker) LeaveRoom() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == 0 {
		return nil
	}
	old := t.current
	t.current = 0

	if !t.conn.IsConnected() {
		return nil
	}
	return t.conn.Send(models.Event{Name: models.EventLeaveRoom, TicketID: old})
}

// rejoin re-issues the join for the recorded room after a reconnect.
func (t *RoomTracker) rejoin() {
	t.mu.Lock()
	current := t.current
	t.mu.Unlock()

	if current == 0 {
		return
	}
	if err := t.conn.Send(models.Event{Name: models.EventJoinRoom, TicketID: current}); err != nil {
		log.Printf("rooms: rejoin %d failed: %v", current, err)
	}
}
