package models

import (
	"time"

	"gorm.io/gorm"
)

// Wire event names. The client and server exchange single-struct JSON
// frames; EventName selects the handler on either end.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventNewMessage  = "new_message"
	EventRoomJoined  = "room_joined"
)

// Event is one websocket frame. TicketID keys the room the event belongs
// to; Content/IsAdmin/CreatedAt are only meaningful for message events.
type Event struct {
	Name      string    `json:"event"`
	TicketID  uint      `json:"ticket_id"`
	Content   string    `json:"content,omitempty"`
	IsAdmin   bool      `json:"is_admin,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ChatMessage is the rendered form of a message as the UI consumes it.
// CreatedAt is the server timestamp; clients never substitute their own.
type ChatMessage struct {
	TicketID  uint      `json:"ticket_id"`
	Content   string    `json:"content"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageRecord is a chat message persisted in PostgreSQL. The embedded
// gorm.Model provides the message id and the authoritative CreatedAt.
type MessageRecord struct {
	gorm.Model

	TicketID uint   `gorm:"index;not null"`
	Content  string `gorm:"type:text;not null"`
	IsAdmin  bool   `gorm:"not null"`
}

// Wire converts a stored record to the broadcast event sent to room members.
func (r *MessageRecord) Wire() Event {
	return Event{
		Name:      EventNewMessage,
		TicketID:  r.TicketID,
		Content:   r.Content,
		IsAdmin:   r.IsAdmin,
		CreatedAt: r.CreatedAt,
	}
}
