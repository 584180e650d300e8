package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Ticket represents one support request in PostgreSQL. Its primary key is
// the ticket id the backend hands out on creation; that same id keys the
// ticket's chat room.
type Ticket struct {
	gorm.Model

	Subject      string       `gorm:"type:varchar(255);not null" json:"subject"`
	Status       TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	CategoryID   uint         `gorm:"index" json:"category_id"`
	ContactName  string       `gorm:"type:text" json:"name"`
	ContactEmail string       `gorm:"type:text" json:"email"`
	// EscalationLevel tracks how far an unresolved ticket has been
	// escalated: 0 = normal queue, 1 = supervisor, 2 = management.
	EscalationLevel int `gorm:"not null;default:0" json:"escalation_level"`
	// Tags are free-form labels attached to a ticket at creation.
	Tags pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
}

// BeforeCreate is a GORM hook that defaults the status of a new ticket
// to "open" when the caller did not set one.
func (t *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if t.Status == "" {
		t.Status = TicketStatusOpen
	}
	return
}

// Category is a support topic a ticket is filed under (Payments,
// Product Issues, ...).
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
}
