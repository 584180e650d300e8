package models

import "time"

// Offline ticket statuses. A queued ticket stays pending until a sync pass
// delivers it; tickets the server rejects outright are parked as rejected so
// they cannot block the rest of the queue.
const (
	OfflineStatusPending  = "offline-pending"
	OfflineStatusSynced   = "synced"
	OfflineStatusRejected = "rejected"
)

// OfflineTicket is a ticket-creation request captured while the backend was
// unreachable. ID is generated client-side from the wall clock, so it is
// unique per client but not globally; the server assigns the real ticket id
// once the entry is delivered.
type OfflineTicket struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// Pending reports whether the entry still awaits delivery.
func (t *OfflineTicket) Pending() bool {
	return t.Status == OfflineStatusPending
}
