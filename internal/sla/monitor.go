// Package sla watches open tickets for response-time breaches and
// escalates the ones nobody picked up.
package sla

import (
	"log"
	"time"

	"tickethub/backend/internal/config"
	"tickethub/backend/internal/models"
)

// Escalation level names, indexed by level. Level 0 is the normal agent
// queue and never notifies.
var levelNames = []string{"normal", "supervisor", "management"}

// TicketStore is the slice of the storage layer the monitor needs.
type TicketStore interface {
	ListOpenTickets() ([]models.Ticket, error)
	UpdateTicketEscalation(id uint, level int) error
}

// Notifier receives escalation notices. A nil notifier disables them;
// escalation levels are still recorded.
type Notifier interface {
	NotifyEscalation(ticketID uint, subject string, level int, levelName string, age time.Duration)
}

// Escalation is one ticket raised to a higher level during a sweep.
type Escalation struct {
	TicketID uint
	Level    int
}

// Monitor periodically sweeps the open tickets and raises the escalation
// level of any ticket whose age passed a response-time target. Levels
// only ever go up; resolving or closing the ticket takes it out of the
// sweep entirely.
type Monitor struct {
	Store    TicketStore
	Notifier Notifier

	// Interval between sweeps when running as a service.
	Interval time.Duration
	// SupervisorAfter and ManagementAfter are the ticket ages at which a
	// still-open ticket escalates to level 1 and level 2.
	SupervisorAfter time.Duration
	ManagementAfter time.Duration
}

func NewMonitor(store TicketStore, notifier Notifier) *Monitor {
	return &Monitor{
		Store:           store,
		Notifier:        notifier,
		Interval:        config.SLASweepInterval,
		SupervisorAfter: config.EscalateToSupervisor,
		ManagementAfter: config.EscalateToManagement,
	}
}

// Run sweeps immediately and then on every tick. It must run on its own
// goroutine.
func (m *Monitor) Run() {
	log.Printf("SLA monitor started (sweep every %s)", m.Interval)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		if _, err := m.Sweep(); err != nil {
			log.Printf("ERROR: SLA sweep failed: %v", err)
		}
		<-ticker.C
	}
}

// Sweep runs one escalation pass and returns the tickets it raised.
func (m *Monitor) Sweep() ([]Escalation, error) {
	tickets, err := m.Store.ListOpenTickets()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var escalated []Escalation

	for _, t := range tickets {
		age := now.Sub(t.CreatedAt)
		target := m.levelFor(age)
		if target <= t.EscalationLevel {
			continue
		}

		if err := m.Store.UpdateTicketEscalation(t.ID, target); err != nil {
			log.Printf("ERROR: Failed to escalate ticket %d to level %d: %v", t.ID, target, err)
			continue
		}

		log.Printf("Ticket %d escalated to %s (open for %s)", t.ID, levelNames[target], age.Round(time.Minute))
		if m.Notifier != nil {
			m.Notifier.NotifyEscalation(t.ID, t.Subject, target, levelNames[target], age)
		}
		escalated = append(escalated, Escalation{TicketID: t.ID, Level: target})
	}

	return escalated, nil
}

// levelFor maps a ticket's age to the escalation level it should be at.
func (m *Monitor) levelFor(age time.Duration) int {
	switch {
	case age >= m.ManagementAfter:
		return 2
	case age >= m.SupervisorAfter:
		return 1
	default:
		return 0
	}
}
