package chathub

import (
	"log"

	"tickethub/backend/internal/models"
	"tickethub/backend/internal/storage"
)

// ManagerService is the central hub. It owns the set of connected clients,
// tracks which ticket room each one is in, and fans room events out. All
// room-state mutation happens on the Run goroutine.
type ManagerService struct {
	Clients map[string]Client

	// Channels
	IncomingCh   chan Inbound
	RegisterCh   chan Client
	UnregisterCh chan Client
	// PubSubCh carries events arriving from Redis Pub/Sub, including
	// events this instance published itself (the echo path).
	PubSubCh chan models.Event

	Storage storage.Storage
}

func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		IncomingCh:   make(chan Inbound),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.Event),
		Storage:      s,
	}
}

// Run is the hub's main loop. It must run on its own goroutine.
func (m *ManagerService) Run() {
	m.StartPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetSessionID()] = client
			log.Printf("Client %s connected (%d online)", client.GetSessionID(), len(m.Clients))

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetSessionID()]; ok {
				delete(m.Clients, client.GetSessionID())
				client.Close()
				log.Printf("Client %s disconnected (%d online)", client.GetSessionID(), len(m.Clients))
			}

		case in := <-m.IncomingCh:
			m.handleInbound(in)

		case ev := <-m.PubSubCh:
			m.broadcastToRoom(ev)
		}
	}
}

// handleInbound processes one event read from a client connection.
func (m *ManagerService) handleInbound(in Inbound) {
	c := in.Client
	ev := in.Event

	switch ev.Name {
	case models.EventJoinRoom:
		if ev.TicketID == 0 {
			return
		}
		c.SetTicketID(ev.TicketID)
		select {
		case c.GetSendChannel() <- models.Event{Name: models.EventRoomJoined, TicketID: ev.TicketID}:
		default:
		}

	case models.EventLeaveRoom:
		// Only leave the room the client is actually in; a stale leave for
		// a previously switched-away room must not evict the current one.
		if c.GetTicketID() == ev.TicketID {
			c.SetTicketID(0)
		}

	case models.EventSendMessage:
		if ev.Content == "" || ev.TicketID == 0 {
			return
		}
		if c.GetTicketID() != ev.TicketID {
			log.Printf("Dropping message from %s for ticket %d (client is in room %d)",
				c.GetSessionID(), ev.TicketID, c.GetTicketID())
			return
		}

		record := &models.MessageRecord{
			TicketID: ev.TicketID,
			Content:  ev.Content,
			IsAdmin:  c.IsAdmin(),
		}
		if err := m.Storage.SaveMessage(record); err != nil {
			log.Printf("ERROR: Failed to save message for ticket %d: %v", ev.TicketID, err)
			return
		}

		// The sender gets the message back through the same broadcast as
		// everyone else; there is no direct echo.
		if err := m.Storage.PublishEvent(ev.TicketID, record.Wire()); err != nil {
			log.Printf("ERROR: Failed to publish message for ticket %d: %v", ev.TicketID, err)
		}

	default:
		log.Printf("Unknown event %q from client %s", ev.Name, c.GetSessionID())
	}
}

// broadcastToRoom delivers a room event to every connected member of that
// ticket's room.
func (m *ManagerService) broadcastToRoom(ev models.Event) {
	for _, client := range m.Clients {
		if client.GetTicketID() != ev.TicketID {
			continue
		}
		select {
		case client.GetSendChannel() <- ev:
		default:
			// Slow client: drop the connection rather than block the hub.
			delete(m.Clients, client.GetSessionID())
			client.Close()
		}
	}
}
