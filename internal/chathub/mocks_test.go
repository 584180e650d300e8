package chathub_test

import (
	"sync/atomic"

	"tickethub/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface. It
// deliberately does not implement RoomSubscriber, so the hub's pub/sub
// listener stays inert and tests drive PubSubCh directly.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveTicket(ticket *models.Ticket) error {
	args := m.Called(ticket)
	return args.Error(0)
}

func (m *MockStorage) GetTicketByID(id uint) (*models.Ticket, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockStorage) UpdateTicketStatus(id uint, status models.TicketStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) UpdateTicketEscalation(id uint, level int) error {
	args := m.Called(id, level)
	return args.Error(0)
}

func (m *MockStorage) ListOpenTickets() ([]models.Ticket, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.MessageRecord) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetTicketMessages(ticketID uint) ([]models.MessageRecord, error) {
	args := m.Called(ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MessageRecord), args.Error(1)
}

func (m *MockStorage) ListCategories() ([]models.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockStorage) SaveCategory(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(ticketID uint, ev models.Event) error {
	args := m.Called(ticketID, ev)
	return args.Error(0)
}

// MockClient is a test double for the chathub.Client interface.
type MockClient struct {
	sessionID string
	ticketID  atomic.Uint64
	admin     bool
	closed    atomic.Bool

	// RecvChannel is what the hub sees as the client's send channel.
	// Buffered so hub broadcasts never block the test.
	RecvChannel chan models.Event
}

func newMockClient(sessionID string) *MockClient {
	return &MockClient{
		sessionID:   sessionID,
		RecvChannel: make(chan models.Event, 10),
	}
}

func (c *MockClient) GetSessionID() string { return c.sessionID }

func (c *MockClient) GetTicketID() uint { return uint(c.ticketID.Load()) }

func (c *MockClient) SetTicketID(id uint) { c.ticketID.Store(uint64(id)) }

func (c *MockClient) IsAdmin() bool { return c.admin }

func (c *MockClient) GetSendChannel() chan<- models.Event { return c.RecvChannel }

func (c *MockClient) Run() {}

func (c *MockClient) Close() { c.closed.Store(true) }

// DrainEvents empties the client's receive channel.
func (c *MockClient) DrainEvents() []models.Event {
	var events []models.Event
	for {
		select {
		case ev := <-c.RecvChannel:
			events = append(events, ev)
		default:
			return events
		}
	}
}
