package client_test

import (
	"context"
	"sync"

	"tickethub/backend/internal/client"
	"tickethub/backend/internal/models"
)

// fakeTransport is a scriptable in-memory Transport. Tests flip it
// online/offline and inspect what was sent through it.
type fakeTransport struct {
	events chan models.Event
	states chan client.ConnState

	mu        sync.Mutex
	connected bool
	sent      []models.Event
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		events: make(chan models.Event, 32),
		states: make(chan client.ConnState, 32),
	}
}

func (t *fakeTransport) Start() error { return nil }

func (t *fakeTransport) Send(ev models.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return client.ErrNotConnected
	}
	t.sent = append(t.sent, ev)
	return nil
}

func (t *fakeTransport) Events() <-chan models.Event { return t.events }

func (t *fakeTransport) States() <-chan client.ConnState { return t.states }

func (t *fakeTransport) Close() error {
	close(t.events)
	close(t.states)
	return nil
}

// goOnline reports a Connected transition, as the real transport does
// after a successful (re)dial.
func (t *fakeTransport) goOnline() {
	t.mu.Lock()
	t.connected = true
	t.mu.Unlock()
	t.states <- client.Connected
}

func (t *fakeTransport) goOffline() {
	t.mu.Lock()
	t.connected = false
	t.mu.Unlock()
	t.states <- client.Disconnected
}

// deliver pushes one inbound event, as if the server emitted it.
func (t *fakeTransport) deliver(ev models.Event) {
	t.events <- ev
}

func (t *fakeTransport) sentEvents() []models.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Event, len(t.sent))
	copy(out, t.sent)
	return out
}

// recordingView captures everything the dispatcher renders.
type recordingView struct {
	mu         sync.Mutex
	messages   []models.ChatMessage
	joinedAcks []uint
	staleCount int
	states     []client.ConnState
}

func (v *recordingView) OnMessageReceived(msg models.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *recordingView) OnRoomJoined(ticketID uint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joinedAcks = append(v.joinedAcks, ticketID)
}

func (v *recordingView) OnRoomListStale() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.staleCount++
}

func (v *recordingView) OnConnectionChanged(state client.ConnState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, state)
}

func (v *recordingView) renderedMessages() []models.ChatMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]models.ChatMessage, len(v.messages))
	copy(out, v.messages)
	return out
}

func (v *recordingView) staleSignals() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.staleCount
}

// fakeTicketAPI is a scriptable TicketCreator for syncer tests. Each call
// pops the next scripted error (nil means success).
type fakeTicketAPI struct {
	mu     sync.Mutex
	calls  []client.CreateTicketRequest
	script []error
	nextID uint
}

func (a *fakeTicketAPI) CreateTicket(ctx context.Context, req client.CreateTicketRequest) (*client.CreateTicketResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls = append(a.calls, req)
	var err error
	if len(a.script) > 0 {
		err = a.script[0]
		a.script = a.script[1:]
	}
	if err != nil {
		return nil, err
	}
	a.nextID++
	return &client.CreateTicketResponse{Status: "success", TicketID: a.nextID}, nil
}

func (a *fakeTicketAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}
