package client

import (
	"context"
	"errors"
	"log"
	"strings"

	"tickethub/backend/internal/config"
	"tickethub/backend/internal/models"

	"github.com/google/uuid"
)

// Config configures one client session.
type Config struct {
	// ServerURL is the backend base URL, e.g. "http://localhost:8080".
	ServerURL string
	// Token is the session JWT obtained from GET /api/session.
	Token string
	// Admin marks this session as an agent session.
	Admin bool
	// OfflinePath is the file backing the offline ticket queue.
	OfflinePath string
	// View receives rendered output. Required.
	View View
	// Transport overrides the websocket transport. Tests use this; when
	// nil the production websocket transport is dialed from ServerURL.
	Transport Transport
}

// TicketResult is the outcome of CreateTicket. When the backend was
// unreachable the ticket is queued durably instead and Offline is set;
// LocalID then identifies the queue entry until a sync pass delivers it.
type TicketResult struct {
	TicketID uint
	UserID   string
	Offline  bool
	LocalID  int64
}

// Client ties the session's components together: one connection, one
// room, one dispatcher, one offline queue. Multiple independent clients
// can coexist in a process; there is no shared global state.
type Client struct {
	SessionID string

	conn       *ConnManager
	rooms      *RoomTracker
	dispatcher *Dispatcher
	api        *TicketAPI
	store      *OfflineStore
	syncer     *Syncer
}

func New(cfg Config) *Client {
	tr := cfg.Transport
	if tr == nil {
		tr = NewWebSocketTransport(wsURL(cfg.ServerURL)+"/ws", cfg.Token)
	}

	conn := NewConnManager(tr)
	rooms := NewRoomTracker(conn)
	dispatcher := NewDispatcher(conn, rooms, cfg.View, cfg.Admin)

	api := NewTicketAPI(cfg.ServerURL)
	store := NewOfflineStore(cfg.OfflinePath)
	syncer := NewSyncer(store, api)
	syncer.Retention = config.OfflineRetention

	return &Client{
		SessionID:  uuid.New().String(),
		conn:       conn,
		rooms:      rooms,
		dispatcher: dispatcher,
		api:        api,
		store:      store,
		syncer:     syncer,
	}
}

// Connect opens the transport. Reconnection afterwards is automatic.
func (c *Client) Connect() error {
	return c.conn.Connect()
}

// Close shuts the session's connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// IsConnected reports whether the transport is currently up.
func (c *Client) IsConnected() bool {
	return c.conn.IsConnected()
}

// JoinTicket subscribes the session to a ticket's room, leaving any
// previously joined room.
func (c *Client) JoinTicket(ticketID uint) error {
	return c.rooms.JoinRoom(ticketID)
}

// CurrentTicket returns the joined room's ticket id, or zero.
func (c *Client) CurrentTicket() uint {
	return c.rooms.Current()
}

// SendMessage submits a chat message for the joined ticket. The view is
// only updated when the server echoes the message back.
func (c *Client) SendMessage(ticketID uint, content string) error {
	return c.dispatcher.Send(ticketID, content)
}

// CreateTicket creates a support ticket. When the backend is unreachable
// the request is queued in the offline store instead of failing; a
// server-side rejection is returned as an error and is not queued. After
// a successful online creation any queued offline tickets are flushed.
func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest, category string) (*TicketResult, error) {
	resp, err := c.api.CreateTicket(ctx, req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			return nil, err
		}

		queued, qerr := c.store.Append(models.OfflineTicket{
			Message:  req.Message,
			Category: category,
			Name:     req.Name,
			Email:    req.Email,
		})
		if qerr != nil {
			return nil, qerr
		}
		return &TicketResult{Offline: true, LocalID: queued.ID}, nil
	}

	if n, ferr := c.syncer.Flush(ctx); ferr != nil {
		log.Printf("offline sync after ticket creation: %d synced, stopped: %v", n, ferr)
	}

	return &TicketResult{TicketID: resp.TicketID, UserID: resp.UserID}, nil
}

// SyncOffline flushes the offline queue. Intended to be called on
// reconnect or from an application timer.
func (c *Client) SyncOffline(ctx context.Context) (int, error) {
	return c.syncer.Flush(ctx)
}

// OfflineQueue returns the current contents of the offline store.
func (c *Client) OfflineQueue() ([]models.OfflineTicket, error) {
	return c.store.Load()
}

// TicketMessages loads a ticket's conversation history over REST.
func (c *Client) TicketMessages(ctx context.Context, ticketID uint) (string, []models.ChatMessage, error) {
	return c.api.TicketMessages(ctx, ticketID)
}

func wsURL(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://")
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://")
	default:
		return serverURL
	}
}
