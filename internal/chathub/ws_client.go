package chathub

import (
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"tickethub/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements the chathub.Client interface for a browser
// connection.
type WebSocketClient struct {
	SessionID string
	Admin     bool
	Conn      *websocket.Conn
	Hub       *ManagerService
	Send      chan models.Event

	// ticketID is read by the hub loop and written by it too, but also read
	// by handlers outside that loop, so it is accessed atomically.
	ticketID atomic.Uint64
}

func (c *WebSocketClient) GetSessionID() string { return c.SessionID }

func (c *WebSocketClient) GetTicketID() uint { return uint(c.ticketID.Load()) }

func (c *WebSocketClient) SetTicketID(id uint) { c.ticketID.Store(uint64(id)) }

func (c *WebSocketClient) IsAdmin() bool { return c.Admin }

func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var ev models.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("Error decoding JSON from client %s: %v", c.SessionID, err)
			continue
		}

		c.Hub.IncomingCh <- Inbound{Client: c, Event: ev}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			dataToWrite, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding JSON for client %s: %v", c.SessionID, err)
				continue
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, dataToWrite); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
