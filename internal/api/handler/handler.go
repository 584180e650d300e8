package handler

import (
	"tickethub/backend/internal/chathub"
	"tickethub/backend/internal/storage"
)

// TicketNotifier is notified when a new ticket is created. The Telegram
// notifier implements it; a nil notifier disables notifications.
type TicketNotifier interface {
	NotifyNewTicket(ticketID uint, subject, category, message string)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	Hub       *chathub.ManagerService
	Storage   storage.Storage
	Notifier  TicketNotifier
	JWTSecret []byte
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, notifier TicketNotifier, jwtSecret []byte) *Handler {
	return &Handler{
		Hub:       hub,
		Storage:   s,
		Notifier:  notifier,
		JWTSecret: jwtSecret,
	}
}
