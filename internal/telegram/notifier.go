// Package telegram pushes ticket notifications to the support team's
// Telegram channel.
package telegram

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier posts a message to a fixed chat when a ticket is created, so
// agents hear about new tickets without watching the dashboard.
type Notifier struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
}

// NewNotifier authorizes the bot and returns a notifier for the given
// chat.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Notifier authorized on account %s", bot.Self.UserName)

	return &Notifier{BotAPI: bot, ChatID: chatID}, nil
}

// NotifyNewTicket announces a freshly created ticket. Failures are logged
// and swallowed: notification is best-effort and must never fail ticket
// creation.
func (n *Notifier) NotifyNewTicket(ticketID uint, subject, category, message string) {
	if category == "" {
		category = "General"
	}
	if len(message) > 300 {
		message = message[:300] + "…"
	}

	text := fmt.Sprintf("New ticket #%d\n%s [%s]\n\n%s", ticketID, subject, category, message)
	msg := tgbotapi.NewMessage(n.ChatID, text)

	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram notification for ticket %d: %v", ticketID, err)
	}
}

// NotifyEscalation announces a ticket that breached its response-time
// target. Best-effort, like NotifyNewTicket.
func (n *Notifier) NotifyEscalation(ticketID uint, subject string, level int, levelName string, age time.Duration) {
	text := fmt.Sprintf("⚠ Ticket #%d escalated to %s\n%s\nOpen for %s without resolution",
		ticketID, levelName, subject, age.Round(time.Minute))
	msg := tgbotapi.NewMessage(n.ChatID, text)

	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send escalation notification for ticket %d: %v", ticketID, err)
	}
}
