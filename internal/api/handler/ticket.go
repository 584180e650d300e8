package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"tickethub/backend/internal/models"
	"tickethub/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateTicketRequest is the payload of POST /api/tickets.
type CreateTicketRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	CategoryID uint     `json:"category_id"`
	Subject    string   `json:"subject"`
	Message    string   `json:"message" binding:"required"`
	Tags       []string `json:"tags"`
}

// CreateTicket creates a ticket and stores its opening message as the
// first entry in the ticket's conversation.
func (h *Handler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "message is required"})
		return
	}

	var categoryName string
	if categories, err := h.Storage.ListCategories(); err == nil {
		for _, cat := range categories {
			if cat.ID == req.CategoryID {
				categoryName = cat.Name
				break
			}
		}
	}
	if req.Subject == "" {
		if categoryName != "" {
			req.Subject = categoryName + " Support Request"
		} else {
			req.Subject = "Support Request"
		}
	}

	ticket := &models.Ticket{
		Subject:      req.Subject,
		CategoryID:   req.CategoryID,
		ContactName:  req.Name,
		ContactEmail: req.Email,
		Tags:         pq.StringArray(req.Tags),
	}
	if err := h.Storage.SaveTicket(ticket); err != nil {
		log.Printf("ERROR: Failed to create ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create ticket"})
		return
	}

	opening := &models.MessageRecord{
		TicketID: ticket.ID,
		Content:  req.Message,
		IsAdmin:  false,
	}
	if err := h.Storage.SaveMessage(opening); err != nil {
		// The ticket shell exists but the user's text was lost; reporting
		// success here would silently drop it.
		log.Printf("ERROR: Failed to save opening message for ticket %d: %v", ticket.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"message":   "Failed to save opening message",
			"ticket_id": ticket.ID,
		})
		return
	}

	if h.Notifier != nil {
		h.Notifier.NotifyNewTicket(ticket.ID, ticket.Subject, categoryName, req.Message)
	}

	userID := uuid.New().String()
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"ticket_id": ticket.ID,
		"user_id":   userID,
	})
}

// GetTicket returns one ticket's details.
func (h *Handler) GetTicket(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	ticket, err := h.Storage.GetTicketByID(id)
	if errors.Is(err, storage.ErrTicketNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Ticket not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load ticket"})
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// GetTicketMessages returns the ticket's conversation in creation order,
// together with the ticket status so the client can detect closure.
func (h *Handler) GetTicketMessages(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	ticket, err := h.Storage.GetTicketByID(id)
	if errors.Is(err, storage.ErrTicketNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Ticket not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load ticket"})
		return
	}

	records, err := h.Storage.GetTicketMessages(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load messages"})
		return
	}

	messages := make([]models.ChatMessage, 0, len(records))
	for _, r := range records {
		messages = append(messages, models.ChatMessage{
			TicketID:  r.TicketID,
			Content:   r.Content,
			IsAdmin:   r.IsAdmin,
			CreatedAt: r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": string(ticket.Status), "messages": messages})
}

// UpdateTicketStatusRequest is the payload of PUT /api/tickets/:id/status.
type UpdateTicketStatusRequest struct {
	Status models.TicketStatus `json:"status" binding:"required"`
}

// UpdateTicketStatus moves a ticket to a new lifecycle state. Admin only.
func (h *Handler) UpdateTicketStatus(c *gin.Context) {
	tokenString := bearerToken(c)
	_, isAdmin, err := h.validateAndGetSession(tokenString)
	if err != nil || !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Admin session required"})
		return
	}

	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	var req UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "status is required"})
		return
	}
	switch req.Status {
	case models.TicketStatusOpen, models.TicketStatusInProgress, models.TicketStatusResolved, models.TicketStatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Unknown ticket status"})
		return
	}

	if err := h.Storage.UpdateTicketStatus(id, req.Status); err != nil {
		if errors.Is(err, storage.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to update ticket"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListCategories returns the support categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Storage.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Health is the liveness probe the clients poll to detect connectivity.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ticketIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid ticket id"})
		return 0, false
	}
	return uint(id), true
}
