package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tickethub/backend/internal/models"
)

// APIError is a server-side rejection (4xx/5xx with a response body). It
// is distinct from a transport failure: a rejected request reached the
// server and retrying it unchanged will not help.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// CreateTicketRequest is the payload of POST /api/tickets.
type CreateTicketRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	CategoryID uint     `json:"category_id"`
	Subject    string   `json:"subject"`
	Message    string   `json:"message"`
	Tags       []string `json:"tags,omitempty"`
}

// CreateTicketResponse is the backend's answer to a ticket creation.
type CreateTicketResponse struct {
	Status   string `json:"status"`
	TicketID uint   `json:"ticket_id"`
	UserID   string `json:"user_id"`
}

// TicketAPI is the REST client for the ticket endpoints.
type TicketAPI struct {
	baseURL string
	http    *http.Client
}

func NewTicketAPI(baseURL string) *TicketAPI {
	return &TicketAPI{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateTicket submits a new ticket. A returned *APIError means the
// server processed and rejected the request; any other error is a
// transport failure and the caller should take the offline path.
func (a *TicketAPI) CreateTicket(ctx context.Context, req CreateTicketRequest) (*CreateTicketResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/tickets", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var out CreateTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TicketMessages loads a ticket's conversation history along with the
// ticket's current status.
func (a *TicketAPI) TicketMessages(ctx context.Context, ticketID uint) (string, []models.ChatMessage, error) {
	url := fmt.Sprintf("%s/api/tickets/%d/messages", a.baseURL, ticketID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var out struct {
		Status   string               `json:"status"`
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, err
	}
	return out.Status, out.Messages, nil
}

// UpdateTicketStatus moves a ticket to a new lifecycle state. Requires an
// admin session token.
func (a *TicketAPI) UpdateTicketStatus(ctx context.Context, ticketID uint, status models.TicketStatus, token string) error {
	body, err := json.Marshal(map[string]models.TicketStatus{"status": status})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/tickets/%d/status", a.baseURL, ticketID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		return body.Message
	}
	return string(data)
}
