package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tickethub/backend/internal/models"
)

// OfflineStore is the local event log: a durable, ordered collection of
// ticket-creation requests captured while the backend was unreachable.
// It persists as a single flat JSON file, the way the browser client kept
// the queue in localStorage. Every mutation rewrites the whole file under
// the store's lock, so a flush cycle never loses an entry queued by a
// near-simultaneous user action.
type OfflineStore struct {
	path string
	mu   sync.Mutex
}

func NewOfflineStore(path string) *OfflineStore {
	return &OfflineStore{path: path}
}

// Append queues one offline ticket. The entry's id and timestamp are
// filled in when the caller left them zero.
func (s *OfflineStore) Append(t models.OfflineTicket) (models.OfflineTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		t.ID = time.Now().UnixMilli()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	if t.Status == "" {
		t.Status = models.OfflineStatusPending
	}

	tickets, err := s.load()
	if err != nil {
		return t, err
	}
	tickets = append(tickets, t)
	return t, s.save(tickets)
}

// Load returns the full queue in insertion order.
func (s *OfflineStore) Load() ([]models.OfflineTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Pending returns only the entries still awaiting delivery.
func (s *OfflineStore) Pending() ([]models.OfflineTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.load()
	if err != nil {
		return nil, err
	}
	pending := tickets[:0:0]
	for _, t := range tickets {
		if t.Pending() {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// Update runs fn over the loaded queue and persists whatever fn returns.
// The whole cycle holds the store lock: read queue, mutate, write back.
func (s *OfflineStore) Update(fn func([]models.OfflineTicket) []models.OfflineTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.load()
	if err != nil {
		return err
	}
	return s.save(fn(tickets))
}

func (s *OfflineStore) load() ([]models.OfflineTicket, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var tickets []models.OfflineTicket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *OfflineStore) save(tickets []models.OfflineTicket) error {
	if tickets == nil {
		tickets = []models.OfflineTicket{}
	}
	data, err := json.Marshal(tickets)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o644)
}
