package client

import (
	"context"
	"errors"
	"log"
	"time"

	"tickethub/backend/internal/models"
)

// TicketCreator is the slice of the REST client the syncer needs.
type TicketCreator interface {
	CreateTicket(ctx context.Context, req CreateTicketRequest) (*CreateTicketResponse, error)
}

// Syncer flushes queued offline tickets to the backend once connectivity
// returns. It owns no timer: callers invoke Flush after a successful
// online ticket creation, on reconnect, or from whatever schedule the
// surrounding application runs.
type Syncer struct {
	store *OfflineStore
	api   TicketCreator

	// Retention is how long synced entries are kept before being pruned
	// from the queue file. Zero disables pruning.
	Retention time.Duration
}

func NewSyncer(store *OfflineStore, api TicketCreator) *Syncer {
	return &Syncer{store: store, api: api}
}

// Flush attempts to deliver every pending entry, in queue order, within a
// single read-mutate-write cycle of the store.
//
// A transport failure aborts the rest of the pass and leaves the
// remaining entries pending; the next pass retries them. A server
// rejection marks just that entry rejected and the pass continues, so one
// bad entry cannot block the queue. Successfully delivered entries are
// marked synced and are never resubmitted.
func (s *Syncer) Flush(ctx context.Context) (int, error) {
	synced := 0
	var passErr error

	err := s.store.Update(func(tickets []models.OfflineTicket) []models.OfflineTicket {
		for i := range tickets {
			if !tickets[i].Pending() {
				continue
			}

			req := CreateTicketRequest{
				Name:    tickets[i].Name,
				Email:   tickets[i].Email,
				Subject: tickets[i].Category + " Support Request",
				Message: tickets[i].Message,
			}

			_, err := s.api.CreateTicket(ctx, req)
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
					// The server saw the request and said no; retrying the
					// same payload cannot succeed. Park it.
					log.Printf("sync: ticket %d rejected: %v", tickets[i].ID, err)
					tickets[i].Status = models.OfflineStatusRejected
					continue
				}
				// Network or server failure: stop this pass, keep the
				// rest of the queue pending.
				log.Printf("sync: aborting pass at ticket %d: %v", tickets[i].ID, err)
				passErr = err
				break
			}

			tickets[i].Status = models.OfflineStatusSynced
			synced++
		}

		return s.prune(tickets)
	})
	if err != nil {
		return synced, err
	}
	return synced, passErr
}

// prune drops synced entries older than the retention window.
func (s *Syncer) prune(tickets []models.OfflineTicket) []models.OfflineTicket {
	if s.Retention <= 0 {
		return tickets
	}
	cutoff := time.Now().Add(-s.Retention)
	kept := tickets[:0]
	for _, t := range tickets {
		if t.Status == models.OfflineStatusSynced && t.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
