package client_test

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"tickethub/backend/internal/client"
	"tickethub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueueWithPending(t *testing.T, messages ...string) *client.OfflineStore {
	t.Helper()
	store := client.NewOfflineStore(filepath.Join(t.TempDir(), "queue.json"))
	for _, msg := range messages {
		_, err := store.Append(models.OfflineTicket{Message: msg, Category: "Payments"})
		require.NoError(t, err)
	}
	return store
}

func TestSyncer_FlushMarksSynced(t *testing.T) {
	store := newQueueWithPending(t, "a", "b")
	api := &fakeTicketAPI{}
	syncer := client.NewSyncer(store, api)

	synced, err := syncer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)

	tickets, err := store.Load()
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, models.OfflineStatusSynced, tickets[0].Status)
	assert.Equal(t, models.OfflineStatusSynced, tickets[1].Status)
}

func TestSyncer_NetworkFailureStopsThePass(t *testing.T) {
	store := newQueueWithPending(t, "a", "b")
	api := &fakeTicketAPI{script: []error{nil, errors.New("connection refused")}}
	syncer := client.NewSyncer(store, api)

	synced, err := syncer.Flush(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, synced)

	tickets, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.OfflineStatusSynced, tickets[0].Status)
	assert.Equal(t, models.OfflineStatusPending, tickets[1].Status)

	// The next pass retries only the still-pending entry.
	synced, err = syncer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)
	assert.Equal(t, 3, api.callCount())

	tickets, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.OfflineStatusSynced, tickets[1].Status)
}

func TestSyncer_SyncedEntriesAreNeverResubmitted(t *testing.T) {
	store := newQueueWithPending(t, "a")
	api := &fakeTicketAPI{}
	syncer := client.NewSyncer(store, api)

	_, err := syncer.Flush(context.Background())
	require.NoError(t, err)
	_, err = syncer.Flush(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, api.callCount())
}

func TestSyncer_RejectedEntryDoesNotBlockTheQueue(t *testing.T) {
	store := newQueueWithPending(t, "bad", "good")
	api := &fakeTicketAPI{script: []error{
		&client.APIError{StatusCode: http.StatusBadRequest, Message: "message is required"},
		nil,
	}}
	syncer := client.NewSyncer(store, api)

	synced, err := syncer.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	tickets, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, models.OfflineStatusRejected, tickets[0].Status)
	assert.Equal(t, models.OfflineStatusSynced, tickets[1].Status)
}

func TestSyncer_PrunesOldSyncedEntries(t *testing.T) {
	store := newQueueWithPending(t)
	_, err := store.Append(models.OfflineTicket{
		Message:   "ancient",
		Timestamp: time.Now().Add(-30 * 24 * time.Hour),
		Status:    models.OfflineStatusSynced,
	})
	require.NoError(t, err)
	_, err = store.Append(models.OfflineTicket{Message: "fresh"})
	require.NoError(t, err)

	syncer := client.NewSyncer(store, &fakeTicketAPI{})
	syncer.Retention = 7 * 24 * time.Hour

	_, err = syncer.Flush(context.Background())
	require.NoError(t, err)

	tickets, err := store.Load()
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "fresh", tickets[0].Message)
}
