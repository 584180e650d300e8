package client_test

import (
	"path/filepath"
	"testing"

	"tickethub/backend/internal/client"
	"tickethub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineStore_AppendFillsDefaults(t *testing.T) {
	store := client.NewOfflineStore(filepath.Join(t.TempDir(), "queue.json"))

	queued, err := store.Append(models.OfflineTicket{Message: "help", Category: "Payments"})
	require.NoError(t, err)

	assert.NotZero(t, queued.ID)
	assert.False(t, queued.Timestamp.IsZero())
	assert.Equal(t, models.OfflineStatusPending, queued.Status)
}

func TestOfflineStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")

	store := client.NewOfflineStore(path)
	_, err := store.Append(models.OfflineTicket{Message: "first"})
	require.NoError(t, err)
	_, err = store.Append(models.OfflineTicket{Message: "second"})
	require.NoError(t, err)

	// A new store over the same file sees the same queue, in order.
	reopened := client.NewOfflineStore(path)
	tickets, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "first", tickets[0].Message)
	assert.Equal(t, "second", tickets[1].Message)
}

func TestOfflineStore_PendingFiltersSynced(t *testing.T) {
	store := client.NewOfflineStore(filepath.Join(t.TempDir(), "queue.json"))

	_, err := store.Append(models.OfflineTicket{Message: "a"})
	require.NoError(t, err)
	_, err = store.Append(models.OfflineTicket{Message: "b"})
	require.NoError(t, err)

	err = store.Update(func(tickets []models.OfflineTicket) []models.OfflineTicket {
		tickets[0].Status = models.OfflineStatusSynced
		return tickets
	})
	require.NoError(t, err)

	pending, err := store.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].Message)
}

func TestOfflineStore_EmptyFileIsEmptyQueue(t *testing.T) {
	store := client.NewOfflineStore(filepath.Join(t.TempDir(), "missing.json"))

	tickets, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tickets)
}
