package client_test

import (
	"testing"
	"time"

	"tickethub/backend/internal/client"
	"tickethub/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectedSession(t *testing.T) (*fakeTransport, *client.ConnManager, *client.RoomTracker) {
	t.Helper()
	tr := newFakeTransport()
	conn := client.NewConnManager(tr)
	rooms := client.NewRoomTracker(conn)
	require.NoError(t, conn.Connect())
	tr.goOnline()
	time.Sleep(50 * time.Millisecond)
	return tr, conn, rooms
}

func eventNames(events []models.Event) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}

func TestRoomTracker_SwitchEmitsOneLeaveJoinPair(t *testing.T) {
	tr, _, rooms := newConnectedSession(t)

	require.NoError(t, rooms.JoinRoom(1))
	require.NoError(t, rooms.JoinRoom(2))
	require.NoError(t, rooms.JoinRoom(2)) // already joined: no-op

	sent := tr.sentEvents()
	require.Len(t, sent, 3)
	assert.Equal(t, []string{models.EventJoinRoom, models.EventLeaveRoom, models.EventJoinRoom}, eventNames(sent))
	assert.Equal(t, uint(1), sent[0].TicketID)
	assert.Equal(t, uint(1), sent[1].TicketID)
	assert.Equal(t, uint(2), sent[2].TicketID)
	assert.Equal(t, uint(2), rooms.Current())
}

func TestRoomTracker_JoinWhileDisconnectedIsDeferred(t *testing.T) {
	tr := newFakeTransport()
	conn := client.NewConnManager(tr)
	rooms := client.NewRoomTracker(conn)
	require.NoError(t, conn.Connect())

	// Still disconnected: the desired room is recorded, nothing emitted.
	require.NoError(t, rooms.JoinRoom(5))
	assert.Empty(t, tr.sentEvents())
	assert.Equal(t, uint(5), rooms.Current())

	tr.goOnline()
	time.Sleep(50 * time.Millisecond)

	sent := tr.sentEvents()
	require.Len(t, sent, 1)
	assert.Equal(t, models.EventJoinRoom, sent[0].Name)
	assert.Equal(t, uint(5), sent[0].TicketID)
}

func TestRoomTracker_ExactlyOneRejoinPerReconnect(t *testing.T) {
	tr, _, rooms := newConnectedSession(t)

	require.NoError(t, rooms.JoinRoom(42))

	tr.goOffline()
	time.Sleep(50 * time.Millisecond)
	tr.goOnline()
	time.Sleep(50 * time.Millisecond)

	sent := tr.sentEvents()
	require.Len(t, sent, 2)
	assert.Equal(t, models.EventJoinRoom, sent[0].Name)
	assert.Equal(t, models.EventJoinRoom, sent[1].Name)
	assert.Equal(t, uint(42), sent[1].TicketID)
	assert.Equal(t, uint(42), rooms.Current())
}

func TestRoomTracker_NoRejoinWithoutRoom(t *testing.T) {
	tr, _, _ := newConnectedSession(t)

	tr.goOffline()
	time.Sleep(50 * time.Millisecond)
	tr.goOnline()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, tr.sentEvents())
}

func TestRoomTracker_LeaveRoom(t *testing.T) {
	tr, _, rooms := newConnectedSession(t)

	require.NoError(t, rooms.JoinRoom(9))
	require.NoError(t, rooms.LeaveRoom())
	require.NoError(t, rooms.LeaveRoom()) // idempotent

	sent := tr.sentEvents()
	require.Len(t, sent, 2)
	assert.Equal(t, models.EventLeaveRoom, sent[1].Name)
	assert.Equal(t, uint(9), sent[1].TicketID)
	assert.Equal(t, uint(0), rooms.Current())
}
