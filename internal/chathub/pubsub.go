package chathub

import (
	"encoding/json"
	"log"

	"tickethub/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// RoomSubscriber is implemented by storage backends that can subscribe to
// the room fan-out channels. Test storages that do not implement it leave
// the hub's PubSubCh driven only by the test itself.
type RoomSubscriber interface {
	SubscribeToAllRooms() *redis.PubSub
}

// StartPubSubListener starts a goroutine that relays Redis Pub/Sub room
// events into the hub's PubSubCh. Every server instance subscribes to all
// ticket rooms; the hub filters per connected client.
func (m *ManagerService) StartPubSubListener() {
	sub, ok := m.Storage.(RoomSubscriber)
	if !ok {
		return
	}

	go func() {
		pubsub := sub.SubscribeToAllRooms()
		defer pubsub.Close()

		ch := pubsub.Channel()
		for msg := range ch {
			var ev models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error unmarshalling Redis message: %v", err)
				continue
			}
			m.PubSubCh <- ev
		}
	}()
}
