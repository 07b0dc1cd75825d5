package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/lumen-app/lumen-backend/internal/database"
)

// Entry change event types delivered to feeds.
const (
	EventTypeEntryCreated = "entry_created"
	EventTypeEntryUpdated = "entry_updated"
	EventTypeEntryDeleted = "entry_deleted"
)

const entryChannelPrefix = "entries:user:"

// EntryEvent signals that a user's entry set changed. Consumers re-fetch a
// full snapshot rather than patching deltas, so the event only carries
// identity, not the mutated fields.
type EntryEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	EntryID   string    `json:"entry_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// entryHub is a per-process registry of feed subscriptions keyed by user.
type entryHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan EntryEvent]struct{}
}

var (
	feedHub             = &entryHub{subs: make(map[string]map[chan EntryEvent]struct{})}
	entrySubscriberOnce sync.Once
)

// SubscribeEntryEvents registers a subscription for one user's entry changes.
// The returned release func must be called on every exit path; it closes the
// channel and removes the registration.
func SubscribeEntryEvents(userID string) (<-chan EntryEvent, func()) {
	ch := make(chan EntryEvent, 16)

	feedHub.mu.Lock()
	if feedHub.subs[userID] == nil {
		feedHub.subs[userID] = make(map[chan EntryEvent]struct{})
	}
	feedHub.subs[userID][ch] = struct{}{}
	feedHub.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			feedHub.mu.Lock()
			delete(feedHub.subs[userID], ch)
			if len(feedHub.subs[userID]) == 0 {
				delete(feedHub.subs, userID)
			}
			feedHub.mu.Unlock()
			close(ch)
		})
	}
	return ch, release
}

// fanOutEntryEvent delivers an event to all local subscriptions for the user.
// Sends are non-blocking: a full buffer means the consumer already has a
// snapshot refresh pending, so dropping is safe.
func fanOutEntryEvent(event EntryEvent) {
	feedHub.mu.RLock()
	defer feedHub.mu.RUnlock()

	for ch := range feedHub.subs[event.UserID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// StartEntryEventSubscriber ensures a single shared Redis listener per instance.
func StartEntryEventSubscriber(ctx context.Context) {
	entrySubscriberOnce.Do(func() {
		go runEntryEventSubscriber(ctx)
	})
}

func runEntryEventSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; entry feed subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, entryChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Entry feed Redis subscriber started (pattern: entries:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("entry feed subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event EntryEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal entry event: %v", err)
					continue
				}

				fanOutEntryEvent(event)
			}
		}()
	}
}

// PublishEntryEvent publishes a change event to Redis; every store mutation
// calls this so all instances re-deliver snapshots to connected feeds.
func PublishEntryEvent(ctx context.Context, event EntryEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return database.RedisClient.Publish(ctx, entryChannelPrefix+event.UserID, data).Err()
}
