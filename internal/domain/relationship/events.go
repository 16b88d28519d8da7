package relationship

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType identifies the mutation behind a relationship change.
type EventType string

const (
	EventRequested EventType = "friendship_requested"
	EventAccepted  EventType = "friendship_accepted"
	EventRemoved   EventType = "friendship_removed"
	EventBlocked   EventType = "user_blocked"
	EventUnblocked EventType = "user_unblocked"
)

// Event is published after every successful relationship mutation. Observers
// treat it as an invalidation signal and re-query; the event itself carries
// no state beyond the affected pair.
type Event struct {
	Type  EventType `json:"type"`
	Actor uuid.UUID `json:"actor"`
	Other uuid.UUID `json:"other"`
	At    time.Time `json:"at"`
}

// Involves reports whether the event touches the given user.
func (e Event) Involves(userID uuid.UUID) bool {
	return e.Actor == userID || e.Other == userID
}

// Notifier fans relationship change events out to live observers.
type Notifier interface {
	// Publish delivers an event to all current subscribers.
	Publish(ctx context.Context, ev Event) error

	// Subscribe returns a channel of future events and a stop function.
	// The channel is closed when the subscription ends.
	Subscribe(ctx context.Context) (<-chan Event, func())
}

const eventsChannel = "relationships:changed"

// RedisNotifier delivers events across instances via Redis Pub/Sub.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a Redis-backed notifier
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, eventsChannel, payload).Err()
}

func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan Event, func()) {
	pubsub := n.client.Subscribe(ctx, eventsChannel)
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warn().Err(err).Msg("Dropping malformed relationship event")
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { pubsub.Close() }
}

// MemoryNotifier is an in-process notifier used in tests and when Redis is
// not configured.
type MemoryNotifier struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewMemoryNotifier creates an in-process notifier
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{subs: make(map[chan Event]struct{})}
}

func (n *MemoryNotifier) Publish(ctx context.Context, ev Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber; it re-queries on the next event anyway.
		}
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, ch)
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, stop
}
