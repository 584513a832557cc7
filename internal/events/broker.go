package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Type identifies what changed.
type Type string

const (
	PostCreated  Type = "post.created"
	CommentAdded Type = "comment.added"
)

const subscriberBuffer = 16

// Event is a change notification delivered to readers after a successful write.
type Event struct {
	Type      Type      `json:"type"`
	PostID    string    `json:"post_id"`
	CommentID string    `json:"comment_id,omitempty"`
	ActorID   string    `json:"actor_id"`
	At        time.Time `json:"at"`
}

// Publisher is implemented by anything that can announce an Event.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Broker fans events out to subscribers. With a redis client, events travel
// through a pub/sub channel so every instance's subscribers receive them, and
// Run must be running to deliver them locally.
type Broker struct {
	mu      sync.RWMutex
	subs    map[chan Event]struct{}
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

var _ Publisher = (*Broker)(nil)

// NewBroker creates a broker. rdb may be nil for a process-local broker.
func NewBroker(rdb *redis.Client, channel string, logger *zap.Logger) *Broker {
	return &Broker{
		subs:    make(map[chan Event]struct{}),
		rdb:     rdb,
		channel: channel,
		logger:  logger,
	}
}

// Subscribe returns a channel of events that is closed once ctx is done.
// Slow subscribers miss events rather than blocking publishers.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// Publish announces ev. A failed redis publish falls back to local delivery.
func (b *Broker) Publish(ctx context.Context, ev Event) {
	if b.rdb != nil {
		payload, err := json.Marshal(ev)
		if err == nil {
			err = b.rdb.Publish(ctx, b.channel, payload).Err()
		}
		if err == nil {
			return
		}
		b.logger.Warn("redis publish failed, delivering locally", zap.String("type", string(ev.Type)), zap.Error(err))
	}
	b.fanout(ev)
}

// Run relays events from the redis channel to local subscribers until ctx is
// done. Without redis it only waits for ctx.
func (b *Broker) Run(ctx context.Context) error {
	if b.rdb == nil {
		<-ctx.Done()
		return nil
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("dropping malformed event", zap.Error(err))
				continue
			}
			b.fanout(ev)
		}
	}
}

func (b *Broker) fanout(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
