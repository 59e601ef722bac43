package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/painelquick/backend/internal/models"
	"github.com/painelquick/backend/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Seen remembers idempotency keys. FirstSeen reports true only the first
// time a key is offered within its retention window.
type Seen interface {
	FirstSeen(ctx context.Context, key string) (bool, error)
}

func NewOrderKey(id uint) string {
	return fmt.Sprintf("%s:%d", TypeNewOrder, id)
}

// Dispatcher fans order events out to its sinks. NEW_ORDER is emitted at
// most once per order no matter how many paths report it.
type Dispatcher struct {
	seen  Seen
	sinks []Sink
	log   *slog.Logger
}

func NewDispatcher(seen Seen, log *slog.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{seen: seen, sinks: sinks, log: log.With("component", "dispatcher")}
}

func (d *Dispatcher) NewOrder(ctx context.Context, o models.OrderView) {
	key := NewOrderKey(o.ID)
	first, err := d.seen.FirstSeen(ctx, key)
	if err != nil {
		// Store unavailable: treat the key as unseen.
		d.log.Warn("dedupe_error", "key", key, "error", err)
		first = true
	}
	if !first {
		metrics.Notification(TypeNewOrder, "duplicate")
		return
	}
	d.publish(ctx, Message{Type: TypeNewOrder, ID: key, Order: o})
}

func (d *Dispatcher) OrderUpdated(ctx context.Context, o models.OrderView) {
	key := fmt.Sprintf("%s:%d:%s", TypeOrderUpdate, o.ID, uuid.NewString())
	d.publish(ctx, Message{Type: TypeOrderUpdate, ID: key, Order: o})
}

// publish hands m to every sink and reports whether at least one accepted it.
func (d *Dispatcher) publish(ctx context.Context, m Message) bool {
	ctx = context.WithoutCancel(ctx)
	delivered := false
	for _, s := range d.sinks {
		if err := s.Publish(ctx, m); err != nil {
			d.log.Warn("publish_error", "type", m.Type, "id", m.ID, "error", err)
			metrics.Notification(m.Type, "failed")
			continue
		}
		delivered = true
	}
	if delivered {
		metrics.Notification(m.Type, "sent")
	}
	return delivered
}

type MemorySeen struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemorySeen(ttl time.Duration) *MemorySeen {
	return &MemorySeen{ttl: ttl, keys: make(map[string]time.Time), now: time.Now}
}

func (m *MemorySeen) FirstSeen(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.keys {
		if !now.Before(exp) {
			delete(m.keys, k)
		}
	}
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = now.Add(m.ttl)
	return true, nil
}

// RedisSeen shares idempotency keys between instances with SET NX.
type RedisSeen struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRedisSeen(url string, ttl time.Duration) (*RedisSeen, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("notify: parse redis url: %w", err)
	}
	return &RedisSeen{Client: redis.NewClient(opts), TTL: ttl, Prefix: "painelquick:seen:"}, nil
}

func (r *RedisSeen) FirstSeen(ctx context.Context, key string) (bool, error) {
	return r.Client.SetNX(ctx, r.Prefix+key, 1, r.TTL).Result()
}

func (r *RedisSeen) Close() error {
	return r.Client.Close()
}
