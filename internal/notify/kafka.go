package notify

import (
	"context"
	"strconv"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// KafkaSink publishes every message to Topic keyed by order id, so events of
// one order stay in one partition.
type KafkaSink struct {
	Producer EventPublisher
	Topic    string
}

func (k *KafkaSink) Publish(ctx context.Context, m Message) error {
	return k.Producer.PublishEvent(ctx, k.Topic, strconv.FormatUint(uint64(m.Order.ID), 10), m)
}
