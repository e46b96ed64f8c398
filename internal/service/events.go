package service

import (
	"context"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/mykafka"
)

// publish sends a domain event and only logs on failure. Events are
// best-effort: a broker outage must never fail the request that
// produced them. A nil producer disables publishing entirely.
func publish(ctx context.Context, producer *mykafka.Producer, topic, key string, event map[string]any) {
	if producer == nil {
		return
	}
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "topic", topic, "key", key, "error", err)
	}
}
