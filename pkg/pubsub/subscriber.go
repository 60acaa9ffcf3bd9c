package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(ctx context.Context, topic string, pack *Pack, t time.Time)

// Subscriber consumes packs from an external transport and passes them to its handler.
type Subscriber interface {
	// Subscribe starts consuming in background. It returns once the subscriber is ready.
	Subscribe(ctx context.Context) error
	Stop(ctx context.Context) error
}
