package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

// RecordPublisher keeps every published pack in order.
type RecordPublisher struct {
	mu    sync.Mutex
	packs []PublishedPack
}

func (r *RecordPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs = append(r.packs, PublishedPack{Topic: topic, Pack: pack})
	return nil
}

func (r *RecordPublisher) Packs() []PublishedPack {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PublishedPack(nil), r.packs...)
}
