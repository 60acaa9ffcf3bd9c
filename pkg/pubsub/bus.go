package pubsub

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/questx-lab/harmony/pkg/xcontext"
)

// Bus is an in-process publisher. Publish hands the pack to every handler subscribed to the
// topic at that moment, synchronously and in subscription order. Packs of the same topic are
// delivered one publish at a time, so every subscriber observes the same order.
//
// Handlers must not block, must not publish to the topic they are handling and must not
// unsubscribe their own subscription, all of which would deadlock the dispatch of that topic.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]*topicEntry
	nextID uint64
}

type topicEntry struct {
	dispatchMu sync.Mutex
	subs       map[uint64]*Subscription
}

type Subscription struct {
	bus     *Bus
	topic   string
	id      uint64
	handler SubscribeHandler

	mu       sync.Mutex
	released bool
}

func NewBus() *Bus {
	return &Bus{topics: make(map[string]*topicEntry)}
}

func (b *Bus) Subscribe(topic string, handler SubscribeHandler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{bus: b, topic: topic, id: b.nextID, handler: handler}

	entry, ok := b.topics[topic]
	if !ok {
		entry = &topicEntry{subs: make(map[uint64]*Subscription)}
		b.topics[topic] = entry
	}
	entry.subs[sub.id] = sub

	return sub
}

// Publish never fails. The error return satisfies Publisher.
func (b *Bus) Publish(ctx context.Context, topic string, pack *Pack) error {
	b.mu.RLock()
	entry, ok := b.topics[topic]
	b.mu.RUnlock()
	if !ok {
		return nil
	}

	entry.dispatchMu.Lock()
	defer entry.dispatchMu.Unlock()

	b.mu.RLock()
	subs := make([]*Subscription, 0, len(entry.subs))
	for _, s := range entry.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })

	now := time.Now()
	for _, s := range subs {
		s.deliver(ctx, pack, now)
	}

	return nil
}

// Deliver re-publishes a pack received from an external transport. It has the shape of a
// SubscribeHandler.
func (b *Bus) Deliver(ctx context.Context, topic string, pack *Pack, _ time.Time) {
	b.Publish(ctx, topic, pack)
}

// SubscriberCount returns the number of live subscriptions of topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if entry, ok := b.topics[topic]; ok {
		return len(entry.subs)
	}

	return 0
}

// Close releases every subscription.
func (b *Bus) Close() {
	b.mu.RLock()
	var subs []*Subscription
	for _, entry := range b.topics {
		for _, s := range entry.subs {
			subs = append(subs, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Unsubscribe detaches the handler. Once it returns, the handler is not running and will never
// be called again. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	s.mu.Unlock()

	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.topics[s.topic]
	if !ok {
		return
	}

	delete(entry.subs, s.id)
	if len(entry.subs) == 0 {
		delete(b.topics, s.topic)
	}
}

func (s *Subscription) Topic() string {
	return s.topic
}

func (s *Subscription) deliver(ctx context.Context, pack *Pack, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			xcontext.Logger(ctx).Errorf("Subscriber of topic %s panicked: %v", s.topic, r)
		}
	}()

	s.handler(ctx, s.topic, pack, t)
}
