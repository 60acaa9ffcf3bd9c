package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/pkg/pubsub"
)

type event struct {
	op    string
	topic string
	data  []byte
}

// Session is one websocket connection of the realtime endpoint. Events of subscribed containers
// are queued on C. The subscription set is owned by the goroutine serving the connection.
type Session struct {
	C chan *event

	id     string
	userID string
	subs   map[string][]*pubsub.Subscription
}

func NewSession(userID string, buffer int) *Session {
	if buffer <= 0 {
		buffer = 1
	}

	return &Session{
		C:      make(chan *event, buffer),
		id:     uuid.NewString(),
		userID: userID,
		subs:   make(map[string][]*pubsub.Subscription),
	}
}

// subscribe attaches the session to both topics of the container. It returns false if the
// session is already subscribed to it.
func (s *Session) subscribe(bus *pubsub.Bus, containerID string) bool {
	if _, ok := s.subs[containerID]; ok {
		return false
	}

	s.subs[containerID] = []*pubsub.Subscription{
		bus.Subscribe(common.TopicMessageCreated(containerID), s.enqueue(model.MessageCreatedOp)),
		bus.Subscribe(common.TopicMessageUpdated(containerID), s.enqueue(model.MessageUpdatedOp)),
	}

	return true
}

func (s *Session) unsubscribe(containerID string) bool {
	subs, ok := s.subs[containerID]
	if !ok {
		return false
	}

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	delete(s.subs, containerID)

	return true
}

// Leave releases every subscription and closes C.
func (s *Session) Leave() {
	for containerID := range s.subs {
		s.unsubscribe(containerID)
	}

	close(s.C)
}

// enqueue never blocks the bus. Events that do not fit in the buffer are dropped.
func (s *Session) enqueue(op string) pubsub.SubscribeHandler {
	return func(_ context.Context, topic string, pack *pubsub.Pack, _ time.Time) {
		select {
		case s.C <- &event{op: op, topic: topic, data: pack.Msg}:
		default:
			common.PromCounters[common.RealtimeDroppedEvents].WithLabelValues().Inc()
		}
	}
}
