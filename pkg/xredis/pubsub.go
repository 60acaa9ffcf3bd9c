package xredis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/questx-lab/harmony/pkg/pubsub"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

// envelope keeps the pack key next to the payload, redis pub/sub only carries one string.
type envelope struct {
	Key []byte `json:"k,omitempty"`
	Msg []byte `json:"m"`
}

// publisher maps every topic to the redis channel prefix+topic. Redis delivers the messages of
// one channel in publish order.
type publisher struct {
	client Client
	prefix string
}

func NewPublisher(client Client, prefix string) *publisher {
	return &publisher{client: client, prefix: prefix}
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	b, err := json.Marshal(envelope{Key: pack.Key, Msg: pack.Msg})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.prefix+topic, b)
}

type subscriber struct {
	client  Client
	prefix  string
	handler pubsub.SubscribeHandler
	ps      *redis.PubSub
}

// NewSubscriber receives every channel under prefix and passes the decoded packs to handler
// with the prefix stripped from the topic.
func NewSubscriber(client Client, prefix string, handler pubsub.SubscribeHandler) *subscriber {
	return &subscriber{client: client, prefix: prefix, handler: handler}
}

func (s *subscriber) Subscribe(ctx context.Context) error {
	s.ps = s.client.PSubscribe(ctx, s.prefix+"*")
	if s.ps == nil {
		return errors.New("redis client returned no subscription")
	}

	// Wait for the subscription confirmation so that no publish after Subscribe is missed.
	if _, err := s.ps.Receive(ctx); err != nil {
		return err
	}

	go func() {
		for msg := range s.ps.Channel() {
			s.handle(ctx, msg)
		}
	}()

	return nil
}

func (s *subscriber) Stop(ctx context.Context) error {
	if s.ps == nil {
		return nil
	}

	return s.ps.Close()
}

func (s *subscriber) handle(ctx context.Context, msg *redis.Message) {
	topic, ok := strings.CutPrefix(msg.Channel, s.prefix)
	if !ok {
		return
	}

	var e envelope
	if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
		xcontext.Logger(ctx).Warnf("Drop invalid redis message on %s: %v", msg.Channel, err)
		return
	}

	s.handler(ctx, topic, &pubsub.Pack{Key: e.Key, Msg: e.Msg}, time.Now())
}
