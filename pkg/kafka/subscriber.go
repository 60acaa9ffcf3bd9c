package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Shopify/sarama"
	"github.com/questx-lab/harmony/pkg/pubsub"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

type subscriber struct {
	groupID string
	topics  []string
	client  sarama.ConsumerGroup
	handler pubsub.SubscribeHandler
}

// NewSubscriber joins groupID. Give every process its own group id to receive every pack,
// or share one to split the packs between processes.
func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, newConfig(groupID))
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID: groupID,
		topics:  topics,
		client:  client,
		handler: handler,
	}, nil
}

func (g *subscriber) Stop(ctx context.Context) error {
	return g.client.Close()
}

func (g *subscriber) Subscribe(ctx context.Context) error {
	consumer := &consumerGroupHandler{ready: make(chan struct{}), fn: g.handler}

	go func() {
		for {
			// Consume returns on every rebalance, the session must be recreated to get the
			// new claims.
			err := g.client.Consume(ctx, g.topics, consumer)
			if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
				return
			}

			if err != nil {
				xcontext.Logger(ctx).Errorf("Error from consumer group %s: %v", g.groupID, err)
				time.Sleep(time.Second)
			}
		}
	}()

	select {
	case <-consumer.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type consumerGroupHandler struct {
	ready     chan struct{}
	readyOnce sync.Once
	fn        pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.readyOnce.Do(func() { close(h.ready) })
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		session.MarkMessage(message, "")

		topic, ok := topicOf(message)
		if !ok {
			xcontext.Logger(session.Context()).Warnf(
				"Drop kafka message at offset %d without topic header", message.Offset)
			continue
		}

		h.fn(session.Context(), topic, &pubsub.Pack{Key: message.Key, Msg: message.Value}, message.Timestamp)
	}

	return nil
}
