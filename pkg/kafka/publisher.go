package kafka

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/questx-lab/harmony/pkg/pubsub"
)

const topicHeader = "topic"

// publisher sends every pack to a single kafka topic. The pack key selects the partition, so
// packs sharing a key are consumed in publish order. The logical topic travels in a header.
type publisher struct {
	kafkaTopic string
	producer   sarama.SyncProducer
}

func NewPublisher(clientID string, brokerAddrs []string, kafkaTopic string) (*publisher, error) {
	producer, err := sarama.NewSyncProducer(brokerAddrs, newConfig(clientID))
	if err != nil {
		return nil, err
	}

	return &publisher{kafkaTopic: kafkaTopic, producer: producer}, nil
}

func (p *publisher) Stop(ctx context.Context) error {
	return p.producer.Close()
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m := &sarama.ProducerMessage{
		Topic: p.kafkaTopic,
		Key:   sarama.ByteEncoder(pack.Key),
		Value: sarama.ByteEncoder(pack.Msg),
		Headers: []sarama.RecordHeader{
			{Key: []byte(topicHeader), Value: []byte(topic)},
		},
	}

	if _, _, err := p.producer.SendMessage(m); err != nil {
		return fmt.Errorf("p.producer.SendMessage: %w", err)
	}

	return nil
}

func newConfig(clientID string) *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Version = sarama.V2_1_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	return config
}

func topicOf(message *sarama.ConsumerMessage) (string, bool) {
	for _, h := range message.Headers {
		if h != nil && string(h.Key) == topicHeader {
			return string(h.Value), true
		}
	}

	return "", false
}
