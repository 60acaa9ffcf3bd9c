package pubsub

import "context"

// Pack is the unit carried by every transport. Key groups packs that must stay ordered, Msg is
// the encoded payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
}
