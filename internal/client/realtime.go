package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/pkg/ws"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

const (
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
)

type EventHandler func(ctx context.Context, ev model.MessageEvent)

// RealtimeClient keeps a websocket connection to the realtime endpoint and re-subscribes to
// every recorded container after each reconnect.
type RealtimeClient struct {
	url          string
	header       http.Header
	handler      EventHandler
	pingInterval time.Duration
	minBackoff   time.Duration
	maxBackoff   time.Duration

	mu   sync.Mutex
	refs map[string]model.ContainerRef
	conn *ws.Client
}

func NewRealtimeClient(url, accessToken string, handler EventHandler) *RealtimeClient {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)

	return &RealtimeClient{
		url:          url,
		header:       header,
		handler:      handler,
		pingInterval: 30 * time.Second,
		minBackoff:   defaultMinBackoff,
		maxBackoff:   defaultMaxBackoff,
		refs:         make(map[string]model.ContainerRef),
	}
}

// WithBackoff sets the reconnect delay bounds.
func (c *RealtimeClient) WithBackoff(min, max time.Duration) *RealtimeClient {
	c.minBackoff = min
	c.maxBackoff = max
	return c
}

// Subscribe records interest in ref. The directive is sent now if connected, and again after
// every reconnect.
func (c *RealtimeClient) Subscribe(ref model.ContainerRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refs[ref.ID] = ref
	if c.conn == nil {
		return nil
	}

	return sendDirective(c.conn, model.SubscribeOp, ref)
}

func (c *RealtimeClient) Unsubscribe(ref model.ContainerRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.refs, ref.ID)
	if c.conn == nil {
		return nil
	}

	return sendDirective(c.conn, model.UnsubscribeOp, ref)
}

// Run connects and dispatches events until ctx is done. The delay before redialing doubles up to
// the max backoff, and only goes back to the min once a connection delivered a frame.
func (c *RealtimeClient) Run(ctx context.Context) error {
	backoff := c.minBackoff
	for {
		conn, err := ws.Dial(ctx, c.url, c.header, c.pingInterval)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot connect to realtime server: %v", err)
		} else {
			if err := c.attach(conn); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot resubscribe: %v", err)
			}

			received, err := c.read(ctx, conn)
			c.detach(conn)
			if err != nil {
				return err
			}

			if received {
				backoff = c.minBackoff
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

func (c *RealtimeClient) attach(conn *ws.Client) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn = conn
	for _, ref := range c.refs {
		if err := sendDirective(conn, model.SubscribeOp, ref); err != nil {
			return err
		}
	}

	return nil
}

func (c *RealtimeClient) detach(conn *ws.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn.Close()
	if c.conn == conn {
		c.conn = nil
	}
}

// read returns a nil error when the connection is lost and ctx.Err() when ctx is done. received
// reports whether at least one frame arrived.
func (c *RealtimeClient) read(ctx context.Context, conn *ws.Client) (received bool, err error) {
	var expected uint64
	for {
		select {
		case <-ctx.Done():
			return received, ctx.Err()

		case msg, ok := <-conn.R:
			if !ok {
				return received, nil
			}
			received = true

			var frame model.ServerFrame
			if err := json.Unmarshal(msg, &frame); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot unmarshal frame: %v", err)
				continue
			}

			if frame.Seq != expected {
				xcontext.Logger(ctx).Warnf("Missed %d realtime frames", frame.Seq-expected)
			}
			expected = frame.Seq + 1

			c.handleFrame(ctx, frame)
		}
	}
}

func (c *RealtimeClient) handleFrame(ctx context.Context, frame model.ServerFrame) {
	switch frame.Op {
	case model.MessageCreatedOp, model.MessageUpdatedOp:
		var message model.Message
		if err := json.Unmarshal(frame.Data, &message); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot unmarshal message of %s: %v", frame.Topic, err)
			return
		}

		c.handler(ctx, model.MessageEvent{Op: frame.Op, Topic: frame.Topic, Message: message})

	case model.ErrorOp:
		var data model.ErrorFrameData
		if err := json.Unmarshal(frame.Data, &data); err == nil {
			xcontext.Logger(ctx).Warnf("Realtime directive on %s failed: %s", data.Ref.ID, data.Message)
		}
	}
}

func sendDirective(conn *ws.Client, op string, ref model.ContainerRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	b, err := json.Marshal(model.Directive{Op: op, Data: data})
	if err != nil {
		return err
	}

	return conn.Write(b)
}
