package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrClosed = errors.New("connection is closed")

const writeWait = 10 * time.Second

// Client owns a websocket connection. Incoming text frames are delivered on R, which is closed
// when the connection is gone. Outgoing frames are queued with Write.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte

	w            chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	pingInterval time.Duration
}

// NewClient starts the reader and writer of conn. A non-zero pingInterval enables keepalive
// pings; the connection is dropped if no pong arrives within two intervals.
func NewClient(conn *websocket.Conn, pingInterval time.Duration) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn:         conn,
		R:            make(chan []byte, 128),
		w:            make(chan []byte, 128),
		done:         make(chan struct{}),
		pingInterval: pingInterval,
	}

	go c.runReader()
	go c.runWriter()
	return c
}

// Dial connects to a websocket server and returns the started Client.
func Dial(ctx context.Context, url string, header http.Header, pingInterval time.Duration) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	return NewClient(conn, pingInterval), nil
}

func (c *Client) runReader() {
	defer close(c.R)
	defer c.Close()

	if c.pingInterval > 0 {
		c.Conn.SetReadDeadline(time.Now().Add(2 * c.pingInterval))
		c.Conn.SetPongHandler(func(string) error {
			return c.Conn.SetReadDeadline(time.Now().Add(2 * c.pingInterval))
		})
	}

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		if t != websocket.TextMessage {
			continue
		}

		select {
		case c.R <- msg:
		case <-c.done:
			return
		}
	}
}

func (c *Client) runWriter() {
	var tick <-chan time.Time
	if c.pingInterval > 0 {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case msg := <-c.w:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}

		case <-tick:
			err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				c.Close()
				return
			}

		case <-c.done:
			return
		}
	}
}

// Write queues msg for sending. It blocks while the write queue is full.
func (c *Client) Write(msg []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.w <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and releases the connection. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.Conn.Close()
	})
}
