package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/stretchr/testify/require"
)

type receivedDirective struct {
	conn      int
	directive model.Directive
}

// flakyServer is a websocket server whose connection handler is chosen by connection index.
type flakyServer struct {
	*httptest.Server

	mu       sync.Mutex
	accepted []time.Time
	closedAt []time.Time
	handle   func(index int, conn *websocket.Conn)
	upgrader websocket.Upgrader
}

func newFlakyServer(t *testing.T, handle func(index int, conn *websocket.Conn)) *flakyServer {
	s := &flakyServer{handle: handle}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		s.mu.Lock()
		index := len(s.accepted)
		s.accepted = append(s.accepted, time.Now())
		s.mu.Unlock()

		s.handle(index, conn)

		s.mu.Lock()
		s.closedAt = append(s.closedAt, time.Now())
		s.mu.Unlock()
	}))
	t.Cleanup(s.Close)

	return s
}

func (s *flakyServer) url() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *flakyServer) connections() (accepted, closed []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]time.Time(nil), s.accepted...), append([]time.Time(nil), s.closedAt...)
}

func runClient(ctx context.Context, c *RealtimeClient) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	return done
}

func Test_RealtimeClient_ResubscribesAfterReconnect(t *testing.T) {
	directives := make(chan receivedDirective, 16)
	srv := newFlakyServer(t, func(index int, conn *websocket.Conn) {
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var d model.Directive
			if err := json.Unmarshal(b, &d); err == nil {
				directives <- receivedDirective{conn: index, directive: d}
			}

			// The first connection is lost right after its first directive.
			if index == 0 {
				return
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref := model.ContainerRef{Kind: "channel", ID: "c1"}
	client := NewRealtimeClient(srv.url(), "token", func(context.Context, model.MessageEvent) {}).
		WithBackoff(50*time.Millisecond, time.Second)
	require.NoError(t, client.Subscribe(ref))
	done := runClient(ctx, client)

	for want := 0; want < 2; want++ {
		select {
		case got := <-directives:
			require.Equal(t, want, got.conn)
			require.Equal(t, model.SubscribeOp, got.directive.Op)

			var gotRef model.ContainerRef
			require.NoError(t, json.Unmarshal(got.directive.Data, &gotRef))
			require.Equal(t, ref, gotRef)

		case <-time.After(5 * time.Second):
			t.Fatalf("no subscribe directive on connection %d", want)
		}
	}

	// The client waited before redialing.
	accepted, closed := srv.connections()
	require.Len(t, accepted, 2)
	require.NotEmpty(t, closed)
	require.GreaterOrEqual(t, accepted[1].Sub(closed[0]), 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop")
	}
}

func Test_RealtimeClient_BacksOffOnSilentDrops(t *testing.T) {
	// Every connection is accepted then closed before any frame is sent.
	srv := newFlakyServer(t, func(int, *websocket.Conn) {})

	ctx, cancel := context.WithCancel(context.Background())
	client := NewRealtimeClient(srv.url(), "token", func(context.Context, model.MessageEvent) {}).
		WithBackoff(20*time.Millisecond, time.Second)
	done := runClient(ctx, client)

	time.Sleep(300 * time.Millisecond)
	cancel()
	<-done

	// Delays of 20, 40, 80 and 160ms fit at most five dials in the window.
	accepted, _ := srv.connections()
	require.GreaterOrEqual(t, len(accepted), 2)
	require.LessOrEqual(t, len(accepted), 6)
}
