package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/pubsub"
	"github.com/questx-lab/harmony/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newServer(bus *pubsub.Bus) *Server {
	return NewServer(bus, common.NewContainerResolver(
		repository.NewProfileRepository(nil),
		repository.NewChannelRepository(),
		repository.NewConversationRepository(),
		repository.NewMemberRepository(),
	))
}

type fakeConn struct {
	in     chan []byte
	frames chan model.ServerFrame
	done   chan error
}

func connect(ctx context.Context, srv *Server) *fakeConn {
	c := &fakeConn{
		in:     make(chan []byte),
		frames: make(chan model.ServerFrame, 64),
		done:   make(chan error, 1),
	}

	go func() {
		c.done <- srv.serve(ctx, c.in, func(b []byte) error {
			var frame model.ServerFrame
			if err := json.Unmarshal(b, &frame); err != nil {
				return err
			}
			c.frames <- frame
			return nil
		})
	}()

	return c
}

func (c *fakeConn) send(t *testing.T, op string, data any) {
	d := model.Directive{Op: op}
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		d.Data = b
	}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	c.in <- b
}

func (c *fakeConn) next(t *testing.T) model.ServerFrame {
	select {
	case frame := <-c.frames:
		return frame
	case <-time.After(time.Second):
		require.FailNow(t, "no frame received")
		return model.ServerFrame{}
	}
}

func (c *fakeConn) requireSilent(t *testing.T) {
	select {
	case frame := <-c.frames:
		require.FailNow(t, "unexpected frame", "%+v", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

func (c *fakeConn) close(t *testing.T) {
	close(c.in)
	select {
	case err := <-c.done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "session did not stop")
	}
}

func Test_Server_SubscribeAndReceive(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.WithProfile(ctx, testutil.Profile3)

	bus := pubsub.NewBus()
	srv := newServer(bus)
	conn := connect(ctx, srv)

	ref := model.ContainerRef{Kind: "channel", ID: testutil.GeneralChannel.ID}
	conn.send(t, model.SubscribeOp, ref)

	frame := conn.next(t)
	require.Equal(t, model.SubscribedOp, frame.Op)
	require.Equal(t, uint64(0), frame.Seq)
	require.JSONEq(t, `{"kind":"channel","container_id":"channel1"}`, string(frame.Data))

	created := common.TopicMessageCreated(testutil.GeneralChannel.ID)
	updated := common.TopicMessageUpdated(testutil.GeneralChannel.ID)
	require.Equal(t, 1, bus.SubscriberCount(created))
	require.Equal(t, 1, bus.SubscriberCount(updated))

	require.NoError(t, bus.Publish(ctx, created, &pubsub.Pack{Msg: []byte(`{"id":"1"}`)}))
	frame = conn.next(t)
	require.Equal(t, model.MessageCreatedOp, frame.Op)
	require.Equal(t, created, frame.Topic)
	require.Equal(t, uint64(1), frame.Seq)
	require.JSONEq(t, `{"id":"1"}`, string(frame.Data))

	require.NoError(t, bus.Publish(ctx, updated, &pubsub.Pack{Msg: []byte(`{"id":"1","deleted":true}`)}))
	frame = conn.next(t)
	require.Equal(t, model.MessageUpdatedOp, frame.Op)
	require.Equal(t, updated, frame.Topic)
	require.Equal(t, uint64(2), frame.Seq)

	// Other containers are not delivered.
	require.NoError(t, bus.Publish(ctx, common.TopicMessageCreated(testutil.Channel2.ID), &pubsub.Pack{Msg: []byte(`{}`)}))
	conn.requireSilent(t)

	conn.send(t, model.PingOp, nil)
	frame = conn.next(t)
	require.Equal(t, model.PongOp, frame.Op)
	require.Equal(t, uint64(3), frame.Seq)

	conn.send(t, model.UnsubscribeOp, ref)
	frame = conn.next(t)
	require.Equal(t, model.UnsubscribedOp, frame.Op)
	require.Equal(t, 0, bus.SubscriberCount(created))
	require.Equal(t, 0, bus.SubscriberCount(updated))

	require.NoError(t, bus.Publish(ctx, created, &pubsub.Pack{Msg: []byte(`{"id":"2"}`)}))
	conn.requireSilent(t)

	conn.close(t)
	require.Equal(t, 0, srv.SessionCount())
}

func Test_Server_SubscribeErrors(t *testing.T) {
	tests := []struct {
		name     string
		profile  string
		op       string
		data     any
		raw      []byte
		wantCode errorx.Code
	}{
		{
			name:     "not a member",
			profile:  testutil.Profile4.UserID,
			op:       model.SubscribeOp,
			data:     model.ContainerRef{Kind: "channel", ID: testutil.GeneralChannel.ID},
			wantCode: errorx.PermissionDenied,
		},
		{
			name:     "not a participant",
			profile:  testutil.Profile2.UserID,
			op:       model.SubscribeOp,
			data:     model.ContainerRef{Kind: "conversation", ID: testutil.Conversation1.ID},
			wantCode: errorx.PermissionDenied,
		},
		{
			name:     "unknown channel",
			profile:  testutil.Profile1.UserID,
			op:       model.SubscribeOp,
			data:     model.ContainerRef{Kind: "channel", ID: "unknown"},
			wantCode: errorx.NotFound,
		},
		{
			name:     "invalid kind",
			profile:  testutil.Profile1.UserID,
			op:       model.SubscribeOp,
			data:     model.ContainerRef{Kind: "server", ID: testutil.Server1.ID},
			wantCode: errorx.BadRequest,
		},
		{
			name:     "missing container",
			profile:  testutil.Profile1.UserID,
			op:       model.SubscribeOp,
			data:     model.ContainerRef{Kind: "channel"},
			wantCode: errorx.InvalidDirective,
		},
		{
			name:     "unknown directive",
			profile:  testutil.Profile1.UserID,
			op:       "shout",
			wantCode: errorx.InvalidDirective,
		},
		{
			name:     "no profile",
			profile:  "unknown-user",
			op:       model.SubscribeOp,
			data:     model.ContainerRef{Kind: "channel", ID: testutil.GeneralChannel.ID},
			wantCode: errorx.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(tt.profile)
			testutil.CreateFixtureDb(ctx)

			bus := pubsub.NewBus()
			conn := connect(ctx, newServer(bus))
			conn.send(t, tt.op, tt.data)

			frame := conn.next(t)
			require.Equal(t, model.ErrorOp, frame.Op)

			var data model.ErrorFrameData
			require.NoError(t, json.Unmarshal(frame.Data, &data))
			require.Equal(t, int(tt.wantCode), data.Code)
			if ref, ok := tt.data.(model.ContainerRef); ok {
				require.Equal(t, ref, data.Ref)
			}

			require.Equal(t, 0, bus.SubscriberCount(common.TopicMessageCreated(testutil.GeneralChannel.ID)))
			conn.close(t)
		})
	}
}

func Test_Server_InvalidJSON(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Profile1.UserID)
	testutil.CreateFixtureDb(ctx)

	conn := connect(ctx, newServer(pubsub.NewBus()))
	conn.in <- []byte("{not json")

	frame := conn.next(t)
	require.Equal(t, model.ErrorOp, frame.Op)

	// The session survives a bad directive.
	conn.send(t, model.PingOp, nil)
	require.Equal(t, model.PongOp, conn.next(t).Op)
	conn.close(t)
}

func Test_Server_DisconnectReleasesSubscriptions(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	ctx = testutil.WithProfile(ctx, testutil.Profile1)

	bus := pubsub.NewBus()
	srv := newServer(bus)
	conn := connect(ctx, srv)

	refs := []model.ContainerRef{
		{Kind: "channel", ID: testutil.GeneralChannel.ID},
		{Kind: "channel", ID: testutil.Channel2.ID},
		{Kind: "conversation", ID: testutil.Conversation1.ID},
	}
	for _, ref := range refs {
		conn.send(t, model.SubscribeOp, ref)
		require.Equal(t, model.SubscribedOp, conn.next(t).Op)
	}

	// Subscribing twice does not attach twice.
	conn.send(t, model.SubscribeOp, refs[0])
	require.Equal(t, model.SubscribedOp, conn.next(t).Op)
	require.Equal(t, 1, bus.SubscriberCount(common.TopicMessageCreated(refs[0].ID)))
	require.Equal(t, 1, srv.SessionCount())

	conn.close(t)

	for _, ref := range refs {
		require.Equal(t, 0, bus.SubscriberCount(common.TopicMessageCreated(ref.ID)))
		require.Equal(t, 0, bus.SubscriberCount(common.TopicMessageUpdated(ref.ID)))
	}
	require.Equal(t, 0, srv.SessionCount())
}

func Test_Session_FullBufferDrops(t *testing.T) {
	bus := pubsub.NewBus()
	session := NewSession("user1", 2)
	require.True(t, session.subscribe(bus, "c1"))
	require.False(t, session.subscribe(bus, "c1"))

	ctx := context.Background()
	for _, msg := range []string{"m1", "m2", "m3", "m4"} {
		require.NoError(t, bus.Publish(ctx, common.TopicMessageCreated("c1"), &pubsub.Pack{Msg: []byte(msg)}))
	}

	require.Len(t, session.C, 2)
	require.Equal(t, "m1", string((<-session.C).data))
	require.Equal(t, "m2", string((<-session.C).data))

	session.Leave()
	_, ok := <-session.C
	require.False(t, ok)
	require.Equal(t, 0, bus.SubscriberCount(common.TopicMessageCreated("c1")))
}
