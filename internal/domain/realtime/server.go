package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/harmony/internal/common"
	"github.com/questx-lab/harmony/internal/model"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/pubsub"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

// Server pushes message events of the bus to websocket sessions.
type Server struct {
	bus      *pubsub.Bus
	resolver *common.ContainerResolver
	sessions *xsync.MapOf[string, *Session]
}

func NewServer(bus *pubsub.Bus, resolver *common.ContainerResolver) *Server {
	return &Server{
		bus:      bus,
		resolver: resolver,
		sessions: xsync.NewMapOf[*Session](),
	}
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	n := 0
	s.sessions.Range(func(string, *Session) bool {
		n++
		return true
	})

	return n
}

func (s *Server) ServeRealtime(ctx context.Context) error {
	wsClient := xcontext.WSClient(ctx)
	if wsClient == nil {
		return errorx.Unknown
	}

	return s.serve(ctx, wsClient.R, wsClient.Write)
}

// serve runs a session until in is closed or a frame cannot be written.
func (s *Server) serve(ctx context.Context, in <-chan []byte, write func([]byte) error) error {
	cfg := xcontext.Configs(ctx)
	session := NewSession(xcontext.RequestUserID(ctx), cfg.Realtime.SessionBuffer)

	s.sessions.Store(session.id, session)
	common.PromGauges[common.RealtimeActiveSessions].WithLabelValues().Inc()
	defer func() {
		session.Leave()
		s.sessions.Delete(session.id)
		common.PromGauges[common.RealtimeActiveSessions].WithLabelValues().Dec()
	}()

	var seq uint64
	send := func(op, topic string, data []byte) error {
		b, err := json.Marshal(model.ServerFrame{Op: op, Topic: topic, Seq: seq, Data: data})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal frame %s: %v", op, err)
			return nil
		}

		seq++
		return write(b)
	}

	for {
		select {
		case ev := <-session.C:
			if err := send(ev.op, ev.topic, ev.data); err != nil {
				return err
			}

		case req, ok := <-in:
			if !ok {
				return nil
			}

			op, data := s.handleDirective(ctx, session, req)
			if err := send(op, "", data); err != nil {
				return err
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handleDirective applies a client directive and returns the reply frame.
func (s *Server) handleDirective(ctx context.Context, session *Session, req []byte) (string, []byte) {
	var directive model.Directive
	if err := json.Unmarshal(req, &directive); err != nil {
		return errorFrame(errorx.New(errorx.InvalidDirective, "Invalid directive"), model.ContainerRef{})
	}

	switch directive.Op {
	case model.PingOp:
		return model.PongOp, nil

	case model.SubscribeOp, model.UnsubscribeOp:
		var ref model.ContainerRef
		if err := json.Unmarshal(directive.Data, &ref); err != nil || ref.ID == "" {
			return errorFrame(errorx.New(errorx.InvalidDirective, "Invalid container"), ref)
		}

		if directive.Op == model.UnsubscribeOp {
			session.unsubscribe(ref.ID)
			return replyFrame(model.UnsubscribedOp, ref)
		}

		kind, err := common.ParseContainerKind(ref.Kind)
		if err != nil {
			return errorFrame(err, ref)
		}

		container, err := s.resolver.Resolve(ctx, kind, ref.ID)
		if err != nil {
			return errorFrame(err, ref)
		}

		session.subscribe(s.bus, container.ID)
		return replyFrame(model.SubscribedOp, ref)

	default:
		return errorFrame(errorx.New(errorx.InvalidDirective, "Unknown directive %q", directive.Op), model.ContainerRef{})
	}
}

func replyFrame(op string, ref model.ContainerRef) (string, []byte) {
	b, _ := json.Marshal(ref)
	return op, b
}

func errorFrame(err error, ref model.ContainerRef) (string, []byte) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	b, _ := json.Marshal(model.ErrorFrameData{Code: int(errx.Code), Message: errx.Message, Ref: ref})
	return model.ErrorOp, b
}
