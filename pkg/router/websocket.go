package router

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/questx-lab/harmony/pkg/ws"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// Websocket upgrades GET requests of pattern once every Before middleware passed, then hands the
// connection to handler through xcontext.WSClient. The handler owns the connection until it
// returns.
func Websocket(r *Router, pattern string, handler WebsocketHandlerFunc) {
	befores := append([]MiddlewareFunc(nil), r.befores...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := newRequestContext(r.ctx, w, req)
		cfg := xcontext.Configs(ctx)

		var err error
		for _, before := range befores {
			if ctx, err = before(ctx); err != nil {
				WriteResponse(ctx, w, nil, err)
				return
			}
		}

		upgrader := websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.ApiServer.AllowedOrigins),
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot upgrade websocket: %v", err)
			return
		}

		client := ws.NewClient(conn, cfg.Realtime.PingInterval.Duration)
		defer client.Close()

		ctx = xcontext.WithWSClient(ctx, client)
		if err := handler(ctx); err != nil {
			xcontext.Logger(ctx).Warnf("Websocket session of %s ended: %v", xcontext.RequestUserID(ctx), err)
		}
	}).Methods(http.MethodGet)
}

// checkOrigin accepts requests without Origin header (non browser clients), and browser requests
// from an allowed origin. "*" allows everything.
func checkOrigin(allowed []string) func(*http.Request) bool {
	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}

		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}
