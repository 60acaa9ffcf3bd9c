package router

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/questx-lab/harmony/config"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)
type WebsocketHandlerFunc func(ctx context.Context) error

// MiddlewareFunc may enrich the context. Returning an error stops the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs once the request finished, whether it failed or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	ctx     context.Context
	mux     *mux.Router
	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router whose handlers see every value stored in ctx (configs, logger, database)
// plus the request scoped values.
func New(ctx context.Context) *Router {
	return &Router{
		ctx:     ctx,
		mux:     mux.NewRouter(),
		closers: []CloserFunc{handleResponse()},
	}
}

// Branch returns a router sharing the same routes. Middlewares added to the branch do not
// affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		ctx:     r.ctx,
		mux:     r.mux,
		befores: append([]MiddlewareFunc(nil), r.befores...),
		afters:  append([]MiddlewareFunc(nil), r.afters...),
		closers: append([]CloserFunc(nil), r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(prefix, root string) {
	r.mux.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(root))))
}

// Handler wraps the routes with the CORS policy of the server.
func (r *Router) Handler(cfg config.ServerConfigs) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func PATCH[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPatch, pattern, handler)
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodDelete, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc(nil), r.befores...)
	afters := append([]MiddlewareFunc(nil), r.afters...)
	closers := append([]CloserFunc(nil), r.closers...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := newRequestContext(r.ctx, w, req)
		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		var err error
		ctx, err = serve(ctx, req, befores, afters, handler)
		if err != nil {
			ctx = withError(ctx, err)
		}
	}).Methods(method)
}

func serve[Request, Response any](
	ctx context.Context,
	req *http.Request,
	befores, afters []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) (context.Context, error) {
	var err error
	for _, before := range befores {
		if ctx, err = before(ctx); err != nil {
			return ctx, err
		}
	}

	var request Request
	if err := parseRequest(req, &request); err != nil {
		return ctx, err
	}

	resp, err := handler(ctx, &request)
	if err != nil {
		return ctx, err
	}

	ctx = withResponse(ctx, resp)
	for _, after := range afters {
		if ctx, err = after(ctx); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}
