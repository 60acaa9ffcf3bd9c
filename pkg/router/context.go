package router

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/harmony/pkg/xcontext"
)

// requestContext is cancelled with the request and carries the values of both the request and
// the router base context.
type requestContext struct {
	context.Context
	base context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.base.Value(key)
}

func newRequestContext(base context.Context, w http.ResponseWriter, req *http.Request) context.Context {
	var ctx context.Context = requestContext{Context: req.Context(), base: base}
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	ctx = xcontext.WithStartTime(ctx, time.Now())
	return ctx
}

func withResponse(ctx context.Context, resp any) context.Context {
	return xcontext.WithResponse(ctx, resp)
}

func withError(ctx context.Context, err error) context.Context {
	return xcontext.WithError(ctx, err)
}
