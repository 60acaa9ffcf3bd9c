package api

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/valyala/fasthttp"
)

type Client interface {
	Header(name, value string) Client
	Query(query Parameter) Client
	Body(body Body) Client
	GET(ctx context.Context, opts ...Opt) (*Response, error)
	POST(ctx context.Context, opts ...Opt) (*Response, error)
	PATCH(ctx context.Context, opts ...Opt) (*Response, error)
	DELETE(ctx context.Context, opts ...Opt) (*Response, error)
}

type Generator interface {
	New(path string, args ...any) Client
}

type defaultGenerator struct {
	client  *fasthttp.Client
	domains []string
}

// NewGenerator returns a Generator calling the given domains. A request tries the domains in a
// random order until one of them answers.
func NewGenerator(client *fasthttp.Client, domains ...string) *defaultGenerator {
	if client == nil {
		client = &fasthttp.Client{}
	}

	return &defaultGenerator{client: client, domains: domains}
}

func (g *defaultGenerator) New(path string, args ...any) Client {
	return &defaultClient{
		client:  g.client,
		domains: g.domains,
		path:    fmt.Sprintf(path, args...),
		headers: make(map[string]string),
	}
}

// Body is a request payload. ToBytes returns the payload and its content type.
type Body interface {
	ToBytes() ([]byte, string, error)
}

type Opt interface {
	Do(req *fasthttp.Request)
}

type defaultClient struct {
	client  *fasthttp.Client
	domains []string
	method  string
	path    string
	headers map[string]string
	query   Parameter
	body    Body
}

func (c *defaultClient) Header(name, value string) Client {
	c.headers[name] = value
	return c
}

func (c *defaultClient) Query(query Parameter) Client {
	c.query = query
	return c
}

func (c *defaultClient) Body(body Body) Client {
	c.body = body
	return c
}

func (c *defaultClient) GET(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodGet
	return c.call(ctx, opts...)
}

func (c *defaultClient) POST(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodPost
	return c.call(ctx, opts...)
}

func (c *defaultClient) PATCH(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodPatch
	return c.call(ctx, opts...)
}

func (c *defaultClient) DELETE(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodDelete
	return c.call(ctx, opts...)
}

func (c *defaultClient) call(ctx context.Context, opts ...Opt) (*Response, error) {
	var body []byte
	var contentType string
	if c.body != nil {
		var err error
		body, contentType, err = c.body.ToBytes()
		if err != nil {
			return nil, err
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	for _, index := range rand.Perm(len(c.domains)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url := c.domains[index] + c.path
		if len(c.query) > 0 {
			url = url + "?" + c.query.Encode()
		}

		req.Reset()
		resp.Reset()

		req.SetRequestURI(url)
		req.Header.SetMethod(c.method)
		if body != nil {
			req.Header.SetContentType(contentType)
			req.SetBody(body)
		}

		for name, value := range c.headers {
			req.Header.Set(name, value)
		}

		for _, opt := range opts {
			opt.Do(req)
		}

		var err error
		if deadline, ok := ctx.Deadline(); ok {
			err = c.client.DoDeadline(req, resp, deadline)
		} else {
			err = c.client.Do(req, resp)
		}

		if err != nil {
			xcontext.Logger(ctx).Warnf("An error occured when calling to %s: %v", url, err)
			continue
		}

		return &Response{
			Code:    resp.StatusCode(),
			RawBody: append([]byte(nil), resp.Body()...),
		}, nil
	}

	return nil, errors.New("all endpoints got errors")
}
