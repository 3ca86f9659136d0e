package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/typedhttp/client/throttle"
)

// Client dispatches calls to endpoints of type E and decodes the
// responses. It carries override state (extra headers and query
// parameters) that applies to every call until replaced, and tracks
// the most recently dispatched call so it can be cancelled.
type Client[E Target] struct {
	doer            Doer
	logger          *slog.Logger
	tracer          trace.Tracer
	interceptor     Interceptor
	requestIDHeader string
	maxBodySize     int64
	decode          decodeOpts

	mu               sync.Mutex
	customHeaders    map[string]string
	additionalParams map[string]string
	seq              uint64
	inFlight         *call
}

// call is the handle of a dispatched request.
type call struct {
	id     uint64
	cancel context.CancelFunc
}

// Build instantiates a [Client] with the provided options.
// If not specified, a fresh [http.Client] over [http.DefaultTransport] is used.
func Build[E Target](optFns ...Option) (*Client[E], error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client[E]{
		logger:          slog.Default(),
		tracer:          noop.NewTracerProvider().Tracer("typedhttp"),
		interceptor:     opts.interceptor,
		requestIDHeader: opts.requestIDHeader,
		maxBodySize:     opts.maxBodySize,
		decode:          opts.decode,
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.doer != nil {
		if opts.usesHTTPClient() {
			return nil, ErrDoerConflict
		}
		client.doer = opts.doer

		return client, nil
	}

	hc, err := client.httpClient(opts)
	if err != nil {
		return nil, err
	}
	client.doer = hc

	return client, nil
}

// httpClient assembles the http.Client and its transport chain.
func (c *Client[E]) httpClient(opts options) (*http.Client, error) {
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case hc.Transport != nil:
		transport = hc.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return c.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	return hc, nil
}

// SetCustomHeaders replaces the headers added to every request after the
// endpoint's own headers. A nil map clears them.
func (c *Client[E]) SetCustomHeaders(headers map[string]string) *Client[E] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.customHeaders = maps.Clone(headers)

	return c
}

// SetAdditionalParameters replaces the query parameters appended to every
// request after the endpoint's own parameters. A nil map clears them.
func (c *Client[E]) SetAdditionalParameters(params map[string]string) *Client[E] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.additionalParams = maps.Clone(params)

	return c
}

// Cancel aborts the most recently dispatched call, if it is still running.
// Calls dispatched before it are not tracked and keep running. The
// cancelled call completes with a [KindRequestError] error.
func (c *Client[E]) Cancel() {
	c.mu.Lock()
	inFlight := c.inFlight
	c.mu.Unlock()

	if inFlight == nil {
		return
	}

	c.logger.Debug("cancelling request", "call", inFlight.id)
	inFlight.cancel()
}

// pending is a dispatched call. It is tracked for Cancel and its request
// is built, but nothing has been sent yet. err holds a build failure, in
// which case req is nil.
type pending struct {
	span   trace.Span
	handle *call
	req    *http.Request
	err    error
}

// Do sends the request described by endpoint and decodes the body into a T.
func Do[T any, E Target](ctx context.Context, c *Client[E], endpoint E) (*T, error) {
	return finish(c, c.dispatch(ctx, endpoint), decodeOne[T])
}

// DoList sends the request described by endpoint and decodes the body,
// which must be a JSON array, into a []T.
func DoList[T any, E Target](ctx context.Context, c *Client[E], endpoint E) ([]T, error) {
	return finish(c, c.dispatch(ctx, endpoint), decodeMany[T])
}

// Request is the asynchronous form of [Do]. The call is dispatched before
// Request returns, so a following [Client.Cancel] aborts it and later
// setter calls do not affect it. completion is called exactly once, from
// another goroutine, with either a value or an error.
func Request[T any, E Target](ctx context.Context, c *Client[E], endpoint E, completion func(*T, error)) {
	p := c.dispatch(ctx, endpoint)
	go func() {
		completion(finish(c, p, decodeOne[T]))
	}()
}

// RequestList is the asynchronous form of [DoList].
func RequestList[T any, E Target](ctx context.Context, c *Client[E], endpoint E, completion func([]T, error)) {
	p := c.dispatch(ctx, endpoint)
	go func() {
		completion(finish(c, p, decodeMany[T]))
	}()
}

// dispatch makes the call the one tracked for Cancel, snapshots the
// override state and builds the intercepted request.
func (c *Client[E]) dispatch(ctx context.Context, endpoint E) *pending {
	ctx, span := c.startSpan(ctx, endpoint)
	ctx, handle := c.track(ctx)

	c.mu.Lock()
	headers, params := c.customHeaders, c.additionalParams
	c.mu.Unlock()

	p := pending{span: span, handle: handle}

	req, err := buildRequest(ctx, endpoint, headers, params)
	if err != nil {
		p.err = err
		return &p
	}

	if c.interceptor != nil {
		c.interceptor.Intercept(req)
	}
	p.req = req

	return &p
}

// finish sends a dispatched call, decodes its body and releases it.
func finish[R any, E Target](c *Client[E], p *pending, decode func([]byte, decodeOpts) (R, error)) (R, error) {
	defer c.release(p.handle)

	v, err := func() (R, error) {
		var zero R
		if p.err != nil {
			return zero, p.err
		}

		body, err := c.fetch(p)
		if err != nil {
			return zero, err
		}

		return decode(body, c.decode)
	}()

	endSpan(p.span, err)

	return v, err
}

// fetch sends a dispatched call and reads its body. A nil error
// guarantees a non-empty body.
func (c *Client[E]) fetch(p *pending) ([]byte, error) {
	req := p.req

	requestID := c.stampRequest(req)
	log := c.logger.With("method", req.Method, "url", req.URL.String())
	if requestID != "" {
		log = log.With("request_id", requestID)
	}
	log.Debug("sending request", "call", p.handle.id)

	resp, err := c.doer.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err)
		return nil, newError(KindRequestError, fmt.Errorf("exec http do: %w", err))
	}
	if resp == nil {
		return nil, newError(KindRequestError, errors.New("exec http do: nil response"))
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			log.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			log.Error("failed to close response body", "error", err)
		}
	}()

	p.span.SetAttributes(statusAttr(resp.StatusCode))
	log.Debug("response received", "status", resp.StatusCode)

	if err := Classify(resp.StatusCode); err != nil {
		var ne *NetworkError
		if errors.As(err, &ne) {
			b, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
			if readErr != nil {
				b = []byte("unable to read body")
			}
			ne.Body = string(b)
		}

		return nil, err
	}

	body, err := c.readBody(resp.Body)
	if err != nil {
		return nil, err
	}

	if len(body) == 0 {
		return nil, newError(KindNoData, nil)
	}

	return body, nil
}

// readBody reads the full success body, honoring WithMaxBodySize.
func (c *Client[E]) readBody(r io.Reader) ([]byte, error) {
	if c.maxBodySize <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, newError(KindRequestError, fmt.Errorf("reading body: %w", err))
		}

		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, c.maxBodySize+1))
	if err != nil {
		return nil, newError(KindRequestError, fmt.Errorf("reading body: %w", err))
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, NewCustomError(fmt.Sprintf("response body exceeds %d bytes", c.maxBodySize))
	}

	return body, nil
}

// track derives a cancellable context for a new call and makes it the
// call tracked for Cancel, replacing any previous one.
func (c *Client[E]) track(ctx context.Context) (context.Context, *call) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	handle := &call{id: c.seq, cancel: cancel}
	c.inFlight = handle

	return ctx, handle
}

// release frees the call's context and stops tracking it unless a newer
// call has replaced it.
func (c *Client[E]) release(handle *call) {
	handle.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight == handle {
		c.inFlight = nil
	}
}
