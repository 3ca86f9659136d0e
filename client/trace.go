package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const spanName = "typedhttp.request"

// startSpan opens the span covering one call, from build to decode.
func (c *Client[E]) startSpan(ctx context.Context, target Target) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", target.Method().String()),
		attribute.String("url.path", target.Path()),
	)

	return ctx, span
}

// endSpan records the outcome of the call and ends span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
	}
	span.End()
}

// stampRequest injects trace propagation headers and, if enabled, a fresh
// request id. It returns the id, or "" when request ids are disabled.
func (c *Client[E]) stampRequest(req *http.Request) string {
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))

	if c.requestIDHeader == "" {
		return ""
	}

	id := uuid.NewString()
	req.Header.Set(c.requestIDHeader, id)

	trace.SpanFromContext(req.Context()).SetAttributes(attribute.String("http.request.id", id))

	return id
}

func statusAttr(code int) attribute.KeyValue {
	return attribute.Int("http.response.status_code", code)
}
