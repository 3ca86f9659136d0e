package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/typedhttp/client/throttle"
)

// ErrDoerConflict is returned by [Build] when [WithDoer] is combined with
// an option that configures the default [http.Client].
var ErrDoerConflict = errors.New("doer cannot be combined with http client options")

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	doer              Doer
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	interceptor       Interceptor
	tracer            trace.Tracer
	requestIDHeader   string
	maxBodySize       int64
	decode            decodeOpts
}

// usesHTTPClient reports whether any option targets the default http.Client.
func (o *options) usesHTTPClient() bool {
	return o.client != nil || o.rt != nil || o.timeout != nil ||
		o.userAgent != "" || o.throttle != nil || o.noFollowRedirects
}

// WithClient replaces the [http.Client] used to send requests.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithDoer replaces the HTTP executor entirely. It cannot be combined
// with the options that configure an [http.Client].
func WithDoer(d Doer) Option {
	return func(c *options) error {
		if d == nil {
			return errors.New("doer must not be nil")
		}
		c.doer = d
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
// The 3xx response is then classified like any other status.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithInterceptor sets the [Interceptor] run on every outbound request.
func WithInterceptor(i Interceptor) Option {
	return func(c *options) error {
		if i == nil {
			return errors.New("interceptor must not be nil")
		}
		c.interceptor = i
		return nil
	}
}

// WithTracer injects the tracer used to open one span per call.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithRequestID sets a fresh UUID on the named header for every call.
func WithRequestID(header string) Option {
	return func(c *options) error {
		if header == "" {
			return errors.New("request id header must not be empty")
		}
		c.requestIDHeader = header
		return nil
	}
}

// WithMaxBodySize rejects successful responses whose body exceeds n bytes.
func WithMaxBodySize(n int64) Option {
	return func(c *options) error {
		if n <= 0 {
			return fmt.Errorf("max body size[%d] must be greater than zero", n)
		}
		c.maxBodySize = n
		return nil
	}
}

// WithJSONNumber tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumber() Option {
	return func(c *options) error {
		c.decode.useJSONNum = true
		return nil
	}
}

// WithStrictDecoding rejects response objects with fields unknown to T.
func WithStrictDecoding() Option {
	return func(c *options) error {
		c.decode.strict = true
		return nil
	}
}

// WithEnvelope decodes only the sub-document at path, in gjson syntax,
// e.g. "data.items". A missing path fails with [ErrParsingError].
func WithEnvelope(path string) Option {
	return func(c *options) error {
		if path == "" {
			return errors.New("envelope path must not be empty")
		}
		c.decode.envelope = path
		return nil
	}
}

// WithValidation validates every decoded struct against its validate tags.
func WithValidation() Option {
	return func(c *options) error {
		c.decode.validate = true
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
