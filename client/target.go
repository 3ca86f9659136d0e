package client

import (
	"net/http"
	"net/url"
)

// Method is the closed set of HTTP methods a [Target] may declare.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodDelete
)

// String returns the uppercase wire form of the method.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	default:
		return ""
	}
}

// Valid reports whether m is one of the declared methods.
func (m Method) Valid() bool {
	return m.String() != ""
}

// Target describes a single API endpoint. Any type with this method set
// can be dispatched by a [Client]; a common pattern is a small enum type
// whose methods switch over its values.
//
// Nil maps and a nil Data slice mean the endpoint has none.
type Target interface {
	BaseURL() *url.URL
	Path() string
	Method() Method
	Headers() map[string]string
	Parameters() map[string]string
	Data() []byte
}

// Interceptor may rewrite an outbound request in place before it is sent,
// e.g. to add an Authorization header. It is called exactly once per call.
type Interceptor interface {
	Intercept(r *http.Request)
}

// InterceptorFunc adapts a plain func to an [Interceptor].
type InterceptorFunc func(r *http.Request)

// Intercept calls f(r).
func (f InterceptorFunc) Intercept(r *http.Request) { f(r) }

// Doer executes a fully built request. [*http.Client] satisfies it.
// A Doer must honor the request's context so that [Client.Cancel] can
// abort an in-flight send.
type Doer interface {
	Do(r *http.Request) (*http.Response, error)
}
