// Package typedhttp exposes the client builder.
package typedhttp

import (
	"github.com/adamwoolhether/typedhttp/client"
)

// NewClient instantiates a new *client.Client for endpoints of type E
// with the provided options.
func NewClient[E client.Target](opts ...client.Option) (*client.Client[E], error) {
	return client.Build[E](opts...)
}
