package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// buildRequest merges the target with the client's override state.
// Every failure is reported as KindBadURL.
func buildRequest(ctx context.Context, target Target, customHeaders, additionalParams map[string]string) (*http.Request, error) {
	reqURL, err := resolveURL(target, additionalParams)
	if err != nil {
		return nil, newError(KindBadURL, err)
	}

	method := target.Method()
	if !method.Valid() {
		return nil, newError(KindBadURL, fmt.Errorf("unsupported method %d", int(method)))
	}

	var body io.Reader = http.NoBody
	if data := target.Data(); data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method.String(), reqURL, body)
	if err != nil {
		return nil, newError(KindBadURL, fmt.Errorf("instantiating request: %w", err))
	}

	addHeaders(req.Header, target.Headers())
	addHeaders(req.Header, customHeaders)

	return req, nil
}

// resolveURL resolves the target path against its base URL and replaces
// any existing query with the target parameters followed by additionalParams.
func resolveURL(target Target, additionalParams map[string]string) (string, error) {
	base := target.BaseURL()
	if base == nil {
		return "", errors.New("base url is nil")
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base url[%s] must be absolute", base)
	}

	ref, err := url.Parse(target.Path())
	if err != nil {
		return "", fmt.Errorf("parsing path: %w", err)
	}

	endpoint := base.ResolveReference(ref)
	endpoint.RawQuery = encodeQuery(target.Parameters(), additionalParams)
	endpoint.ForceQuery = false
	endpoint.Fragment = ""
	endpoint.RawFragment = ""

	return endpoint.String(), nil
}

// encodeQuery appends each mapping in turn. Unlike url.Values.Encode, keys
// are not merged or reordered across mappings, so a repeated key shows up
// once per mapping. Keys within a mapping are sorted.
// Spaces are sent as %20.
func encodeQuery(params ...map[string]string) string {
	var pairs []string
	for _, p := range params {
		for _, k := range slices.Sorted(maps.Keys(p)) {
			pairs = append(pairs, queryEscape(k)+"="+queryEscape(p[k]))
		}
	}

	return strings.Join(pairs, "&")
}

// queryEscape is url.QueryEscape with spaces as %20. QueryEscape encodes a
// literal '+' as %2B, so every '+' left in its output is a space.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func addHeaders(dst http.Header, src map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(src)) {
		dst.Add(k, src[k])
	}
}
