package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// decodeOpts holds the decoder settings fixed at Build time.
type decodeOpts struct {
	useJSONNum bool
	strict     bool
	envelope   string
	validate   bool
}

// decodeOne decodes body into a single T.
func decodeOne[T any](body []byte, opts decodeOpts) (*T, error) {
	payload, err := unwrap(body, opts)
	if err != nil {
		return nil, err
	}

	var v T
	if err := decodeJSON(payload, &v, opts); err != nil {
		return nil, newError(KindParsing, err)
	}

	if opts.validate {
		if err := validateValue(&v); err != nil {
			return nil, newError(KindParsing, err)
		}
	}

	return &v, nil
}

// decodeMany decodes body, which must be a JSON array, into a []T.
func decodeMany[T any](body []byte, opts decodeOpts) ([]T, error) {
	payload, err := unwrap(body, opts)
	if err != nil {
		return nil, err
	}

	var vs []T
	if err := decodeJSON(payload, &vs, opts); err != nil {
		return nil, newError(KindParsing, err)
	}

	if opts.validate {
		for i := range vs {
			if err := validateValue(&vs[i]); err != nil {
				return nil, newError(KindParsing, fmt.Errorf("element %d: %w", i, err))
			}
		}
	}

	return vs, nil
}

// unwrap extracts the configured envelope path from body, if any.
func unwrap(body []byte, opts decodeOpts) ([]byte, error) {
	if opts.envelope == "" {
		return body, nil
	}

	if !gjson.ValidBytes(body) {
		return nil, newError(KindParsing, errors.New("invalid json"))
	}

	res := gjson.GetBytes(body, opts.envelope)
	if !res.Exists() {
		return nil, &NetworkError{
			Kind:    KindParsingError,
			Message: fmt.Sprintf("envelope path[%s] not found", opts.envelope),
		}
	}

	return []byte(res.Raw), nil
}

func decodeJSON(payload []byte, dest any, opts decodeOpts) error {
	if bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return errors.New("decoding body: unexpected null")
	}

	d := json.NewDecoder(bytes.NewReader(payload))

	if opts.useJSONNum {
		d.UseNumber()
	}
	if opts.strict {
		d.DisallowUnknownFields()
	}

	if err := d.Decode(dest); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return errors.New("decoding body: unexpected data after top-level value")
	}

	return nil
}
