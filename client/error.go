package client

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps the amount of response body kept on a
// [NetworkError] for a failed status code.
const maxErrBodySize = 4 << 10 // 4KB

// Kind identifies which layer of a call failed.
type Kind int

const (
	KindNoData Kind = iota + 1
	KindBadURL
	KindBadRequest
	KindParsingError
	KindParsing
	KindRequestError
	KindServerError
	KindCustom
)

var (
	// ErrNoData is reported when a successful response carries no body.
	ErrNoData = errors.New("no data")
	// ErrBadURL is reported when the outbound request cannot be built.
	ErrBadURL = errors.New("bad url")
	// ErrBadRequest is reported for status codes 401 through 500.
	ErrBadRequest = errors.New("bad request")
	// ErrParsingError is reported when the body has no decodable payload.
	ErrParsingError = errors.New("parsing error")
	// ErrParsing is reported when the body fails to decode; the decode
	// error is kept on the [NetworkError].
	ErrParsing = errors.New("parsing")
	// ErrRequestError is reported for transport failures and for status
	// codes outside every other band.
	ErrRequestError = errors.New("request error")
	// ErrServerError is reported for status codes 501 through 599.
	ErrServerError = errors.New("server error")
	// ErrCustom marks errors built with [NewCustomError].
	ErrCustom = errors.New("custom")
)

var sentinels = map[Kind]error{
	KindNoData:       ErrNoData,
	KindBadURL:       ErrBadURL,
	KindBadRequest:   ErrBadRequest,
	KindParsingError: ErrParsingError,
	KindParsing:      ErrParsing,
	KindRequestError: ErrRequestError,
	KindServerError:  ErrServerError,
	KindCustom:       ErrCustom,
}

// String returns the sentinel text for k.
func (k Kind) String() string {
	if err, ok := sentinels[k]; ok {
		return err.Error()
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// NetworkError is the single error type delivered by a failed call.
// StatusCode and Body are set only when a response was received.
type NetworkError struct {
	Kind       Kind
	StatusCode int
	Body       string
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s, body: %s", msg, e.Body)
	}

	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause, so
// errors.Is(err, ErrParsing) and errors.As(err, &syntaxErr) both work.
func (e *NetworkError) Unwrap() []error {
	var errs []error
	if sentinel, ok := sentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// NewCustomError returns a [KindCustom] error carrying msg.
func NewCustomError(msg string) *NetworkError {
	return &NetworkError{Kind: KindCustom, Message: msg}
}

// KindOf returns the [Kind] of err, or 0 if err is not a [NetworkError].
func KindOf(err error) Kind {
	var ne *NetworkError
	if !errors.As(err, &ne) {
		return 0
	}

	return ne.Kind
}

func newError(kind Kind, err error) *NetworkError {
	return &NetworkError{Kind: kind, Err: err}
}
