package client

import (
	"errors"
	"io"
	"testing"
)

func TestNetworkError_Error(t *testing.T) {
	testCases := []struct {
		name     string
		err      *NetworkError
		expected string
	}{
		{name: "kind only", err: &NetworkError{Kind: KindNoData}, expected: "no data"},
		{name: "status and body", err: &NetworkError{Kind: KindBadRequest, StatusCode: 404, Body: "missing"}, expected: "bad request: 404, body: missing"},
		{name: "cause", err: newError(KindRequestError, io.ErrUnexpectedEOF), expected: "request error: unexpected EOF"},
		{name: "custom", err: NewCustomError("quota exhausted"), expected: "custom: quota exhausted"},
		{name: "unknown kind", err: &NetworkError{Kind: Kind(99)}, expected: "kind(99)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.expected {
				t.Errorf("exp %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	err := error(newError(KindParsing, io.ErrUnexpectedEOF))

	if !errors.Is(err, ErrParsing) {
		t.Error("exp errors.Is ErrParsing")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("exp errors.Is cause")
	}
	if errors.Is(err, ErrParsingError) {
		t.Error("ErrParsing must not match ErrParsingError")
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(errors.New("plain")); k != 0 {
		t.Errorf("exp 0 for foreign error, got %v", k)
	}
	if k := KindOf(nil); k != 0 {
		t.Errorf("exp 0 for nil, got %v", k)
	}
	if k := KindOf(NewCustomError("x")); k != KindCustom {
		t.Errorf("exp KindCustom, got %v", k)
	}
}
