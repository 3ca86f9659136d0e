package throttle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		cfg    Config
		expErr error
	}{
		{name: "Invalid RPS (zero)", cfg: Config{RPS: 0, Burst: 10}, expErr: ErrMustNotBeZero},
		{name: "Invalid RPS (negative)", cfg: Config{RPS: -5, Burst: 10}, expErr: ErrMustNotBeZero},
		{name: "Invalid Burst (zero)", cfg: Config{RPS: 10, Burst: 0}, expErr: ErrMustNotBeZero},
		{name: "Invalid Burst (negative)", cfg: Config{RPS: 10, Burst: -5}, expErr: ErrMustNotBeZero},
		{name: "Valid input", cfg: Config{RPS: 10, Burst: 20}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rt, err := NewRoundTripper(tc.cfg, nil, http.DefaultTransport)

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("exp err %v; got: %v", tc.expErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("exp nil err, got: %v", err)
			}
			if rt == nil {
				t.Error("exp non-nil RoundTripper")
			}
		})
	}
}

func TestRoundTrip_PreCancelledContext(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(Config{RPS: 20, Burst: 10}, nil, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = rt.RoundTrip(req)
	if !errors.Is(err, ErrContextEnded) {
		t.Errorf("exp ErrContextEnded, got: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("exp context.Canceled, got: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("exp no server calls, got %d", calls.Load())
	}
}

func TestRoundTrip_WaitTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rt, err := NewRoundTripper(Config{RPS: 1, Burst: 1}, nil, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	hc := &http.Client{Transport: rt}

	// First request drains the bucket.
	resp, err := hc.Get(server.URL)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = hc.Do(req)
	if !errors.Is(err, ErrWaitingFailed) {
		t.Errorf("exp ErrWaitingFailed, got: %v", err)
	}
}

func TestRoundTrip_SlowsDownBeyondBurst(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))

	rt, err := NewRoundTripper(Config{RPS: 10, Burst: 5}, func() *slog.Logger { return logger }, http.DefaultTransport)
	if err != nil {
		t.Fatal(err)
	}
	hc := &http.Client{Transport: rt}

	const numRequests = 8

	var wg sync.WaitGroup
	start := time.Now()
	for range numRequests {
		wg.Go(func() {
			resp, err := hc.Get(server.URL)
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			resp.Body.Close()
		})
	}
	wg.Wait()
	duration := time.Since(start)

	// (8-5) requests at 10 RPS, less slack for refill during setup.
	minDuration := 250 * time.Millisecond
	if duration < minDuration {
		t.Errorf("exp duration >= %v, got %v", minDuration, duration)
	}
	if got := calls.Load(); got != numRequests {
		t.Errorf("exp %d server calls, got %d", numRequests, got)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(buf.String(), "throttle tokens exhausted") {
		t.Errorf("exp exhausted log, got: %s", buf.String())
	}
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
