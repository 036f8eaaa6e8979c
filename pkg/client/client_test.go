package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wikicli/pkg/auth"
)

// waitRecorder hands out timers that fire immediately and remembers the
// requested durations.
type waitRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *waitRecorder) NewTimer() backoff.Timer { return &instantTimer{rec: r} }

func (r *waitRecorder) Waits() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

type instantTimer struct {
	rec *waitRecorder
	c   chan time.Time
}

func (t *instantTimer) Start(d time.Duration) {
	t.rec.mu.Lock()
	t.rec.waits = append(t.rec.waits, d)
	t.rec.mu.Unlock()
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

func testEndpoints(base string) auth.Endpoints {
	return auth.Endpoints{
		SiteURL: base + "/wiki",
		APIv1:   base + "/wiki/rest/api",
		APIv2:   base + "/wiki/api/v2",
	}
}

func newTestClient(t *testing.T, base string) (*Client, *waitRecorder) {
	t.Helper()
	rec := &waitRecorder{}
	c, err := New(Config{
		Endpoints:     testEndpoints(base),
		Credential:    auth.Basic("me@example.com", "s3cret"),
		CorrelationID: "corr-1",
		NewTimer:      rec.NewTimer,
		Jitter:        func(time.Duration) time.Duration { return 0 },
	})
	require.NoError(t, err)
	return c, rec
}

func TestRetryWait(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter string
		attempt    int
		min        time.Duration
	}{
		{name: "retry-after wins", retryAfter: "5", attempt: 1, min: 5 * time.Second},
		{name: "retry-after zero", retryAfter: "0", attempt: 2, min: 0},
		{name: "first retry", attempt: 1, min: 1 * time.Second},
		{name: "second retry", attempt: 2, min: 2 * time.Second},
		{name: "third retry", attempt: 3, min: 4 * time.Second},
		{name: "unparseable retry-after", retryAfter: "soon", attempt: 2, min: 2 * time.Second},
		{name: "negative retry-after", retryAfter: "-3", attempt: 1, min: 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.retryAfter != "" {
				h.Set("Retry-After", tt.retryAfter)
			}
			for i := 0; i < 20; i++ {
				got := RetryWait(h, tt.attempt)
				assert.GreaterOrEqual(t, got, tt.min)
				assert.Less(t, got, tt.min+DefaultMaxJitter)
			}
		})
	}
}

func TestSendRetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		status   int
		wantHits int
		wantErr  bool
	}{
		{name: "no failures", failures: 0, status: http.StatusServiceUnavailable, wantHits: 1},
		{name: "one 503", failures: 1, status: http.StatusServiceUnavailable, wantHits: 2},
		{name: "two 429s", failures: 2, status: http.StatusTooManyRequests, wantHits: 3},
		{name: "three 500s exhausts", failures: 3, status: http.StatusInternalServerError, wantHits: 3, wantErr: true},
		{name: "many 502s exhausts", failures: 10, status: http.StatusBadGateway, wantHits: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := int(hits.Add(1))
				if n <= tt.failures {
					w.WriteHeader(tt.status)
					return
				}
				w.Write([]byte(`{"ok":true}`))
			}))
			defer srv.Close()

			c, rec := newTestClient(t, srv.URL)
			var out map[string]any
			err := c.GetJSON(context.Background(), srv.URL+"/wiki/api/v2/spaces", &out)

			assert.Equal(t, tt.wantHits, int(hits.Load()))
			assert.Len(t, rec.Waits(), tt.wantHits-1)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsTransient(err))
				var apiErr *Error
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, 3, apiErr.Attempts)
				assert.Equal(t, tt.status, apiErr.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, true, out["ok"])
		})
	}
}

func TestSendHonoursRetryAfter(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv.URL)
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, nil))
	assert.Equal(t, []time.Duration{7 * time.Second}, rec.Waits())
}

func TestSendExponentialSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, rec := newTestClient(t, srv.URL)
	err := c.GetJSON(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, rec.Waits())
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		isConflict bool
		wantMsg    string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"No space with key : NOPE"}`, wantMsg: "No space with key : NOPE"},
		{name: "bad request v2 errors", status: http.StatusBadRequest, body: `{"errors":[{"title":"Invalid cursor"}]}`, wantMsg: "Invalid cursor"},
		{name: "forbidden html", status: http.StatusForbidden, body: `<html>denied</html>`},
		{name: "conflict", status: http.StatusConflict, body: `{"message":"Version must be incremented"}`, isConflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, rec := newTestClient(t, srv.URL)
			err := c.PutJSON(context.Background(), srv.URL+"/wiki/api/v2/pages/1", map[string]any{"title": "x"}, nil)
			require.Error(t, err)
			assert.Equal(t, int32(1), hits.Load())
			assert.Empty(t, rec.Waits())
			assert.Equal(t, tt.status, StatusCode(err))
			assert.False(t, Retryable(err))

			if tt.isConflict {
				assert.True(t, IsConflict(err))
				assert.Contains(t, err.Error(), "refetch the latest version")
				return
			}
			assert.True(t, IsClientError(err))
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.body, apiErr.Body)
		})
	}
}

func TestSendRetriesConnectionErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, rec := newTestClient(t, url)
	_, err := c.Send(context.Background(), http.MethodGet, url+"/wiki/api/v2/spaces")
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 0, StatusCode(err))
	assert.Len(t, rec.Waits(), 2)
}

func TestSendStopsOnCancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Send(ctx, http.MethodGet, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), hits.Load())
}

func TestSendSetsHeaders(t *testing.T) {
	var got http.Header
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		body = string(buf[:n])
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL)
	var out map[string]any
	require.NoError(t, c.PostJSON(context.Background(), srv.URL, map[string]string{"title": "Hello"}, &out))

	assert.Equal(t, "Basic bWVAZXhhbXBsZS5jb206czNjcmV0", got.Get("Authorization"))
	assert.Equal(t, "corr-1", got.Get("X-Correlation-Id"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.JSONEq(t, `{"title":"Hello"}`, body)
	assert.Equal(t, "1", out["id"])
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Credential: auth.Bearer("x")})
	assert.Error(t, err)

	_, err = New(Config{Endpoints: testEndpoints("https://acme.atlassian.net")})
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", RequestID(h))
	h.Set("traceparent", "00-abc-def-01")
	assert.Equal(t, "00-abc-def-01", RequestID(h))
	h.Set("X-ARequestId", "areq")
	assert.Equal(t, "areq", RequestID(h))
}
