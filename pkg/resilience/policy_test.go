package resilience

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		RetryAttempts:      3,
		RetryBaseDelay:     time.Millisecond,
		BreakerFailures:    100,
		BreakerOpenTimeout: 50 * time.Millisecond,
		AttemptTimeout:     time.Second,
	}
}

// statusServer answers with the given statuses in order, repeating the last one.
func statusServer(t *testing.T, hits *atomic.Int32, statuses ...int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1))
		if n > len(statuses) {
			n = len(statuses)
		}
		w.WriteHeader(statuses[n-1])
		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	if resp != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return resp, err
}

func TestRetryThenSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK)
	client := NewClient(New("test", testConfig(), zap.NewNop(), nil), nil, nil)

	resp, err := get(t, client, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestNoRetryOnNonRetryableStatus(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusNotFound)
	client := NewClient(New("test", testConfig(), zap.NewNop(), nil), nil, nil)

	resp, err := get(t, client, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRetryBudgetExhausted(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusInternalServerError)
	client := NewClient(New("test", testConfig(), zap.NewNop(), nil), nil, nil)

	resp, err := get(t, client, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, "last response is handed back to the caller")
	assert.Equal(t, int32(4), hits.Load(), "first attempt plus three retries")
}

func TestBackoffDoubles(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.RetryBaseDelay = 20 * time.Millisecond
	client := NewClient(New("test", cfg, zap.NewNop(), nil), nil, nil)

	resp, err := get(t, client, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 4)
	for i, factor := range []time.Duration{2, 4, 8} {
		want := factor * cfg.RetryBaseDelay
		gap := times[i+1].Sub(times[i])
		assert.GreaterOrEqual(t, gap, want, "wait before retry %d", i+1)
		assert.Less(t, gap, 2*want, "wait before retry %d", i+1)
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		ignore     bool
		status     int
		wantState  string
		wantHits   int32
		wantOpened bool
	}{
		{name: "conflict ignored", ignore: true, status: http.StatusConflict, wantState: "closed", wantHits: 4},
		{name: "bad request ignored", ignore: true, status: http.StatusBadRequest, wantState: "closed", wantHits: 4},
		{name: "throttling still counts", ignore: true, status: http.StatusTooManyRequests, wantState: "open", wantHits: 2, wantOpened: true},
		{name: "server errors still count", ignore: true, status: http.StatusInternalServerError, wantState: "open", wantHits: 2, wantOpened: true},
		{name: "conflict counts by default", status: http.StatusConflict, wantState: "open", wantHits: 2, wantOpened: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := statusServer(t, &hits, tt.status)
			cfg := testConfig()
			cfg.RetryAttempts = 0
			cfg.BreakerFailures = 2
			cfg.BreakerOpenTimeout = time.Minute
			cfg.BreakerIgnoresClientErrors = tt.ignore
			policy := New("review", cfg, zap.NewNop(), nil)
			client := NewClient(policy, nil, nil)

			for i := 0; i < 4; i++ {
				_, err := get(t, client, srv.URL)
				if tt.wantOpened && i >= 2 {
					assert.ErrorIs(t, err, ErrCircuitOpen)
				} else {
					require.NoError(t, err)
				}
			}
			assert.Equal(t, tt.wantState, policy.State())
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestBreakerOpensAndRecovers(t *testing.T) {
	var hits atomic.Int32
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.RetryAttempts = 0
	cfg.BreakerFailures = 5
	policy := New("test", cfg, zap.NewNop(), nil)
	client := NewClient(policy, nil, nil)

	for i := 0; i < 5; i++ {
		resp, err := get(t, client, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	assert.Equal(t, "open", policy.State())

	_, err := get(t, client, srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(5), hits.Load(), "open breaker must not reach the network")

	healthy.Store(true)
	time.Sleep(cfg.BreakerOpenTimeout + 20*time.Millisecond)
	resp, err := get(t, client, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(6), hits.Load(), "trial call goes through after the open window")
	assert.Equal(t, "closed", policy.State())
}

func TestBreakerStateSharedAcrossClients(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusServiceUnavailable)
	cfg := testConfig()
	cfg.RetryAttempts = 0
	cfg.BreakerFailures = 5
	cfg.BreakerOpenTimeout = time.Minute
	policy := New("shared", cfg, zap.NewNop(), nil)
	first := NewClient(policy, nil, nil)
	second := NewClient(policy, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := get(t, first, srv.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(3), policy.ConsecutiveFailures())
	for i := 0; i < 2; i++ {
		_, err := get(t, second, srv.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, "open", policy.State())

	_, err := get(t, first, srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(5), hits.Load())

	fresh := New("shared", cfg, zap.NewNop(), nil)
	assert.Equal(t, "closed", fresh.State(), "a new policy starts without the failure history")
}

func TestAttemptTimeout(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.RetryAttempts = 1
	cfg.AttemptTimeout = 20 * time.Millisecond
	client := NewClient(New("slow", cfg, zap.NewNop(), nil), nil, nil)

	_, err := get(t, client, srv.URL)
	assert.ErrorIs(t, err, ErrAttemptTimeout)
	assert.Equal(t, int32(2), hits.Load())
}

func TestRequestBodyReplayedAndHeadersAdded(t *testing.T) {
	var hits atomic.Int32
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(New("post", testConfig(), zap.NewNop(), nil), nil, http.Header{"X-API-KEY": {"secret"}})
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL, strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`{"a":1}`, `{"a":1}`}, bodies)
}

func TestCanceledContextStopsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, &hits, http.StatusServiceUnavailable)
	cfg := testConfig()
	cfg.RetryBaseDelay = time.Hour
	client := NewClient(New("test", cfg, zap.NewNop(), nil), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
