package resilience

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mediatracker/pkg/logging"
	"mediatracker/pkg/metrics"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker"
	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when the breaker rejects a call without attempting it.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ErrAttemptTimeout is returned when a single attempt exceeds the attempt timeout.
var ErrAttemptTimeout = errors.New("attempt timed out")

// Config defines the parameters of a resilience policy.
type Config struct {
	// RetryAttempts is the number of retries after the first attempt.
	RetryAttempts uint `yaml:"retryAttempts"`
	// RetryBaseDelay d makes retry n wait d*2^n.
	RetryBaseDelay time.Duration `yaml:"retryBaseDelay"`
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32 `yaml:"breakerFailures" validate:"min=1"`
	// BreakerOpenTimeout is how long the breaker stays open before a trial call.
	BreakerOpenTimeout time.Duration `yaml:"breakerOpenTimeout" validate:"gt=0"`
	// AttemptTimeout bounds every single attempt.
	AttemptTimeout time.Duration `yaml:"attemptTimeout" validate:"gt=0"`
	// BreakerIgnoresClientErrors keeps 4xx responses other than 408 and 429
	// from counting as breaker failures.
	BreakerIgnoresClientErrors bool `yaml:"breakerIgnoresClientErrors"`
}

// DefaultConfig returns 3 retries with 2s/4s/8s backoff, a breaker opening
// after 5 consecutive failures for 10s and a 10s attempt timeout.
func DefaultConfig() Config {
	return Config{
		RetryAttempts:      3,
		RetryBaseDelay:     time.Second,
		BreakerFailures:    5,
		BreakerOpenTimeout: 10 * time.Second,
		AttemptTimeout:     10 * time.Second,
	}
}

// StatusError reports a non-2xx response. Response holds the buffered response.
type StatusError struct {
	StatusCode int
	Response   *http.Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

var retryableStatuses = map[int]struct{}{
	http.StatusRequestTimeout:      {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// Policy composes retry, circuit breaker and per-attempt timeout around calls
// to one remote dependency. A Policy must be shared by every call to that
// dependency; the breaker state lives here.
type Policy struct {
	name    string
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	metrics *metrics.DependencyMetrics
}

// New creates a policy for the named dependency.
func New(name string, cfg Config, logger *zap.Logger, scope tally.Scope) *Policy {
	if scope == nil {
		scope = tally.NoopScope
	}
	logger = logger.With(
		zap.String(logging.FieldComponent, "resilience"),
		zap.String("dependency", name),
	)
	p := &Policy{
		name:    name,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewDependencyMetrics(scope, name),
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 1
	}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: p.successful,
		OnStateChange: func(_ string, from gobreaker.State, to gobreaker.State) {
			p.metrics.BreakerState.Update(float64(to))
			if to == gobreaker.StateOpen {
				logger.Warn("Circuit breaker opened",
					zap.Duration("duration", cfg.BreakerOpenTimeout),
					zap.Stringer("from", from),
				)
				return
			}
			logger.Info("Circuit breaker state changed", zap.Stringer("from", from), zap.Stringer(logging.FieldState, to))
		},
	})
	return p
}

// Name returns the dependency name.
func (p *Policy) Name() string {
	return p.name
}

// State returns the current breaker state: closed, half-open or open.
func (p *Policy) State() string {
	return p.breaker.State().String()
}

// ConsecutiveFailures returns the number of consecutive failures seen by the breaker.
func (p *Policy) ConsecutiveFailures() uint32 {
	return p.breaker.Counts().ConsecutiveFailures
}

// Do runs call under the policy. The final non-2xx response, if any, is
// returned without an error so callers can interpret the status.
func (p *Policy) Do(ctx context.Context, call func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	var resp *http.Response
	err := retry.Do(
		func() error {
			r, err := p.attempt(ctx, call)
			resp = r
			return err
		},
		retry.Context(ctx),
		retry.Attempts(p.cfg.RetryAttempts+1),
		retry.DelayType(p.backoff),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if n >= p.cfg.RetryAttempts {
				return
			}
			p.metrics.Retries.Inc(1)
			p.logger.Warn("Retrying call",
				zap.Uint(logging.FieldAttempt, n+1),
				zap.Duration("delay", p.delay(n+1)),
				zap.Error(err),
			)
		}),
	)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Response, nil
	}
	if err != nil {
		p.metrics.Failures.Inc(1)
		return nil, err
	}
	return resp, nil
}

func (p *Policy) attempt(ctx context.Context, call func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	out, err := p.breaker.Execute(func() (interface{}, error) {
		p.metrics.Attempts.Inc(1)
		actx, cancel := context.WithTimeout(ctx, p.cfg.AttemptTimeout)
		defer cancel()
		resp, err := call(actx)
		if err != nil {
			if ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %v: %w", ErrAttemptTimeout, p.cfg.AttemptTimeout, err)
			}
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp, &StatusError{StatusCode: resp.StatusCode, Response: resp}
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		p.metrics.RejectedOpen.Inc(1)
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, p.name)
	}
	resp, _ := out.(*http.Response)
	return resp, err
}

// backoff is the retry-go delay function; retry-go passes the one-based
// number of the upcoming retry.
func (p *Policy) backoff(n uint, _ error, _ *retry.Config) time.Duration {
	return p.delay(n)
}

func (p *Policy) delay(retryNumber uint) time.Duration {
	return p.cfg.RetryBaseDelay * time.Duration(uint64(1)<<retryNumber)
}

// successful reports whether an attempt outcome counts as a breaker success.
func (p *Policy) successful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if p.cfg.BreakerIgnoresClientErrors && errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code >= 400 && code < 500 && code != http.StatusRequestTimeout && code != http.StatusTooManyRequests
	}
	return false
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		_, ok := retryableStatuses[statusErr.StatusCode]
		return ok
	}
	return true
}
