package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uber-go/tally/v6"
	"github.com/uber-go/tally/v6/prometheus"
	"go.uber.org/zap"
)

const reportInterval = 10 * time.Second

// NewMetricsReporter creates a root scope backed by a Prometheus reporter and
// serves it on /metrics at the given port.
func NewMetricsReporter(logger *zap.Logger, serviceName string, metricsPort int) (tally.Scope, io.Closer) {
	reporter := prometheus.NewReporter(prometheus.Options{})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags:            map[string]string{"service": serviceName},
		CachedReporter:  reporter,
		SanitizeOptions: &prometheus.DefaultSanitizerOpts,
	}, reportInterval)
	mux := http.NewServeMux()
	mux.Handle("/metrics", reporter.HTTPHandler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", metricsPort), mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics handler stopped", zap.Error(err))
		}
	}()

	scope.Counter("service_started").Inc(1)
	return scope, closer
}

// EndpointMetrics defines an endpoint metrics.
type EndpointMetrics struct {
	Calls                 tally.Counter
	InvalidArgumentErrors tally.Counter
	UnauthorizedErrors    tally.Counter
	NotFoundErrors        tally.Counter
	InternalErrors        tally.Counter
	Successes             tally.Counter
	Latency               tally.Timer
}

// NewEndpointMetrics creates a new endpoint metrics.
func NewEndpointMetrics(scope tally.Scope, endpoint string) *EndpointMetrics {
	scope = scope.Tagged(map[string]string{
		"component": "handler",
		"endpoint":  endpoint,
	})
	return &EndpointMetrics{
		Calls:                 scope.Counter("calls"),
		InvalidArgumentErrors: errorCounter(scope, "invalid_argument"),
		UnauthorizedErrors:    errorCounter(scope, "unauthorized"),
		NotFoundErrors:        errorCounter(scope, "not_found"),
		InternalErrors:        errorCounter(scope, "internal"),
		Successes:             scope.Counter("success"),
		Latency:               scope.Timer("latency"),
	}
}

// DependencyMetrics defines metrics of calls to a remote dependency.
type DependencyMetrics struct {
	Attempts     tally.Counter
	Retries      tally.Counter
	Failures     tally.Counter
	RejectedOpen tally.Counter
	BreakerState tally.Gauge
}

// NewDependencyMetrics creates metrics for the named remote dependency.
func NewDependencyMetrics(scope tally.Scope, dependency string) *DependencyMetrics {
	scope = scope.Tagged(map[string]string{
		"component":  "resilience",
		"dependency": dependency,
	})
	return &DependencyMetrics{
		Attempts:     scope.Counter("attempts"),
		Retries:      scope.Counter("retries"),
		Failures:     scope.Counter("failures"),
		RejectedOpen: scope.Counter("rejected_open"),
		BreakerState: scope.Gauge("breaker_state"),
	}
}

func errorCounter(scope tally.Scope, kind string) tally.Counter {
	return scope.Tagged(map[string]string{"error": kind}).Counter("error")
}
