package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type waiter interface {
	Wait(ctx context.Context) error
}

// Transport is an http.RoundTripper that sends every request through a Policy.
type Transport struct {
	// Base performs the actual round trips; http.DefaultTransport when nil.
	Base http.RoundTripper
	// Policy is shared by all clients of the same remote dependency.
	Policy *Policy
	// Limiter, when set, is waited on before every attempt.
	Limiter waiter
	// Header is added to every outgoing request.
	Header http.Header
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Policy == nil {
		return nil, errors.New("nil resilience policy")
	}
	if req.Body != nil && req.GetBody == nil {
		return nil, errors.New("request body is not replayable")
	}
	return t.Policy.Do(req.Context(), func(ctx context.Context) (*http.Response, error) {
		if t.Limiter != nil {
			if err := t.Limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}
		r := req.Clone(ctx)
		if req.Body != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewind request body: %w", err)
			}
			r.Body = body
		}
		for k, vs := range t.Header {
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		return t.base().RoundTrip(r)
	})
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewClient returns an HTTP client whose transport applies policy and limiter.
// Timeouts are enforced per attempt by the policy.
func NewClient(policy *Policy, limiter waiter, header http.Header) *http.Client {
	return &http.Client{
		Transport: &Transport{
			Policy:  policy,
			Limiter: limiter,
			Header:  header,
		},
	}
}
