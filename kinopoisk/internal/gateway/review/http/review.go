package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mediatracker/kinopoisk/internal/gateway"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/discovery"
	"mediatracker/pkg/logging"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Gateway defines a review service HTTP gateway.
type Gateway struct {
	registry    discovery.Registry
	serviceName string
	token       string
	client      *http.Client
	validate    *validator.Validate
	logger      *zap.Logger
}

// New creates a new HTTP gateway for the review service. The token, when
// set, is sent as a bearer token.
func New(registry discovery.Registry, serviceName string, token string, client *http.Client, logger *zap.Logger) *Gateway {
	logger = logger.With(
		zap.String(logging.FieldComponent, "review-gateway"),
		zap.String(logging.FieldType, "http"),
	)
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{
		registry:    registry,
		serviceName: serviceName,
		token:       token,
		client:      client,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// CreateReview creates a review in the review service.
func (g *Gateway) CreateReview(ctx context.Context, req *model.CreateReviewRequest) (*model.Review, error) {
	if err := g.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", gateway.ErrBadRequest, err)
	}
	addrs, err := g.registry.ServiceAddresses(ctx, g.serviceName)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", gateway.ErrTransport, g.serviceName, err)
	}
	url := "http://" + addrs[rand.Intn(len(addrs))] + "/reviews"
	g.logger.Debug("Calling review service",
		zap.String("url", url),
		zap.String("method", http.MethodPost),
		zap.Int(logging.FieldMediaID, req.ReferenceID),
	)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.token)
	}
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gateway.ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: review service returned %d", gateway.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: review service returned %d: %s", gateway.ErrBadRequest, resp.StatusCode, bytes.TrimSpace(msg))
	case resp.StatusCode/100 != 2:
		return nil, fmt.Errorf("%w: review service returned %d", gateway.ErrTransport, resp.StatusCode)
	}
	var v model.Review
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: decode review: %w", gateway.ErrRemote, err)
	}
	return &v, nil
}
