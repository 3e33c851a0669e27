package http

import (
	"context"
	"encoding/json"
	"mediatracker/kinopoisk/internal/gateway"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/discovery/memory"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validRequest() *model.CreateReviewRequest {
	return &model.CreateReviewRequest{
		AuthorID:      uuid.MustParse("5b2f3e4a-9a3c-4c1e-9c55-3f7f1d3c0a11"),
		AuthorName:    "neo",
		Content:       "Imported from Kinopoisk",
		Rating:        9,
		ReferenceID:   603,
		ReferenceType: model.ReferenceTypeMovie,
	}
}

func newGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	registry := memory.NewRegistry()
	require.NoError(t, registry.Register(context.Background(), "review-1", "review", strings.TrimPrefix(srv.URL, "http://")))
	return New(registry, "review", "service-token", srv.Client(), zap.NewNop())
}

func TestCreateReview(t *testing.T) {
	reviewID := uuid.New()
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reviews", r.URL.Path)
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		var req model.CreateReviewRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, validRequest(), &req)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Review{
			ID:            reviewID,
			AuthorID:      req.AuthorID,
			AuthorName:    req.AuthorName,
			Content:       req.Content,
			Rating:        req.Rating,
			ReferenceID:   req.ReferenceID,
			ReferenceType: req.ReferenceType,
		})
	})

	got, err := g.CreateReview(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, reviewID, got.ID)
	assert.Equal(t, 603, got.ReferenceID)
	assert.Equal(t, model.ReferenceTypeMovie, got.ReferenceType)
}

func TestCreateReviewStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: gateway.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: gateway.ErrUnauthorized},
		{name: "bad request", status: http.StatusBadRequest, wantErr: gateway.ErrBadRequest},
		{name: "duplicate", status: http.StatusConflict, wantErr: gateway.ErrBadRequest},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, wantErr: gateway.ErrBadRequest},
		{name: "server error", status: http.StatusInternalServerError, wantErr: gateway.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := g.CreateReview(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr, tt.name)
		})
	}
}

func TestCreateReviewInvalidRequest(t *testing.T) {
	called := false
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	req := validRequest()
	req.Rating = 0
	_, err := g.CreateReview(context.Background(), req)
	assert.ErrorIs(t, err, gateway.ErrBadRequest)

	req = validRequest()
	req.ReferenceType = "Book"
	_, err = g.CreateReview(context.Background(), req)
	assert.ErrorIs(t, err, gateway.ErrBadRequest)
	assert.False(t, called)
}

func TestCreateReviewNoInstances(t *testing.T) {
	g := New(memory.NewRegistry(), "review", "", nil, zap.NewNop())
	_, err := g.CreateReview(context.Background(), validRequest())
	assert.ErrorIs(t, err, gateway.ErrTransport)
}
