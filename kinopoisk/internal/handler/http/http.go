package http

import (
	"encoding/json"
	"errors"
	"mediatracker/kinopoisk/internal/controller/kinopoisk"
	"mediatracker/kinopoisk/internal/controller/ratings"
	"mediatracker/kinopoisk/internal/controller/resolver"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"mediatracker/pkg/metrics"
	"net/http"
	"strconv"
	"time"

	"github.com/uber-go/tally/v6"
	"go.uber.org/zap"
)

type rateLimiter interface {
	Limit() bool
}

// Handler defines a Kinopoisk import HTTP handler.
type Handler struct {
	ctrl           *kinopoisk.Controller
	secret         SecretProvider
	limiter        rateLimiter
	importMetrics  *metrics.EndpointMetrics
	mediaMetrics   *metrics.EndpointMetrics
	historyMetrics *metrics.EndpointMetrics
	logger         *zap.Logger
}

// New creates a new Kinopoisk import HTTP handler. A nil limiter disables
// inbound rate limiting.
func New(ctrl *kinopoisk.Controller, secret SecretProvider, limiter rateLimiter, scope tally.Scope, logger *zap.Logger) *Handler {
	logger = logger.With(
		zap.String(logging.FieldComponent, "handler"),
		zap.String(logging.FieldType, "http"),
	)
	if scope == nil {
		scope = tally.NoopScope
	}
	return &Handler{
		ctrl:           ctrl,
		secret:         secret,
		limiter:        limiter,
		importMetrics:  metrics.NewEndpointMetrics(scope, "ImportRatings"),
		mediaMetrics:   metrics.NewEndpointMetrics(scope, "FindMedia"),
		historyMetrics: metrics.NewEndpointMetrics(scope, "ImportHistory"),
		logger:         logger,
	}
}

// Register registers the handler routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("POST /kinopoisk/import-ratings/{userId}", h.wrap(h.importMetrics, h.ImportRatings))
	mux.Handle("GET /kinopoisk/media/{kinopoiskId}", h.wrap(h.mediaMetrics, h.FindMedia))
	mux.Handle("GET /kinopoisk/imports", h.wrap(h.historyMetrics, h.ImportHistory))
}

type errorResponse struct {
	Error   string                `json:"error"`
	Details []model.FailureDetail `json:"details,omitempty"`
}

// wrap applies metrics, rate limiting and authentication to an endpoint.
func (h *Handler) wrap(m *metrics.EndpointMetrics, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m.Calls.Inc(1)
		start := time.Now()
		defer func() { m.Latency.Record(time.Since(start)) }()

		if h.limiter != nil && h.limiter.Limit() {
			h.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many requests"})
			return
		}
		user, err := userFromRequest(req, h.secret)
		if err != nil {
			m.UnauthorizedErrors.Inc(1)
			h.logger.Debug("Rejected request", zap.String(logging.FieldEndpoint, req.URL.Path), zap.Error(err))
			w.Header().Set("WWW-Authenticate", "Bearer")
			h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next(w, req.WithContext(withUser(req.Context(), user)))
	})
}

// ImportRatings handles POST /kinopoisk/import-ratings/{userId} requests.
func (h *Handler) ImportRatings(w http.ResponseWriter, req *http.Request) {
	user, _ := userFromContext(req.Context())
	sourceUserID := req.PathValue("userId")
	summary, err := h.ctrl.ImportAndConvert(req.Context(), sourceUserID, user)
	if err != nil {
		h.importMetrics.InvalidArgumentErrors.Inc(1)
		resp := errorResponse{Error: err.Error()}
		var batchErr *ratings.BatchError
		if errors.As(err, &batchErr) {
			resp.Error = ratings.ErrNothingConverted.Error()
			resp.Details = batchErr.Failures
		}
		h.logger.Warn("Kinopoisk import failed",
			zap.String(logging.FieldUserID, user.ID.String()),
			zap.String("kinopoiskUserId", sourceUserID),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	h.importMetrics.Successes.Inc(1)
	h.writeJSON(w, http.StatusOK, summary)
}

// FindMedia handles GET /kinopoisk/media/{kinopoiskId} requests.
func (h *Handler) FindMedia(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.Atoi(req.PathValue("kinopoiskId"))
	if err != nil || id <= 0 {
		h.mediaMetrics.InvalidArgumentErrors.Inc(1)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid kinopoisk id"})
		return
	}
	res, err := h.ctrl.FindMedia(req.Context(), id)
	switch {
	case errors.Is(err, resolver.ErrNoMatch):
		h.mediaMetrics.NotFoundErrors.Inc(1)
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.mediaMetrics.InternalErrors.Inc(1)
		h.logger.Warn("Media resolution failed", zap.Int(logging.FieldSourceID, id), zap.Error(err))
		h.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	h.mediaMetrics.Successes.Inc(1)
	h.writeJSON(w, http.StatusOK, res)
}

// ImportHistory handles GET /kinopoisk/imports requests.
func (h *Handler) ImportHistory(w http.ResponseWriter, req *http.Request) {
	user, _ := userFromContext(req.Context())
	runs, err := h.ctrl.History(req.Context(), user.ID.String())
	if err != nil {
		h.historyMetrics.InternalErrors.Inc(1)
		h.logger.Warn("Repository list error", zap.String(logging.FieldUserID, user.ID.String()), zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	h.historyMetrics.Successes.Inc(1)
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Response encode error", zap.Error(err))
	}
}
