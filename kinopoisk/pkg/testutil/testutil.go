package testutil

import (
	"encoding/json"
	"mediatracker/kinopoisk/internal/controller/kinopoisk"
	"mediatracker/kinopoisk/internal/controller/ratings"
	"mediatracker/kinopoisk/internal/controller/resolver"
	kinopoiskgateway "mediatracker/kinopoisk/internal/gateway/kinopoisk/http"
	reviewgateway "mediatracker/kinopoisk/internal/gateway/review/http"
	tmdbgateway "mediatracker/kinopoisk/internal/gateway/tmdb/http"
	httphandler "mediatracker/kinopoisk/internal/handler/http"
	"mediatracker/kinopoisk/internal/repository/memory"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/discovery"
	"mediatracker/pkg/resilience"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Film is a Kinopoisk catalog entry rated by the test user.
type Film struct {
	ID              int
	ImdbID          string
	NameRu          string
	NameOriginal    string
	Year            int
	Type            string
	KinopoiskRating float64
	ImdbRating      float64
	UserRating      int
}

// NewKinopoiskServer starts a fake Kinopoisk API serving the votes of
// userID in pages of pageSize and the detail record of every film.
func NewKinopoiskServer(userID string, pageSize int, films []Film) *httptest.Server {
	byID := make(map[int]Film, len(films))
	for _, f := range films {
		byID[f.ID] = f
	}
	totalPages := (len(films) + pageSize - 1) / pageSize
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/kp_users/{user}/votes", func(w http.ResponseWriter, req *http.Request) {
		if req.PathValue("user") != userID {
			http.Error(w, "unknown user", http.StatusNotFound)
			return
		}
		page, _ := strconv.Atoi(req.URL.Query().Get("page"))
		items := []map[string]any{}
		for i := (page - 1) * pageSize; page > 0 && i < page*pageSize && i < len(films); i++ {
			f := films[i]
			items = append(items, map[string]any{
				"kinopoiskId":     f.ID,
				"imdbId":          nullable(f.ImdbID),
				"nameRu":          nullable(f.NameRu),
				"nameOriginal":    nullable(f.NameOriginal),
				"ratingKinopoisk": f.KinopoiskRating,
				"ratingImbd":      f.ImdbRating,
				"year":            strconv.Itoa(f.Year),
				"type":            f.Type,
				"userRating":      f.UserRating,
			})
		}
		writeJSON(w, map[string]any{"total": len(films), "totalPages": totalPages, "items": items})
	})
	mux.HandleFunc("GET /api/v2.2/films/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(req.PathValue("id"))
		f, ok := byID[id]
		if !ok {
			http.Error(w, "film not found", http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{
			"kinopoiskId":     f.ID,
			"imdbId":          nullable(f.ImdbID),
			"nameRu":          nullable(f.NameRu),
			"nameOriginal":    nullable(f.NameOriginal),
			"year":            f.Year,
			"type":            f.Type,
			"ratingKinopoisk": f.KinopoiskRating,
			"ratingImdb":      f.ImdbRating,
		})
	})
	return httptest.NewServer(mux)
}

// NewTmdbServer starts a fake TMDb API knowing the given media. Lookups by
// IMDb id match ImdbID; searches match Title or OriginalTitle exactly.
func NewTmdbServer(media []model.CanonicalMedia) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /find/{imdbId}", func(w http.ResponseWriter, req *http.Request) {
		movies, series := []map[string]any{}, []map[string]any{}
		for _, m := range media {
			if m.ImdbID == "" || m.ImdbID != req.PathValue("imdbId") {
				continue
			}
			if m.Kind == model.MediaKindMovie {
				movies = append(movies, tmdbResult(m))
			} else {
				series = append(series, tmdbResult(m))
			}
		}
		writeJSON(w, map[string]any{"movie_results": movies, "tv_results": series})
	})
	search := func(kind model.MediaKind) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			query := req.URL.Query().Get("query")
			results := []map[string]any{}
			for _, m := range media {
				if m.Kind == kind && (m.Title == query || m.OriginalTitle == query) {
					results = append(results, tmdbResult(m))
				}
			}
			writeJSON(w, map[string]any{"page": 1, "results": results, "total_pages": 1, "total_results": len(results)})
		}
	}
	mux.HandleFunc("GET /search/movie", search(model.MediaKindMovie))
	mux.HandleFunc("GET /search/tv", search(model.MediaKindTV))
	return httptest.NewServer(mux)
}

func tmdbResult(m model.CanonicalMedia) map[string]any {
	r := map[string]any{
		"id":           m.TmdbID,
		"overview":     m.Overview,
		"vote_average": m.VoteAverage,
		"vote_count":   m.VoteCount,
	}
	if m.Kind == model.MediaKindMovie {
		r["title"], r["original_title"], r["release_date"] = m.Title, m.OriginalTitle, m.ReleaseDate
	} else {
		r["name"], r["original_name"], r["first_air_date"] = m.Title, m.OriginalTitle, m.ReleaseDate
	}
	return r
}

// ReviewStore records the reviews created through a fake review service.
type ReviewStore struct {
	mu      sync.Mutex
	reviews []model.Review
}

// Reviews returns the created reviews in creation order.
func (s *ReviewStore) Reviews() []model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Review(nil), s.reviews...)
}

// NewReviewServer starts a fake review service accepting POST /reviews.
func NewReviewServer() (*httptest.Server, *ReviewStore) {
	store := &ReviewStore{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reviews", func(w http.ResponseWriter, req *http.Request) {
		var in model.CreateReviewRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		review := model.Review{
			ID:            uuid.New(),
			AuthorID:      in.AuthorID,
			AuthorName:    in.AuthorName,
			Content:       in.Content,
			Rating:        in.Rating,
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
			CreatedAt:     time.Now().UTC(),
		}
		store.mu.Lock()
		store.reviews = append(store.reviews, review)
		store.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(review)
	})
	return httptest.NewServer(mux), store
}

// NewTestKinopoiskHandler wires a Kinopoisk import handler against the given
// remote base URLs with an in-memory import history. The review service is
// discovered through registry.
func NewTestKinopoiskHandler(registry discovery.Registry, kinopoiskURL, tmdbURL, reviewService string, secret []byte) (*httphandler.Handler, error) {
	logger := zap.NewNop()
	cfg := resilience.DefaultConfig()
	cfg.RetryBaseDelay = time.Millisecond
	cfg.BreakerOpenTimeout = time.Second
	client := func(name string) *http.Client {
		return resilience.NewClient(resilience.New(name, cfg, logger, nil), nil, nil)
	}

	catalog := kinopoiskgateway.New(kinopoiskURL, "test-key", client("kinopoisk"), logger)
	canonical, err := tmdbgateway.New(tmdbURL, "test-key", "", client("tmdb"), logger)
	if err != nil {
		return nil, err
	}
	reviews := reviewgateway.New(registry, reviewService, "", client("review"), logger)
	res := resolver.New(catalog, canonical, logger)
	ctrl := kinopoisk.New(
		ratings.NewImporter(catalog, logger),
		ratings.NewConverter(res, reviews, 4, logger),
		res,
		memory.New(logger),
		nil,
		logger,
	)
	return httphandler.New(ctrl, func() []byte { return secret }, nil, nil, logger), nil
}

// SignToken returns an HS256 bearer token for the user.
func SignToken(secret []byte, user model.User) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":                user.ID.String(),
		"preferred_username": user.Name,
		"exp":                time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
}

// HostPort strips the scheme of a test server URL.
func HostPort(s *httptest.Server) string {
	return strings.TrimPrefix(s.URL, "http://")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
