package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mediatracker/kinopoisk/internal/gateway"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Gateway defines a TMDb HTTP gateway.
type Gateway struct {
	baseURL  string
	apiKey   string
	language string
	client   *http.Client
	logger   *zap.Logger
}

// New creates a new TMDb gateway. An empty language leaves the
// localization to TMDb defaults.
func New(baseURL string, apiKey string, language string, client *http.Client, logger *zap.Logger) (*Gateway, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	logger = logger.With(
		zap.String(logging.FieldComponent, "tmdb-gateway"),
		zap.String(logging.FieldType, "http"),
	)
	return &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: strings.TrimSpace(language),
		client:   client,
		logger:   logger,
	}, nil
}

// FindByExternalID looks an IMDb id up. Either result may be nil; both nil
// means TMDb knows no item with that id.
func (g *Gateway) FindByExternalID(ctx context.Context, imdbID string) (movie *model.CanonicalMedia, series *model.CanonicalMedia, err error) {
	params := url.Values{}
	params.Set("external_source", "imdb_id")
	var v findResponse
	if err := g.get(ctx, "/find/"+url.PathEscape(imdbID), params, &v); err != nil {
		return nil, nil, err
	}
	if len(v.MovieResults) > 0 {
		m := v.MovieResults[0].toModel(model.MediaKindMovie)
		movie = &m
	}
	if len(v.TVResults) > 0 {
		s := v.TVResults[0].toModel(model.MediaKindTV)
		series = &s
	}
	return movie, series, nil
}

// SearchTitle searches movies or series by title. A zero year is not sent.
// Candidates keep the order TMDb returned them in.
func (g *Gateway) SearchTitle(ctx context.Context, title string, year int, kind model.MediaKind) ([]model.CanonicalMedia, error) {
	params := url.Values{}
	params.Set("query", title)
	path := "/search/movie"
	yearParam := "year"
	if kind == model.MediaKindTV {
		path = "/search/tv"
		yearParam = "first_air_date_year"
	}
	if year > 0 {
		params.Set(yearParam, strconv.Itoa(year))
	}
	var v searchResponse
	if err := g.get(ctx, path, params, &v); err != nil {
		return nil, err
	}
	res := make([]model.CanonicalMedia, 0, len(v.Results))
	for _, r := range v.Results {
		res = append(res, r.toModel(kind))
	}
	return res, nil
}

func (g *Gateway) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(g.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", g.apiKey)
	if g.language != "" {
		params.Set("language", g.language)
	}
	endpoint.RawQuery = params.Encode()
	g.logger.Debug("Calling TMDb API", zap.String("path", path), zap.String("method", http.MethodGet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: tmdb %s: %w", gateway.ErrTransport, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		g.logger.Warn("TMDb request failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: tmdb %s returned %d", gateway.ErrTransport, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode tmdb %s: %w", gateway.ErrTransport, path, err)
	}
	return nil
}

type findResponse struct {
	MovieResults []result `json:"movie_results"`
	TVResults    []result `json:"tv_results"`
}

type searchResponse struct {
	Page         int      `json:"page"`
	Results      []result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// result covers both movie and tv payloads; movies use title/release_date,
// series use name/first_air_date.
type result struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	ReleaseDate   string  `json:"release_date"`
	Name          string  `json:"name"`
	OriginalName  string  `json:"original_name"`
	FirstAirDate  string  `json:"first_air_date"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
}

func (r result) toModel(kind model.MediaKind) model.CanonicalMedia {
	m := model.CanonicalMedia{
		TmdbID:       r.ID,
		Kind:         kind,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
	}
	if kind == model.MediaKindTV {
		m.Title = r.Name
		m.OriginalTitle = r.OriginalName
		m.ReleaseDate = r.FirstAirDate
	} else {
		m.Title = r.Title
		m.OriginalTitle = r.OriginalTitle
		m.ReleaseDate = r.ReleaseDate
	}
	return m
}
