package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mediatracker/kinopoisk/internal/gateway"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const apiKeyHeader = "X-API-KEY"

// Gateway defines a Kinopoisk unofficial API HTTP gateway.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// New creates a new Kinopoisk gateway. The client is expected to carry the
// resilience policy and rate limiter of the Kinopoisk dependency.
func New(baseURL string, apiKey string, client *http.Client, logger *zap.Logger) *Gateway {
	logger = logger.With(
		zap.String(logging.FieldComponent, "kinopoisk-gateway"),
		zap.String(logging.FieldType, "http"),
	)
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

// FetchRatingsPage fetches one page of the votes of a Kinopoisk user.
func (g *Gateway) FetchRatingsPage(ctx context.Context, userID string, page int) (*model.RatingsPage, error) {
	u := fmt.Sprintf("%s/api/v1/kp_users/%s/votes?page=%d", g.baseURL, url.PathEscape(userID), page)
	resp, err := g.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read votes page %d: %w", gateway.ErrTransport, page, err)
	}
	if resp.StatusCode/100 != 2 {
		g.logger.Warn("Votes page request failed",
			zap.String(logging.FieldUserID, userID),
			zap.Int("page", page),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(body, 512)),
		)
		return nil, fmt.Errorf("%w: votes page %d: status %d", gateway.ErrRemote, page, resp.StatusCode)
	}
	var v votesResponse
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: decode votes page %d: %w", gateway.ErrRemote, page, err)
	}
	res := &model.RatingsPage{
		Total:      v.Total,
		TotalPages: v.TotalPages,
		Items:      make([]model.RawRating, 0, len(v.Items)),
	}
	for _, item := range v.Items {
		res.Items = append(res.Items, item.toModel())
	}
	return res, nil
}

// FetchRatingDetail fetches the detail record of a Kinopoisk item.
func (g *Gateway) FetchRatingDetail(ctx context.Context, sourceID int) (*model.CatalogRecord, error) {
	u := fmt.Sprintf("%s/api/v2.2/films/%d", g.baseURL, sourceID)
	resp, err := g.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		g.logger.Warn("Film detail request failed",
			zap.Int(logging.FieldSourceID, sourceID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: film %d: status %d", gateway.ErrNotFound, sourceID, resp.StatusCode)
	}
	var v filmResponse
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: decode film %d: %w", gateway.ErrRemote, sourceID, err)
	}
	rec := v.toModel()
	if rec.SourceID == 0 {
		rec.SourceID = sourceID
	}
	return rec, nil
}

func (g *Gateway) get(ctx context.Context, u string) (*http.Response, error) {
	g.logger.Debug("Calling Kinopoisk API", zap.String("url", u), zap.String("method", http.MethodGet))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, g.apiKey)
	req.Header.Set("Accept", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gateway.ErrTransport, err)
	}
	return resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

type votesResponse struct {
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
	Items      []voteItem `json:"items"`
}

type voteItem struct {
	KinopoiskID      int      `json:"kinopoiskId"`
	ImdbID           *string  `json:"imdbId"`
	NameRu           *string  `json:"nameRu"`
	NameEn           *string  `json:"nameEn"`
	NameOriginal     *string  `json:"nameOriginal"`
	RatingKinopoisk  *float64 `json:"ratingKinopoisk"`
	RatingImdb       *float64 `json:"ratingImbd"`
	Year             flexInt  `json:"year"`
	Type             string   `json:"type"`
	PosterURL        *string  `json:"posterUrl"`
	PosterURLPreview *string  `json:"posterUrlPreview"`
	UserRating       float64  `json:"userRating"`
}

func (i voteItem) toModel() model.RawRating {
	poster := deref(i.PosterURL)
	if poster == "" {
		poster = deref(i.PosterURLPreview)
	}
	return model.RawRating{
		SourceID:        i.KinopoiskID,
		ImdbID:          deref(i.ImdbID),
		NameRu:          deref(i.NameRu),
		NameEn:          deref(i.NameEn),
		NameOriginal:    deref(i.NameOriginal),
		KinopoiskRating: derefFloat(i.RatingKinopoisk),
		ImdbRating:      i.RatingImdb,
		Year:            int(i.Year),
		Type:            i.Type,
		PosterURL:       poster,
		UserRating:      int(math.Round(i.UserRating)),
	}
}

type filmResponse struct {
	KinopoiskID     int      `json:"kinopoiskId"`
	ImdbID          *string  `json:"imdbId"`
	NameRu          *string  `json:"nameRu"`
	NameEn          *string  `json:"nameEn"`
	NameOriginal    *string  `json:"nameOriginal"`
	Year            flexInt  `json:"year"`
	Type            string   `json:"type"`
	RatingKinopoisk *float64 `json:"ratingKinopoisk"`
	RatingImdb      *float64 `json:"ratingImdb"`
}

func (f filmResponse) toModel() *model.CatalogRecord {
	return &model.CatalogRecord{
		SourceID:        f.KinopoiskID,
		ImdbID:          deref(f.ImdbID),
		NameRu:          deref(f.NameRu),
		NameEn:          deref(f.NameEn),
		NameOriginal:    deref(f.NameOriginal),
		Year:            int(f.Year),
		Type:            f.Type,
		KinopoiskRating: derefFloat(f.RatingKinopoisk),
		ImdbRating:      f.RatingImdb,
	}
}

// flexInt accepts a JSON number, a numeric string or null.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("year %q: %w", s, err)
		}
		*n = flexInt(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = flexInt(f)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
