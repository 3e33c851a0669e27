package http

import (
	"context"
	"mediatracker/kinopoisk/internal/gateway"
	"mediatracker/kinopoisk/pkg/model"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGateway(t *testing.T, language string, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g, err := New(srv.URL+"/3", "tmdb-key", language, srv.Client(), zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestNewRequiresKeyAndURL(t *testing.T) {
	_, err := New("http://localhost", " ", "", nil, zap.NewNop())
	assert.Error(t, err)
	_, err = New("", "key", "", nil, zap.NewNop())
	assert.Error(t, err)
}

func TestFindByExternalID(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantMovie  *model.CanonicalMedia
		wantSeries *model.CanonicalMedia
	}{
		{
			name: "movie and series",
			body: `{"movie_results":[{"id":603,"title":"The Matrix","original_title":"The Matrix","release_date":"1999-03-31","overview":"Neo","poster_path":"/p.jpg","vote_average":8.2,"vote_count":100}],
				"tv_results":[{"id":1399,"name":"Game of Thrones","original_name":"Game of Thrones","first_air_date":"2011-04-17"}]}`,
			wantMovie: &model.CanonicalMedia{
				TmdbID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", Kind: model.MediaKindMovie,
				ReleaseDate: "1999-03-31", Overview: "Neo", PosterPath: "/p.jpg", VoteAverage: 8.2, VoteCount: 100,
			},
			wantSeries: &model.CanonicalMedia{
				TmdbID: 1399, Title: "Game of Thrones", OriginalTitle: "Game of Thrones", Kind: model.MediaKindTV,
				ReleaseDate: "2011-04-17",
			},
		},
		{
			name: "nothing found",
			body: `{"movie_results":[],"tv_results":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t, "ru-RU", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/3/find/tt0133093", r.URL.Path)
				assert.Equal(t, "imdb_id", r.URL.Query().Get("external_source"))
				assert.Equal(t, "tmdb-key", r.URL.Query().Get("api_key"))
				assert.Equal(t, "ru-RU", r.URL.Query().Get("language"))
				_, _ = w.Write([]byte(tt.body))
			})
			movie, series, err := g.FindByExternalID(context.Background(), "tt0133093")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMovie, movie, tt.name)
			assert.Equal(t, tt.wantSeries, series, tt.name)
		})
	}
}

func TestSearchTitle(t *testing.T) {
	tests := []struct {
		name      string
		kind      model.MediaKind
		year      int
		wantPath  string
		wantQuery map[string]string
		body      string
		want      []model.CanonicalMedia
	}{
		{
			name:      "movie with year",
			kind:      model.MediaKindMovie,
			year:      1997,
			wantPath:  "/3/search/movie",
			wantQuery: map[string]string{"query": "Брат", "year": "1997", "first_air_date_year": ""},
			body:      `{"page":1,"results":[{"id":20992,"title":"Brother","release_date":"1997-05-17"},{"id":1,"title":"Brother 2"}]}`,
			want: []model.CanonicalMedia{
				{TmdbID: 20992, Title: "Brother", Kind: model.MediaKindMovie, ReleaseDate: "1997-05-17"},
				{TmdbID: 1, Title: "Brother 2", Kind: model.MediaKindMovie},
			},
		},
		{
			name:      "series without year",
			kind:      model.MediaKindTV,
			wantPath:  "/3/search/tv",
			wantQuery: map[string]string{"query": "Dark", "year": "", "first_air_date_year": ""},
			body:      `{"results":[{"id":70523,"name":"Dark","first_air_date":"2017-12-01"}]}`,
			want: []model.CanonicalMedia{
				{TmdbID: 70523, Title: "Dark", Kind: model.MediaKindTV, ReleaseDate: "2017-12-01"},
			},
		},
		{
			name:      "series with year",
			kind:      model.MediaKindTV,
			year:      2017,
			wantPath:  "/3/search/tv",
			wantQuery: map[string]string{"query": "Dark", "first_air_date_year": "2017", "year": ""},
			body:      `{"results":[]}`,
			want:      []model.CanonicalMedia{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t, "", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				for k, v := range tt.wantQuery {
					assert.Equal(t, v, r.URL.Query().Get(k), k)
				}
				assert.False(t, r.URL.Query().Has("language"))
				_, _ = w.Write([]byte(tt.body))
			})
			got, err := g.SearchTitle(context.Background(), tt.wantQuery["query"], tt.year, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, tt.name)
		})
	}
}

func TestErrorStatusIsTransport(t *testing.T) {
	g := newGateway(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, _, err := g.FindByExternalID(context.Background(), "tt1")
	assert.ErrorIs(t, err, gateway.ErrTransport)
	_, err = g.SearchTitle(context.Background(), "x", 0, model.MediaKindMovie)
	assert.ErrorIs(t, err, gateway.ErrTransport)
}
