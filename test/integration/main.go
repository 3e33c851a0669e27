package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mediatracker/kinopoisk/pkg/model"
	kinopoisktest "mediatracker/kinopoisk/pkg/testutil"
	"mediatracker/pkg/discovery"
	"mediatracker/pkg/discovery/memory"
	"net/http"
	"net/http/httptest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

const (
	reviewServiceName = "review"
	sourceUserID      = "kp-user-1"
)

var secret = []byte("integration-secret")

func main() {
	log.Println("Starting the integration test")

	ctx := context.Background()
	registry := memory.NewRegistry()

	log.Println("Setting up fake remote services")
	films := []kinopoisktest.Film{
		{ID: 301, ImdbID: "tt0133093", NameRu: "Матрица", NameOriginal: "The Matrix", Year: 1999, Type: "FILM", KinopoiskRating: 8.5, ImdbRating: 8.7, UserRating: 9},
		{ID: 41519, NameRu: "Брат", Year: 1997, Type: "FILM", KinopoiskRating: 8.3, UserRating: 10},
		{ID: 77, ImdbID: "tt9999999", NameRu: "Неизвестный фильм", Year: 2001, Type: "FILM", KinopoiskRating: 5.1, UserRating: 4},
	}
	kinopoiskSrv := kinopoisktest.NewKinopoiskServer(sourceUserID, 2, films)
	defer kinopoiskSrv.Close()
	tmdbSrv := kinopoisktest.NewTmdbServer([]model.CanonicalMedia{
		{TmdbID: 603, ImdbID: "tt0133093", Title: "The Matrix", OriginalTitle: "The Matrix", Kind: model.MediaKindMovie, ReleaseDate: "1999-03-30", VoteAverage: 8.2},
		{TmdbID: 20992, Title: "Brother", OriginalTitle: "Брат", Kind: model.MediaKindMovie, ReleaseDate: "1997-05-17", VoteAverage: 7.6},
	})
	defer tmdbSrv.Close()
	reviewSrv, reviews := kinopoisktest.NewReviewServer()
	defer reviewSrv.Close()
	id := discovery.GenerateInstanceID(reviewServiceName)
	if err := registry.Register(ctx, id, reviewServiceName, kinopoisktest.HostPort(reviewSrv)); err != nil {
		panic(err)
	}
	defer func() {
		if err := registry.Deregister(ctx, id, reviewServiceName); err != nil {
			log.Printf("Failed to deregister %s: %v", reviewServiceName, err)
		}
	}()

	log.Println("Starting the kinopoisk service")
	h, err := kinopoisktest.NewTestKinopoiskHandler(registry, kinopoiskSrv.URL, tmdbSrv.URL, reviewServiceName, secret)
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	user := model.User{ID: uuid.New(), Name: "neo"}
	token, err := kinopoisktest.SignToken(secret, user)
	if err != nil {
		panic(err)
	}

	log.Println("Importing ratings")
	var summary model.ImportSummary
	if code := call(http.MethodPost, srv.URL+"/kinopoisk/import-ratings/"+sourceUserID, token, &summary); code != http.StatusOK {
		log.Fatalf("import ratings: unexpected status %d", code)
	}
	wantSummary := model.ImportSummary{
		TotalImported:  3,
		TotalConverted: 2,
		Reviews: []model.Review{
			{AuthorID: user.ID, AuthorName: user.Name, Rating: 9, ReferenceID: 603, ReferenceType: model.ReferenceTypeMovie},
			{AuthorID: user.ID, AuthorName: user.Name, Rating: 10, ReferenceID: 20992, ReferenceType: model.ReferenceTypeMovie},
		},
		Failures: []model.FailureDetail{
			{SourceID: 77, Title: "Неизвестный фильм", Stage: model.StageResolve},
		},
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(model.Review{}, "ID", "Content", "CreatedAt"),
		cmpopts.IgnoreFields(model.FailureDetail{}, "Reason"),
	}
	if diff := cmp.Diff(wantSummary, summary, opts); diff != "" {
		log.Fatalf("import summary mismatch: %v", diff)
	}
	if got, want := len(reviews.Reviews()), 2; got != want {
		log.Fatalf("created reviews mismatch: got %d, want %d", got, want)
	}

	log.Println("Resolving a single item")
	var res model.Resolution
	if code := call(http.MethodGet, srv.URL+"/kinopoisk/media/41519", token, &res); code != http.StatusOK {
		log.Fatalf("find media: unexpected status %d", code)
	}
	if res.Strategy != model.StrategyTitleSearch || res.Media.TmdbID != 20992 {
		log.Fatalf("find media mismatch: got %v", res)
	}
	if code := call(http.MethodGet, srv.URL+"/kinopoisk/media/77", token, nil); code != http.StatusNotFound {
		log.Fatalf("find unknown media: got status %d, want %d", code, http.StatusNotFound)
	}

	log.Println("Retrieving the import history")
	var runs []model.ImportRun
	if code := call(http.MethodGet, srv.URL+"/kinopoisk/imports", token, &runs); code != http.StatusOK {
		log.Fatalf("import history: unexpected status %d", code)
	}
	if len(runs) != 1 || runs[0].Status != model.ImportStatusPartial || runs[0].PagesFetched != 2 {
		log.Fatalf("import history mismatch: got %+v", runs)
	}

	log.Println("Checking authentication")
	if code := call(http.MethodGet, srv.URL+"/kinopoisk/imports", "", nil); code != http.StatusUnauthorized {
		log.Fatalf("unauthenticated call: got status %d, want %d", code, http.StatusUnauthorized)
	}

	log.Println("Integration test execution successful")
}

func call(method, url, token string, out any) int {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		panic(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		panic(err)
	}
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(body, out); err != nil {
			panic(fmt.Errorf("decode %s: %w", body, err))
		}
	}
	return resp.StatusCode
}
