package kinopoisk

import (
	"context"
	"errors"
	"mediatracker/kinopoisk/internal/controller/ratings"
	"mediatracker/kinopoisk/internal/controller/resolver"
	"mediatracker/kinopoisk/internal/gateway"
	"mediatracker/kinopoisk/internal/repository"
	"mediatracker/kinopoisk/pkg/model"
	"testing"
	"time"

	gen "mediatracker/gen/mock/kinopoisk/controller"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var testUser = model.User{ID: uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"), Name: "neo"}

type mocks struct {
	importer  *gen.MockratingImporter
	converter *gen.MockratingConverter
	resolver  *gen.MockmediaResolver
	repo      *gen.MockrunRepository
	publisher *gen.MockeventPublisher
}

func newController(t *testing.T) (*Controller, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		importer:  gen.NewMockratingImporter(ctrl),
		converter: gen.NewMockratingConverter(ctrl),
		resolver:  gen.NewMockmediaResolver(ctrl),
		repo:      gen.NewMockrunRepository(ctrl),
		publisher: gen.NewMockeventPublisher(ctrl),
	}
	c := New(m.importer, m.converter, m.resolver, m.repo, m.publisher, zap.NewNop())
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, m
}

func TestImportAndConvert(t *testing.T) {
	ratingsList := []model.RawRating{{SourceID: 1}, {SourceID: 2}, {SourceID: 3}}
	reviews := []model.Review{{ReferenceID: 11}, {ReferenceID: 22}}
	failures := []model.FailureDetail{{SourceID: 3, Stage: model.StageResolve, Reason: "no canonical match"}}
	batchErr := &ratings.BatchError{Failures: failures}

	tests := []struct {
		name        string
		imp         *model.RatingImport
		convert     bool
		batch       *model.BatchResult
		batchErr    error
		want        *model.ImportSummary
		wantErr     error
		wantStatus  model.ImportStatus
		publishFail bool
	}{
		{
			name:    "partial conversion",
			imp:     &model.RatingImport{Ratings: ratingsList, PagesFetched: 1, TotalPages: 1, StopReason: model.StopCompleted},
			convert: true,
			batch:   &model.BatchResult{Reviews: reviews, Failures: failures},
			want: &model.ImportSummary{
				TotalImported: 3, TotalConverted: 2, Reviews: reviews, Failures: failures,
			},
			wantStatus: model.ImportStatusPartial,
		},
		{
			name:    "all converted",
			imp:     &model.RatingImport{Ratings: ratingsList[:2], PagesFetched: 2, TotalPages: 2, StopReason: model.StopEmptyPage},
			convert: true,
			batch:   &model.BatchResult{Reviews: reviews, Failures: []model.FailureDetail{}},
			want: &model.ImportSummary{
				TotalImported: 2, TotalConverted: 2, Reviews: reviews, Failures: []model.FailureDetail{},
			},
			wantStatus:  model.ImportStatusSucceeded,
			publishFail: true,
		},
		{
			name:    "no ratings at all",
			imp:     &model.RatingImport{Ratings: []model.RawRating{}, PagesFetched: 1, StopReason: model.StopCompleted},
			convert: true,
			batch:   &model.BatchResult{Reviews: []model.Review{}, Failures: []model.FailureDetail{}},
			want: &model.ImportSummary{
				Reviews: []model.Review{}, Failures: []model.FailureDetail{},
			},
			wantStatus: model.ImportStatusSucceeded,
		},
		{
			name:     "nothing converted",
			imp:      &model.RatingImport{Ratings: ratingsList[2:], PagesFetched: 1, StopReason: model.StopCompleted},
			convert:  true,
			batch:    &model.BatchResult{Reviews: []model.Review{}, Failures: failures},
			batchErr: batchErr,
			want: &model.ImportSummary{
				TotalImported: 1, Reviews: []model.Review{}, Failures: failures,
			},
			wantErr:    ratings.ErrNothingConverted,
			wantStatus: model.ImportStatusFailed,
		},
		{
			name:       "first page failed",
			imp:        &model.RatingImport{Ratings: []model.RawRating{}, StopReason: model.StopPageError, LastError: gateway.ErrRemote},
			wantErr:    ErrImportFailed,
			wantStatus: model.ImportStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newController(t)
			ctx := context.Background()
			m.importer.EXPECT().ImportAllRatings(ctx, "kp-1").Return(tt.imp, nil)
			if tt.convert {
				m.converter.EXPECT().ConvertRatings(ctx, tt.imp.Ratings, testUser).Return(tt.batch, tt.batchErr)
			}
			var stored *model.ImportRun
			m.repo.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, run *model.ImportRun) error {
				stored = run
				return nil
			})
			var publishErr error
			if tt.publishFail {
				publishErr = errors.New("broker down")
			}
			m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev *model.ImportEvent) error {
				assert.Equal(t, tt.wantStatus, ev.Status)
				assert.Equal(t, testUser.ID.String(), ev.UserID)
				return publishErr
			})

			got, err := c.ImportAndConvert(ctx, "kp-1", testUser)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr, tt.name)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got, tt.name)
			require.NotNil(t, stored)
			assert.Equal(t, tt.wantStatus, stored.Status)
			assert.Equal(t, "kp-1", stored.SourceUserID)
			assert.Equal(t, len(tt.imp.Ratings), stored.TotalImported)
		})
	}
}

func TestImportAndConvertEmptyUser(t *testing.T) {
	c, m := newController(t)
	m.importer.EXPECT().ImportAllRatings(gomock.Any(), "").Return(nil, ratings.ErrEmptyUserID)
	_, err := c.ImportAndConvert(context.Background(), "", testUser)
	assert.ErrorIs(t, err, ratings.ErrEmptyUserID)
}

func TestImportWithoutPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	importer := gen.NewMockratingImporter(ctrl)
	converter := gen.NewMockratingConverter(ctrl)
	repo := gen.NewMockrunRepository(ctrl)
	c := New(importer, converter, gen.NewMockmediaResolver(ctrl), repo, nil, zap.NewNop())

	importer.EXPECT().ImportAllRatings(gomock.Any(), "kp-1").Return(&model.RatingImport{PagesFetched: 1, StopReason: model.StopCompleted}, nil)
	converter.EXPECT().ConvertRatings(gomock.Any(), gomock.Any(), testUser).Return(&model.BatchResult{}, nil)
	repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	got, err := c.ImportAndConvert(context.Background(), "kp-1", testUser)
	require.NoError(t, err, "history failures do not fail the import")
	assert.Equal(t, 0, got.TotalImported)
}

func TestFindMedia(t *testing.T) {
	c, m := newController(t)
	want := &model.Resolution{Media: model.CanonicalMedia{TmdbID: 55}, Strategy: model.StrategyExternalID}
	m.resolver.EXPECT().Resolve(gomock.Any(), 100).Return(want, nil)
	m.resolver.EXPECT().Resolve(gomock.Any(), 101).Return(nil, &resolver.ResolutionError{SourceID: 101, Kind: resolver.ErrNoMatch})

	got, err := c.FindMedia(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	_, err = c.FindMedia(context.Background(), 101)
	assert.ErrorIs(t, err, resolver.ErrNoMatch)
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name    string
		repoRes []model.ImportRun
		repoErr error
		want    []model.ImportRun
		wantErr error
	}{
		{name: "runs", repoRes: []model.ImportRun{{ID: "r1"}}, want: []model.ImportRun{{ID: "r1"}}},
		{name: "none", repoErr: repository.ErrNotFound, want: []model.ImportRun{}},
		{name: "failure", repoErr: errors.New("db down"), wantErr: errors.New("db down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := newController(t)
			m.repo.EXPECT().ListByUser(gomock.Any(), "u1").Return(tt.repoRes, tt.repoErr)
			got, err := c.History(context.Background(), "u1")
			assert.Equal(t, tt.want, got, tt.name)
			assert.Equal(t, tt.wantErr, err, tt.name)
		})
	}
}
