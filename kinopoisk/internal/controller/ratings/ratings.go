package ratings

import (
	"context"
	"errors"
	"fmt"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ErrEmptyUserID is returned when no source user id is given.
var ErrEmptyUserID = errors.New("kinopoisk user id is empty")

// ErrNothingConverted is returned when a non-empty batch produced no review.
var ErrNothingConverted = errors.New("failed to convert any ratings")

const maxBatchErrorLen = 8 << 10

// BatchError lists every failure of a batch that produced no review.
type BatchError struct {
	Failures []model.FailureDetail
}

func (e *BatchError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrNothingConverted.Error())
	sb.WriteString(". Errors: ")
	for i, f := range e.Failures {
		s := f.String()
		if i > 0 {
			s = "; " + s
		}
		if sb.Len()+len(s) > maxBatchErrorLen {
			fmt.Fprintf(&sb, "; and %d more", len(e.Failures)-i)
			break
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func (e *BatchError) Unwrap() error {
	return ErrNothingConverted
}

type ratingsGateway interface {
	FetchRatingsPage(ctx context.Context, userID string, page int) (*model.RatingsPage, error)
}

type mediaResolver interface {
	Resolve(ctx context.Context, sourceID int) (*model.Resolution, error)
}

type reviewGateway interface {
	CreateReview(ctx context.Context, req *model.CreateReviewRequest) (*model.Review, error)
}

// Importer fetches the complete rating history of a source catalog user.
type Importer struct {
	gateway ratingsGateway
	logger  *zap.Logger
}

// NewImporter creates a rating importer.
func NewImporter(gateway ratingsGateway, logger *zap.Logger) *Importer {
	logger = logger.With(
		zap.String(logging.FieldComponent, "importer"),
	)
	return &Importer{gateway: gateway, logger: logger}
}

// ImportAllRatings fetches page 1, then pages 2..TotalPages in order. An
// empty page ends the import. A failed page or cancellation ends the import
// too, and the ratings gathered so far are still returned without error.
func (i *Importer) ImportAllRatings(ctx context.Context, userID string) (*model.RatingImport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	logger := i.logger.With(zap.String(logging.FieldUserID, userID))
	res := &model.RatingImport{Ratings: []model.RawRating{}, StopReason: model.StopCompleted}
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			res.StopReason = model.StopCanceled
			res.LastError = err
			break
		}
		p, err := i.gateway.FetchRatingsPage(ctx, userID, page)
		if err != nil {
			res.StopReason = model.StopPageError
			if ctx.Err() != nil {
				res.StopReason = model.StopCanceled
			}
			res.LastError = err
			logger.Error("Failed to import ratings page, keeping partial result",
				zap.Int("page", page),
				zap.Int("imported", len(res.Ratings)),
				zap.Error(err),
			)
			break
		}
		res.PagesFetched++
		if page == 1 {
			res.TotalPages = p.TotalPages
		}
		if len(p.Items) == 0 {
			if res.TotalPages > 0 {
				res.StopReason = model.StopEmptyPage
			}
			break
		}
		res.Ratings = append(res.Ratings, p.Items...)
		if page >= res.TotalPages {
			break
		}
	}
	logger.Info("Imported ratings",
		zap.Int("count", len(res.Ratings)),
		zap.Int("pages", res.PagesFetched),
		zap.Int("totalPages", res.TotalPages),
		zap.String("stopReason", string(res.StopReason)),
	)
	return res, nil
}

// Converter turns imported ratings into reviews of canonical media.
type Converter struct {
	resolver mediaResolver
	reviews  reviewGateway
	workers  int
	logger   *zap.Logger
}

// NewConverter creates a batch converter running at most workers
// conversions at a time.
func NewConverter(resolver mediaResolver, reviews reviewGateway, workers int, logger *zap.Logger) *Converter {
	logger = logger.With(
		zap.String(logging.FieldComponent, "converter"),
	)
	if workers < 1 {
		workers = 1
	}
	return &Converter{resolver: resolver, reviews: reviews, workers: workers, logger: logger}
}

type outcome struct {
	review  *model.Review
	failure *model.FailureDetail
}

// ConvertRatings resolves every rating and creates a review for it. Items
// are independent: a failed item is recorded and never stops the others.
// Results keep the input order. A non-empty batch that created no review
// returns a *BatchError together with the result.
func (c *Converter) ConvertRatings(ctx context.Context, ratings []model.RawRating, user model.User) (*model.BatchResult, error) {
	res := &model.BatchResult{Reviews: []model.Review{}, Failures: []model.FailureDetail{}}
	if len(ratings) == 0 {
		return res, nil
	}
	logger := c.logger.With(zap.String(logging.FieldUserID, user.ID.String()))
	logger.Info("Converting ratings to reviews", zap.Int("count", len(ratings)))

	outcomes := make([]outcome, len(ratings))
	p := pool.New().WithMaxGoroutines(c.workers)
	for i := range ratings {
		p.Go(func() {
			outcomes[i] = c.convert(ctx, logger, &ratings[i], user)
		})
	}
	p.Wait()

	for _, o := range outcomes {
		if o.review != nil {
			res.Reviews = append(res.Reviews, *o.review)
		} else if o.failure != nil {
			res.Failures = append(res.Failures, *o.failure)
		}
	}
	logger.Info("Converted ratings to reviews",
		zap.Int("converted", len(res.Reviews)),
		zap.Int("total", len(ratings)),
		zap.Int("failed", len(res.Failures)),
	)
	if len(res.Reviews) == 0 {
		return res, &BatchError{Failures: res.Failures}
	}
	return res, nil
}

func (c *Converter) convert(ctx context.Context, logger *zap.Logger, rating *model.RawRating, user model.User) outcome {
	fail := func(title string, stage model.FailureStage, err error) outcome {
		if ctx.Err() != nil {
			stage = model.StageCanceled
		}
		logger.Warn("Failed to convert rating",
			zap.Int(logging.FieldSourceID, rating.SourceID),
			zap.String(logging.FieldTitle, title),
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return outcome{failure: &model.FailureDetail{
			SourceID: rating.SourceID,
			Title:    title,
			Stage:    stage,
			Reason:   err.Error(),
		}}
	}
	if err := ctx.Err(); err != nil {
		return fail(rating.DisplayTitle(), model.StageCanceled, err)
	}

	res, err := c.resolver.Resolve(ctx, rating.SourceID)
	if err != nil {
		return fail(rating.DisplayTitle(), model.StageResolve, err)
	}
	media := &res.Media
	title := media.Title
	if title == "" {
		title = rating.DisplayTitle()
	}
	review, err := c.reviews.CreateReview(ctx, &model.CreateReviewRequest{
		AuthorID:      user.ID,
		AuthorName:    user.Name,
		Content:       GenerateContent(rating, media),
		Rating:        rating.UserRating,
		ReferenceID:   media.TmdbID,
		ReferenceType: media.Kind.ReferenceType(),
	})
	if err != nil {
		return fail(title, model.StageReview, err)
	}
	logger.Info("Created review",
		zap.Int(logging.FieldSourceID, rating.SourceID),
		zap.Int(logging.FieldMediaID, media.TmdbID),
		zap.String(logging.FieldTitle, title),
	)
	return outcome{review: review}
}
