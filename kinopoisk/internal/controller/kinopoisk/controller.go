package kinopoisk

import (
	"context"
	"errors"
	"fmt"
	"mediatracker/kinopoisk/internal/repository"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrImportFailed is returned when not a single ratings page could be fetched.
var ErrImportFailed = errors.New("failed to import ratings")

type ratingImporter interface {
	ImportAllRatings(ctx context.Context, userID string) (*model.RatingImport, error)
}

type ratingConverter interface {
	ConvertRatings(ctx context.Context, ratings []model.RawRating, user model.User) (*model.BatchResult, error)
}

type mediaResolver interface {
	Resolve(ctx context.Context, sourceID int) (*model.Resolution, error)
}

type runRepository interface {
	Put(ctx context.Context, run *model.ImportRun) error
	ListByUser(ctx context.Context, userID string) ([]model.ImportRun, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event *model.ImportEvent) error
}

// Controller defines a Kinopoisk import service controller.
type Controller struct {
	importer  ratingImporter
	converter ratingConverter
	resolver  mediaResolver
	repo      runRepository
	publisher eventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Kinopoisk import service controller. The publisher may be nil.
func New(importer ratingImporter, converter ratingConverter, resolver mediaResolver, repo runRepository, publisher eventPublisher, logger *zap.Logger) *Controller {
	logger = logger.With(
		zap.String(logging.FieldComponent, "controller"),
	)
	return &Controller{
		importer:  importer,
		converter: converter,
		resolver:  resolver,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ImportAndConvert imports all ratings of a Kinopoisk user and republishes
// them as reviews authored by user. The summary is returned even when the
// conversion fails as a whole.
func (c *Controller) ImportAndConvert(ctx context.Context, sourceUserID string, user model.User) (*model.ImportSummary, error) {
	run := &model.ImportRun{
		ID:           uuid.NewString(),
		UserID:       user.ID.String(),
		SourceUserID: sourceUserID,
		StartedAt:    c.now(),
	}
	logger := c.logger.With(
		zap.String("runId", run.ID),
		zap.String(logging.FieldUserID, run.UserID),
		zap.String("kinopoiskUserId", sourceUserID),
	)
	logger.Info("Starting Kinopoisk import")

	imp, err := c.importer.ImportAllRatings(ctx, sourceUserID)
	if err != nil {
		return nil, err
	}
	run.StopReason = imp.StopReason
	run.PagesFetched = imp.PagesFetched
	run.TotalImported = len(imp.Ratings)
	if imp.PagesFetched == 0 && imp.LastError != nil {
		run.Status = model.ImportStatusFailed
		c.record(ctx, logger, run)
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, imp.LastError)
	}

	batch, convErr := c.converter.ConvertRatings(ctx, imp.Ratings, user)
	if batch == nil {
		batch = &model.BatchResult{}
	}
	summary := &model.ImportSummary{
		TotalImported:  len(imp.Ratings),
		TotalConverted: len(batch.Reviews),
		Reviews:        batch.Reviews,
		Failures:       batch.Failures,
	}
	run.TotalConverted = summary.TotalConverted
	run.TotalFailed = len(summary.Failures)
	switch {
	case convErr != nil:
		run.Status = model.ImportStatusFailed
	case run.TotalFailed > 0 || (imp.StopReason != model.StopCompleted && imp.StopReason != model.StopEmptyPage):
		run.Status = model.ImportStatusPartial
	default:
		run.Status = model.ImportStatusSucceeded
	}
	c.record(ctx, logger, run)

	logger.Info("Finished Kinopoisk import",
		zap.Int("imported", summary.TotalImported),
		zap.Int("converted", summary.TotalConverted),
		zap.Int("failed", run.TotalFailed),
		zap.String("status", string(run.Status)),
	)
	if convErr != nil {
		return summary, convErr
	}
	return summary, nil
}

// record stores the run and publishes its event. Failures are logged only.
func (c *Controller) record(ctx context.Context, logger *zap.Logger, run *model.ImportRun) {
	ctx = context.WithoutCancel(ctx)
	run.FinishedAt = c.now()
	if err := c.repo.Put(ctx, run); err != nil {
		logger.Warn("Failed to store import run", zap.Error(err))
	}
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, &model.ImportEvent{
		RunID:          run.ID,
		UserID:         run.UserID,
		SourceUserID:   run.SourceUserID,
		Status:         run.Status,
		TotalImported:  run.TotalImported,
		TotalConverted: run.TotalConverted,
		TotalFailed:    run.TotalFailed,
		Timestamp:      run.FinishedAt,
	}); err != nil {
		logger.Warn("Failed to publish import event", zap.Error(err))
	}
}

// FindMedia resolves a single Kinopoisk item.
func (c *Controller) FindMedia(ctx context.Context, sourceID int) (*model.Resolution, error) {
	return c.resolver.Resolve(ctx, sourceID)
}

// History returns the import runs of a user, newest first.
func (c *Controller) History(ctx context.Context, userID string) ([]model.ImportRun, error) {
	runs, err := c.repo.ListByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return []model.ImportRun{}, nil
	} else if err != nil {
		return nil, err
	}
	return runs, nil
}
