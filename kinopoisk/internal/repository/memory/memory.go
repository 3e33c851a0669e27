package memory

import (
	"context"
	"errors"
	"mediatracker/kinopoisk/internal/repository"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerID = "kinopoisk-repository-memory"

// Repository defines an in-memory import run repository.
type Repository struct {
	sync.RWMutex
	data   map[string][]model.ImportRun
	logger *zap.Logger
}

// New creates a new memory repository.
func New(logger *zap.Logger) *Repository {
	logger = logger.With(
		zap.String(logging.FieldComponent, "repository"),
		zap.String(logging.FieldType, "memory"),
	)
	return &Repository{data: map[string][]model.ImportRun{}, logger: logger}
}

// Put stores an import run.
func (r *Repository) Put(ctx context.Context, run *model.ImportRun) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/Put")
	defer span.End()
	if run == nil {
		return errors.New("import run is nil")
	}
	r.Lock()
	defer r.Unlock()
	r.data[run.UserID] = append(r.data[run.UserID], *run)
	return nil
}

// ListByUser returns the import runs of a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]model.ImportRun, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Repository/ListByUser")
	defer span.End()
	r.RLock()
	defer r.RUnlock()
	runs, ok := r.data[userID]
	if !ok || len(runs) == 0 {
		return nil, repository.ErrNotFound
	}
	res := make([]model.ImportRun, len(runs))
	copy(res, runs)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].StartedAt.After(res[j].StartedAt)
	})
	return res, nil
}
