package memory

import (
	"context"
	"mediatracker/kinopoisk/internal/repository"
	"mediatracker/kinopoisk/pkg/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	r := New(zaptest.NewLogger(t))

	_, err := r.ListByUser(ctx, "u1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	start := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Put(ctx, &model.ImportRun{ID: "old", UserID: "u1", StartedAt: start}))
	require.NoError(t, r.Put(ctx, &model.ImportRun{ID: "new", UserID: "u1", StartedAt: start.Add(time.Hour)}))
	require.NoError(t, r.Put(ctx, &model.ImportRun{ID: "other", UserID: "u2", StartedAt: start}))
	assert.Error(t, r.Put(ctx, nil))

	runs, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
}
