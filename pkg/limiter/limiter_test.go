package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLimit(t *testing.T) {
	l := New(zap.NewNop(), 1, 2)
	assert.False(t, l.Limit())
	assert.False(t, l.Limit())
	assert.True(t, l.Limit(), "third event within a second exceeds burst")
}

func TestLimitDisabled(t *testing.T) {
	l := New(zap.NewNop(), 0, 0)
	for i := 0; i < 100; i++ {
		assert.False(t, l.Limit())
	}
}

func TestWaitHonoursContext(t *testing.T) {
	l := New(zap.NewNop(), 0.001, 1)
	assert.False(t, l.Limit())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx))
}
