package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpenOnce(t *testing.T) {
	api := &fakeAPI{tasks: scenarioTasks()}
	r := NewRegistry(api)
	ctx := context.Background()

	c1, err := r.Open(ctx, 5)
	require.NoError(t, err)
	c2, err := r.Open(ctx, 5)
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	lists, _ := api.counts()
	assert.Equal(t, 1, lists)

	r.Reset()
	c3, err := r.Open(ctx, 5)
	require.NoError(t, err)
	assert.NotSame(t, c1, c3)
}

func TestRegistry_RejectsMissingBatch(t *testing.T) {
	_, err := NewRegistry(&fakeAPI{}).Open(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoBatch)
}

func TestRegistry_FailedOpenNotKept(t *testing.T) {
	api := &fakeAPI{listErr: errBackend}
	r := NewRegistry(api)

	_, err := r.Open(context.Background(), 2)
	require.Error(t, err)

	api.mu.Lock()
	api.listErr = nil
	api.mu.Unlock()
	_, err = r.Open(context.Background(), 2)
	require.NoError(t, err)
}
