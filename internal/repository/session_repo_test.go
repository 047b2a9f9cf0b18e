package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/siscrap/internal/config"
	"github.com/timmy/siscrap/internal/domain"
)

func newTestRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", AutoMigrate: true, MaxOpenConns: 1})
	require.NoError(t, err)
	return NewSessionRepository(db)
}

func TestSessionRepository_SaveLoadDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, &domain.Session{Token: "t1", UserID: 3, Name: "Ana", Email: "ana@x"}))
	require.NoError(t, repo.Save(ctx, &domain.Session{Token: "t2", UserID: 3, Name: "Ana", Email: "ana@x"}))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t2", got.Token)
	assert.Equal(t, int64(3), got.UserID)

	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Delete(ctx))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
