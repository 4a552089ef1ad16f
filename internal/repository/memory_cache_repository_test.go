package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/nlcorner/admin-api/pkg/errors"
)

func TestMemoryCacheRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryCacheRepository()

	type payload struct {
		Total int `json:"total"`
	}
	require.NoError(t, repo.Set(context.Background(), "overview:stats", payload{Total: 12}, time.Minute))

	var got payload
	require.NoError(t, repo.Get(context.Background(), "overview:stats", &got))
	require.Equal(t, 12, got.Total)
}

func TestMemoryCacheRepositoryMissOnUnknownKey(t *testing.T) {
	repo := NewMemoryCacheRepository()

	var got string
	err := repo.Get(context.Background(), "nothing-here", &got)
	require.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestMemoryCacheRepositoryExpiry(t *testing.T) {
	repo := NewMemoryCacheRepository()
	base := time.Now()
	repo.now = func() time.Time { return base }

	require.NoError(t, repo.Set(context.Background(), "short-lived", "value", 30*time.Second))

	var got string
	require.NoError(t, repo.Get(context.Background(), "short-lived", &got))

	repo.now = func() time.Time { return base.Add(31 * time.Second) }
	err := repo.Get(context.Background(), "short-lived", &got)
	require.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository()
	require.NoError(t, repo.Set(context.Background(), "overview:stats", 1, time.Minute))
	require.NoError(t, repo.Set(context.Background(), "overview:trend", 2, time.Minute))
	require.NoError(t, repo.Set(context.Background(), "auth:user-1", 3, time.Minute))

	require.NoError(t, repo.DeleteByPattern(context.Background(), "overview:*"))

	var got int
	require.ErrorIs(t, repo.Get(context.Background(), "overview:stats", &got), appErrors.ErrCacheMiss)
	require.ErrorIs(t, repo.Get(context.Background(), "overview:trend", &got), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Get(context.Background(), "auth:user-1", &got))
	require.Equal(t, 3, got)
}
