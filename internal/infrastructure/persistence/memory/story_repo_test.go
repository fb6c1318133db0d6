package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/domain/repository"
	"ai-story-api/internal/domain/repository/repotest"
)

func TestStoryRepositoryContract(t *testing.T) {
	repotest.RunStoryRepositoryContract(t, func(t *testing.T) repository.StoryRepository {
		return NewStoryRepository(nil)
	})
}

func TestStoryRepositoryOrdersByCreatedAtThenID(t *testing.T) {
	repo := NewStoryRepository(nil)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	a, err := repo.Save(context.Background(), "p", "a", "s")
	require.NoError(t, err)
	b, err := repo.Save(context.Background(), "p", "b", "s")
	require.NoError(t, err)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
}

func TestStoryRepositoryHonorsCancelledContext(t *testing.T) {
	repo := NewStoryRepository(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Save(ctx, "p", "t", "s")
	assert.ErrorIs(t, err, context.Canceled)
	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}
