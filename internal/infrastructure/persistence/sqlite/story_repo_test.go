package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/domain/repository"
	"ai-story-api/internal/domain/repository/repotest"
)

func openTestRepo(t *testing.T, path string) *StoryRepository {
	t.Helper()
	repo, err := Open(path, 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestStoryRepositoryContract(t *testing.T) {
	repotest.RunStoryRepositoryContract(t, func(t *testing.T) repository.StoryRepository {
		return openTestRepo(t, filepath.Join(t.TempDir(), "stories.db"))
	})
}

func TestStoryRepositoryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stories.db")
	ctx := context.Background()

	repo, err := Open(path, 0, nil)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, "p", "Persisted", "body")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened := openTestRepo(t, path)
	all, err := reopened.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved.ID, all[0].ID)
	assert.Equal(t, "Persisted", all[0].Title)
	assert.True(t, saved.CreatedAt.Equal(all[0].CreatedAt))
	assert.NoError(t, reopened.HealthCheck(ctx))
}
