// Package repotest 提供 StoryRepository 实现共用的契约测试
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
)

// Factory 为每个子测试创建一个空仓储
type Factory func(t *testing.T) repository.StoryRepository

// RunStoryRepositoryContract 对仓储实现执行通用行为测试
func RunStoryRepositoryContract(t *testing.T, newRepo Factory) {
	t.Run("SaveAssignsIDAndTimestamp", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		s, err := repo.Save(ctx, "a prompt", "A Title", "the story")
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.False(t, s.CreatedAt.IsZero())
		assert.Equal(t, "a prompt", s.Prompt)
		assert.Equal(t, "A Title", s.Title)
		assert.Equal(t, "the story", s.Story)

		other, err := repo.Save(ctx, "a prompt", "A Title", "the story")
		require.NoError(t, err)
		assert.NotEqual(t, s.ID, other.ID)
	})

	t.Run("NewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			_, err := repo.Save(ctx, "p", fmt.Sprintf("t%d", i), "s")
			require.NoError(t, err)
		}
		latest, err := repo.Save(ctx, "p", "latest", "s")
		require.NoError(t, err)

		page, err := repo.List(ctx, repository.NewPagination(1, 10))
		require.NoError(t, err)
		require.Len(t, page.Items, 4)
		assert.Equal(t, latest.ID, page.Items[0].ID)
		assert.Equal(t, "t0", page.Items[3].Title)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, latest.ID, all[0].ID)
	})

	t.Run("Pagination", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 25; i++ {
			_, err := repo.Save(ctx, "p", fmt.Sprintf("t%02d", i), "s")
			require.NoError(t, err)
		}

		third, err := repo.List(ctx, repository.NewPagination(3, 10))
		require.NoError(t, err)
		assert.Len(t, third.Items, 5)
		assert.Equal(t, int64(25), third.Total)
		assert.Equal(t, 3, third.TotalPages)
		assert.Equal(t, "t04", third.Items[0].Title)

		fourth, err := repo.List(ctx, repository.NewPagination(4, 10))
		require.NoError(t, err)
		assert.NotNil(t, fourth.Items)
		assert.Empty(t, fourth.Items)
		assert.Equal(t, int64(25), fourth.Total)

		first, err := repo.List(ctx, repository.NewPagination(1, 10))
		require.NoError(t, err)
		again, err := repo.List(ctx, repository.NewPagination(1, 10))
		require.NoError(t, err)
		assert.Equal(t, ids(first.Items), ids(again.Items))
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		keep, err := repo.Save(ctx, "p", "keep", "s")
		require.NoError(t, err)
		drop, err := repo.Save(ctx, "p", "drop", "s")
		require.NoError(t, err)

		ok, err := repo.Delete(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.False(t, ok)
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ok, err = repo.Delete(ctx, drop.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, drop.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{keep.ID}, ids(all))
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		saved, err := repo.Save(ctx, "p", "original", "s")
		require.NoError(t, err)
		saved.Title = "mutated"

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "original", all[0].Title)
		all[0].Title = "mutated again"

		page, err := repo.List(ctx, repository.NewPagination(1, 10))
		require.NoError(t, err)
		assert.Equal(t, "original", page.Items[0].Title)
	})

	t.Run("ConcurrentSaves", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Save(ctx, "p", fmt.Sprintf("c%d", i), "s")
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, n)
		seen := make(map[string]struct{}, n)
		for _, s := range all {
			seen[s.ID] = struct{}{}
		}
		assert.Len(t, seen, n)
	})
}

func ids(items []*entity.Story) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
