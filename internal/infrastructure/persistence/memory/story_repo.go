// Package memory 提供进程内的故事仓储实现，用于开发与测试
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/pkg/utils"
)

// StoryRepository 内存故事仓储
//
// stories 始终按 created_at DESC, id DESC 有序。
type StoryRepository struct {
	mu      sync.RWMutex
	stories []*entity.Story
	index   map[string]struct{}
	ids     *utils.IDGenerator
	now     func() time.Time
}

// NewStoryRepository 创建内存故事仓储
func NewStoryRepository(ids *utils.IDGenerator) *StoryRepository {
	if ids == nil {
		ids = utils.NewIDGenerator()
	}
	return &StoryRepository{
		index: make(map[string]struct{}),
		ids:   ids,
		now:   time.Now,
	}
}

// Save 保存故事
func (r *StoryRepository) Save(ctx context.Context, prompt, title, story string) (*entity.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := entity.NewStory(prompt, title, story)
	s.ID = r.ids.New()
	s.CreatedAt = r.now().UTC()

	pos := sort.Search(len(r.stories), func(i int) bool { return s.Newer(r.stories[i]) })
	r.stories = append(r.stories, nil)
	copy(r.stories[pos+1:], r.stories[pos:])
	r.stories[pos] = s
	r.index[s.ID] = struct{}{}

	return s.Clone(), nil
}

// List 分页列出故事
func (r *StoryRepository) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	start, end := page.Window(len(r.stories))
	return repository.NewPagedResult(cloneAll(r.stories[start:end]), int64(len(r.stories)), page), nil
}

// GetAll 返回全部故事
func (r *StoryRepository) GetAll(ctx context.Context) ([]*entity.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.stories), nil
}

// Delete 删除故事
func (r *StoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[id]; !ok {
		return false, nil
	}
	for i, s := range r.stories {
		if s.ID == id {
			r.stories = append(r.stories[:i], r.stories[i+1:]...)
			break
		}
	}
	delete(r.index, id)
	return true, nil
}

// Count 返回故事总数
func (r *StoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.stories)), nil
}

// HealthCheck 内存仓储总是可用
func (r *StoryRepository) HealthCheck(ctx context.Context) error {
	return nil
}

func cloneAll(src []*entity.Story) []*entity.Story {
	out := make([]*entity.Story, len(src))
	for i, s := range src {
		out[i] = s.Clone()
	}
	return out
}
