package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/pkg/logger"
	"ai-story-api/pkg/metrics"
)

// StoryCache 故事列表的 Read-Through 缓存装饰器
//
// 缓存键包含一个代数（generation），每次写入成功后递增，
// 因此写入返回后发起的读取不会命中旧页。Redis 不可用时直接回源。
// 递增失败时标记为 dirty，之后的读取先补做递增，补做成功前一律回源。
type StoryCache struct {
	repository.StoryRepository

	cache  *Cache
	ttl    time.Duration
	prefix string
	dirty  atomic.Bool
}

// NewStoryCache 创建故事列表缓存
func NewStoryCache(inner repository.StoryRepository, cache *Cache, ttl time.Duration, prefix string) *StoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if prefix == "" {
		prefix = "stories"
	}
	return &StoryCache{
		StoryRepository: inner,
		cache:           cache,
		ttl:             ttl,
		prefix:          prefix,
	}
}

// Save 保存故事并使列表缓存失效
func (c *StoryCache) Save(ctx context.Context, prompt, title, story string) (*entity.Story, error) {
	s, err := c.StoryRepository.Save(ctx, prompt, title, story)
	if err != nil {
		return nil, err
	}
	c.bump(ctx)
	return s, nil
}

// Delete 删除故事并使列表缓存失效
func (c *StoryCache) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := c.StoryRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.bump(ctx)
	}
	return deleted, nil
}

// List 优先从缓存读取分页结果
func (c *StoryCache) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.StoryRepository.List(ctx, page)
	}

	key := fmt.Sprintf("%s:v%d:page:%d:%d", c.prefix, gen, page.Page, page.PageSize)
	data, hit, err := c.cache.GetOrLoad(ctx, key, c.ttl, func(ctx context.Context) (interface{}, error) {
		return c.StoryRepository.List(ctx, page)
	})
	if err != nil {
		return nil, err
	}
	c.record(hit)

	var result repository.PagedResult[*entity.Story]
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached page: %w", err)
	}
	if result.Items == nil {
		result.Items = []*entity.Story{}
	}
	return &result, nil
}

// GetAll 优先从缓存读取全部故事
func (c *StoryCache) GetAll(ctx context.Context) ([]*entity.Story, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.StoryRepository.GetAll(ctx)
	}

	key := fmt.Sprintf("%s:v%d:all", c.prefix, gen)
	data, hit, err := c.cache.GetOrLoad(ctx, key, c.ttl, func(ctx context.Context) (interface{}, error) {
		return c.StoryRepository.GetAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.record(hit)

	stories := make([]*entity.Story, 0)
	if err := json.Unmarshal(data, &stories); err != nil {
		return nil, fmt.Errorf("decode cached stories: %w", err)
	}
	return stories, nil
}

func (c *StoryCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *StoryCache) generation(ctx context.Context) (int64, bool) {
	if c.dirty.Load() {
		// 上次失效未成功，先补做
		gen, err := c.cache.Incr(ctx, c.versionKey())
		if err != nil {
			metrics.StoryCacheTotal.WithLabelValues("error").Inc()
			logger.Warn(ctx, "story cache invalidation pending, reading from store", "error", err.Error())
			return 0, false
		}
		c.dirty.Store(false)
		return gen, true
	}

	gen, err := c.cache.GetInt(ctx, c.versionKey())
	if err != nil {
		metrics.StoryCacheTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "story cache unavailable, reading from store", "error", err.Error())
		return 0, false
	}
	return gen, true
}

func (c *StoryCache) bump(ctx context.Context) {
	if _, err := c.cache.Incr(ctx, c.versionKey()); err != nil {
		c.dirty.Store(true)
		logger.Error(ctx, "failed to invalidate story cache, bypassing it until invalidation succeeds", err)
		return
	}
	c.dirty.Store(false)
}

func (c *StoryCache) record(hit bool) {
	if hit {
		metrics.StoryCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	metrics.StoryCacheTotal.WithLabelValues("miss").Inc()
}
