package postgres

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/pkg/utils"
)

const storyOrder = "created_at DESC, id DESC"

// StoryRepository 故事仓储实现
type StoryRepository struct {
	client *Client
	ids    *utils.IDGenerator
}

// NewStoryRepository 创建故事仓储
func NewStoryRepository(client *Client, ids *utils.IDGenerator) *StoryRepository {
	if ids == nil {
		ids = utils.NewIDGenerator()
	}
	return &StoryRepository{client: client, ids: ids}
}

// Save 保存故事
func (r *StoryRepository) Save(ctx context.Context, prompt, title, story string) (*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Save")
	defer span.End()

	s := entity.NewStory(prompt, title, story)
	s.ID = r.ids.New()
	// Postgres timestamptz 精度为微秒
	s.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := r.client.db.WithContext(ctx).Create(s).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save story: %w", err)
	}
	span.SetAttributes(attribute.String("story.id", s.ID))
	return s, nil
}

// List 分页列出故事
func (r *StoryRepository) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.List")
	defer span.End()

	db := r.client.db.WithContext(ctx)

	var total int64
	if err := db.Model(&entity.Story{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count stories: %w", err)
	}
	if page.Beyond(total) {
		return repository.NewPagedResult[*entity.Story](nil, total, page), nil
	}

	var stories []*entity.Story
	if err := db.Order(storyOrder).Offset(page.Offset()).Limit(page.Limit()).Find(&stories).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return repository.NewPagedResult(stories, total, page), nil
}

// GetAll 返回全部故事
func (r *StoryRepository) GetAll(ctx context.Context) ([]*entity.Story, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.GetAll")
	defer span.End()

	stories := make([]*entity.Story, 0)
	if err := r.client.db.WithContext(ctx).Order(storyOrder).Find(&stories).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// Delete 删除故事
func (r *StoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.StoryRepository.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("story.id", id))

	result := r.client.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Story{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return false, fmt.Errorf("failed to delete story: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count 返回故事总数
func (r *StoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.client.db.WithContext(ctx).Model(&entity.Story{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count stories: %w", err)
	}
	return total, nil
}

// HealthCheck 检查数据库连接
func (r *StoryRepository) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}
