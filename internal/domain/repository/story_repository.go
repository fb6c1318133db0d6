package repository

import (
	"context"

	"ai-story-api/internal/domain/entity"
)

// StoryRepository 故事仓储接口
//
// 实现需保证：ID 与创建时间由仓储分配且 ID 永不复用；
// 列表按 created_at DESC, id DESC 排序；读取返回副本。
type StoryRepository interface {
	// Save 保存故事并返回带 ID 与创建时间的记录
	Save(ctx context.Context, prompt, title, story string) (*entity.Story, error)

	// List 分页列出故事，超出最后一页返回空列表
	List(ctx context.Context, page Pagination) (*PagedResult[*entity.Story], error)

	// GetAll 返回全部故事
	GetAll(ctx context.Context) ([]*entity.Story, error)

	// Delete 删除故事，记录不存在时返回 false
	Delete(ctx context.Context, id string) (bool, error)

	// Count 返回故事总数
	Count(ctx context.Context) (int64, error)
}

// HealthChecker 存储健康检查
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
