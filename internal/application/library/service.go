// Package library 故事库应用服务：保存、列表与删除
package library

import (
	"context"
	"strings"

	"ai-story-api/internal/application/story"
	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	apperrors "ai-story-api/pkg/errors"
	"ai-story-api/pkg/logger"
	"ai-story-api/pkg/metrics"
)

// Publisher 故事事件发布端口
type Publisher interface {
	PublishStoryEvent(ctx context.Context, event *entity.StoryEvent) error
}

// NopPublisher 不发布任何事件
type NopPublisher struct{}

// PublishStoryEvent 实现 Publisher
func (NopPublisher) PublishStoryEvent(context.Context, *entity.StoryEvent) error { return nil }

// SaveInput 保存请求
type SaveInput struct {
	Prompt string
	Title  string
	Story  string
}

// Service 故事库服务
type Service struct {
	repo      repository.StoryRepository
	publisher Publisher
}

// NewService 创建故事库服务
func NewService(repo repository.StoryRepository, publisher Publisher) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher}
}

// Save 校验并保存故事
func (s *Service) Save(ctx context.Context, in SaveInput) (*entity.Story, error) {
	prompt := strings.TrimSpace(in.Prompt)
	body := strings.TrimSpace(in.Story)
	if prompt == "" || body == "" {
		return nil, apperrors.Validation("both prompt and story are required")
	}

	title := strings.TrimSpace(strings.ReplaceAll(in.Title, "*", ""))
	if title == "" {
		title = story.FallbackTitle(prompt)
	}

	saved, err := s.repo.Save(ctx, prompt, title, body)
	if err != nil {
		metrics.LibraryOperationsTotal.WithLabelValues("save", "error").Inc()
		return nil, storageError(err, "failed to save story")
	}
	metrics.LibraryOperationsTotal.WithLabelValues("save", "success").Inc()
	logger.Info(ctx, "story saved", "story_id", saved.ID)

	s.publish(ctx, entity.NewStoryEvent(entity.StoryEventSaved, saved.ID, saved.Title))
	return saved, nil
}

// List 分页列出故事
func (s *Service) List(ctx context.Context, page, limit int) (*repository.PagedResult[*entity.Story], error) {
	p := repository.NewPagination(page, limit)
	if err := p.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	result, err := s.repo.List(ctx, p)
	if err != nil {
		metrics.LibraryOperationsTotal.WithLabelValues("list", "error").Inc()
		return nil, storageError(err, "failed to list stories")
	}
	metrics.LibraryOperationsTotal.WithLabelValues("list", "success").Inc()
	return result, nil
}

// GetAll 返回全部故事
func (s *Service) GetAll(ctx context.Context) ([]*entity.Story, error) {
	stories, err := s.repo.GetAll(ctx)
	if err != nil {
		metrics.LibraryOperationsTotal.WithLabelValues("get_all", "error").Inc()
		return nil, storageError(err, "failed to list stories")
	}
	metrics.LibraryOperationsTotal.WithLabelValues("get_all", "success").Inc()
	if stories == nil {
		stories = []*entity.Story{}
	}
	return stories, nil
}

// Delete 删除故事，返回记录是否存在
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, apperrors.Validation("story id is required")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.LibraryOperationsTotal.WithLabelValues("delete", "error").Inc()
		return false, storageError(err, "failed to delete story")
	}
	if !deleted {
		metrics.LibraryOperationsTotal.WithLabelValues("delete", "not_found").Inc()
		return false, nil
	}
	metrics.LibraryOperationsTotal.WithLabelValues("delete", "success").Inc()
	logger.Info(ctx, "story deleted", "story_id", id)

	s.publish(ctx, entity.NewStoryEvent(entity.StoryEventDeleted, id, ""))
	return true, nil
}

// publish 尽力发布事件，失败只记录日志
func (s *Service) publish(ctx context.Context, event *entity.StoryEvent) {
	if err := s.publisher.PublishStoryEvent(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish story event",
			"type", string(event.Type),
			"story_id", event.StoryID,
			"error", err.Error(),
		)
	}
}

func storageError(err error, msg string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Storage(err, msg)
}
