//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"ai-story-api/internal/application/library"
	"ai-story-api/internal/application/story"
	"ai-story-api/internal/config"
	"ai-story-api/internal/infrastructure/llm"
	"ai-story-api/internal/interfaces/http/handler"
	"ai-story-api/internal/interfaces/http/router"
	"ai-story-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StorageSet,
		RedisSet,
		GenerationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeLibrary 仅初始化故事库（用于命令行工具）
func InitializeLibrary(ctx context.Context, cfg *config.Config) (*Library, func(), error) {
	wire.Build(
		StorageSet,
		RedisSet,
		library.NewService,
		wire.Struct(new(Library), "*"),
	)
	return nil, nil, nil
}

// StorageSet 存储提供者集合
var StorageSet = wire.NewSet(
	ProvideIDGenerator,
	ProvideStoryStore,
)

// RedisSet 可选 Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideStoryRepository,
	ProvidePublisher,
)

// GenerationSet 故事生成提供者集合
var GenerationSet = wire.NewSet(
	llm.NewFactory,
	ProvideStoryProvider,
	prompt.NewRegistry,
	story.NewPayloadBuilder,
	story.NewOrchestrator,
	wire.Bind(new(handler.StoryGenerator), new(*story.Orchestrator)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	library.NewService,
	ProvideRateLimiter,
	ProvideHealthHandler,
	handler.NewStoryHandler,
	router.New,
)
