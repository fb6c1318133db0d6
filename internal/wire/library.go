package wire

import (
	"ai-story-api/internal/application/library"
	"ai-story-api/internal/infrastructure/persistence/redis"
)

// Library 命令行工具使用的依赖容器
type Library struct {
	Store   *StoryStore
	Service *library.Service
	// Redis 未启用时为 nil
	Redis *redis.Client
}
