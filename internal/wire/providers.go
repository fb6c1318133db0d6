// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"ai-story-api/internal/application/library"
	"ai-story-api/internal/config"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/internal/domain/service"
	"ai-story-api/internal/infrastructure/llm"
	"ai-story-api/internal/infrastructure/messaging"
	"ai-story-api/internal/infrastructure/persistence/memory"
	"ai-story-api/internal/infrastructure/persistence/postgres"
	"ai-story-api/internal/infrastructure/persistence/redis"
	"ai-story-api/internal/infrastructure/persistence/sqlite"
	"ai-story-api/internal/interfaces/http/handler"
	"ai-story-api/internal/interfaces/http/middleware"
	"ai-story-api/pkg/logger"
	"ai-story-api/pkg/utils"
)

// StoryStore 按配置选择的故事存储
type StoryStore struct {
	Driver string
	Repo   repository.StoryRepository
	Health repository.HealthChecker
}

// ProvideIDGenerator 提供 ID 生成器
func ProvideIDGenerator() *utils.IDGenerator {
	return utils.NewIDGenerator()
}

// ProvideStoryStore 按 storage.driver 打开故事存储
func ProvideStoryStore(ctx context.Context, cfg *config.Config, ids *utils.IDGenerator) (*StoryStore, func(), error) {
	driver := cfg.Storage.Driver
	switch driver {
	case config.StorageDriverPostgres:
		client, err := postgres.NewClient(&cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.Postgres.AutoMigrate {
			if err := client.AutoMigrate(ctx); err != nil {
				_ = client.Close()
				return nil, nil, err
			}
		}
		repo := postgres.NewStoryRepository(client, ids)
		cleanup := func() {
			_ = client.Close()
		}
		return &StoryStore{Driver: driver, Repo: repo, Health: repo}, cleanup, nil

	case config.StorageDriverSQLite, "":
		repo, err := sqlite.Open(cfg.Storage.SQLite.Path, cfg.Storage.SQLite.BusyTimeout, ids)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			_ = repo.Close()
		}
		return &StoryStore{Driver: config.StorageDriverSQLite, Repo: repo, Health: repo}, cleanup, nil

	case config.StorageDriverMemory:
		logger.Warn(ctx, "using in-memory story storage, data is lost on restart")
		repo := memory.NewStoryRepository(ids)
		return &StoryStore{Driver: driver, Repo: repo, Health: repo}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

// ProvideRedisClientOptional 提供可选 Redis 客户端，未启用或不可达时返回 nil
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, cache and rate limiting disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideStoryRepository 提供故事仓储，Redis 可用且启用缓存时包装读缓存
func ProvideStoryRepository(store *StoryStore, redisClient *redis.Client, cfg *config.Config) repository.StoryRepository {
	sc := cfg.Cache.Stories
	if !sc.Enabled || redisClient == nil {
		return store.Repo
	}
	return redis.NewStoryCache(store.Repo, redis.NewCache(redisClient), sc.TTL, sc.KeyPrefix)
}

// ProvidePublisher 提供故事事件发布器
func ProvidePublisher(redisClient *redis.Client, cfg *config.Config) library.Publisher {
	rs := cfg.Messaging.RedisStream
	if !rs.Enabled || redisClient == nil {
		return library.NopPublisher{}
	}
	maxLen := rs.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	stream := messaging.StreamStoryEvents
	if rs.Stream != "" {
		stream = messaging.Stream(rs.Stream)
	}
	return messaging.NewProducer(redisClient.Redis(), stream, int64(maxLen))
}

// ProvideRateLimiter 提供限流器；Redis 不可用时返回 nil 接口
func ProvideRateLimiter(redisClient *redis.Client) middleware.RateLimiter {
	if redisClient == nil {
		return nil
	}
	return redis.NewRateLimiter(redisClient)
}

// ProvideStoryProvider 提供默认文本生成服务
func ProvideStoryProvider(ctx context.Context, factory *llm.Factory) (service.StoryProvider, error) {
	return factory.Default(ctx)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, store *StoryStore, redisClient *redis.Client) *handler.HealthHandler {
	var rc repository.HealthChecker
	if redisClient != nil {
		rc = redisClient
	}
	return handler.NewHealthHandler(cfg.App.Version, store.Health, rc)
}
