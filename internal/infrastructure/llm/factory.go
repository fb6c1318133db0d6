package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einocb "github.com/cloudwego/eino/callbacks"

	"ai-story-api/internal/config"
	"ai-story-api/internal/domain/service"
	einoobs "ai-story-api/internal/observability/eino"
)

// Factory 按配置管理多个 StoryProvider 实例
type Factory struct {
	config    *config.LLMConfig
	providers map[string]service.StoryProvider
	handler   einocb.Handler
	mu        sync.RWMutex
}

// NewFactory 创建 Provider 工厂
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config:    &cfg.LLM,
		providers: make(map[string]service.StoryProvider),
		handler:   einoobs.NewHandler(),
	}
}

// Get 获取指定名称的 Provider，名称为空时返回默认 Provider
func (f *Factory) Get(ctx context.Context, name string) (service.StoryProvider, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	p, ok := f.providers[name]
	f.mu.RUnlock()
	if ok {
		return p, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok = f.providers[name]; ok {
		return p, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	p, err := f.build(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}
	f.providers[name] = p
	return p, nil
}

// Default 返回默认 Provider
func (f *Factory) Default(ctx context.Context) (service.StoryProvider, error) {
	return f.Get(ctx, "")
}

func (f *Factory) build(ctx context.Context, name string, cfg config.ProviderConfig) (service.StoryProvider, error) {
	switch cfg.Type {
	case config.ProviderTypeOllama:
		return NewOllamaProvider(name, cfg, f.handler)
	case config.ProviderTypeOpenAI, "":
		modelCfg := &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}
		if cfg.MaxTokens > 0 {
			modelCfg.MaxTokens = &cfg.MaxTokens
		}
		if cfg.Temperature > 0 {
			modelCfg.Temperature = ptrFloat32(float32(cfg.Temperature))
		}
		chatModel, err := openai.NewChatModel(ctx, modelCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
		}
		return NewEinoProvider(name, cfg.Model, chatModel, f.handler), nil
	default:
		return nil, fmt.Errorf("provider %s: unsupported type %q", name, cfg.Type)
	}
}

func ptrFloat32(f float32) *float32 {
	return &f
}
