package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"

	"ai-story-api/internal/config"
	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/service"
)

// OllamaProvider 通过 Ollama 原生 /api/chat 接口生成文本
type OllamaProvider struct {
	name     string
	model    string
	client   *api.Client
	handlers []einocb.Handler
}

// NewOllamaProvider 创建 Ollama Provider
func NewOllamaProvider(name string, cfg config.ProviderConfig, handlers ...einocb.Handler) (*OllamaProvider, error) {
	// api.NewClient 需要不带 /v1 后缀的地址
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	base = strings.TrimSuffix(base, "/v1")
	if base == "" {
		base = "http://localhost:11434"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", base, err)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama provider %s: model is required", name)
	}

	return &OllamaProvider{
		name:     name,
		model:    cfg.Model,
		client:   api.NewClient(u, &http.Client{Timeout: cfg.Timeout}),
		handlers: handlers,
	}, nil
}

// Name 返回 Provider 名称
func (p *OllamaProvider) Name() string { return p.name }

// Generate 调用 Ollama 生成故事文本
func (p *OllamaProvider) Generate(ctx context.Context, payload *service.Payload) (*service.Completion, error) {
	if payload == nil || len(payload.Messages) == 0 {
		return nil, service.Permanent(fmt.Errorf("empty payload"))
	}

	ctx = service.WithWorkflowProvider(ctx, service.WorkflowStoryGenerate, p.name)
	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      p.name,
		Type:      "Ollama",
		Component: components.ComponentOfChatModel,
	}, p.handlers...)

	temperature := payload.Temperature
	cbConfig := &model.Config{Model: p.model, MaxTokens: payload.MaxTokens, Temperature: temperature}
	ctx = einocb.OnStart(ctx, &model.CallbackInput{Messages: payload.Messages, Config: cbConfig})

	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: toOllamaMessages(payload.Messages),
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": temperature,
			"num_predict": payload.MaxTokens,
		},
	}

	var resp api.ChatResponse
	err := p.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		einocb.OnError(ctx, err)
		return nil, classify(fmt.Errorf("%s chat: %w", p.name, err))
	}

	usage := entity.TokenUsage{
		Provider:         p.name,
		Model:            p.model,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}
	einocb.OnEnd(ctx, &model.CallbackOutput{
		Message: schema.AssistantMessage(resp.Message.Content, nil),
		Config:  cbConfig,
		TokenUsage: &model.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.PromptTokens + usage.CompletionTokens,
		},
	})

	return &service.Completion{
		Text:  strings.TrimSpace(resp.Message.Content),
		Usage: usage,
	}, nil
}

func toOllamaMessages(msgs []*schema.Message) []api.Message {
	out := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		out = append(out, api.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
