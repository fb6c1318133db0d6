// Package llm 提供 StoryProvider 的实现：OpenAI 兼容接口（Eino）与本地 Ollama
package llm

import (
	"context"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/service"
)

// EinoProvider 基于 Eino ChatModel 的文本生成服务
type EinoProvider struct {
	name     string
	model    string
	chat     model.BaseChatModel
	handlers []einocb.Handler
}

// NewEinoProvider 创建 Eino Provider，handlers 会在每次调用时挂载到 ctx
func NewEinoProvider(name, modelName string, chat model.BaseChatModel, handlers ...einocb.Handler) *EinoProvider {
	return &EinoProvider{
		name:     name,
		model:    modelName,
		chat:     chat,
		handlers: handlers,
	}
}

// Name 返回 Provider 名称
func (p *EinoProvider) Name() string { return p.name }

// Generate 调用 ChatModel 生成故事文本
func (p *EinoProvider) Generate(ctx context.Context, payload *service.Payload) (*service.Completion, error) {
	if payload == nil || len(payload.Messages) == 0 {
		return nil, service.Permanent(fmt.Errorf("empty payload"))
	}

	ctx = service.WithWorkflowProvider(ctx, service.WorkflowStoryGenerate, p.name)
	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      p.name,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	}, p.handlers...)

	outMsg, err := p.chat.Generate(ctx, payload.Messages, p.options(payload)...)
	if err != nil {
		return nil, classify(fmt.Errorf("%s generate: %w", p.name, err))
	}
	if outMsg == nil {
		return nil, fmt.Errorf("%s: empty llm response", p.name)
	}

	usage := entity.TokenUsage{Provider: p.name, Model: p.model}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		usage.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		usage.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}

	return &service.Completion{
		Text:  strings.TrimSpace(outMsg.Content),
		Usage: usage,
	}, nil
}

func (p *EinoProvider) options(payload *service.Payload) []model.Option {
	opts := []model.Option{
		model.WithTemperature(payload.Temperature),
	}
	if payload.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(payload.MaxTokens))
	}
	if p.model != "" {
		opts = append(opts, model.WithModel(p.model))
	}
	return opts
}
