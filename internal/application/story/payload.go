package story

import (
	"context"
	"fmt"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/service"
	workflowprompt "ai-story-api/internal/workflow/prompt"
)

// titleTokenHeadroom 为标题行预留的 token
const titleTokenHeadroom = 64

// PayloadBuilder 根据规范化请求渲染 Provider 载荷
type PayloadBuilder struct {
	registry *workflowprompt.Registry
}

// NewPayloadBuilder 创建载荷构建器
func NewPayloadBuilder(registry *workflowprompt.Registry) *PayloadBuilder {
	if registry == nil {
		registry = workflowprompt.NewRegistry()
	}
	return &PayloadBuilder{registry: registry}
}

// Build 渲染载荷；同一输入总是得到相同输出
func (b *PayloadBuilder) Build(ctx context.Context, req entity.NormalizedRequest) (*service.Payload, error) {
	tpl, err := b.registry.ChatTemplate(workflowprompt.PromptStoryGenV1)
	if err != nil {
		return nil, err
	}

	prefix := ""
	if label := req.Genre.Label(); label != "" {
		prefix = label + ": "
	}

	msgs, err := tpl.Format(ctx, map[string]any{
		"genre_prefix": prefix,
		"prompt":       req.Prompt,
		"genre_name":   string(req.Genre),
		"max_length":   req.MaxLength,
	})
	if err != nil {
		return nil, fmt.Errorf("format story prompt: %w", err)
	}

	return &service.Payload{
		Messages:    msgs,
		Genre:       req.Genre,
		MaxTokens:   maxTokensFor(req.MaxLength),
		Temperature: float32(req.Temperature),
	}, nil
}

// maxTokensFor 按约 4/3 token 每词估算输出上限
func maxTokensFor(words int) int {
	return (words*4+2)/3 + titleTokenHeadroom
}
