// Package service 定义跨层的领域服务契约（port）
package service

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"ai-story-api/internal/domain/entity"
)

// Payload 发送给文本生成服务的确定性载荷
//
// 相同的规范化请求总是得到完全相同的 Payload。
type Payload struct {
	Messages    []*schema.Message
	Genre       entity.Genre
	MaxTokens   int
	Temperature float32
}

// Completion 文本生成服务的原始输出
type Completion struct {
	Text  string
	Usage entity.TokenUsage
}

// StoryProvider 外部文本生成能力，由基础设施层实现（OpenAI 兼容接口、Ollama 等）
//
// 调用可能很慢或失败；实现必须响应 ctx 取消。
type StoryProvider interface {
	Name() string
	Generate(ctx context.Context, payload *Payload) (*Completion, error)
}

// permanentError 标记不应重试的 Provider 错误
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 包装不可重试的错误（如鉴权失败、模型不存在）
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent 判断错误是否不可重试
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
