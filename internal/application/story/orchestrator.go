// Package story 负责故事生成：请求规范化、载荷构建、调用文本生成服务与解析输出
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ai-story-api/internal/config"
	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/service"
	apperrors "ai-story-api/pkg/errors"
	"ai-story-api/pkg/logger"
	"ai-story-api/pkg/metrics"
	"ai-story-api/pkg/tracer"
)

// Orchestrator 故事生成编排器
type Orchestrator struct {
	provider service.StoryProvider
	builder  *PayloadBuilder
	cfg      config.GenerationConfig
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator 创建编排器
func NewOrchestrator(provider service.StoryProvider, builder *PayloadBuilder, cfg *config.Config) *Orchestrator {
	gen := config.GenerationConfig{MaxAttempts: 1}
	if cfg != nil {
		gen = cfg.Generation
	}
	if gen.MaxAttempts < 1 {
		gen.MaxAttempts = 1
	}
	if builder == nil {
		builder = NewPayloadBuilder(nil)
	}
	return &Orchestrator{
		provider: provider,
		builder:  builder,
		cfg:      gen,
		sleep:    sleepCtx,
	}
}

// Generate 生成一篇故事
//
// 校验失败返回 400 类错误；Provider 失败在有限重试后返回 502，单次调用超时返回 504。
func (o *Orchestrator) Generate(ctx context.Context, req entity.GenerationRequest) (*entity.GeneratedStory, error) {
	normalized, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	mode := string(normalized.Genre)
	ctx, span := tracer.Start(ctx, "story.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("story.mode", mode),
		attribute.Int("story.max_length", normalized.MaxLength),
	)

	start := time.Now()
	result, err := o.generate(ctx, normalized)
	metrics.StoryGenerationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		tracer.RecordError(span, err)
		metrics.StoryGenerationTotal.WithLabelValues(mode, "error").Inc()
		logger.Error(ctx, "story generation failed", err, "mode", mode)
		return nil, err
	}

	metrics.StoryGenerationTotal.WithLabelValues(mode, "success").Inc()
	metrics.StoryWordCount.WithLabelValues(mode).Observe(float64(len(strings.Fields(result.Story))))
	if result.TitleFallback {
		metrics.StoryTitleFallbackTotal.Inc()
		logger.Warn(ctx, "model output had no usable title line, using prompt-derived title",
			"mode", mode,
			"title", result.Title,
		)
	}
	logger.Info(ctx, "story generated",
		"mode", mode,
		"provider", result.Usage.Provider,
		"model", result.Usage.Model,
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, req entity.NormalizedRequest) (*entity.GeneratedStory, error) {
	if o.provider == nil {
		return nil, apperrors.ErrServiceUnavailable.WithDetail("story provider not configured")
	}

	payload, err := o.builder.Build(ctx, req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to build generation payload")
	}

	completion, err := o.call(ctx, payload)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseStory(completion.Text, req.Prompt)
	if err != nil {
		return nil, apperrors.Provider(err)
	}
	parsed.Usage = completion.Usage
	return parsed, nil
}

// call 执行带超时与退避重试的 Provider 调用
func (o *Orchestrator) call(ctx context.Context, payload *service.Payload) (*service.Completion, error) {
	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := o.cfg.Backoff.Delay(attempt - 1)
			logger.Warn(ctx, "retrying story provider",
				"provider", o.provider.Name(),
				"attempt", attempt+1,
				"delay_ms", delay.Milliseconds(),
				"error", lastErr.Error(),
			)
			if err := o.sleep(ctx, delay); err != nil {
				return nil, apperrors.Wrap(err, apperrors.CodeGenerationFailed, "story generation cancelled")
			}
		}

		completion, err := o.attempt(ctx, payload)
		if err == nil {
			return completion, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, apperrors.Wrap(ctx.Err(), apperrors.CodeGenerationFailed, "story generation cancelled")
		}
		if service.IsPermanent(err) {
			break
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return nil, apperrors.ErrGenerationTimeout.WithError(lastErr)
	}
	return nil, apperrors.Provider(lastErr)
}

func (o *Orchestrator) attempt(ctx context.Context, payload *service.Payload) (*service.Completion, error) {
	callCtx := ctx
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	completion, err := o.provider.Generate(callCtx, payload)
	if err != nil {
		return nil, err
	}
	if completion == nil || strings.TrimSpace(completion.Text) == "" {
		return nil, fmt.Errorf("%s: %w", o.provider.Name(), ErrEmptyOutput)
	}
	return completion, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
