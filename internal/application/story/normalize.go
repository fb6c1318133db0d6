package story

import (
	"math"
	"strings"
	"unicode/utf8"

	"ai-story-api/internal/domain/entity"
	apperrors "ai-story-api/pkg/errors"
)

// Normalize 校验生成请求并填充默认值
//
//   - prompt 去除首尾空白后不能为空
//   - mode 为空视为 general，未知值拒绝
//   - max_length / temperature 零值取默认，越界值夹取到合法区间
func Normalize(req entity.GenerationRequest) (entity.NormalizedRequest, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return entity.NormalizedRequest{}, apperrors.Validation("prompt cannot be empty")
	}
	if utf8.RuneCountInString(prompt) > entity.MaxPromptRunes {
		return entity.NormalizedRequest{}, apperrors.Validation("prompt too long")
	}

	genre, err := entity.ParseGenre(req.Mode)
	if err != nil {
		return entity.NormalizedRequest{}, apperrors.Validation("invalid mode").WithError(err)
	}

	if math.IsNaN(req.Temperature) || math.IsInf(req.Temperature, 0) {
		return entity.NormalizedRequest{}, apperrors.Validation("invalid temperature")
	}

	return entity.NormalizedRequest{
		Prompt:      prompt,
		Genre:       genre,
		MaxLength:   normalizeMaxLength(req.MaxLength),
		Temperature: normalizeTemperature(req.Temperature),
	}, nil
}

func normalizeMaxLength(n int) int {
	switch {
	case n == 0:
		return entity.DefaultMaxLength
	case n < entity.MinMaxLength:
		return entity.MinMaxLength
	case n > entity.MaxMaxLength:
		return entity.MaxMaxLength
	default:
		return n
	}
}

func normalizeTemperature(t float64) float64 {
	switch {
	case t == 0:
		return entity.DefaultTemperature
	case t < entity.MinTemperature:
		return entity.MinTemperature
	case t > entity.MaxTemperature:
		return entity.MaxTemperature
	default:
		return t
	}
}
