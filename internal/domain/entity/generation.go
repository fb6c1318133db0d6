package entity

import (
	"fmt"
	"strings"
)

// Genre 故事类型
type Genre string

const (
	GenreGeneral Genre = "general"
	GenreFantasy Genre = "fantasy"
	GenreSciFi   Genre = "sci-fi"
	GenreMystery Genre = "mystery"
)

// 生成参数边界与默认值
const (
	DefaultMaxLength   = 200
	MinMaxLength       = 50
	MaxMaxLength       = 2000
	DefaultTemperature = 0.7
	MinTemperature     = 0.1
	MaxTemperature     = 1.5
	MaxPromptRunes     = 4000
)

// ParseGenre 解析故事类型，大小写不敏感；空值视为 general
func ParseGenre(s string) (Genre, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general":
		return GenreGeneral, nil
	case "fantasy":
		return GenreFantasy, nil
	case "sci-fi", "scifi", "sci_fi":
		return GenreSciFi, nil
	case "mystery":
		return GenreMystery, nil
	default:
		return "", fmt.Errorf("invalid mode %q", s)
	}
}

// Label 类型在提示词中的前缀标签，general 无前缀
func (g Genre) Label() string {
	switch g {
	case GenreFantasy:
		return "Fantasy"
	case GenreSciFi:
		return "Sci-Fi"
	case GenreMystery:
		return "Mystery"
	default:
		return ""
	}
}

// GenerationRequest 故事生成请求
//
// MaxLength 与 Temperature 的零值表示“未指定”，由编排器填充默认值。
type GenerationRequest struct {
	Prompt      string
	Mode        string
	MaxLength   int
	Temperature float64
}

// NormalizedRequest 校验并规范化后的生成参数
type NormalizedRequest struct {
	Prompt      string
	Genre       Genre
	MaxLength   int
	Temperature float64
}

// TokenUsage 单次调用的 token 用量
type TokenUsage struct {
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// GeneratedStory 生成结果
type GeneratedStory struct {
	Title string `json:"title"`
	Story string `json:"story"`

	// TitleFallback 标题无法从模型输出中识别时为 true
	TitleFallback bool       `json:"-"`
	Usage         TokenUsage `json:"-"`
}
