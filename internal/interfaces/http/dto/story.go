package dto

import (
	"time"

	"ai-story-api/internal/domain/entity"
)

// GenerateStoryRequest 生成故事请求
type GenerateStoryRequest struct {
	Prompt      string  `json:"prompt"`
	Mode        string  `json:"mode"`
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
}

// ToEntity 转换为领域请求
func (r *GenerateStoryRequest) ToEntity() entity.GenerationRequest {
	return entity.GenerationRequest{
		Prompt:      r.Prompt,
		Mode:        r.Mode,
		MaxLength:   r.MaxLength,
		Temperature: r.Temperature,
	}
}

// GenerateStoryResponse 生成故事响应
type GenerateStoryResponse struct {
	Title string `json:"title"`
	Story string `json:"story"`
}

// SaveStoryRequest 保存故事请求
type SaveStoryRequest struct {
	Prompt string `json:"prompt"`
	Title  string `json:"title"`
	Story  string `json:"story"`
}

// StoryResponse 故事响应
type StoryResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Prompt    string `json:"prompt"`
	Story     string `json:"story"`
	CreatedAt string `json:"created_at"`
}

// SaveStoryResponse 保存故事响应
type SaveStoryResponse struct {
	Message string         `json:"message"`
	Story   *StoryResponse `json:"story"`
}

// StoryListResponse 故事列表响应
type StoryListResponse struct {
	Stories []*StoryResponse `json:"stories"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// DeleteStoryResponse 删除故事响应
type DeleteStoryResponse struct {
	Message string `json:"message"`
	Deleted bool   `json:"deleted"`
}

// ToStoryResponse 转换故事实体
func ToStoryResponse(s *entity.Story) *StoryResponse {
	if s == nil {
		return nil
	}
	return &StoryResponse{
		ID:        s.ID,
		Title:     s.Title,
		Prompt:    s.Prompt,
		Story:     s.Story,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToStoryResponses 批量转换，结果永不为 nil
func ToStoryResponses(stories []*entity.Story) []*StoryResponse {
	out := make([]*StoryResponse, 0, len(stories))
	for _, s := range stories {
		out = append(out, ToStoryResponse(s))
	}
	return out
}
