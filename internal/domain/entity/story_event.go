package entity

import "time"

// StoryEventType 故事库事件类型
type StoryEventType string

const (
	StoryEventSaved   StoryEventType = "story.saved"
	StoryEventDeleted StoryEventType = "story.deleted"
)

// StoryEvent 故事保存/删除后发布的通知
type StoryEvent struct {
	Type       StoryEventType `json:"type"`
	StoryID    string         `json:"story_id"`
	Title      string         `json:"title,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewStoryEvent 创建故事事件
func NewStoryEvent(t StoryEventType, storyID, title string) *StoryEvent {
	return &StoryEvent{
		Type:       t,
		StoryID:    storyID,
		Title:      title,
		OccurredAt: time.Now().UTC(),
	}
}
