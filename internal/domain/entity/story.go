// Package entity 定义领域实体
package entity

import (
	"time"
)

// Story 已保存的故事
//
// 记录一经保存不再原地修改，只能通过删除移除。
type Story struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26);index:idx_stories_created_id,priority:2,sort:desc"`
	Title     string    `json:"title" gorm:"type:text;not null"`
	Prompt    string    `json:"prompt" gorm:"type:text;not null"`
	Story     string    `json:"story" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_stories_created_id,priority:1,sort:desc"`
}

// TableName 指定表名
func (Story) TableName() string {
	return "stories"
}

// NewStory 创建待保存的故事，ID 与创建时间由仓储分配
func NewStory(prompt, title, story string) *Story {
	return &Story{
		Title:  title,
		Prompt: prompt,
		Story:  story,
	}
}

// Clone 返回副本，避免调用方持有仓储内部数据
func (s *Story) Clone() *Story {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Newer 判断 s 是否排在 other 之前（created_at DESC, id DESC）
func (s *Story) Newer(other *Story) bool {
	if !s.CreatedAt.Equal(other.CreatedAt) {
		return s.CreatedAt.After(other.CreatedAt)
	}
	return s.ID > other.ID
}
