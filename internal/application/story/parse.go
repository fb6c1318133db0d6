package story

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"ai-story-api/internal/domain/entity"
)

const (
	maxTitleRunes      = 150
	maxTitleWords      = 20
	fallbackTitleWords = 6
	untitled           = "Untitled Story"
)

// ErrEmptyOutput 模型输出为空
var ErrEmptyOutput = errors.New("provider returned empty output")

var (
	titleLabelRe   = regexp.MustCompile(`(?i)^(story\s+)?title\s*[:：\-–]\s*`)
	storyLabelRe   = regexp.MustCompile(`(?i)^story\s*[:：]\s*`)
	inlineSpaceRe  = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLinesRe   = regexp.MustCompile(`\n{3,}`)
	titleQuoteTrim = "\"'`“”‘’«»"
)

// ParseStory 将模型原始输出拆分为标题与正文
//
// 第一行非空文本在去除标记后若足够短且其后仍有正文，则作为标题；
// 否则标题取自 prompt 的前几个词，整段输出作为正文。
// 清理后正文为空，或只有带标记的标题行而没有正文时，返回 ErrEmptyOutput。
func ParseStory(raw, prompt string) (*entity.GeneratedStory, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyOutput
	}

	lines := strings.Split(text, "\n")
	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}

	head := strings.TrimSpace(lines[first])
	title := CleanTitle(head)
	body := CleanBody(strings.Join(lines[first+1:], "\n"))
	if isTitleLike(title) {
		if body != "" {
			return &entity.GeneratedStory{Title: title, Story: body}, nil
		}
		// 只有一行标题，没有正文
		if hasTitleMarkup(head) {
			return nil, ErrEmptyOutput
		}
	}

	story := CleanBody(text)
	if story == "" {
		return nil, ErrEmptyOutput
	}
	return &entity.GeneratedStory{
		Title:         FallbackTitle(prompt),
		Story:         story,
		TitleFallback: true,
	}, nil
}

// CleanTitle 去除标题中的 markdown 标记、标签与包裹引号
func CleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.TrimSpace(s)
	s = titleLabelRe.ReplaceAllString(s, "")
	s = strings.Trim(s, titleQuoteTrim+" ")
	s = inlineSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanBody 规范化正文空白并保留段落
func CleanBody(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(line, " "))
	}
	s = strings.TrimSpace(strings.Join(lines, "\n"))
	s = storyLabelRe.ReplaceAllString(s, "")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// FallbackTitle 由 prompt 前几个词生成标题
func FallbackTitle(prompt string) string {
	words := strings.Fields(strings.ReplaceAll(prompt, "*", ""))
	if len(words) == 0 {
		return untitled
	}
	if len(words) <= fallbackTitleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:fallbackTitleWords], " ") + "…"
}

func isTitleLike(s string) bool {
	if s == "" || storyLabelRe.MatchString(s) {
		return false
	}
	if utf8.RuneCountInString(s) > maxTitleRunes {
		return false
	}
	return len(strings.Fields(s)) <= maxTitleWords
}

// hasTitleMarkup 判断一行是否带有标题标记（markdown 或 Title: 标签）
func hasTitleMarkup(line string) bool {
	if strings.HasPrefix(line, "#") || strings.Contains(line, "*") || strings.Contains(line, "__") {
		return true
	}
	return titleLabelRe.MatchString(line)
}
