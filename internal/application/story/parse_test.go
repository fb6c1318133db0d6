package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorySplitsTitleAndBody(t *testing.T) {
	raw := "**Title: \"The Last Lantern\"**\r\n\r\nThe keeper   climbed the stairs.\n\n\n\nShe lit the lamp.\n"
	got, err := ParseStory(raw, "a lighthouse keeper")
	require.NoError(t, err)
	assert.Equal(t, "The Last Lantern", got.Title)
	assert.Equal(t, "The keeper climbed the stairs.\n\nShe lit the lamp.", got.Story)
	assert.False(t, got.TitleFallback)
}

func TestParseStoryStripsMarkdownHeading(t *testing.T) {
	got, err := ParseStory("## Ember Road\nStory: Once there was a road.", "p")
	require.NoError(t, err)
	assert.Equal(t, "Ember Road", got.Title)
	assert.Equal(t, "Once there was a road.", got.Story)
}

func TestParseStoryFallsBackWhenFirstLineIsProse(t *testing.T) {
	long := strings.Repeat("word ", 40)
	raw := long + "\nand the story continues."
	got, err := ParseStory(raw, "a quiet village wakes up to find snow in July")
	require.NoError(t, err)
	assert.True(t, got.TitleFallback)
	assert.Equal(t, "a quiet village wakes up to…", got.Title)
	assert.Contains(t, got.Story, "and the story continues.")
}

func TestParseStorySingleLineOutput(t *testing.T) {
	got, err := ParseStory("Just one line of story.", "short prompt")
	require.NoError(t, err)
	assert.True(t, got.TitleFallback)
	assert.Equal(t, "short prompt", got.Title)
	assert.Equal(t, "Just one line of story.", got.Story)
}

func TestParseStoryEmptyOutput(t *testing.T) {
	_, err := ParseStory(" \r\n\t", "p")
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestFallbackTitle(t *testing.T) {
	assert.Equal(t, "one two three", FallbackTitle("  one two   three "))
	assert.Equal(t, "a b c d e f…", FallbackTitle("a b c d e f g"))
	assert.Equal(t, "bold words", FallbackTitle("**bold** words"))
	assert.Equal(t, untitled, FallbackTitle("   "))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Night Train", CleanTitle("# *Night Train*"))
	assert.Equal(t, "Night Train", CleanTitle("Title - 'Night Train'"))
	assert.Equal(t, "Night Train", CleanTitle("“Night Train”"))
}

func TestParseStoryRejectsOutputWithoutBody(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "story label only", raw: "Story:"},
		{name: "story label with trailing blanks", raw: "Story:  \n\n"},
		{name: "bold title then empty label", raw: "**The Lost City**\n\nStory:"},
		{name: "bold title only", raw: "**T**\n\nStory:"},
		{name: "heading only", raw: "## Ember Road\n\n"},
		{name: "labelled title only", raw: "Title: Night Train"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStory(tt.raw, "a lost city in the desert")
			assert.ErrorIs(t, err, ErrEmptyOutput)
			assert.Nil(t, got)
		})
	}
}

func TestParseStoryLabelLineIsNotATitle(t *testing.T) {
	got, err := ParseStory("Story:\nThe tide went out and never came back.", "tide")
	require.NoError(t, err)
	assert.True(t, got.TitleFallback)
	assert.Equal(t, "tide", got.Title)
	assert.Equal(t, "The tide went out and never came back.", got.Story)
}

func TestParseStoryBoldTitleIsExact(t *testing.T) {
	assert.Equal(t, "The Lost City", CleanTitle("**The Lost City**"))

	got, err := ParseStory("**The Lost City**\n\nbody", "p")
	require.NoError(t, err)
	assert.Equal(t, "The Lost City", got.Title)
	assert.Equal(t, "body", got.Story)
	assert.False(t, got.TitleFallback)
}
