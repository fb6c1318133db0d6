package story

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/domain/entity"
)

func TestPayloadBuilderRendersGenrePrefix(t *testing.T) {
	b := NewPayloadBuilder(nil)
	p, err := b.Build(context.Background(), entity.NormalizedRequest{
		Prompt:      "a dragon who hoards books",
		Genre:       entity.GenreFantasy,
		MaxLength:   300,
		Temperature: 0.9,
	})
	require.NoError(t, err)
	require.Len(t, p.Messages, 2)
	assert.Equal(t, schema.System, p.Messages[0].Role)
	assert.Equal(t, schema.User, p.Messages[1].Role)

	user := p.Messages[1].Content
	assert.Contains(t, user, "Fantasy: a dragon who hoards books")
	assert.Contains(t, user, "Write a fantasy story of about 300 words.")
	assert.Contains(t, user, "The title should be on a separate line.")
	assert.Equal(t, 464, p.MaxTokens)
	assert.InDelta(t, 0.9, float64(p.Temperature), 1e-6)
}

func TestPayloadBuilderGeneralHasNoPrefix(t *testing.T) {
	b := NewPayloadBuilder(nil)
	p, err := b.Build(context.Background(), entity.NormalizedRequest{
		Prompt: "rain", Genre: entity.GenreGeneral, MaxLength: 200, Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.True(t, len(p.Messages[1].Content) > 0)
	assert.Equal(t, "rain", p.Messages[1].Content[:4])
}

func TestPayloadBuilderIsDeterministic(t *testing.T) {
	b := NewPayloadBuilder(nil)
	req := entity.NormalizedRequest{Prompt: "twin moons", Genre: entity.GenreSciFi, MaxLength: 120, Temperature: 0.5}
	first, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	second, err := b.Build(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMaxTokensFor(t *testing.T) {
	assert.Equal(t, 331, maxTokensFor(200))
	assert.Equal(t, 131, maxTokensFor(50))
	assert.Equal(t, 2731, maxTokensFor(2000))
}
