package story

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/domain/entity"
	apperrors "ai-story-api/pkg/errors"
)

func TestNormalizeDefaults(t *testing.T) {
	n, err := Normalize(entity.GenerationRequest{Prompt: "  a lighthouse keeper  "})
	require.NoError(t, err)
	assert.Equal(t, "a lighthouse keeper", n.Prompt)
	assert.Equal(t, entity.GenreGeneral, n.Genre)
	assert.Equal(t, entity.DefaultMaxLength, n.MaxLength)
	assert.InDelta(t, entity.DefaultTemperature, n.Temperature, 1e-9)
}

func TestNormalizeClampsOutOfRange(t *testing.T) {
	n, err := Normalize(entity.GenerationRequest{Prompt: "p", Mode: "SciFi", MaxLength: 5, Temperature: 9})
	require.NoError(t, err)
	assert.Equal(t, entity.GenreSciFi, n.Genre)
	assert.Equal(t, entity.MinMaxLength, n.MaxLength)
	assert.InDelta(t, entity.MaxTemperature, n.Temperature, 1e-9)

	n, err = Normalize(entity.GenerationRequest{Prompt: "p", MaxLength: 100000, Temperature: -3})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxMaxLength, n.MaxLength)
	assert.InDelta(t, entity.MinTemperature, n.Temperature, 1e-9)
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	cases := map[string]entity.GenerationRequest{
		"empty prompt":    {Prompt: ""},
		"blank prompt":    {Prompt: " \n\t "},
		"unknown mode":    {Prompt: "p", Mode: "romance"},
		"nan temperature": {Prompt: "p", Temperature: math.NaN()},
		"inf temperature": {Prompt: "p", Temperature: math.Inf(1)},
		"prompt too long": {Prompt: strings.Repeat("x", entity.MaxPromptRunes+1)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
			assert.Equal(t, 400, apperrors.AsAppError(err).HTTPStatus)
		})
	}
}

func TestNormalizeBoundaries(t *testing.T) {
	lengths := []struct {
		in, want int
	}{
		{49, 50},
		{50, 50},
		{2000, 2000},
		{2001, 2000},
	}
	for _, tt := range lengths {
		n, err := Normalize(entity.GenerationRequest{Prompt: "p", MaxLength: tt.in})
		require.NoError(t, err)
		assert.Equal(t, tt.want, n.MaxLength, "max_length %d", tt.in)
	}

	temperatures := []struct {
		in, want float64
	}{
		{0.1, 0.1},
		{1.5, 1.5},
		{1.51, 1.5},
	}
	for _, tt := range temperatures {
		n, err := Normalize(entity.GenerationRequest{Prompt: "p", Temperature: tt.in})
		require.NoError(t, err)
		assert.InDelta(t, tt.want, n.Temperature, 1e-9, "temperature %v", tt.in)
	}
}

func TestNormalizeEmptyPromptMessage(t *testing.T) {
	_, err := Normalize(entity.GenerationRequest{Prompt: "   "})
	require.Error(t, err)
	assert.Equal(t, "prompt cannot be empty", apperrors.AsAppError(err).Message)
}
