package library

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/internal/infrastructure/persistence/memory"
	apperrors "ai-story-api/pkg/errors"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishStoryEvent(ctx context.Context, event *entity.StoryEvent) error {
	return m.Called(ctx, event).Error(0)
}

type failingRepo struct {
	repository.StoryRepository
}

func (failingRepo) Save(context.Context, string, string, string) (*entity.Story, error) {
	return nil, errors.New("disk full")
}

func TestSaveTrimsAndPublishes(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishStoryEvent", mock.Anything, mock.MatchedBy(func(e *entity.StoryEvent) bool {
		return e.Type == entity.StoryEventSaved && e.Title == "The Lost City"
	})).Return(nil).Once()

	svc := NewService(memory.NewStoryRepository(nil), pub)
	saved, err := svc.Save(context.Background(), SaveInput{
		Prompt: "  explorers  ",
		Title:  " **The Lost City** ",
		Story:  "\nThey found it.\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "explorers", saved.Prompt)
	assert.Equal(t, "The Lost City", saved.Title)
	assert.Equal(t, "They found it.", saved.Story)
	pub.AssertExpectations(t)
}

func TestSaveRequiresPromptAndStory(t *testing.T) {
	svc := NewService(memory.NewStoryRepository(nil), nil)
	for _, in := range []SaveInput{
		{Prompt: "", Story: "s"},
		{Prompt: "p", Story: "   "},
	} {
		_, err := svc.Save(context.Background(), in)
		require.Error(t, err)
		appErr := apperrors.AsAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "both prompt and story are required", appErr.Message)
		assert.Equal(t, 400, appErr.HTTPStatus)
	}
}

func TestSaveUsesPromptTitleWhenMissing(t *testing.T) {
	svc := NewService(memory.NewStoryRepository(nil), nil)
	saved, err := svc.Save(context.Background(), SaveInput{Prompt: "a cat learns to fly over the old town", Story: "s"})
	require.NoError(t, err)
	assert.Equal(t, "a cat learns to fly over…", saved.Title)
}

func TestSaveIgnoresPublisherFailure(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishStoryEvent", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	repo := memory.NewStoryRepository(nil)
	svc := NewService(repo, pub)
	_, err := svc.Save(context.Background(), SaveInput{Prompt: "p", Title: "t", Story: "s"})
	require.NoError(t, err)

	n, _ := repo.Count(context.Background())
	assert.Equal(t, int64(1), n)
}

func TestSaveStorageFailure(t *testing.T) {
	svc := NewService(failingRepo{}, nil)
	_, err := svc.Save(context.Background(), SaveInput{Prompt: "p", Story: "s"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
	assert.Equal(t, 500, apperrors.AsAppError(err).HTTPStatus)
}

func TestListValidatesPagination(t *testing.T) {
	svc := NewService(memory.NewStoryRepository(nil), nil)
	_, err := svc.List(context.Background(), 0, 10)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	res, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestDelete(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishStoryEvent", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(memory.NewStoryRepository(nil), pub)
	saved, err := svc.Save(context.Background(), SaveInput{Prompt: "p", Title: "t", Story: "s"})
	require.NoError(t, err)

	ok, err := svc.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Delete(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.Delete(context.Background(), " ")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	pub.AssertNumberOfCalls(t, "PublishStoryEvent", 2)
}
