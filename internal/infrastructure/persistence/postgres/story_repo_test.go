package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-story-api/internal/config"
	"ai-story-api/internal/domain/entity"
	"ai-story-api/internal/domain/repository"
	"ai-story-api/internal/domain/repository/repotest"
	"ai-story-api/pkg/utils"
)

// 需要真实数据库，例如 POSTGRES_TEST_DSN="host=localhost user=postgres password=postgres dbname=stories_test sslmode=disable"
func TestStoryRepositoryContract(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	client, err := NewClientFromDSN(dsn, &config.PostgresConfig{MaxOpenConns: 4, LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.AutoMigrate(context.Background()))

	repotest.RunStoryRepositoryContract(t, func(t *testing.T) repository.StoryRepository {
		table := entity.Story{}.TableName()
		require.NoError(t, client.DB().Exec("TRUNCATE TABLE "+table).Error)
		return NewStoryRepository(client, utils.NewIDGenerator())
	})
}
