package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/application/library"
	"ai-story-api/internal/config"
	"ai-story-api/internal/wire"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := `
storage:
  driver: sqlite
  sqlite:
    path: ` + filepath.Join(dir, "stories.db") + `
llm:
  default_provider: local
  providers:
    local:
      type: ollama
      base_url: http://localhost:11434
      model: llama3.1
observability:
  logging:
    level: error
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateListDelete(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	dir := writeTestConfig(t)

	out, err := run(t, "--config", dir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "storage sqlite ready (0 stories)")

	cfg, err := config.LoadFrom(dir)
	require.NoError(t, err)
	lib, cleanup, err := wire.InitializeLibrary(context.Background(), cfg)
	require.NoError(t, err)
	saved, err := lib.Service.Save(context.Background(), library.SaveInput{Prompt: "a quiet harbor", Title: "Harbor", Story: "Boats rocked."})
	require.NoError(t, err)
	cleanup()

	out, err = run(t, "--config", dir, "--format", "json", "list", "--page", "1", "--limit", "0")
	require.NoError(t, err)
	var listed struct {
		Stories []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"stories"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listed), out)
	assert.EqualValues(t, 1, listed.Total)
	require.Len(t, listed.Stories, 1)
	assert.Equal(t, saved.ID, listed.Stories[0].ID)

	out, err = run(t, "--config", dir, "--format", "text", "list", "--page", "1", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Harbor")
	assert.Contains(t, out, "1 of 1 stories")

	out, err = run(t, "--config", dir, "delete", saved.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+saved.ID)

	_, err = run(t, "--config", dir, "delete", saved.ID)
	assert.ErrorContains(t, err, "not found")
}

func TestRateLimitRequiresRedis(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	dir := writeTestConfig(t)

	_, err := run(t, "--config", dir, "ratelimit", "status", "--ip", "10.0.0.1")
	assert.ErrorIs(t, err, errRedisDisabled)
}
