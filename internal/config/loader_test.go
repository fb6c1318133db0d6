package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
storage:
  driver: ${TEST_STORAGE_DRIVER:memory}
llm:
  default_provider: local
  providers:
    local:
      type: ollama
      base_url: http://localhost:11434
      model: ${TEST_MODEL:llama3.1}
`

func writeConfig(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadFromAppliesDefaultsAndExpansion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", minimalConfig)
	t.Setenv("APP_ENV", "test")
	t.Setenv("TEST_MODEL", "mistral")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "mistral", cfg.LLM.Providers["local"].Model)
	assert.Equal(t, ProviderTypeOllama, cfg.LLM.Providers["local"].Type)
	assert.Equal(t, 5000, cfg.Server.HTTP.Port)
	assert.Equal(t, 80*time.Second, cfg.Generation.Timeout)
	assert.Less(t, cfg.Generation.Budget(), cfg.Server.HTTP.WriteTimeout)
	assert.Equal(t, 2, cfg.Generation.MaxAttempts)
	assert.Equal(t, "stream:story:events", cfg.Messaging.RedisStream.Stream)
	assert.False(t, cfg.Cache.Redis.Enabled)
}

func TestLoadFromMergesEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", minimalConfig)
	writeConfig(t, dir, "config.staging.yaml", "server:\n  http:\n    port: 9090\n")
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestValidateRejectsInconsistentConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Storage:    StorageConfig{Driver: StorageDriverMemory},
			LLM:        LLMConfig{DefaultProvider: "p", Providers: map[string]ProviderConfig{"p": {Type: ProviderTypeOpenAI}}},
			Generation: GenerationConfig{MaxAttempts: 1},
		}
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(c *Config){
		"unknown driver":        func(c *Config) { c.Storage.Driver = "mongo" },
		"sqlite without path":   func(c *Config) { c.Storage.Driver = StorageDriverSQLite },
		"missing provider":      func(c *Config) { c.LLM.DefaultProvider = "nope" },
		"bad provider type":     func(c *Config) { c.LLM.Providers["p"] = ProviderConfig{Type: "grpc"} },
		"story cache w/o redis": func(c *Config) { c.Cache.Stories.Enabled = true },
		"events w/o redis":      func(c *Config) { c.Messaging.RedisStream.Enabled = true },
		"zero attempts":         func(c *Config) { c.Generation.MaxAttempts = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidateGenerationBudget(t *testing.T) {
	c := &Config{
		Storage: StorageConfig{Driver: StorageDriverMemory},
		LLM:     LLMConfig{DefaultProvider: "p", Providers: map[string]ProviderConfig{"p": {Type: ProviderTypeOllama}}},
		Server:  ServerConfig{HTTP: HTTPServerConfig{WriteTimeout: 180 * time.Second}},
		Generation: GenerationConfig{
			Timeout:     80 * time.Second,
			MaxAttempts: 2,
			Backoff:     BackoffConfig{Initial: 500 * time.Millisecond, Max: 5 * time.Second, Multiplier: 2},
		},
	}
	assert.Equal(t, 160*time.Second+500*time.Millisecond, c.Generation.Budget())
	require.NoError(t, c.Validate())

	// 120s 的单次超时重试一次即超过写超时
	c.Generation.Timeout = 120 * time.Second
	assert.Error(t, c.Validate())
	c.Generation.Timeout = 80 * time.Second

	// 三次尝试：240s + 0.5s + 1s
	c.Generation.MaxAttempts = 3
	assert.Equal(t, 241*time.Second+500*time.Millisecond, c.Generation.Budget())
	assert.Error(t, c.Validate())

	// 未设置写超时时不做约束
	c.Server.HTTP.WriteTimeout = 0
	assert.NoError(t, c.Validate())
}

func TestExpandEnvKeepsUnknownWithoutDefault(t *testing.T) {
	t.Setenv("KNOWN_VAR", "x")
	assert.Equal(t, "x ${UNKNOWN_VAR_123} d", expandEnv("${KNOWN_VAR} ${UNKNOWN_VAR_123} ${OTHER_UNKNOWN_456:d}"))
}

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{Initial: 100 * time.Millisecond, Max: time.Second, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(1))
	assert.Equal(t, 800*time.Millisecond, b.Delay(3))
	assert.Equal(t, time.Second, b.Delay(10))
	assert.Equal(t, time.Duration(0), BackoffConfig{}.Delay(2))
}
