package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-story-api/internal/config"
	"ai-story-api/internal/domain/service"
	einoobs "ai-story-api/internal/observability/eino"
)

type fakeChatModel struct {
	reply *schema.Message
	err   error
	opts  *model.Options
	input []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func testPayload() *service.Payload {
	return &service.Payload{
		Messages: []*schema.Message{
			schema.SystemMessage("sys"),
			schema.UserMessage("write"),
		},
		MaxTokens:   331,
		Temperature: 0.7,
	}
}

func TestEinoProviderGenerate(t *testing.T) {
	reply := schema.AssistantMessage("  Title\n\nBody  ", nil)
	reply.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 11, CompletionTokens: 22}}
	chat := &fakeChatModel{reply: reply}

	p := NewEinoProvider("openai", "gpt-4o-mini", chat, einoobs.NewHandler())
	got, err := p.Generate(context.Background(), testPayload())
	require.NoError(t, err)

	assert.Equal(t, "Title\n\nBody", got.Text)
	assert.Equal(t, 11, got.Usage.PromptTokens)
	assert.Equal(t, 22, got.Usage.CompletionTokens)
	assert.Equal(t, "gpt-4o-mini", got.Usage.Model)

	require.NotNil(t, chat.opts.MaxTokens)
	assert.Equal(t, 331, *chat.opts.MaxTokens)
	require.NotNil(t, chat.opts.Temperature)
	assert.InDelta(t, 0.7, float64(*chat.opts.Temperature), 1e-6)
	require.NotNil(t, chat.opts.Model)
	assert.Equal(t, "gpt-4o-mini", *chat.opts.Model)
	assert.Len(t, chat.input, 2)
}

func TestEinoProviderClassifiesErrors(t *testing.T) {
	chat := &fakeChatModel{err: errors.New("error, status code: 401, status: 401 Unauthorized, message: bad key")}
	p := NewEinoProvider("openai", "m", chat)
	_, err := p.Generate(context.Background(), testPayload())
	require.Error(t, err)
	assert.True(t, service.IsPermanent(err))

	chat.err = errors.New("error, status code: 503, message: overloaded")
	_, err = p.Generate(context.Background(), testPayload())
	require.Error(t, err)
	assert.False(t, service.IsPermanent(err))
}

func TestEinoProviderRejectsEmptyPayload(t *testing.T) {
	p := NewEinoProvider("openai", "m", &fakeChatModel{})
	_, err := p.Generate(context.Background(), &service.Payload{})
	assert.True(t, service.IsPermanent(err))
}

func newOllamaServer(t *testing.T, handler http.HandlerFunc) config.ProviderConfig {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return config.ProviderConfig{
		Type:    config.ProviderTypeOllama,
		BaseURL: srv.URL + "/v1",
		Model:   "llama3.1",
		Timeout: 5 * time.Second,
	}
}

func TestOllamaProviderGenerate(t *testing.T) {
	var got api.ChatRequest
	cfg := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"llama3.1","message":{"role":"assistant","content":"Ember Road\n\nOnce."},"done":true,"prompt_eval_count":12,"eval_count":34}`)
	})

	p, err := NewOllamaProvider("ollama", cfg, einoobs.NewHandler())
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Equal(t, "Ember Road\n\nOnce.", out.Text)
	assert.Equal(t, 12, out.Usage.PromptTokens)
	assert.Equal(t, 34, out.Usage.CompletionTokens)

	assert.Equal(t, "llama3.1", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "write", got.Messages[1].Content)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	assert.EqualValues(t, 331, got.Options["num_predict"])
}

func TestOllamaProviderModelNotFoundIsPermanent(t *testing.T) {
	cfg := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model \"llama3.1\" not found"}`)
	})
	p, err := NewOllamaProvider("ollama", cfg)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), testPayload())
	require.Error(t, err)
	assert.True(t, service.IsPermanent(err))
}

func TestOllamaProviderServerErrorIsRetryable(t *testing.T) {
	cfg := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"boom"}`)
	})
	p, err := NewOllamaProvider("ollama", cfg)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), testPayload())
	require.Error(t, err)
	assert.False(t, service.IsPermanent(err))
}

func TestFactory(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "local",
		Providers: map[string]config.ProviderConfig{
			"local":  {Type: config.ProviderTypeOllama, BaseURL: "http://localhost:11434", Model: "llama3.1"},
			"broken": {Type: "grpc"},
		},
	}}
	f := NewFactory(cfg)

	p, err := f.Default(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())

	again, err := f.Get(context.Background(), "local")
	require.NoError(t, err)
	assert.Same(t, p, again)

	_, err = f.Get(context.Background(), "broken")
	assert.Error(t, err)
	_, err = f.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestIsPermanentStatus(t *testing.T) {
	assert.True(t, isPermanentStatus(400))
	assert.True(t, isPermanentStatus(404))
	assert.False(t, isPermanentStatus(408))
	assert.False(t, isPermanentStatus(429))
	assert.False(t, isPermanentStatus(500))
	assert.False(t, isPermanentStatus(0))
}
