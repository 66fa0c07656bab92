package llm

import (
	"context"
	"io"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/ssestream"

	"github.com/Expert21/cmdex/errors"
	"github.com/Expert21/cmdex/prompt"
)

// DefaultOpenAIBaseURL targets Ollama's OpenAI-compatible endpoint.
const DefaultOpenAIBaseURL = "http://localhost:11434/v1"

// OpenAIClient speaks the OpenAI chat-completions API. It exists for local
// servers that expose that API (Ollama /v1, llama.cpp server, vLLM,
// LM Studio); point it elsewhere with the config base URL.
type OpenAIClient struct {
	client  *openai.Client
	baseURL string
	model   string
}

// NewOpenAIClient builds a client for an OpenAI-compatible server. The API
// key comes from OPENAI_API_KEY when set; local servers accept any value,
// so a placeholder is used otherwise.
func NewOpenAIClient(baseURL, model string) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = "cmdex-local"
	}
	// The v2 SDK uses functional options for configuration.
	c := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &OpenAIClient{client: &c, baseURL: baseURL, model: model}
}

func (c *OpenAIClient) params(env prompt.Envelope) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(env.System),
			openai.UserMessage(env.User),
		},
	}
}

// Complete sends a blocking chat-completion request.
func (c *OpenAIClient) Complete(ctx context.Context, env prompt.Envelope) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.params(env))
	if err != nil {
		return "", &ConnectionError{Host: c.baseURL, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamComplete sends a streaming chat-completion request and adapts the
// SSE stream to the Stream contract.
func (c *OpenAIClient) StreamComplete(ctx context.Context, env prompt.Envelope) (Stream, error) {
	s := c.client.Chat.Completions.NewStreaming(ctx, c.params(env))
	if err := s.Err(); err != nil {
		s.Close()
		return nil, &ConnectionError{Host: c.baseURL, Err: err}
	}
	return &openaiStream{inner: s}, nil
}

// ListModels queries the server's model catalog.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]Model, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, &ConnectionError{Host: c.baseURL, Err: err}
	}
	models := make([]Model, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, Model{Name: m.ID})
	}
	return models, nil
}

// CheckHealth verifies the server answers the model catalog call.
func (c *OpenAIClient) CheckHealth(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx); err != nil {
		return &ConnectionError{Host: c.baseURL, Err: err}
	}
	return nil
}

// openaiStream adapts the SDK's SSE stream, skipping chunks that carry no
// content delta.
type openaiStream struct {
	inner *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *openaiStream) Recv() (string, error) {
	for s.inner.Next() {
		chunk := s.inner.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
	if err := s.inner.Err(); err != nil {
		return "", &StreamError{Err: err}
	}
	return "", io.EOF
}

func (s *openaiStream) Close() error {
	return errors.Wrapf(s.inner.Close(), "closing completion stream")
}
