package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Expert21/cmdex/errors"
	"github.com/Expert21/cmdex/prompt"
)

// DefaultOllamaHost is where a stock Ollama install listens.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaClient talks to a local Ollama server over its native HTTP API.
type OllamaClient struct {
	Endpoint string
	Model    string
	Debug    bool

	client *http.Client
}

type generatePayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewOllamaClient builds a client for the given endpoint and model. An
// empty endpoint falls back to the default local install.
func NewOllamaClient(endpoint, model string, timeout time.Duration) *OllamaClient {
	if endpoint == "" {
		endpoint = DefaultOllamaHost
	}
	return &OllamaClient{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Complete issues a non-streaming generate call and returns the full text.
func (c *OllamaClient) Complete(ctx context.Context, env prompt.Envelope) (string, error) {
	resp, err := c.post(ctx, generatePayload{
		Model:  c.Model,
		Prompt: env.User,
		System: env.System,
		Stream: false,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrapf(err, "decoding ollama response")
	}
	if out.Error != "" {
		return "", errors.New("ollama error: %s", out.Error)
	}
	return out.Response, nil
}

// StreamComplete issues a streaming generate call. The returned stream
// yields the NDJSON chunk texts in arrival order and io.EOF when the
// server reports done.
func (c *OllamaClient) StreamComplete(ctx context.Context, env prompt.Envelope) (Stream, error) {
	resp, err := c.post(ctx, generatePayload{
		Model:  c.Model,
		Prompt: env.User,
		System: env.System,
		Stream: true,
	})
	if err != nil {
		return nil, err
	}
	return &ollamaStream{body: resp.Body, reader: bufio.NewReader(resp.Body)}, nil
}

// ListModels queries /api/tags.
func (c *OllamaClient) ListModels(ctx context.Context) ([]Model, error) {
	resp, err := c.get(ctx, "/api/tags")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("ollama error: %s", resp.Status)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, errors.Wrapf(err, "decoding model list")
	}
	models := make([]Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, Model{Name: m.Name, Size: m.Size})
	}
	return models, nil
}

// CheckHealth probes /api/version.
func (c *OllamaClient) CheckHealth(ctx context.Context) error {
	resp, err := c.get(ctx, "/api/version")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("ollama returned %s for version probe", resp.Status)
	}
	return nil
}

func (c *OllamaClient) post(ctx context.Context, payload generatePayload) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding request")
	}
	c.logf("request /api/generate: %s", truncate(string(body), 2048))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectionError{Host: c.Endpoint, Err: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, &ModelNotFoundError{Model: payload.Model}
	}
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if msg := strings.TrimSpace(string(detail)); msg != "" {
			return nil, errors.New("ollama error: %s: %s", resp.Status, msg)
		}
		return nil, errors.New("ollama error: %s", resp.Status)
	}
	return resp, nil
}

func (c *OllamaClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectionError{Host: c.Endpoint, Err: err}
	}
	return resp, nil
}

func (c *OllamaClient) logf(format string, args ...interface{}) {
	if !c.Debug {
		return
	}
	log.Printf("[ollama] "+format, args...)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// ollamaStream decodes the NDJSON chunk sequence of a streaming generate
// call. One Recv yields one chunk's text.
type ollamaStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	done   bool
}

func (s *ollamaStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for {
		line, err := s.reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var chunk generateResponse
			if jsonErr := json.Unmarshal(line, &chunk); jsonErr != nil {
				return "", &StreamError{Err: jsonErr}
			}
			if chunk.Error != "" {
				return "", &StreamError{Err: fmt.Errorf("ollama error: %s", chunk.Error)}
			}
			if chunk.Done {
				s.done = true
			}
			if chunk.Response != "" {
				return chunk.Response, nil
			}
			if s.done {
				return "", io.EOF
			}
		}
		if err != nil {
			if err == io.EOF {
				s.done = true
				return "", io.EOF
			}
			return "", &StreamError{Err: err}
		}
	}
}

func (s *ollamaStream) Close() error {
	return s.body.Close()
}
