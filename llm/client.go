// Package llm defines the backend boundary: a client that turns a prompt
// envelope into either a complete response or a finite stream of text
// fragments, plus the typed errors a session needs to tell a dead server
// from a missing model from a broken stream.
package llm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Expert21/cmdex/prompt"
)

// Client is the interface for a locally hosted language model backend.
type Client interface {
	// Complete sends the envelope and blocks until the full response text
	// is available.
	Complete(ctx context.Context, env prompt.Envelope) (string, error)
	// StreamComplete sends the envelope and returns a stream of response
	// fragments. The caller must drain or Close the stream.
	StreamComplete(ctx context.Context, env prompt.Envelope) (Stream, error)
	// ListModels reports the models the backend can serve.
	ListModels(ctx context.Context) ([]Model, error)
	// CheckHealth reports whether the backend is reachable.
	CheckHealth(ctx context.Context) error
}

// Stream is a pull-based, finite, non-restartable sequence of response
// fragments, consumed by one reader. Recv returns io.EOF on normal
// exhaustion; transport failures surface as a single terminal *StreamError.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Model describes one model available on the backend.
type Model struct {
	Name string
	Size int64 // bytes; zero when the backend does not report it
}

// ConnectionError reports an unreachable backend.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to backend at %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ModelNotFoundError reports a model the backend does not serve.
type ModelNotFoundError struct {
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found; run: ollama pull %s", e.Model, e.Model)
}

// StreamError reports a transport failure after a stream was opened. The
// fragments received before the failure remain valid.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream interrupted: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// MockClient is a scripted backend for tests and offline runs. With no
// script configured it parrots the prompt back, one word per fragment.
type MockClient struct {
	// Fragments, when set, is emitted verbatim by StreamComplete.
	Fragments []string
	// Response, when set, is returned by Complete.
	Response string
	// Err, when set, fails every call.
	Err error
	// FailAfter injects a stream failure after that many fragments when
	// non-zero.
	FailAfter int
}

func (m *MockClient) Complete(ctx context.Context, env prompt.Envelope) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	if len(m.Fragments) > 0 {
		return strings.Join(m.Fragments, ""), nil
	}
	return fmt.Sprintf("mock backend: you said %q", env.User), nil
}

func (m *MockClient) StreamComplete(ctx context.Context, env prompt.Envelope) (Stream, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	fragments := m.Fragments
	if len(fragments) == 0 {
		for _, word := range strings.Fields(fmt.Sprintf("mock backend: you said %q", env.User)) {
			fragments = append(fragments, word+" ")
		}
	}
	return &mockStream{ctx: ctx, fragments: fragments, failAfter: m.FailAfter}, nil
}

func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return []Model{{Name: "mock-model", Size: 1 << 30}}, nil
}

func (m *MockClient) CheckHealth(ctx context.Context) error { return m.Err }

type mockStream struct {
	ctx       context.Context
	fragments []string
	failAfter int
	pos       int
}

func (s *mockStream) Recv() (string, error) {
	if err := s.ctx.Err(); err != nil {
		return "", &StreamError{Err: err}
	}
	if s.failAfter > 0 && s.pos >= s.failAfter {
		return "", &StreamError{Err: fmt.Errorf("scripted transport failure")}
	}
	if s.pos >= len(s.fragments) {
		return "", io.EOF
	}
	frag := s.fragments[s.pos]
	s.pos++
	return frag, nil
}

func (s *mockStream) Close() error { return nil }
