package repl

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Expert21/cmdex/llm"
)

// scriptStream yields fixed fragments, optionally failing or blocking on
// cancellation afterwards.
type scriptStream struct {
	ctx       context.Context
	fragments []string
	failWith  error
	pos       int
	closed    bool
}

func (s *scriptStream) Recv() (string, error) {
	if s.ctx != nil && s.ctx.Err() != nil {
		return "", &llm.StreamError{Err: s.ctx.Err()}
	}
	if s.pos < len(s.fragments) {
		frag := s.fragments[s.pos]
		s.pos++
		return frag, nil
	}
	if s.failWith != nil {
		return "", s.failWith
	}
	return "", io.EOF
}

func (s *scriptStream) Close() error {
	s.closed = true
	return nil
}

func TestConsumeRoundTrip(t *testing.T) {
	src := &scriptStream{fragments: []string{"find ", ". -name ", `"*.py" -mtime -7`}}
	var surfaced []string
	turn, err := Consume(context.Background(), src, func(f string) { surfaced = append(surfaced, f) })
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !turn.Finished || turn.Cancelled {
		t.Errorf("turn state = finished:%v cancelled:%v", turn.Finished, turn.Cancelled)
	}
	if got := turn.Text(); got != `find . -name "*.py" -mtime -7` {
		t.Errorf("Text() = %q", got)
	}
	if strings.Join(surfaced, "") != turn.Text() {
		t.Errorf("surfaced fragments %q differ from finalized text %q", surfaced, turn.Text())
	}
	if len(surfaced) != 3 {
		t.Errorf("surfaced %d fragments, want 3 (no drops, no duplicates)", len(surfaced))
	}
	if !src.closed {
		t.Error("stream not closed after normal exhaustion")
	}
}

func TestConsumeTransportFailureKeepsPartial(t *testing.T) {
	src := &scriptStream{
		fragments: []string{"one ", "two "},
		failWith:  &llm.StreamError{Err: fmt.Errorf("connection reset")},
	}
	turn, err := Consume(context.Background(), src, nil)
	var se *llm.StreamError
	if !stderrors.As(err, &se) {
		t.Fatalf("error is %T (%v), want *llm.StreamError", err, err)
	}
	if turn.Finished || turn.Cancelled {
		t.Errorf("turn state = finished:%v cancelled:%v, want neither", turn.Finished, turn.Cancelled)
	}
	if got := turn.Fragments(); len(got) != 2 || got[0] != "one " || got[1] != "two " {
		t.Errorf("Fragments() = %q, want exactly the two received", got)
	}
	if !src.closed {
		t.Error("stream not closed after failure")
	}
}

func TestConsumeCancellationIsNotAnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &scriptStream{ctx: ctx, fragments: []string{"a", "b", "c", "d"}}

	var count int
	turn, err := Consume(ctx, src, func(string) {
		count++
		if count == 2 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("cancellation surfaced as error: %v", err)
	}
	if !turn.Cancelled {
		t.Error("turn not marked cancelled")
	}
	if turn.Finished {
		t.Error("cancelled turn marked finished")
	}
	if got := turn.Text(); got != "ab" {
		t.Errorf("Text() = %q, want the prefix received before cancel", got)
	}
	if !src.closed {
		t.Error("stream not closed after cancellation")
	}
}

func TestConsumeCancellationSurfacedByRecv(t *testing.T) {
	// Backends report cancellation through Recv when the transport context
	// dies mid-read; that must still finalize as cancelled, not failed.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &scriptStream{failWith: &llm.StreamError{Err: context.Canceled}}
	turn, err := Consume(ctx, src, nil)
	if err != nil {
		t.Fatalf("cancellation surfaced as error: %v", err)
	}
	if !turn.Cancelled {
		t.Error("turn not marked cancelled")
	}
}

func TestConsumeEmptyStream(t *testing.T) {
	turn, err := Consume(context.Background(), &scriptStream{}, nil)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !turn.Finished || turn.Text() != "" {
		t.Errorf("empty stream: finished=%v text=%q", turn.Finished, turn.Text())
	}
}
