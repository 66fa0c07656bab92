package repl

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/Expert21/cmdex/llm"
)

// StreamingTurn accumulates one backend response as its fragments arrive.
// It is mutated only by Consume and frozen once Consume returns.
type StreamingTurn struct {
	fragments []string
	Finished  bool
	Cancelled bool
}

// Text returns the concatenation of all fragments received so far.
func (t *StreamingTurn) Text() string {
	return strings.Join(t.fragments, "")
}

// Fragments returns the received fragments in arrival order.
func (t *StreamingTurn) Fragments() []string {
	out := make([]string, len(t.fragments))
	copy(out, t.fragments)
	return out
}

// Consume drains the stream, appending each fragment to the turn and
// surfacing it through onFragment in arrival order. The stream is always
// closed, whatever path Consume exits on.
//
// Three terminal states:
//   - normal exhaustion: Finished is set, returned error is nil;
//   - cancellation via ctx: Cancelled is set, returned error is nil — the
//     partial text is a valid result, not a failure;
//   - transport failure: the error (a *llm.StreamError from the backend)
//     is returned alongside the turn so the caller can show the partial
//     text plus an error notice.
func Consume(ctx context.Context, s llm.Stream, onFragment func(string)) (*StreamingTurn, error) {
	turn := &StreamingTurn{}
	defer s.Close()

	for {
		if ctx.Err() != nil {
			turn.Cancelled = true
			return turn, nil
		}

		frag, err := s.Recv()
		if err != nil {
			if err == io.EOF {
				turn.Finished = true
				return turn, nil
			}
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				turn.Cancelled = true
				return turn, nil
			}
			return turn, err
		}

		turn.fragments = append(turn.fragments, frag)
		if onFragment != nil {
			onFragment(frag)
		}
	}
}
