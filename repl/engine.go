package repl

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/Expert21/cmdex/errors"
	"github.com/Expert21/cmdex/llm"
	"github.com/Expert21/cmdex/persona"
	"github.com/Expert21/cmdex/prompt"
)

const usageText = "Commands: /generate <description> | /explain <command> | /persona <name> | /exit"

// Engine runs the interactive session. It owns the persona registry and
// the detected host context for the session's lifetime and processes one
// turn at a time; shared state is only ever mutated between turns.
type Engine struct {
	Registry *persona.Registry
	Builder  *prompt.Builder
	Client   llm.Client
	Model    string
	Version  string

	in  io.Reader
	out io.Writer
}

// New creates an Engine reading lines from in and writing to out.
func New(reg *persona.Registry, builder *prompt.Builder, client llm.Client, model, version string, in io.Reader, out io.Writer) *Engine {
	return &Engine{
		Registry: reg,
		Builder:  builder,
		Client:   client,
		Model:    model,
		Version:  version,
		in:       in,
		out:      out,
	}
}

// Run drives the session loop until /exit, end of input, or an interrupt
// received while waiting for input. An interrupt during a streaming turn
// cancels only that turn; the partial response is kept and the loop
// continues. Per-turn failures are reported and never end the session.
func (e *Engine) Run(ctx context.Context) error {
	e.printBanner()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(e.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprintf(e.out, "\n%s ", stylePrompt.Render(">"))

		var line string
		var open bool
		select {
		case line, open = <-lines:
			if !open {
				fmt.Fprintln(e.out)
				e.printGoodbye()
				return errors.Wrapf(<-scanErr, "reading input")
			}
		case <-interrupts:
			fmt.Fprintln(e.out)
			e.printGoodbye()
			return nil
		case <-ctx.Done():
			fmt.Fprintln(e.out)
			e.printGoodbye()
			return nil
		}

		if e.dispatch(ctx, interrupts, line) {
			e.printGoodbye()
			return nil
		}
	}
}

// dispatch handles one parsed line and reports whether the session should
// terminate.
func (e *Engine) dispatch(ctx context.Context, interrupts <-chan os.Signal, line string) bool {
	switch d := Parse(line).(type) {
	case Exit:
		return true
	case SwitchPersona:
		if err := e.Registry.Switch(d.Name); err != nil {
			PrintError(e.out, "%v", err)
			PrintHint(e.out, "Available personas: %s", strings.Join(e.Registry.Names(), ", "))
		} else {
			PrintSuccess(e.out, "Switched to %s persona", d.Name)
		}
	case Unrecognized:
		PrintHint(e.out, "Unrecognized command: %s", strings.TrimSpace(d.Raw))
		PrintHint(e.out, usageText)
	case Chat:
		if d.Text == "" {
			return false
		}
		e.runTurn(ctx, interrupts, prompt.Request{Intent: prompt.IntentChat, Text: d.Text}, "Assistant")
	case Generate:
		e.runTurn(ctx, interrupts, prompt.Request{
			Intent:          prompt.IntentGenerate,
			Text:            d.Description,
			PersonaOverride: d.PersonaOverride,
		}, "Generated Command")
	case Explain:
		e.runTurn(ctx, interrupts, prompt.Request{
			Intent:          prompt.IntentExplain,
			Text:            d.CommandText,
			PersonaOverride: d.PersonaOverride,
		}, "Explanation")
	}
	return false
}

// runTurn executes one model-backed turn: build the envelope, open the
// stream, and render fragments as they arrive. Every failure mode is
// turn-scoped; runTurn always returns with the session intact.
func (e *Engine) runTurn(ctx context.Context, interrupts <-chan os.Signal, req prompt.Request, title string) {
	env, err := e.Builder.Build(req)
	if err != nil {
		PrintError(e.out, "%v", err)
		var nf *persona.NotFoundError
		if stderrors.As(err, &nf) {
			PrintHint(e.out, "Available personas: %s", strings.Join(e.Registry.Names(), ", "))
		}
		return
	}

	// An interrupt during the stream cancels this turn only.
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-interrupts:
			cancel()
		case <-watchDone:
		}
	}()

	stream, err := e.Client.StreamComplete(turnCtx, env)
	if err != nil {
		PrintError(e.out, "%v", err)
		return
	}

	fmt.Fprintf(e.out, "\n%s\n", styleTitle.Render(title+":"))
	turn, consumeErr := Consume(turnCtx, stream, func(frag string) {
		fmt.Fprint(e.out, frag)
	})
	fmt.Fprintln(e.out)

	if turn.Cancelled {
		PrintHint(e.out, "(cancelled)")
		return
	}
	if consumeErr != nil {
		PrintError(e.out, "response interrupted: %v", consumeErr)
	}
}

func (e *Engine) printBanner() {
	body := strings.Join([]string{
		styleTitle.Render("cmdex") + " " + styleHint.Render(e.Version),
		"",
		"Model:   " + styleAccent.Render(e.Model),
		"Persona: " + styleSuccess.Render(e.Registry.Active().Name),
		"",
		styleHint.Render("Type your request, or:"),
		"  /generate <description>   generate a command",
		"  /explain <command>        explain a command",
		"  /persona <name>           switch persona",
		"  /exit                     leave",
	}, "\n")
	fmt.Fprintln(e.out, styleBannerBox.Render(body))
}

func (e *Engine) printGoodbye() {
	PrintHint(e.out, "Goodbye!")
}
