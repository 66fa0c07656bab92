// Package prompt turns a parsed user request into the system/user message
// pair sent to the model. Building is pure: the same request, persona state,
// and host context always produce an identical envelope.
package prompt

import (
	"strings"

	"github.com/Expert21/cmdex/hostinfo"
	"github.com/Expert21/cmdex/persona"
)

// Intent identifies what kind of help a turn asks for.
type Intent string

const (
	IntentGenerate Intent = "generate"
	IntentExplain  Intent = "explain"
	IntentChat     Intent = "chat"
)

// Envelope is the complete, model-ready prompt for one turn. It is built
// per turn and consumed exactly once by the backend call.
type Envelope struct {
	System string
	User   string
	Intent Intent
}

// Request carries the resolved inputs of a buildable turn. PersonaOverride,
// when non-empty, selects a persona for this single call without touching
// the registry's active selection.
type Request struct {
	Intent          Intent
	Text            string
	PersonaOverride string
}

// Builder composes envelopes from the session's persona registry and the
// detected host context.
type Builder struct {
	registry *persona.Registry
	host     hostinfo.Context
}

// NewBuilder creates a Builder bound to a registry and host context.
func NewBuilder(reg *persona.Registry, host hostinfo.Context) *Builder {
	return &Builder{registry: reg, host: host}
}

// Build composes the envelope for a request. An unknown persona override
// fails with persona.NotFoundError before anything is sent to the backend.
func (b *Builder) Build(req Request) (Envelope, error) {
	p := b.registry.Active()
	if req.PersonaOverride != "" {
		override, err := b.registry.Get(req.PersonaOverride)
		if err != nil {
			return Envelope{}, err
		}
		p = override
	}

	system := b.substitute(p.SystemTemplate)
	switch req.Intent {
	case IntentGenerate:
		return Envelope{
			System: system + "\n\n" + generateInstructions,
			User:   generateUserPrefix + req.Text,
			Intent: IntentGenerate,
		}, nil
	case IntentExplain:
		explain := explainInstructions
		if securityOriented(p) {
			explain += explainRiskNotes
		}
		return Envelope{
			System: system + "\n\n" + explain,
			User:   "Explain this terminal command:\n\n```\n" + req.Text + "\n```",
			Intent: IntentExplain,
		}, nil
	default:
		return Envelope{
			System: system + "\n\n" + chatInstructions,
			User:   req.Text,
			Intent: IntentChat,
		}, nil
	}
}

// substitute fills the {os} and {shell} placeholders of a persona template.
func (b *Builder) substitute(template string) string {
	shell := b.host.Shell
	if shell == hostinfo.ShellUnknown || shell == "" {
		shell = "an unspecified shell"
	}
	return strings.NewReplacer(
		"{os}", b.host.OS.Description(),
		"{shell}", shell,
	).Replace(template)
}

func securityOriented(p persona.Persona) bool {
	return strings.Contains(strings.ToLower(p.Name), "security")
}

const generateInstructions = `For this request, produce exactly one executable command line.
Output ONLY the command: no prose, no comments, no code fences.
If multiple steps are unavoidable, chain them with && on a single line.`

const generateUserPrefix = "Convert this into a terminal command. If required information is missing, ask instead of guessing.\n\n"

const explainInstructions = `For this request, explain the given command without running or modifying it.
Structure the explanation as:
1. Purpose: one sentence describing what the whole command does.
2. Breakdown: each program, flag, and argument, exactly as used here.
3. Side effects: files touched, processes started, network traffic.
Do not invent flags or meanings; say "not enough context" rather than guess.`

const explainRiskNotes = `
4. Risk notes: what could go wrong, what the command exposes, and how the activity might be detected.`

const chatInstructions = `You are in an interactive terminal session. Answer only within the
command-line domain. When you generate a command, show it first in a code
block, then explain briefly. If the request is unclear, ask one clarifying
question instead of assuming.`
