// Package repl implements the interactive session: parsing one line of
// input into a directive, driving the backend stream for a turn, and the
// engine loop that ties them to the persona registry and prompt builder.
package repl

import "strings"

// Directive is the parsed, structured form of one input line. The set is
// closed: every dispatcher switches over all variants.
type Directive interface {
	isDirective()
}

// Chat is a plain conversational line.
type Chat struct {
	Text string
}

// Generate asks for a command matching a natural-language description.
type Generate struct {
	Description     string
	PersonaOverride string
}

// Explain asks for a breakdown of a shell command.
type Explain struct {
	CommandText     string
	PersonaOverride string
}

// SwitchPersona changes the session's active persona.
type SwitchPersona struct {
	Name string
}

// Exit ends the session.
type Exit struct{}

// Unrecognized is a slash line that matches no command; the engine answers
// with a usage hint, never an error.
type Unrecognized struct {
	Raw string
}

func (Chat) isDirective()          {}
func (Generate) isDirective()      {}
func (Explain) isDirective()       {}
func (SwitchPersona) isDirective() {}
func (Exit) isDirective()          {}
func (Unrecognized) isDirective()  {}

// Parse classifies one input line. It is pure and total: every string maps
// to exactly one directive and no input can make it fail.
func Parse(line string) Directive {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Chat{}
	}
	if !strings.HasPrefix(trimmed, "/") {
		return Chat{Text: trimmed}
	}

	keyword, rest := splitKeyword(trimmed)
	switch strings.ToLower(keyword) {
	case "/generate":
		if rest == "" {
			return Unrecognized{Raw: line}
		}
		text, override := extractPersonaFlag(rest)
		return Generate{Description: text, PersonaOverride: override}
	case "/explain":
		if rest == "" {
			return Unrecognized{Raw: line}
		}
		text, override := extractPersonaFlag(rest)
		return Explain{CommandText: text, PersonaOverride: override}
	case "/persona":
		if fields := strings.Fields(rest); len(fields) == 1 {
			return SwitchPersona{Name: fields[0]}
		}
		return Unrecognized{Raw: line}
	case "/exit", "/quit":
		if rest == "" {
			return Exit{}
		}
		return Unrecognized{Raw: line}
	default:
		return Unrecognized{Raw: line}
	}
}

func splitKeyword(line string) (keyword, rest string) {
	if i := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// extractPersonaFlag pulls a "-p NAME" or "--persona NAME" token pair out
// of the text, wherever it appears. When no flag is present the text is
// returned untouched, preserving its inner whitespace.
func extractPersonaFlag(text string) (string, string) {
	fields := strings.Fields(text)
	for i, f := range fields {
		if f != "-p" && f != "--persona" {
			continue
		}
		kept := make([]string, 0, len(fields))
		kept = append(kept, fields[:i]...)
		override := ""
		if i+1 < len(fields) {
			override = fields[i+1]
			kept = append(kept, fields[i+2:]...)
		}
		return strings.Join(kept, " "), override
	}
	return text, ""
}
