package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/Expert21/cmdex/hostinfo"
	"github.com/Expert21/cmdex/persona"
)

func testBuilder(t *testing.T) (*Builder, *persona.Registry) {
	t.Helper()
	reg, err := persona.Load([]persona.Persona{
		{Name: "general", SystemTemplate: "You work on {os} with {shell}."},
		{Name: "security", SystemTemplate: "You audit {os} systems using {shell}."},
	}, "general")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	host := hostinfo.Context{OS: hostinfo.FamilyLinux, Shell: "bash"}
	return NewBuilder(reg, host), reg
}

func TestBuildGenerate(t *testing.T) {
	b, _ := testBuilder(t)
	env, err := b.Build(Request{Intent: IntentGenerate, Text: "find python files modified last week"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if env.Intent != IntentGenerate {
		t.Errorf("Intent = %q, want %q", env.Intent, IntentGenerate)
	}
	if !strings.Contains(env.User, "find python files modified last week") {
		t.Errorf("user text lacks the description verbatim: %q", env.User)
	}
	if !strings.Contains(env.System, "You work on Linux/Unix with bash.") {
		t.Errorf("system text lacks substituted template: %q", env.System)
	}
	if !strings.Contains(env.System, "exactly one executable command line") {
		t.Errorf("system text lacks generate instructions: %q", env.System)
	}
}

func TestBuildExplain(t *testing.T) {
	b, _ := testBuilder(t)
	env, err := b.Build(Request{Intent: IntentExplain, Text: `tar -xzf archive.tar.gz`})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if env.Intent != IntentExplain {
		t.Errorf("Intent = %q, want %q", env.Intent, IntentExplain)
	}
	if !strings.Contains(env.User, "tar -xzf archive.tar.gz") {
		t.Errorf("user text lacks the command: %q", env.User)
	}
	if strings.Contains(env.System, "Risk notes") {
		t.Errorf("general persona should not get risk notes: %q", env.System)
	}
}

func TestBuildExplainSecurityPersonaAddsRiskNotes(t *testing.T) {
	b, _ := testBuilder(t)
	env, err := b.Build(Request{Intent: IntentExplain, Text: "nmap -sS 10.0.0.0/24", PersonaOverride: "security"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(env.System, "Risk notes") {
		t.Errorf("security persona explain should include risk notes: %q", env.System)
	}
}

func TestBuildChatPassesUserTextThrough(t *testing.T) {
	b, _ := testBuilder(t)
	const text = "  what does $PATH do?  "
	env, err := b.Build(Request{Intent: IntentChat, Text: text})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if env.User != text {
		t.Errorf("chat user text modified: %q", env.User)
	}
	if env.Intent != IntentChat {
		t.Errorf("Intent = %q, want %q", env.Intent, IntentChat)
	}
}

func TestBuildIsPure(t *testing.T) {
	b, _ := testBuilder(t)
	req := Request{Intent: IntentGenerate, Text: "list open ports"}
	first, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := b.Build(req)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if first != second {
		t.Errorf("identical inputs produced different envelopes:\n%+v\n%+v", first, second)
	}
}

func TestBuildOverrideDoesNotMutateActive(t *testing.T) {
	b, reg := testBuilder(t)
	env, err := b.Build(Request{Intent: IntentGenerate, Text: "scan the subnet", PersonaOverride: "security"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(env.System, "You audit Linux/Unix systems") {
		t.Errorf("override persona not used: %q", env.System)
	}
	if reg.Active().Name != "general" {
		t.Errorf("override mutated active persona to %q", reg.Active().Name)
	}
}

func TestBuildUnknownOverrideFails(t *testing.T) {
	b, _ := testBuilder(t)
	_, err := b.Build(Request{Intent: IntentGenerate, Text: "anything", PersonaOverride: "ghost"})
	if err == nil {
		t.Fatal("expected error for unknown persona override")
	}
	var nf *persona.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error is %T, want *persona.NotFoundError", err)
	}
}

func TestBuildUnknownShellUsesFiller(t *testing.T) {
	reg, err := persona.Load([]persona.Persona{
		{Name: "general", SystemTemplate: "OS {os}, shell {shell}."},
	}, "general")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b := NewBuilder(reg, hostinfo.Context{OS: hostinfo.FamilyUnknown, Shell: hostinfo.ShellUnknown})
	env, err := b.Build(Request{Intent: IntentChat, Text: "hi"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !strings.Contains(env.System, "an unspecified operating system") {
		t.Errorf("unknown OS not degraded: %q", env.System)
	}
	if !strings.Contains(env.System, "an unspecified shell") {
		t.Errorf("unknown shell not degraded: %q", env.System)
	}
}
