// Package hostinfo detects facts about the host environment that are
// injected into prompts so the model suggests commands for the right
// platform. Detection never fails: anything that cannot be determined is
// reported as unknown and the prompts degrade to OS-agnostic phrasing.
package hostinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Family identifies the operating system family of the host.
type Family string

const (
	FamilyLinux   Family = "linux"
	FamilyMacOS   Family = "macos"
	FamilyWindows Family = "windows"
	FamilyUnknown Family = "unknown"
)

// ShellUnknown is reported when no shell can be determined.
const ShellUnknown = "unknown"

// Context holds the detected host facts. It is created once at session
// start and never mutated afterwards.
type Context struct {
	OS    Family
	Shell string
}

// Detect inspects the host once and returns an immutable Context.
func Detect() Context {
	return Context{
		OS:    detectOS(runtime.GOOS),
		Shell: detectShell(os.Getenv("SHELL"), runtime.GOOS),
	}
}

func detectOS(goos string) Family {
	switch goos {
	case "linux":
		return FamilyLinux
	case "darwin":
		return FamilyMacOS
	case "windows":
		return FamilyWindows
	default:
		return FamilyUnknown
	}
}

func detectShell(shellEnv, goos string) string {
	if goos == "windows" {
		// SHELL is not set on stock Windows; PowerShell is the safe guess.
		if shellEnv == "" {
			return "powershell"
		}
	}
	if shellEnv == "" {
		return ShellUnknown
	}
	name := strings.ToLower(filepath.Base(shellEnv))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ShellUnknown
	}
	return name
}

// Description renders the OS family the way prompts expect it.
func (f Family) Description() string {
	switch f {
	case FamilyLinux:
		return "Linux/Unix"
	case FamilyMacOS:
		return "macOS"
	case FamilyWindows:
		return "Windows"
	default:
		return "an unspecified operating system"
	}
}
