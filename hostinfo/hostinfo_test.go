package hostinfo

import "testing"

func TestDetectOS(t *testing.T) {
	cases := []struct {
		goos string
		want Family
	}{
		{"linux", FamilyLinux},
		{"darwin", FamilyMacOS},
		{"windows", FamilyWindows},
		{"plan9", FamilyUnknown},
		{"", FamilyUnknown},
	}
	for _, tc := range cases {
		if got := detectOS(tc.goos); got != tc.want {
			t.Errorf("detectOS(%q) = %q, want %q", tc.goos, got, tc.want)
		}
	}
}

func TestDetectShell(t *testing.T) {
	cases := []struct {
		name  string
		shell string
		goos  string
		want  string
	}{
		{"BashPath", "/bin/bash", "linux", "bash"},
		{"ZshPath", "/usr/bin/zsh", "darwin", "zsh"},
		{"FishPath", "/opt/homebrew/bin/fish", "darwin", "fish"},
		{"BareName", "zsh", "linux", "zsh"},
		{"Unset", "", "linux", ShellUnknown},
		{"WindowsUnset", "", "windows", "powershell"},
		{"MixedCase", "/bin/Bash", "linux", "bash"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectShell(tc.shell, tc.goos); got != tc.want {
				t.Errorf("detectShell(%q, %q) = %q, want %q", tc.shell, tc.goos, got, tc.want)
			}
		})
	}
}

func TestDetectNeverFails(t *testing.T) {
	ctx := Detect()
	if ctx.OS == "" {
		t.Error("Detect returned an empty OS family")
	}
	if ctx.Shell == "" {
		t.Error("Detect returned an empty shell")
	}
}

func TestFamilyDescription(t *testing.T) {
	if FamilyLinux.Description() != "Linux/Unix" {
		t.Errorf("unexpected Linux description: %q", FamilyLinux.Description())
	}
	if FamilyUnknown.Description() != "an unspecified operating system" {
		t.Errorf("unexpected unknown description: %q", FamilyUnknown.Description())
	}
}
