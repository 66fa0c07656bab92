package repl

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("39")
	colorError   = lipgloss.Color("196")
	colorSuccess = lipgloss.Color("42")
	colorAccent  = lipgloss.Color("220")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	stylePrompt  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	styleSuccess = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	styleHint    = lipgloss.NewStyle().Faint(true)
	styleAccent  = lipgloss.NewStyle().Foreground(colorAccent)

	styleBannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	styleCommandBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1).
			Bold(true).
			Foreground(colorPrimary)
)

// PrintError writes a styled error line.
func PrintError(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", styleError.Render("Error:"), fmt.Sprintf(format, a...))
}

// PrintSuccess writes a styled confirmation line.
func PrintSuccess(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", styleSuccess.Render("✓"), fmt.Sprintf(format, a...))
}

// PrintHint writes a faint usage hint.
func PrintHint(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, styleHint.Render(fmt.Sprintf(format, a...)))
}

// RenderCommandPanel boxes a generated command for display.
func RenderCommandPanel(command string) string {
	return styleCommandBox.Render(command)
}
