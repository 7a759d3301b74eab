// Package console is the pipeline's logging surface: severity-tagged lines
// styled by a theme, written to whichever stream the caller owns.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines colors and icons for console output.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass   string
	Fail   string
	Warn   string
	Info   string
	WIP    string
	Bullet string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:   "✓",
			Fail:   "✗",
			Warn:   "⚠",
			Info:   "●",
			WIP:    "○",
			Bullet: "·",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // lighter gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:   "✓",
			Fail:   "✗",
			Warn:   "!",
			Info:   "·",
			WIP:    "○",
			Bullet: "·",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Primary: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:   "+",
			Fail:   "x",
			Warn:   "!",
			Info:   "*",
			WIP:    "-",
			Bullet: "-",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// Known reports whether name is a built-in theme.
func Known(name string) bool {
	switch name {
	case "default", "orca", "mono":
		return true
	}
	return false
}

// AutoTheme resolves the effective theme for a writer. Mono wins under
// NO_COLOR, explicit CI mode, or when w is not a terminal.
func AutoTheme(name string, w io.Writer, ci bool) Theme {
	if ci || os.Getenv("NO_COLOR") != "" || !IsTTY(w) {
		return MonoTheme()
	}
	return ThemeByName(name)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Console writes themed status lines. Methods are printf-style; each emits
// exactly one line.
type Console struct {
	w       io.Writer
	theme   Theme
	verbose bool
}

// New creates a console over w.
func New(w io.Writer, theme Theme, verbose bool) *Console {
	return &Console{w: w, theme: theme, verbose: verbose}
}

// Theme returns the console's active theme, for callers that style their own
// fragments.
func (c *Console) Theme() Theme {
	return c.theme
}

// Headline prints a bold section line.
func (c *Console) Headline(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.theme.Bold.Render(fmt.Sprintf(format, args...)))
}

// Info prints an informational line.
func (c *Console) Info(format string, args ...interface{}) {
	c.line(c.theme.Icons.Info, c.theme.Primary, format, args...)
}

// Success prints a pass line.
func (c *Console) Success(format string, args ...interface{}) {
	c.line(c.theme.Icons.Pass, c.theme.Success, format, args...)
}

// Warn prints a warning line.
func (c *Console) Warn(format string, args ...interface{}) {
	c.line(c.theme.Icons.Warn, c.theme.Warning, format, args...)
}

// Error prints a failure line.
func (c *Console) Error(format string, args ...interface{}) {
	c.line(c.theme.Icons.Fail, c.theme.Error, format, args...)
}

// Detail prints a muted bullet line, only in verbose mode.
func (c *Console) Detail(format string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.line(c.theme.Icons.Bullet, c.theme.Muted, "  "+format, args...)
}

func (c *Console) line(icon string, style lipgloss.Style, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.w, style.Render(icon+" "+msg))
}
