package magetasks

import (
	"fmt"
	"os"
	"strings"

	"github.com/appfactor/icongate/internal/console"
)

// Build output uses the same design system as the CLI. The theme is picked
// once; mono wins on pipes and CI runners.
var theme = console.AutoTheme(console.DefaultTheme().Name, os.Stdout, os.Getenv("CI") != "")

// PrintH1Header prints a top-level header with decoration.
func PrintH1Header(title string) {
	width := 80
	padding := (width - len(title)) / 2
	if padding < 0 {
		padding = 0
	}
	fmt.Println()
	fmt.Println(strings.Repeat("=", width))
	fmt.Printf("%s%s\n", strings.Repeat(" ", padding), theme.Bold.Render(title))
	fmt.Println(strings.Repeat("=", width))
	fmt.Println()
}

// PrintH2Header prints a section header.
func PrintH2Header(title string) {
	fmt.Println()
	fmt.Printf("=== %s ===\n", theme.Bold.Render(title))
	fmt.Println()
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) {
	fmt.Println(theme.Success.Render(theme.Icons.Pass + " " + msg))
}

// PrintWarning prints a warning message.
func PrintWarning(msg string) {
	fmt.Println(theme.Warning.Render(theme.Icons.Warn + " " + msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(theme.Error.Render(theme.Icons.Fail + " " + msg))
}

// PrintInfo prints an info message.
func PrintInfo(msg string) {
	fmt.Println(theme.Muted.Render(theme.Icons.Info + " " + msg))
}
