package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// InitializeTUI prepares the terminal for the asset viewer. CLICOLOR_FORCE and
// COLORTERM=truecolor force full color, NO_COLOR disables it.
func InitializeTUI() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
