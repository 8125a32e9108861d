package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hotload/config"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa palette ---
const (
	kanagawaDarkGreen      = "#98BB6C"
	kanagawaDarkYellow     = "#FF9E3B"
	kanagawaDarkRed        = "#FF5D62"
	kanagawaDarkCyan       = "#7E9CD8"
	kanagawaDarkViolet     = "#957FB8"
	kanagawaDarkMutedText  = "#727169"
	kanagawaDarkBorder     = "#363646"
	kanagawaLightGreen     = "#4E7C5A"
	kanagawaLightYellow    = "#A68A64"
	kanagawaLightRed       = "#C34043"
	kanagawaLightCyan      = "#5B8BBE"
	kanagawaLightViolet    = "#674D7A"
	kanagawaLightMutedText = "#6C7086"
	kanagawaLightBorder    = "#B5BDC5"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalViolet    = "5"
	terminalMutedText = "8"
	terminalBorder    = "8"
)

// Colors is the palette a theme is built from.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// Theme holds the pre-configured styles used by the CLI, the log formatter
// and the asset viewer.
type Theme struct {
	Colors Colors

	Header lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style

	// Placeholder marks textures that stand in for a missing source.
	Placeholder lipgloss.Style

	Box lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

// DefaultTheme is the theme selected by HOTLOAD_THEME or the `tui` config section.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the configured theme selection.
func NewTheme() *Theme {
	return NewThemeWithName(getThemeName())
}

// NewThemeWithName constructs a theme from a specific palette name.
// Unknown names fall back to the default palette.
func NewThemeWithName(name string) *Theme {
	builder, ok := themeRegistry[normalizeThemeName(name)]
	if !ok {
		builder = themeRegistry[defaultThemeName]
	}
	return newThemeFromColors(builder())
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text with the appropriate status style.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(colors Colors) *Theme {
	return &Theme{
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),

		Success: lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(colors.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(colors.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(colors.Cyan),

		Bold:   lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Foreground(colors.MutedText),
		Accent: lipgloss.NewStyle().Foreground(colors.Violet),

		Placeholder: lipgloss.NewStyle().Foreground(colors.Red).Italic(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func getThemeName() string {
	if theme := normalizeThemeName(os.Getenv("HOTLOAD_THEME")); theme != "" {
		return theme
	}

	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}

	var tuiCfg struct {
		Theme string `yaml:"theme"`
	}
	if err := cfg.UnmarshalExtension("tui", &tuiCfg); err == nil {
		if theme := normalizeThemeName(tuiCfg.Theme); theme != "" {
			return theme
		}
	}

	return defaultThemeName
}

func newKanagawaColors() Colors {
	return Colors{
		Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
		Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
		Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
		Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
		Violet:    lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
		MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMutedText, Dark: kanagawaDarkMutedText},
		Border:    lipgloss.AdaptiveColor{Light: kanagawaLightBorder, Dark: kanagawaDarkBorder},
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:     lipgloss.Color(terminalGreen),
		Yellow:    lipgloss.Color(terminalYellow),
		Red:       lipgloss.Color(terminalRed),
		Cyan:      lipgloss.Color(terminalCyan),
		Violet:    lipgloss.Color(terminalViolet),
		MutedText: lipgloss.Color(terminalMutedText),
		Border:    lipgloss.Color(terminalBorder),
	}
}
