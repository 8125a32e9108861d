package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestNewThemeWithNameFallsBack(t *testing.T) {
	th := NewThemeWithName("does-not-exist")
	assert.Equal(t, newKanagawaColors(), th.Colors)

	term := NewThemeWithName(" Terminal ")
	assert.Equal(t, lipgloss.Color(terminalRed), term.Colors.Red)
}

func TestThemeFromEnv(t *testing.T) {
	t.Setenv("HOTLOAD_THEME", "terminal")
	assert.Equal(t, "terminal", getThemeName())
}

func TestRenderStatusUnknownIsPlain(t *testing.T) {
	assert.Equal(t, "hello", RenderStatus("bogus", "hello"))
}
