package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette_StatusColoursDistinct(t *testing.T) {
	p := DefaultPalette()

	for _, mode := range []func(lipgloss.AdaptiveColor) string{
		func(c lipgloss.AdaptiveColor) string { return c.Light },
		func(c lipgloss.AdaptiveColor) string { return c.Dark },
	} {
		seen := map[string]bool{}
		for _, c := range []lipgloss.AdaptiveColor{p.Accent, p.Good, p.Caution, p.Bad} {
			require.NotEmpty(t, mode(c))
			assert.False(t, seen[mode(c)], "duplicate colour %s", mode(c))
			seen[mode(c)] = true
		}
	}
}

func TestNewStyles_NilPaletteUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	assert.Equal(t, DefaultPalette(), s.Palette())
}

func TestNewStyles_FollowsPalette(t *testing.T) {
	p := DefaultPalette()
	p.Accent = lipgloss.AdaptiveColor{Light: "#000001", Dark: "#000002"}

	s := NewStyles(p)

	assert.Same(t, p, s.Palette())
	assert.Equal(t, p.Accent, s.Title.GetForeground())
	assert.Equal(t, p.Accent, s.UserMessage.GetBackground())
	assert.Equal(t, p.Accent, s.Citation.GetForeground())
}

func TestStyles_RenderKeepsText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Banner.Render("Upload failed"), "Upload failed")
	assert.Contains(t, s.Citation.Render("notes.txt"), "notes.txt")
	assert.Contains(t, s.Category.Render("Images"), "Images")
}
