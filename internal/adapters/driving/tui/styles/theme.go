// Package styles holds the lipgloss styles shared by every TUI view.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette assigns a colour to each role. Colours adapt to light and dark
// terminal backgrounds.
type Palette struct {
	Accent  lipgloss.AdaptiveColor
	Strong  lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Dim     lipgloss.AdaptiveColor
	Surface lipgloss.AdaptiveColor
	Good    lipgloss.AdaptiveColor
	Caution lipgloss.AdaptiveColor
	Bad     lipgloss.AdaptiveColor
	Frame   lipgloss.AdaptiveColor
}

// DefaultPalette is blue on slate.
func DefaultPalette() *Palette {
	return &Palette{
		Accent:  lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"},
		Strong:  lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#60A5FA"},
		Text:    lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"},
		Dim:     lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Surface: lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"},
		Good:    lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"},
		Caution: lipgloss.AdaptiveColor{Light: "#A16207", Dark: "#EAB308"},
		Bad:     lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"},
		Frame:   lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"},
	}
}

// Styles are the rendered roles. Views never build their own colours.
type Styles struct {
	palette *Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// Banner is the failure line shown at the top of a view.
	Banner   lipgloss.Style
	Category lipgloss.Style

	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	Citation         lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles derives every style from p; nil means DefaultPalette.
func NewStyles(p *Palette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	bubble := func(text, bg lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(text).Background(bg).Padding(0, 1)
	}

	return &Styles{
		palette: p,

		Title:    fg(p.Accent).Bold(true),
		Subtitle: fg(p.Strong).Bold(true),
		Normal:   fg(p.Text),
		Muted:    fg(p.Dim),
		Selected: fg(p.Text).Background(p.Accent).Bold(true),
		Error:    fg(p.Bad),
		Success:  fg(p.Good),
		Warning:  fg(p.Caution),

		Banner:   fg(p.Bad).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(p.Bad).PaddingLeft(1),
		Category: fg(p.Text).Bold(true),

		UserMessage:      bubble(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}, p.Accent),
		AssistantMessage: bubble(p.Text, p.Surface),
		Citation:         fg(p.Accent).Underline(true),

		InputField: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Frame).Padding(0, 1),
		StatusBar:  bubble(p.Dim, p.Surface),
		Help:       fg(p.Dim),
	}
}

// DefaultStyles uses DefaultPalette.
func DefaultStyles() *Styles {
	return NewStyles(nil)
}

func (s *Styles) Palette() *Palette {
	return s.palette
}
