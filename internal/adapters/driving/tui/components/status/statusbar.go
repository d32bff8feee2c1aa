// Package status renders the one-line footer shared by the list views.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
)

// State selects what the left side of the bar shows.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateBusy    State = "busy"
	StateError   State = "error"
)

// Bar shows the view state on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	help    help.Model
	hints   []key.Binding
	state   State
	message string
	count   int
	noun    string
	width   int
}

// NewBar returns a ready bar. noun labels the count, e.g. "documents".
func NewBar(s *styles.Styles, km *keymap.KeyMap, noun string) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	h := help.New()
	h.Styles.ShortKey = s.Muted.Bold(true)
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	return &Bar{styles: s, keymap: km, help: h, hints: km.ShortHelp(), state: StateReady, noun: noun, width: 80}
}

func (b *Bar) View() string {
	left := b.status()
	right := b.help.ShortHelpView(b.hints)
	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) status() string {
	switch b.state {
	case StateLoading:
		return b.styles.Muted.Render("Loading...")
	case StateBusy:
		return b.styles.Muted.Render(or(b.message, "Working..."))
	case StateError:
		if b.message == "" {
			return b.styles.Error.Render("Error")
		}
		return b.styles.Error.Render("Error: " + b.message)
	}

	switch {
	case b.message != "":
		return b.styles.Success.Render(b.message)
	case b.count > 0 && b.noun != "":
		return b.styles.Normal.Render(fmt.Sprintf("%d %s", b.count, b.noun))
	default:
		return b.styles.Muted.Render("Ready")
	}
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func (b *Bar) SetHints(bindings []key.Binding) { b.hints = bindings }

// SetState replaces the state and its message.
func (b *Bar) SetState(state State, message string) {
	b.state, b.message = state, message
}

func (b *Bar) State() State { return b.state }
func (b *Bar) Message() string { return b.message }
func (b *Bar) SetCount(n int) { b.count = n }
func (b *Bar) SetWidth(w int) { b.width = w }

// Clear returns to StateReady with no message.
func (b *Bar) Clear() { b.SetState(StateReady, "") }
