// Package help is the keybinding reference screen.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
)

// sectionTitles label the columns of keymap.FullHelp, in order.
var sectionTitles = []string{"Navigation", "Documents", "Upload", "Chat", "General"}

const backendHint = "Backend: --api-url, KBQA_API_URL, or kbqa config set api.url"

type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model
	width  int
	height int
}

func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, keymap: keymap.DefaultKeyMap(), help: help.New(), width: 80, height: 24}
}

// Update leaves on esc or ?, the same key that opened it.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		if k := msg.String(); keymap.Matches(k, v.keymap.Back) || keymap.Matches(k, v.keymap.Help) {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		}
	}
	return v, nil
}

func (v *View) View() string {
	groups := v.keymap.FullHelp()
	columns := make([]string, 0, len(groups))
	for i, group := range groups {
		title := ""
		if i < len(sectionTitles) {
			title = sectionTitles[i]
		}
		var col strings.Builder
		col.WriteString(v.styles.Subtitle.Render(title))
		for _, b := range group {
			col.WriteString("\n" + v.help.ShortHelpView([]key.Binding{b}))
		}
		columns = append(columns, lipgloss.NewStyle().PaddingRight(4).Render(col.String()))
	}

	return strings.Join([]string{
		v.styles.Title.Render("Help"),
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		v.styles.Muted.Render(backendHint),
		v.styles.Help.Render("esc back to menu"),
	}, "\n\n")
}

func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.help.Width = width
}
