// Package menu is the landing screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
)

// Entry is one line of the menu. An entry without a target quits.
type Entry struct {
	Label  string
	Hint   string
	Target messages.ViewType
	Quits  bool
}

var entries = []Entry{
	{Label: "Ask a question", Hint: "answers cite the documents they came from", Target: messages.ViewChat},
	{Label: "Documents", Hint: "browse, preview and delete by category", Target: messages.ViewLibrary},
	{Label: "Upload files", Hint: "stage local files and send them in one batch", Target: messages.ViewUpload},
	{Label: "Help", Hint: "every keybinding", Target: messages.ViewHelp},
	{Label: "Quit", Quits: true},
}

// View lets the user pick a screen by cursor or by number.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model
	cursor int
	width  int
	height int
	ready  bool
}

// NewView returns a menu with the cursor on the first entry.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, keymap: keymap.DefaultKeyMap(), help: help.New(), width: 80, height: 24}
}

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.cursor = max(v.cursor-1, 0)
	case keymap.Matches(k, v.keymap.Down):
		v.cursor = min(v.cursor+1, len(entries)-1)
	case keymap.Matches(k, v.keymap.Select):
		return choose(entries[v.cursor])
	case keymap.Matches(k, v.keymap.Help):
		return choose(Entry{Target: messages.ViewHelp})
	case keymap.Matches(k, v.keymap.Quit):
		return choose(Entry{Quits: true})
	case len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(entries):
		v.cursor = int(k[0] - '1')
		return choose(entries[v.cursor])
	}
	return nil
}

func choose(e Entry) tea.Cmd {
	if e.Quits {
		return func() tea.Msg { return messages.Quit{} }
	}
	return func() tea.Msg { return messages.ViewChanged{View: e.Target} }
}

func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("kbqa"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Ask questions about your documents"))
	b.WriteString("\n\n")

	for i, e := range entries {
		label := fmt.Sprintf("%d. %s", i+1, e.Label)
		if i == v.cursor {
			b.WriteString("> " + v.styles.Selected.Render(label))
			if e.Hint != "" {
				b.WriteString("  " + v.styles.Muted.Render(e.Hint))
			}
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.help.ShortHelpView([]key.Binding{v.keymap.Up, v.keymap.Down, v.keymap.Select, v.keymap.Help, v.keymap.Quit}))
	return b.String()
}

func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.help.Width = width
	v.ready = true
}

// Selected is the cursor position.
func (v *View) Selected() int { return v.cursor }
