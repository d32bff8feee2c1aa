// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// View is the chat view: a scrolling transcript above a question input.
// The documents cited by any answer can be focused and opened, starting
// from the latest answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	chat      driving.ChatService
	ctx       context.Context
	input     *input.QuestionInput
	citations *list.CitationList
	spinner   spinner.Model
	viewport  viewport.Model
	bar       *status.Bar

	// pending is the question sent but not yet in the transcript.
	pending string
	// asked is the transcript length when pending was sent.
	asked   int
	waiting bool

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, chat driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km, "messages")
	bar.SetHints(km.ChatHelp())

	v := &View{
		styles:    s,
		keymap:    km,
		chat:      chat,
		ctx:       context.Background(),
		input:     input.NewQuestionInput(s),
		citations: list.NewCitationList(s),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:  viewport.New(80, 14),
		bar:       bar,
		width:     80,
		height:    24,
	}
	return v
}

// WithContext sets the context used for questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the question input.
func (v *View) Init() tea.Cmd {
	v.syncCitations()
	v.citations.Blur()
	v.refresh()
	v.viewport.GotoBottom()
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.AnswerReceived:
		if errors.Is(msg.Err, domain.ErrQuestionInFlight) {
			return v, nil
		}
		v.waiting = false
		v.pending = ""
		v.syncCitations()
		if msg.Err != nil {
			v.bar.SetState(status.StateError, msg.Err.Error())
		} else {
			v.bar.Clear()
		}
		v.refresh()
		v.viewport.GotoBottom()
		return v, nil

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if v.citations.Focused() {
		switch {
		case keymap.Matches(k, v.keymap.Back), keymap.Matches(k, v.keymap.Focus):
			v.citations.Blur()
			return v, v.input.Focus()
		case keymap.Matches(k, v.keymap.Up):
			v.citations.MoveUp()
		case keymap.Matches(k, v.keymap.Down):
			v.citations.MoveDown()
		case keymap.Matches(k, v.keymap.Select):
			return v, v.openCitation()
		}
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(k, v.keymap.Focus):
		if v.citations.Focus() {
			v.input.Blur()
		}
		return v, nil
	case keymap.Matches(k, v.keymap.Select):
		return v, v.ask()
	case k == "pgup" || k == "pgdown":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask sends the typed question. Blank input and a second question while
// one is in flight are ignored.
func (v *View) ask() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.waiting || v.chat.AwaitingAnswer() {
		return nil
	}

	v.input.Reset()
	v.waiting = true
	v.pending = question
	v.asked = len(v.chat.Transcript())
	v.bar.Clear()
	v.refresh()
	v.viewport.GotoBottom()

	chat, ctx := v.chat, v.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		msg, err := chat.Ask(ctx, question)
		return messages.AnswerReceived{Message: msg, Err: err}
	})
}

func (v *View) openCitation() tea.Cmd {
	c, ok := v.citations.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return messages.PreviewRequested{
			DocumentID: c.ID,
			Return:     messages.ViewChat,
			Citation:   &c,
		}
	}
}

// syncCitations rebuilds the citation list from every answer in the
// transcript.
func (v *View) syncCitations() {
	transcript := v.chat.Transcript()
	groups := make([][]domain.Citation, 0, len(transcript))
	for _, m := range transcript {
		if m.Role == domain.RoleAssistant {
			groups = append(groups, m.Citations)
		}
	}
	v.citations.SetGroups(groups)
}

// refresh re-renders the transcript into the viewport and resizes it
// around the citation list.
func (v *View) refresh() {
	transcript := v.chat.Transcript()
	v.bar.SetCount(len(transcript))

	// title, input, bar and spacing
	chrome := 8
	if n := v.citations.Rows(); n > 0 {
		chrome += n + 2
	}
	v.viewport.Width = v.width
	v.viewport.Height = max(v.height-chrome, 3)
	v.viewport.SetContent(v.renderTranscript(transcript))
}

func (v *View) renderTranscript(transcript []domain.ChatMessage) string {
	showPending := v.waiting && len(transcript) == v.asked
	if len(transcript) == 0 && !showPending {
		return v.styles.Muted.Render(domain.EmptyTranscriptText)
	}

	width := max(v.width-4, 20)
	var b strings.Builder
	for i := range transcript {
		v.renderMessage(&b, transcript[i], width)
	}
	if showPending {
		b.WriteString(v.styles.Subtitle.Render("You"))
		b.WriteString("\n")
		b.WriteString(v.styles.UserMessage.Width(width).Render(v.pending))
		b.WriteString("\n\n")
	}
	if v.waiting {
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render(domain.ThinkingText))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderMessage(b *strings.Builder, m domain.ChatMessage, width int) {
	author, style := "Assistant", v.styles.AssistantMessage
	if m.Role == domain.RoleUser {
		author, style = "You", v.styles.UserMessage
	}

	b.WriteString(v.styles.Subtitle.Render(author))
	b.WriteString(" ")
	b.WriteString(v.styles.Muted.Render(m.Timestamp.Format("15:04")))
	b.WriteString("\n")
	b.WriteString(style.Width(width).Render(m.Content))
	b.WriteString("\n")

	if m.HasCitations() {
		names := make([]string, len(m.Citations))
		for i, c := range m.Citations {
			names[i] = c.Filename
		}
		b.WriteString(v.styles.Citation.Render("Sources: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// View renders the chat view.
func (v *View) View() string {
	v.refresh()

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Ask Questions"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n\n")

	if cites := v.citations.View(); cites != "" {
		b.WriteString(cites)
		b.WriteString("\n\n")
	}

	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.bar.SetWidth(width)
	v.refresh()
}

// Waiting reports whether an answer is awaited.
func (v *View) Waiting() bool {
	return v.waiting
}
