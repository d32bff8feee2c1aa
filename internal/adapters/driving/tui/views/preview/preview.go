// Package preview provides the single document preview view for the TUI.
package preview

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Loader fetches the preview of one document.
type Loader func(ctx context.Context) (*domain.DocumentPreview, error)

// View shows one document. The state is read from the preview service so
// a response for another document is never rendered.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	preview  driving.PreviewService
	ctx      context.Context
	viewport viewport.Model

	docID  string
	ret    messages.ViewType
	width  int
	height int
	ready  bool
}

// NewView creates a new preview view.
func NewView(s *styles.Styles, preview driving.PreviewService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		preview:  preview,
		ctx:      context.Background(),
		viewport: viewport.New(80, 18),
		ret:      messages.ViewMenu,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Show starts loading a document and remembers the view to go back to.
// A nil load fetches through the preview service.
func (v *View) Show(id string, ret messages.ViewType, load Loader) tea.Cmd {
	v.docID = id
	v.ret = ret
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	if load == nil {
		svc := v.preview
		load = func(ctx context.Context) (*domain.DocumentPreview, error) {
			return svc.Open(ctx, id)
		}
	}
	ctx := v.ctx
	return func() tea.Msg {
		p, err := load(ctx)
		return messages.PreviewLoaded{DocumentID: id, Preview: p, Err: err}
	}
}

// Update handles messages for the preview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PreviewLoaded:
		if msg.DocumentID != v.docID || errors.Is(msg.Err, domain.ErrSuperseded) {
			return v, nil
		}
		v.viewport.SetContent(v.renderBody())
		v.viewport.GotoTop()
		return v, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), v.keymap.Back) {
			v.preview.Close()
			v.docID = ""
			ret := v.ret
			return v, func() tea.Msg {
				return messages.ViewChanged{View: ret}
			}
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) renderBody() string {
	r := v.preview.Render()
	switch r.Kind {
	case domain.RenderImage:
		return "Image: " + v.styles.Citation.Render(r.URL)
	case domain.RenderUnavailable:
		return v.styles.Muted.Render(r.Text)
	default:
		return r.Text
	}
}

// View renders the preview view.
func (v *View) View() string {
	var b strings.Builder
	snap := v.preview.Snapshot()

	switch {
	case snap.DocumentID != v.docID || snap.State == driving.PreviewLoading:
		b.WriteString(v.styles.Title.Render("Preview"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")

	case snap.State == driving.PreviewFailed:
		b.WriteString(v.styles.Title.Render("Preview"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Banner.Render(domain.PreviewFailedText))
		b.WriteString("\n")

	case snap.State == driving.PreviewReady && snap.Preview != nil:
		b.WriteString(v.styles.Title.Render(snap.Preview.Filename))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(strings.ToUpper(string(snap.Preview.FileType)) + " File"))
		b.WriteString("\n\n")
		b.WriteString(v.viewport.View())
		b.WriteString("\n")

	default:
		b.WriteString(v.styles.Muted.Render("No document selected"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("↑/↓ scroll • esc close"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-6, 3)
}

// DocumentID returns the document being shown.
func (v *View) DocumentID() string {
	return v.docID
}

// Return returns the view shown when the preview closes.
func (v *View) Return() messages.ViewType {
	return v.ret
}
