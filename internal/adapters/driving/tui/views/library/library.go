// Package library provides the categorized document list view for the TUI.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// row is one line of the list: a category heading, a document, or the
// empty placeholder of an expanded category.
type row struct {
	category domain.FileType
	count    int
	doc      *domain.Document
	empty    bool
}

func (r row) heading() bool {
	return r.doc == nil && !r.empty
}

// View is the document library view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	inventory driving.InventoryService
	ctx       context.Context
	bar       *status.Bar

	rows         []row
	total        int
	selected     int
	scrollOffset int
	confirming   *domain.Document
	banner       string
	width        int
	height       int
	ready        bool
}

// NewView creates a new library view.
func NewView(s *styles.Styles, inventory driving.InventoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km, "documents")
	bar.SetHints(km.LibraryHelp())

	return &View{
		styles:    s,
		keymap:    km,
		inventory: inventory,
		ctx:       context.Background(),
		bar:       bar,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for backend calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the inventory. It runs every time the view is mounted.
func (v *View) Init() tea.Cmd {
	v.confirming = nil
	v.bar.SetState(status.StateLoading, "")
	v.rebuild()
	return v.reload()
}

func (v *View) reload() tea.Cmd {
	inventory, ctx := v.inventory, v.ctx
	return func() tea.Msg {
		err := inventory.Reload(ctx)
		if errors.Is(err, domain.ErrSuperseded) {
			// the newer reload reports for both
			return nil
		}
		return messages.InventoryLoaded{Err: err}
	}
}

func (v *View) deleteDocument(doc domain.Document, approved bool) tea.Cmd {
	inventory, ctx := v.inventory, v.ctx
	return func() tea.Msg {
		err := inventory.Delete(ctx, doc.ID, doc.Filename, func(string) bool { return approved })
		return messages.DocumentDeleted{DocumentID: doc.ID, Filename: doc.Filename, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming != nil {
			return v.handleConfirmKey(msg)
		}
		return v.handleKey(msg)

	case messages.InventoryLoaded:
		if msg.Err != nil {
			v.banner = fmt.Sprintf("Failed to load documents: %v", msg.Err)
			v.bar.SetState(status.StateError, "")
		} else {
			v.banner = ""
			v.bar.Clear()
		}
		v.rebuild()
		return v, nil

	case messages.DocumentDeleted:
		switch {
		case errors.Is(msg.Err, domain.ErrDeleteCancelled):
			v.bar.Clear()
		case msg.Err != nil:
			v.banner = domain.DeleteFailedText
			v.bar.SetState(status.StateError, msg.Err.Error())
		default:
			v.banner = ""
			v.bar.SetState(status.StateReady, "Deleted "+msg.Filename)
		}
		v.rebuild()
		return v, nil
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.rows)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keymap.Select):
		return v, v.activate()
	case keymap.Matches(key, v.keymap.Delete):
		if r, ok := v.current(); ok && r.doc != nil {
			doc := *r.doc
			v.confirming = &doc
		}
	case keymap.Matches(key, v.keymap.Reload):
		v.bar.SetState(status.StateLoading, "")
		return v, v.reload()
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	doc := *v.confirming
	switch key := msg.String(); {
	case keymap.Matches(key, v.keymap.Confirm):
		v.confirming = nil
		v.bar.SetState(status.StateBusy, "Deleting "+doc.Filename+"...")
		return v, v.deleteDocument(doc, true)
	case keymap.Matches(key, v.keymap.Deny):
		v.confirming = nil
		return v, v.deleteDocument(doc, false)
	}
	return v, nil
}

// activate toggles a category or opens the preview of a document.
func (v *View) activate() tea.Cmd {
	r, ok := v.current()
	if !ok {
		return nil
	}
	if r.heading() {
		v.inventory.ToggleCategory(r.category)
		v.rebuild()
		return nil
	}
	if r.doc == nil {
		return nil
	}
	id := r.doc.ID
	return func() tea.Msg {
		return messages.PreviewRequested{DocumentID: id, Return: messages.ViewLibrary}
	}
}

func (v *View) current() (row, bool) {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return row{}, false
	}
	return v.rows[v.selected], true
}

// rebuild derives the rows from the inventory snapshot.
func (v *View) rebuild() {
	snap := v.inventory.Snapshot()
	index := snap.Index

	rows := make([]row, 0, index.Total()+len(domain.KnownFileTypes)*2)
	for _, ft := range index.Categories() {
		docs := index.Get(ft)
		rows = append(rows, row{category: ft, count: len(docs)})
		if !v.inventory.Expanded(ft) {
			continue
		}
		if len(docs) == 0 {
			rows = append(rows, row{category: ft, empty: true})
			continue
		}
		for i := range docs {
			doc := docs[i]
			rows = append(rows, row{category: ft, doc: &doc})
		}
	}

	v.rows = rows
	v.total = index.Total()
	v.bar.SetCount(v.total)
	if v.selected >= len(rows) {
		v.selected = max(len(rows)-1, 0)
	}
	v.adjustScroll()
}

func (v *View) adjustScroll() {
	visible := v.visibleRowCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleRowCount() int {
	// title, banner, prompt and status bar
	return max(v.height-8, 1)
}

// View renders the library.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", v.total)))
	b.WriteString("\n\n")

	if v.banner != "" {
		b.WriteString(v.styles.Banner.Render(v.banner))
		b.WriteString("\n\n")
	}

	if v.inventory.Snapshot().State == driving.InventoryLoading && v.total == 0 {
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
		b.WriteString("\n")
	} else {
		end := min(v.scrollOffset+v.visibleRowCount(), len(v.rows))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderRow(i, v.rows[i]))
			b.WriteString("\n")
		}
	}

	if v.confirming != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render(domain.DeletePrompt(v.confirming.Filename) + " [y/n]"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderRow(index int, r row) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	switch {
	case r.heading():
		marker := "▸"
		if v.inventory.Expanded(r.category) {
			marker = "▾"
		}
		label := fmt.Sprintf("%s %s (%d)", marker, r.category.Title(), r.count)
		if index == v.selected {
			return indicator + v.styles.Selected.Render(label)
		}
		return indicator + v.styles.Category.Render(label)

	case r.empty:
		return indicator + "    " + v.styles.Muted.Render(domain.EmptyCategoryText(r.category))

	default:
		name := r.doc.Filename
		maxName := max(v.width/2, 12)
		if len(name) > maxName {
			name = name[:maxName-3] + "..."
		}
		meta := humanize.IBytes(uint64(max(r.doc.FileSize, 0)))
		if !r.doc.UploadDate.IsZero() {
			meta += " · " + humanize.Time(r.doc.UploadDate)
		}
		if index == v.selected {
			return indicator + "    " + v.styles.Selected.Render(name) + "  " + v.styles.Muted.Render(meta)
		}
		return indicator + "    " + v.styles.Normal.Render(name) + "  " + v.styles.Muted.Render(meta)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	v.adjustScroll()
}

// SelectedDocument returns the document under the cursor, if any.
func (v *View) SelectedDocument() *domain.Document {
	if r, ok := v.current(); ok && r.doc != nil {
		doc := *r.doc
		return &doc
	}
	return nil
}

// Confirming returns the document awaiting delete confirmation.
func (v *View) Confirming() *domain.Document {
	return v.confirming
}

// Banner returns the failure text shown at the top of the view.
func (v *View) Banner() string {
	return v.banner
}
