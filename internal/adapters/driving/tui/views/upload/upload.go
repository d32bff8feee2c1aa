// Package upload provides the file staging and upload view for the TUI.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// View is the upload view. Files picked in the browser are staged and
// submitted together as one batch.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	uploads driving.UploadService
	ctx     context.Context
	picker  filepicker.Model
	spinner spinner.Model
	bar     *status.Bar

	// paths are the local paths of the staged files, in staging order.
	paths  []string
	banner string
	width  int
	height int
	ready  bool
}

// NewView creates a new upload view browsing dir.
func NewView(s *styles.Styles, uploads driving.UploadService, dir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s, km, "files staged")
	bar.SetHints(km.UploadHelp())

	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = domain.UploadExtensions
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = 10
	// esc leaves the view instead of climbing directories
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "back"),
	)

	return &View{
		styles:  s,
		keymap:  km,
		uploads: uploads,
		ctx:     context.Background(),
		picker:  fp,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     bar,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for uploads.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init reads the current directory.
func (v *View) Init() tea.Cmd {
	v.banner = ""
	v.syncStaged()
	return v.picker.Init()
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.FileStaged:
		if msg.Err != nil {
			v.banner = fmt.Sprintf("Cannot read %s: %v", msg.Path, msg.Err)
			return v, nil
		}
		v.banner = ""
		v.stage(msg.Path, msg.Handle)
		return v, nil

	case messages.UploadCompleted:
		switch {
		case errors.Is(msg.Err, domain.ErrUploadInProgress):
			return v, nil
		case msg.Err != nil:
			v.banner = domain.UploadFailedText
			v.bar.SetState(status.StateError, msg.Err.Error())
		default:
			v.banner = ""
			v.bar.SetState(status.StateReady, fmt.Sprintf("Uploaded %d file(s)", len(msg.Documents)))
		}
		v.syncStaged()
		return v, nil

	case spinner.TickMsg:
		if !v.uploads.Uploading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	// directory listings and picker errors
	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(k, v.keymap.Submit):
		return v, v.submit()
	case keymap.Matches(k, v.keymap.Clear):
		if v.uploads.Uploading() {
			return v, nil
		}
		v.uploads.Clear()
		v.banner = ""
		v.bar.Clear()
		v.syncStaged()
		return v, nil
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		return v, tea.Batch(cmd, readFile(path))
	}
	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.banner = fmt.Sprintf("%s is not a supported file type (%s)",
			path, strings.Join(domain.UploadExtensions, ", "))
	}
	return v, cmd
}

func (v *View) submit() tea.Cmd {
	if v.uploads.Uploading() {
		return nil
	}
	if len(v.uploads.Staged()) == 0 {
		v.bar.SetState(status.StateReady, "Select files to upload first")
		return nil
	}

	uploads, ctx := v.uploads, v.ctx
	v.banner = ""
	v.bar.SetState(status.StateBusy, fmt.Sprintf("Uploading %d file(s)...", len(uploads.Staged())))
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		docs, err := uploads.Submit(ctx)
		return messages.UploadCompleted{Documents: docs, Err: err}
	})
}

// readFile loads a picked file off the event loop.
func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return messages.FileStaged{Path: path, Err: err}
		}
		return messages.FileStaged{Path: path, Handle: domain.NewFileHandle(path, data)}
	}
}

// stage adds a file to the staging set, or removes it when it is
// already staged.
func (v *View) stage(path string, handle domain.FileHandle) {
	if v.uploads.Uploading() {
		return
	}
	files := v.uploads.Staged()
	for i, p := range v.paths {
		if p == path {
			v.paths = append(v.paths[:i:i], v.paths[i+1:]...)
			v.uploads.Select(append(files[:i:i], files[i+1:]...))
			v.syncStaged()
			return
		}
	}
	v.paths = append(v.paths, path)
	v.uploads.Select(append(files, handle))
	v.syncStaged()
}

// syncStaged drops local paths the service no longer stages.
func (v *View) syncStaged() {
	staged := v.uploads.Staged()
	if len(staged) != len(v.paths) {
		v.paths = nil
		for _, f := range staged {
			v.paths = append(v.paths, f.Name)
		}
	}
	v.bar.SetCount(len(staged))
}

// View renders the upload view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload Documents"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Supported: " + strings.Join(domain.UploadExtensions, " ")))
	b.WriteString("\n\n")

	if v.banner != "" {
		b.WriteString(v.styles.Banner.Render(v.banner))
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Muted.Render(v.picker.CurrentDirectory))
	b.WriteString("\n")
	b.WriteString(v.picker.View())
	b.WriteString("\n")

	staged := v.uploads.Staged()
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Selected files (%d)", len(staged))))
	b.WriteString("\n")
	if len(staged) == 0 {
		b.WriteString(v.styles.Muted.Render("  No files selected"))
		b.WriteString("\n")
	}
	for _, f := range staged {
		b.WriteString(fmt.Sprintf("  %s  %s\n", f.Name, v.styles.Muted.Render(humanize.IBytes(uint64(max(f.Size, 0))))))
	}

	if v.uploads.Uploading() {
		b.WriteString("\n")
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Uploading..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	v.picker.Height = max(height-16, 5)
}

// Banner returns the failure text shown at the top of the view.
func (v *View) Banner() string {
	return v.banner
}
