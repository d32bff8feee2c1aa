package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/views/help"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/views/library"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/views/preview"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView    *menu.View
	libraryView *library.View
	uploadView  *upload.View
	chatView    *chat.View
	previewView *preview.View
	helpView    *help.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error reported through ErrorOccurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received a window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// The upload view starts browsing the working directory.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		menuView:    menu.NewView(s),
		libraryView: library.NewView(s, ports.Inventory),
		uploadView:  upload.NewView(s, ports.Upload, dir),
		chatView:    chat.NewView(s, ports.Chat),
		previewView: preview.NewView(s, ports.Preview),
		helpView:    help.NewView(s),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and every view that talks to
// the backend.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.libraryView.WithContext(ctx)
	a.uploadView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	a.previewView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("kbqa"),
	)
}

// Update implements tea.Model.
//
// Results of background commands are routed to the view that issued them
// even when another view is active, so no outcome is lost.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewLibrary:
			return a, a.libraryView.Init()
		case messages.ViewUpload:
			return a, a.uploadView.Init()
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewMenu, messages.ViewPreview, messages.ViewHelp:
		}
		return a, nil

	case messages.PreviewRequested:
		a.currentView = messages.ViewPreview
		var load preview.Loader
		if msg.Citation != nil {
			c, svc := *msg.Citation, a.ports.Chat
			load = func(ctx context.Context) (*domain.DocumentPreview, error) {
				return svc.OpenCitation(ctx, c)
			}
		}
		return a, a.previewView.Show(msg.DocumentID, msg.Return, load)

	case messages.PreviewLoaded:
		a.previewView, cmd = a.previewView.Update(msg)
		return a, cmd

	case messages.InventoryLoaded, messages.DocumentDeleted:
		a.libraryView, cmd = a.libraryView.Update(msg)
		return a, cmd

	case messages.FileStaged, messages.UploadCompleted:
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		// both spinners share the tick type; each ignores ticks while idle
		var uploadCmd, chatCmd tea.Cmd
		a.uploadView, uploadCmd = a.uploadView.Update(msg)
		a.chatView, chatCmd = a.chatView.Update(msg)
		return a, tea.Batch(uploadCmd, chatCmd)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward hands a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewPreview:
		a.previewView, cmd = a.previewView.Update(msg)
	case messages.ViewHelp:
		a.helpView, cmd = a.helpView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewLibrary:
		return a.libraryView.View()
	case messages.ViewUpload:
		return a.uploadView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewPreview:
		return a.previewView.View()
	case messages.ViewHelp:
		return a.helpView.View()
	default:
		return a.menuView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.libraryView.SetDimensions(width, height)
	a.uploadView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.previewView.SetDimensions(width, height)
	a.helpView.SetDimensions(width, height)
}
