// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewLibrary lists documents by category.
	ViewLibrary
	// ViewUpload stages and submits local files.
	ViewUpload
	// ViewChat is the question and answer transcript.
	ViewChat
	// ViewPreview shows a single document.
	ViewPreview
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewLibrary:
		return "library"
	case ViewUpload:
		return "upload"
	case ViewChat:
		return "chat"
	case ViewPreview:
		return "preview"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// InventoryLoaded signals a reload finished. The index is read from
// the inventory service snapshot.
type InventoryLoaded struct {
	Err error
}

// DocumentDeleted signals a delete attempt finished.
type DocumentDeleted struct {
	DocumentID string
	Filename   string
	Err        error
}

// PreviewRequested asks the app to open a document preview.
// Return is the view shown again when the preview is closed. Citation is
// set when the document is followed from a chat answer.
type PreviewRequested struct {
	DocumentID string
	Return     ViewType
	Citation   *domain.Citation
}

// PreviewLoaded carries the outcome of opening a preview.
type PreviewLoaded struct {
	DocumentID string
	Preview    *domain.DocumentPreview
	Err        error
}

// FileStaged carries a file read from disk for the staging set.
type FileStaged struct {
	Path   string
	Handle domain.FileHandle
	Err    error
}

// UploadCompleted signals a batch upload finished.
type UploadCompleted struct {
	Documents []domain.Document
	Err       error
}

// AnswerReceived carries the transcript entry appended for a question.
type AnswerReceived struct {
	Message *domain.ChatMessage
	Err     error
}
