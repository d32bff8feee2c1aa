package driving

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// PreviewState is the lifecycle of the preview pane.
type PreviewState int

const (
	// PreviewIdle means no preview is open.
	PreviewIdle PreviewState = iota
	// PreviewLoading means a preview request is in flight.
	PreviewLoading
	// PreviewReady means a payload is available.
	PreviewReady
	// PreviewFailed means the last open failed.
	PreviewFailed
)

// String returns the string representation of the state.
func (s PreviewState) String() string {
	switch s {
	case PreviewIdle:
		return "idle"
	case PreviewLoading:
		return "loading"
	case PreviewReady:
		return "ready"
	case PreviewFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PreviewSnapshot is a read-only copy of the preview state.
type PreviewSnapshot struct {
	State      PreviewState
	DocumentID string
	Preview    *domain.DocumentPreview
	Err        error
}

// PreviewOpener opens a document preview by id.
// The chat session holds one to follow citations.
type PreviewOpener interface {
	Open(ctx context.Context, id string) (*domain.DocumentPreview, error)
}

// PreviewService shows one document preview at a time.
type PreviewService interface {
	PreviewOpener

	// Close discards the open preview and any response still in flight.
	Close()

	// Snapshot returns the current state.
	Snapshot() PreviewSnapshot

	// Render dispatches the current payload by file type.
	// The zero PreviewRender is returned when no payload is ready.
	Render() domain.PreviewRender
}
