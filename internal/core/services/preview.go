package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Ensure PreviewLoader implements the interface.
var _ driving.PreviewService = (*PreviewLoader)(nil)

// PreviewLoader fetches and holds the preview of one document at a time.
// Previews are not cached; reopening a document fetches it again.
type PreviewLoader struct {
	gateway driven.DocumentGateway

	mu      sync.Mutex
	state   driving.PreviewState
	docID   string
	preview *domain.DocumentPreview
	err     error
	latest  uint64
}

// NewPreviewLoader creates an idle preview loader.
func NewPreviewLoader(gateway driven.DocumentGateway) *PreviewLoader {
	return &PreviewLoader{gateway: gateway}
}

// Open fetches the preview of a document, replacing whatever was shown.
//
// If another Open or a Close happened while the request was in flight, the
// payload is returned to the caller with domain.ErrSuperseded and the shown
// state is left alone. A failed request returns domain.ErrPreviewFailed.
func (s *PreviewLoader) Open(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	s.mu.Lock()
	s.latest++
	token := s.latest
	s.state = driving.PreviewLoading
	s.docID = id
	s.preview = nil
	s.err = nil
	s.mu.Unlock()

	preview, err := s.gateway.GetDocumentPreview(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logger.Warn("preview: load %s failed: %v", id, err)
		if token != s.latest {
			return nil, domain.ErrSuperseded
		}
		s.state = driving.PreviewFailed
		s.err = domain.ErrPreviewFailed
		return nil, domain.ErrPreviewFailed
	}

	if token != s.latest {
		logger.Debug("preview: discarding stale response for %s", id)
		return preview, domain.ErrSuperseded
	}

	s.state = driving.PreviewReady
	s.preview = preview
	return preview, nil
}

// Close returns to idle and invalidates any request still in flight.
func (s *PreviewLoader) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.state = driving.PreviewIdle
	s.docID = ""
	s.preview = nil
	s.err = nil
}

// Snapshot returns a copy of the current state.
func (s *PreviewLoader) Snapshot() driving.PreviewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := driving.PreviewSnapshot{
		State:      s.state,
		DocumentID: s.docID,
		Err:        s.err,
	}
	if s.preview != nil {
		p := *s.preview
		snap.Preview = &p
	}
	return snap
}

// Render dispatches the ready payload by file type.
func (s *PreviewLoader) Render() domain.PreviewRender {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != driving.PreviewReady || s.preview == nil {
		return domain.PreviewRender{}
	}
	return s.preview.Render()
}
