package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Ensure StagingPipeline implements the interface.
var _ driving.UploadService = (*StagingPipeline)(nil)

// StagingPipeline holds the files chosen for upload and submits them as
// one batch.
type StagingPipeline struct {
	gateway  driven.DocumentGateway
	listener driving.UploadListener

	mu        sync.Mutex
	staged    []domain.FileHandle
	uploading bool
}

// NewStagingPipeline creates an empty pipeline. The listener, if not nil,
// is signalled once after every successful submit.
func NewStagingPipeline(gateway driven.DocumentGateway, listener driving.UploadListener) *StagingPipeline {
	return &StagingPipeline{
		gateway:  gateway,
		listener: listener,
	}
}

// Select replaces the staging set. Files are not filtered here.
func (s *StagingPipeline) Select(files []domain.FileHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append([]domain.FileHandle(nil), files...)
}

// Clear empties the staging set.
func (s *StagingPipeline) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

// Submit uploads the staging set.
//
// On success the set is cleared and the listener is signalled. On failure
// the set is kept so the user can retry.
func (s *StagingPipeline) Submit(ctx context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, domain.ErrUploadInProgress
	}
	if len(s.staged) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	files := append([]domain.FileHandle(nil), s.staged...)
	s.uploading = true
	s.mu.Unlock()

	logger.Debug("staging: uploading %d files", len(files))
	docs, err := s.gateway.UploadDocuments(ctx, files)

	s.mu.Lock()
	s.uploading = false
	if err != nil {
		s.mu.Unlock()
		logger.Warn("staging: upload failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
	s.staged = nil
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.UploadSucceeded(ctx, docs)
	}
	return docs, nil
}

// Staged returns a copy of the staging set.
func (s *StagingPipeline) Staged() []domain.FileHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.FileHandle(nil), s.staged...)
}

// Uploading reports whether a submit is in flight.
func (s *StagingPipeline) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}
