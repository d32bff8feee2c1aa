package driving

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// UploadListener is signalled once after every successful upload.
type UploadListener interface {
	UploadSucceeded(ctx context.Context, docs []domain.Document)
}

// UploadService stages local files and submits them as one batch.
type UploadService interface {
	// Select replaces the staging set.
	Select(files []domain.FileHandle)

	// Clear empties the staging set without uploading.
	Clear()

	// Submit uploads the staging set. An empty set is a no-op.
	// A concurrent call returns domain.ErrUploadInProgress.
	Submit(ctx context.Context) ([]domain.Document, error)

	// Staged returns a copy of the staging set.
	Staged() []domain.FileHandle

	// Uploading reports whether a submission is in flight.
	Uploading() bool
}
