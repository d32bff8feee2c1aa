package driven

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// DocumentGateway exposes the backend's document endpoints.
// Failures are *domain.TransportError when no response arrived and
// *domain.ServerError when the backend answered with a non-2xx status.
// Implementations hold no state between calls.
type DocumentGateway interface {
	// UploadDocuments sends every file in one multipart request.
	// An empty slice is rejected with a *domain.ValidationError before
	// any request is made.
	UploadDocuments(ctx context.Context, files []domain.FileHandle) ([]domain.Document, error)

	// ListDocumentsByCategory returns all documents grouped by file type.
	ListDocumentsByCategory(ctx context.Context) (domain.CategoryIndex, error)

	// GetDocumentPreview returns the renderable payload of one document.
	// An unknown id yields an error matching domain.ErrNotFound.
	GetDocumentPreview(ctx context.Context, id string) (*domain.DocumentPreview, error)

	// DeleteDocument removes a document. The response body is ignored.
	DeleteDocument(ctx context.Context, id string) error
}

// ChatGateway exposes the backend's question answering endpoint.
type ChatGateway interface {
	// AskQuestion sends a question and waits for the answer.
	// There is no client-side timeout; cancellation is through ctx only.
	AskQuestion(ctx context.Context, question string) (*domain.Answer, error)
}

// Backend is the full remote surface used by the application.
type Backend interface {
	DocumentGateway
	ChatGateway
}
