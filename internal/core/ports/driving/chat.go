package driving

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// ChatService is a single question and answer conversation.
type ChatService interface {
	// Ask appends the question, waits for the backend and appends the
	// answer. On failure a fixed apology is appended and the backend
	// error is returned with it.
	Ask(ctx context.Context, question string) (*domain.ChatMessage, error)

	// OpenCitation opens the preview of a cited document.
	OpenCitation(ctx context.Context, c domain.Citation) (*domain.DocumentPreview, error)

	// Transcript returns a copy of all messages in order.
	Transcript() []domain.ChatMessage

	// AwaitingAnswer reports whether a question is in flight.
	AwaitingAnswer() bool
}
