package domain

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a question typed by the user.
	RoleUser Role = "user"

	// RoleAssistant marks an answer or failure notice.
	RoleAssistant Role = "assistant"
)

// Texts shown by chat surfaces.
const (
	// AnswerFailedText is the transcript entry appended when a question fails.
	AnswerFailedText = "Sorry, I encountered an error while processing your question. Please try again."

	// ThinkingText is shown while an answer is awaited.
	ThinkingText = "Thinking..."

	// EmptyTranscriptText invites the first question.
	EmptyTranscriptText = "Ask a question about your documents!"

	// QuestionPlaceholder is the hint inside an empty question input.
	QuestionPlaceholder = "Ask a question about your documents..."
)

// Citation references a source document that backs an answer.
type Citation struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	FileType FileType `json:"file_type"`
}

// ChatMessage is one entry of the transcript.
// Messages are never mutated after they are appended.
type ChatMessage struct {
	// ID is generated locally and unique within the session.
	ID string

	// Role is the author of the message.
	Role Role

	// Content is the question or answer text.
	Content string

	// Timestamp is the local clock time at creation.
	Timestamp time.Time

	// Citations lists source documents in backend order (assistant only).
	Citations []Citation
}

// HasCitations returns true if the message links to any document.
func (m ChatMessage) HasCitations() bool {
	return len(m.Citations) > 0
}

// Answer is the backend reply to a question.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// CitedDocumentIDs lists the ids the answer relied on.
	CitedDocumentIDs []string `json:"cited_documents"`

	// Details describes each cited document.
	Details []Citation `json:"document_details"`
}
