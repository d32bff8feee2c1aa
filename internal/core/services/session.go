package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.ChatService = (*Session)(nil)

// Session is one question and answer conversation. The transcript lives
// in memory only and grows for the lifetime of the session.
type Session struct {
	gateway driven.ChatGateway
	opener  driving.PreviewOpener
	now     func() time.Time

	mu         sync.Mutex
	transcript []domain.ChatMessage
	awaiting   bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock overrides the clock used for message timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates an empty conversation. Citations are opened through
// opener, which may be nil when no preview surface exists.
func NewSession(gateway driven.ChatGateway, opener driving.PreviewOpener, opts ...SessionOption) *Session {
	s := &Session{
		gateway: gateway,
		opener:  opener,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask sends a question to the backend.
//
// The question is appended to the transcript before the request is made.
// When the backend answers, the answer and its citations are appended and
// returned. When it fails, AnswerFailedText is appended instead and the
// backend error is returned along with that message.
func (s *Session) Ask(ctx context.Context, question string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &domain.ValidationError{Field: "question", Reason: "must not be blank"}
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return nil, domain.ErrQuestionInFlight
	}
	s.awaiting = true
	s.transcript = append(s.transcript, s.message(domain.RoleUser, question, nil))
	s.mu.Unlock()

	answer, err := s.gateway.AskQuestion(ctx, question)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting = false

	if err != nil {
		logger.Warn("chat: question failed: %v", err)
		msg := s.message(domain.RoleAssistant, domain.AnswerFailedText, nil)
		s.transcript = append(s.transcript, msg)
		return &msg, err
	}

	msg := s.message(domain.RoleAssistant, answer.Text, citations(answer))
	s.transcript = append(s.transcript, msg)
	return &msg, nil
}

// OpenCitation opens the preview of a cited document. The document need
// not be in the current inventory.
func (s *Session) OpenCitation(ctx context.Context, c domain.Citation) (*domain.DocumentPreview, error) {
	if s.opener == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.opener.Open(ctx, c.ID)
}

// Transcript returns a copy of all messages in order.
func (s *Session) Transcript() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage(nil), s.transcript...)
}

// AwaitingAnswer reports whether a question is in flight.
func (s *Session) AwaitingAnswer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

func (s *Session) message(role domain.Role, content string, cites []domain.Citation) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
		Citations: cites,
	}
}

// citations copies the backend's document details in the order given.
func citations(a *domain.Answer) []domain.Citation {
	if len(a.Details) == 0 {
		return nil
	}
	return append([]domain.Citation(nil), a.Details...)
}
