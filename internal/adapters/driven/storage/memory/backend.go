package memory

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.Backend = (*Backend)(nil)

// Backend is an in-memory stand-in for the knowledge base server.
// Uploads are filed by extension, text content is kept for previews and
// questions are answered by matching words against stored text.
type Backend struct {
	mu       sync.RWMutex
	docs     map[string]domain.Document
	order    []string
	content  map[string]string
	nextID   int
	now      func() time.Time
	imageURL string
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		docs:     make(map[string]domain.Document),
		content:  make(map[string]string),
		now:      time.Now,
		imageURL: "memory://files/",
	}
}

// Add stores a document directly, bypassing upload. Content is used for
// text and PDF previews.
func (b *Backend) Add(doc domain.Document, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.docs[doc.ID]; !exists {
		b.order = append(b.order, doc.ID)
	}
	b.docs[doc.ID] = doc
	b.content[doc.ID] = content
}

// UploadDocuments stores every file and returns the created documents.
func (b *Backend) UploadDocuments(ctx context.Context, files []domain.FileHandle) ([]domain.Document, error) {
	if len(files) == 0 {
		return nil, &domain.ValidationError{Field: "files", Reason: "at least one file is required"}
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.TransportError{Op: "upload documents", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	created := make([]domain.Document, 0, len(files))
	for _, f := range files {
		b.nextID++
		doc := domain.Document{
			ID:         fmt.Sprintf("doc-%d", b.nextID),
			Filename:   f.Name,
			FileType:   domain.FileTypeForName(f.Name),
			FileSize:   f.Size,
			UploadDate: b.now(),
		}
		b.docs[doc.ID] = doc
		b.order = append(b.order, doc.ID)
		if doc.FileType != domain.FileTypeImage {
			b.content[doc.ID] = string(f.Data)
		}
		created = append(created, doc)
	}
	return created, nil
}

// ListDocumentsByCategory returns all stored documents grouped by type.
func (b *Backend) ListDocumentsByCategory(ctx context.Context) (domain.CategoryIndex, error) {
	if err := ctx.Err(); err != nil {
		return domain.CategoryIndex{}, &domain.TransportError{Op: "list documents", Err: err}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	raw := make(map[domain.FileType][]domain.Document)
	for _, id := range b.order {
		doc := b.docs[id]
		raw[doc.FileType] = append(raw[doc.FileType], doc)
	}
	return domain.NewCategoryIndex(raw), nil
}

// GetDocumentPreview returns the stored content or image location.
func (b *Backend) GetDocumentPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.TransportError{Op: "get preview", Err: err}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	doc, ok := b.docs[id]
	if !ok {
		return nil, &domain.ServerError{Op: "get preview", StatusCode: http.StatusNotFound, Message: "Document not found"}
	}

	preview := &domain.DocumentPreview{
		ID:       doc.ID,
		Filename: doc.Filename,
		FileType: doc.FileType,
	}
	switch doc.FileType {
	case domain.FileTypeImage:
		url := b.imageURL + doc.ID
		preview.FileURL = &url
	default:
		if text, ok := b.content[id]; ok {
			preview.Content = &text
		}
	}
	return preview, nil
}

// DeleteDocument removes a document.
func (b *Backend) DeleteDocument(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return &domain.TransportError{Op: "delete document", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.docs[id]; !ok {
		return &domain.ServerError{Op: "delete document", StatusCode: http.StatusNotFound, Message: "Document not found"}
	}
	delete(b.docs, id)
	delete(b.content, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// AskQuestion cites every text document that shares a word of three or
// more letters with the question, in upload order.
func (b *Backend) AskQuestion(ctx context.Context, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &domain.ValidationError{Field: "question", Reason: "must not be blank"}
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.TransportError{Op: "ask question", Err: err}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	terms := keywords(question)
	answer := &domain.Answer{CitedDocumentIDs: []string{}, Details: []domain.Citation{}}
	for _, id := range b.order {
		text := strings.ToLower(b.content[id])
		for _, term := range terms {
			if strings.Contains(text, term) {
				doc := b.docs[id]
				answer.CitedDocumentIDs = append(answer.CitedDocumentIDs, id)
				answer.Details = append(answer.Details, domain.Citation{
					ID:       doc.ID,
					Filename: doc.Filename,
					FileType: doc.FileType,
				})
				break
			}
		}
	}

	if len(answer.Details) == 0 {
		answer.Text = "I could not find anything about that in your documents."
	} else {
		answer.Text = fmt.Sprintf("Found %d relevant document(s).", len(answer.Details))
	}
	return answer, nil
}

func keywords(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}
