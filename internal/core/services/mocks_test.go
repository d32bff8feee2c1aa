package services

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// mockGateway implements driven.Backend for testing.
type mockGateway struct {
	UploadFunc  func(ctx context.Context, files []domain.FileHandle) ([]domain.Document, error)
	ListFunc    func(ctx context.Context) (domain.CategoryIndex, error)
	PreviewFunc func(ctx context.Context, id string) (*domain.DocumentPreview, error)
	DeleteFunc  func(ctx context.Context, id string) error
	AskFunc     func(ctx context.Context, question string) (*domain.Answer, error)
}

func (m *mockGateway) UploadDocuments(ctx context.Context, files []domain.FileHandle) ([]domain.Document, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, files)
	}
	return nil, nil
}

func (m *mockGateway) ListDocumentsByCategory(ctx context.Context) (domain.CategoryIndex, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return domain.CategoryIndex{}, nil
}

func (m *mockGateway) GetDocumentPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, id)
	}
	return &domain.DocumentPreview{ID: id}, nil
}

func (m *mockGateway) DeleteDocument(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockGateway) AskQuestion(ctx context.Context, question string) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Answer{}, nil
}

// mockOpener implements driving.PreviewOpener for testing.
type mockOpener struct {
	OpenFunc func(ctx context.Context, id string) (*domain.DocumentPreview, error)
	opened   []string
}

func (m *mockOpener) Open(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	m.opened = append(m.opened, id)
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, id)
	}
	return &domain.DocumentPreview{ID: id}, nil
}

// mockListener implements driving.UploadListener for testing.
type mockListener struct {
	calls [][]domain.Document
}

func (m *mockListener) UploadSucceeded(_ context.Context, docs []domain.Document) {
	m.calls = append(m.calls, docs)
}

func indexOf(docs ...domain.Document) domain.CategoryIndex {
	raw := make(map[domain.FileType][]domain.Document)
	for _, d := range docs {
		raw[d.FileType] = append(raw[d.FileType], d)
	}
	return domain.NewCategoryIndex(raw)
}
