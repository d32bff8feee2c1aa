package mcp

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	message  *domain.ChatMessage
	err      error
	question string
}

func (m *mockChatService) Ask(_ context.Context, question string) (*domain.ChatMessage, error) {
	m.question = question
	return m.message, m.err
}

func (m *mockChatService) OpenCitation(_ context.Context, _ domain.Citation) (*domain.DocumentPreview, error) {
	return nil, m.err
}

func (m *mockChatService) Transcript() []domain.ChatMessage {
	return nil
}

func (m *mockChatService) AwaitingAnswer() bool {
	return false
}

// mockInventoryService is a mock implementation of driving.InventoryService.
type mockInventoryService struct {
	index     domain.CategoryIndex
	reloadErr error
	reloads   int
}

func (m *mockInventoryService) Reload(_ context.Context) error {
	m.reloads++
	return m.reloadErr
}

func (m *mockInventoryService) Delete(_ context.Context, _, _ string, _ driving.ConfirmFunc) error {
	return nil
}

func (m *mockInventoryService) Snapshot() driving.InventorySnapshot {
	return driving.InventorySnapshot{State: driving.InventoryReady, Index: m.index}
}

func (m *mockInventoryService) Expanded(_ domain.FileType) bool {
	return true
}

func (m *mockInventoryService) ToggleCategory(_ domain.FileType) {}

// mockPreviewService is a mock implementation of driving.PreviewService.
type mockPreviewService struct {
	preview *domain.DocumentPreview
	err     error
	opened  string
}

func (m *mockPreviewService) Open(_ context.Context, id string) (*domain.DocumentPreview, error) {
	m.opened = id
	return m.preview, m.err
}

func (m *mockPreviewService) Close() {}

func (m *mockPreviewService) Snapshot() driving.PreviewSnapshot {
	return driving.PreviewSnapshot{}
}

func (m *mockPreviewService) Render() domain.PreviewRender {
	if m.preview == nil {
		return domain.PreviewRender{}
	}
	return m.preview.Render()
}

func validPorts() *Ports {
	return &Ports{
		Chat:      &mockChatService{},
		Inventory: &mockInventoryService{},
		Preview:   &mockPreviewService{},
	}
}

func sampleIndex() domain.CategoryIndex {
	return domain.NewCategoryIndex(map[domain.FileType][]domain.Document{
		domain.FileTypeText: {{ID: "t1", Filename: "notes.txt", FileType: domain.FileTypeText, FileSize: 12}},
		domain.FileTypePDF:  {{ID: "p1", Filename: "policy.pdf", FileType: domain.FileTypePDF, FileSize: 2048}},
	})
}

func strPtr(s string) *string {
	return &s
}

// gatedGateway is a driven.DocumentGateway whose list calls block until
// the test releases them. Each call announces its release channel on started.
type gatedGateway struct {
	index   domain.CategoryIndex
	started chan chan struct{}
}

func newGatedGateway(index domain.CategoryIndex) *gatedGateway {
	return &gatedGateway{index: index, started: make(chan chan struct{}, 4)}
}

func (g *gatedGateway) ListDocumentsByCategory(ctx context.Context) (domain.CategoryIndex, error) {
	release := make(chan struct{})
	g.started <- release
	select {
	case <-release:
		return g.index, nil
	case <-ctx.Done():
		return domain.CategoryIndex{}, ctx.Err()
	}
}

func (g *gatedGateway) UploadDocuments(context.Context, []domain.FileHandle) ([]domain.Document, error) {
	return nil, domain.ErrNotImplemented
}

func (g *gatedGateway) GetDocumentPreview(context.Context, string) (*domain.DocumentPreview, error) {
	return nil, domain.ErrNotFound
}

func (g *gatedGateway) DeleteDocument(context.Context, string) error {
	return domain.ErrNotImplemented
}
