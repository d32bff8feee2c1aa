package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// settlePoll is how often a superseded list call checks whether the newer
// reload has finished.
const settlePoll = 10 * time.Millisecond

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	Citations []CitationOutput `json:"citations"`
}

// CitationOutput is a document an answer relies on.
type CitationOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	URI        string `json:"uri"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct {
	FileType string `json:"file_type,omitempty" jsonschema:"only list this category: txt, img or pdf"`
}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Total      int              `json:"total"`
}

// CategoryOutput is one category of documents.
type CategoryOutput struct {
	FileType  string           `json:"file_type"`
	Title     string           `json:"title"`
	Documents []DocumentOutput `json:"documents"`
}

// DocumentOutput describes one uploaded document.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	UploadDate string `json:"upload_date"`
}

// PreviewInput is the input schema for the preview_document tool.
type PreviewInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document to preview"`
}

// PreviewOutput is the output schema for the preview_document tool.
type PreviewOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	Kind       string `json:"kind"`
	Text       string `json:"text,omitempty"`
	URL        string `json:"url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a question answered from the uploaded documents, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents grouped by file type",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_document",
		Description: "Show the text content or image location of a document",
	}, s.handlePreview)
}

// handleAsk handles the ask_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	msg, err := s.ports.Chat.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    msg.Content,
		Citations: make([]CitationOutput, len(msg.Citations)),
	}
	for i, c := range msg.Citations {
		output.Citations[i] = CitationOutput{
			DocumentID: c.ID,
			Filename:   c.Filename,
			FileType:   c.FileType.String(),
			URI:        documentURI(c.ID),
		}
	}

	return nil, output, nil
}

// handleList handles the list_documents tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	index, err := s.reloadIndex(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	var output ListOutput
	for _, ft := range index.Categories() {
		if input.FileType != "" && string(ft) != input.FileType {
			continue
		}
		docs := index.Get(ft)
		category := CategoryOutput{
			FileType:  ft.String(),
			Title:     ft.Title(),
			Documents: make([]DocumentOutput, len(docs)),
		}
		for i, d := range docs {
			category.Documents[i] = toDocumentOutput(d)
		}
		output.Categories = append(output.Categories, category)
		output.Total += len(docs)
	}

	return nil, output, nil
}

// handlePreview handles the preview_document tool invocation.
func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PreviewInput,
) (*mcp.CallToolResult, PreviewOutput, error) {
	preview, err := s.openPreview(ctx, input.DocumentID)
	if err != nil {
		return nil, PreviewOutput{}, err
	}

	render := preview.Render()
	return nil, PreviewOutput{
		DocumentID: preview.ID,
		Filename:   preview.Filename,
		FileType:   preview.FileType.String(),
		Kind:       render.Kind.String(),
		Text:       render.Text,
		URL:        render.URL,
	}, nil
}

// reloadIndex fetches a fresh index. When a concurrent reload overtakes
// this one, it waits for the inventory to settle and reports that result.
func (s *Server) reloadIndex(ctx context.Context) (domain.CategoryIndex, error) {
	err := s.ports.Inventory.Reload(ctx)
	switch {
	case err == nil:
		return s.ports.Inventory.Snapshot().Index, nil
	case !errors.Is(err, domain.ErrSuperseded):
		return domain.CategoryIndex{}, fmt.Errorf("listing documents: %w", err)
	}

	ticker := time.NewTicker(settlePoll)
	defer ticker.Stop()
	for {
		snap := s.ports.Inventory.Snapshot()
		switch snap.State {
		case driving.InventoryReady:
			return snap.Index, nil
		case driving.InventoryFailed:
			return domain.CategoryIndex{}, fmt.Errorf("listing documents: %w", snap.Err)
		}
		select {
		case <-ctx.Done():
			return domain.CategoryIndex{}, fmt.Errorf("listing documents: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// openPreview opens a document. Concurrent requests share one loader, so
// a superseded response is still a valid answer for this caller.
func (s *Server) openPreview(ctx context.Context, id string) (*domain.DocumentPreview, error) {
	if s.ports.Preview == nil || id == "" {
		return nil, domain.ErrNotFound
	}
	preview, err := s.ports.Preview.Open(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrSuperseded) {
		return nil, err
	}
	if preview == nil {
		return nil, domain.ErrPreviewFailed
	}
	return preview, nil
}

func toDocumentOutput(d domain.Document) DocumentOutput {
	out := DocumentOutput{
		DocumentID: d.ID,
		Filename:   d.Filename,
		FileSize:   d.FileSize,
	}
	if !d.UploadDate.IsZero() {
		out.UploadDate = d.UploadDate.Format(time.RFC3339)
	}
	return out
}
