// Package tui provides an interactive terminal user interface for kbqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Inventory lists and deletes documents.
	Inventory driving.InventoryService

	// Preview opens one document at a time.
	Preview driving.PreviewService

	// Upload stages and submits local files.
	Upload driving.UploadService

	// Chat answers questions about the documents.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Inventory == nil {
		return ErrMissingInventoryService
	}
	if p.Preview == nil {
		return ErrMissingPreviewService
	}
	if p.Upload == nil {
		return ErrMissingUploadService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
