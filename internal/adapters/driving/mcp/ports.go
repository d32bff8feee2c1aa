package mcp

import (
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions.
	Chat driving.ChatService

	// Inventory lists documents.
	Inventory driving.InventoryService

	// Preview opens single documents. Optional; without it the
	// preview_document tool and document resources report not found.
	Preview driving.PreviewService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Inventory == nil {
		return ErrMissingInventoryService
	}
	return nil
}
