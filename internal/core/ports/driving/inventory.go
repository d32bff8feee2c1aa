package driving

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// ConfirmFunc asks the user to approve a destructive action.
// It returns true to proceed.
type ConfirmFunc func(prompt string) bool

// InventoryState is the lifecycle of the document inventory.
type InventoryState int

const (
	// InventoryIdle means no load has been requested yet.
	InventoryIdle InventoryState = iota
	// InventoryLoading means a list request is in flight.
	InventoryLoading
	// InventoryReady means the index reflects the last successful load.
	InventoryReady
	// InventoryFailed means the last load failed; the index is empty.
	InventoryFailed
)

// String returns the string representation of the state.
func (s InventoryState) String() string {
	switch s {
	case InventoryIdle:
		return "idle"
	case InventoryLoading:
		return "loading"
	case InventoryReady:
		return "ready"
	case InventoryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InventorySnapshot is a read-only copy of the inventory state.
type InventorySnapshot struct {
	State InventoryState
	Index domain.CategoryIndex
	Err   error
}

// InventoryService keeps the categorized document list and the delete flow.
type InventoryService interface {
	// Reload fetches the full list and replaces the index wholesale.
	// A response overtaken by a newer Reload is discarded and
	// domain.ErrSuperseded is returned.
	Reload(ctx context.Context) error

	// Delete asks confirm, removes the document, then reloads.
	// A declined or nil gate returns domain.ErrDeleteCancelled without
	// contacting the backend.
	Delete(ctx context.Context, id, filename string, confirm ConfirmFunc) error

	// Snapshot returns the current state.
	Snapshot() InventorySnapshot

	// Expanded reports whether a category is shown expanded.
	Expanded(ft domain.FileType) bool

	// ToggleCategory flips the expanded flag of a category.
	ToggleCategory(ft domain.FileType)
}
