package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Ensure Inventory implements the interfaces.
var (
	_ driving.InventoryService = (*Inventory)(nil)
	_ driving.UploadListener   = (*Inventory)(nil)
)

// Inventory keeps the categorized list of documents on the backend.
type Inventory struct {
	gateway driven.DocumentGateway

	mu        sync.Mutex
	state     driving.InventoryState
	index     domain.CategoryIndex
	err       error
	latest    uint64
	collapsed map[domain.FileType]bool
}

// NewInventory creates an idle inventory.
func NewInventory(gateway driven.DocumentGateway) *Inventory {
	return &Inventory{
		gateway:   gateway,
		collapsed: make(map[domain.FileType]bool),
	}
}

// Reload fetches the full document list and replaces the index wholesale.
func (s *Inventory) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.latest++
	token := s.latest
	s.state = driving.InventoryLoading
	s.err = nil
	s.mu.Unlock()

	index, err := s.gateway.ListDocumentsByCategory(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latest {
		logger.Debug("inventory: discarding stale reload %d (latest %d)", token, s.latest)
		return domain.ErrSuperseded
	}

	if err != nil {
		logger.Warn("inventory: reload failed: %v", err)
		s.state = driving.InventoryFailed
		s.index = domain.CategoryIndex{}
		s.err = err
		return fmt.Errorf("list documents: %w", err)
	}

	s.state = driving.InventoryReady
	s.index = index
	logger.Debug("inventory: loaded %d documents", index.Total())
	return nil
}

// Delete asks confirm, deletes the document and reloads the inventory.
// The reload runs whether or not the delete succeeded.
func (s *Inventory) Delete(ctx context.Context, id, filename string, confirm driving.ConfirmFunc) error {
	if confirm == nil || !confirm(domain.DeletePrompt(filename)) {
		return domain.ErrDeleteCancelled
	}

	deleteErr := s.gateway.DeleteDocument(ctx, id)
	if deleteErr != nil {
		logger.Warn("inventory: delete %s failed: %v", id, deleteErr)
	}

	reloadErr := s.Reload(ctx)

	if deleteErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrDeleteFailed, deleteErr)
	}
	if reloadErr != nil && !errors.Is(reloadErr, domain.ErrSuperseded) {
		return reloadErr
	}
	return nil
}

// UploadSucceeded reloads the inventory after a successful upload.
func (s *Inventory) UploadSucceeded(ctx context.Context, docs []domain.Document) {
	logger.Debug("inventory: %d documents uploaded, reloading", len(docs))
	if err := s.Reload(ctx); err != nil && !errors.Is(err, domain.ErrSuperseded) {
		logger.Warn("inventory: reload after upload failed: %v", err)
	}
}

// Snapshot returns a copy of the current state.
func (s *Inventory) Snapshot() driving.InventorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return driving.InventorySnapshot{
		State: s.state,
		Index: s.index.Clone(),
		Err:   s.err,
	}
}

// Expanded reports whether a category is expanded. Categories start expanded.
func (s *Inventory) Expanded(ft domain.FileType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.collapsed[ft]
}

// ToggleCategory flips the expanded flag of a category.
func (s *Inventory) ToggleCategory(ft domain.FileType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collapsed[ft] = !s.collapsed[ft]
}
