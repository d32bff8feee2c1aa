// Package watcher uploads files dropped into a local folder.
//
// The watcher listens for create and write events, waits for a burst of
// events to settle, then stages every allow-listed file it saw and submits
// them as one upload batch.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Batch is the outcome of one debounced upload.
type Batch struct {
	// Paths are the files that were staged.
	Paths []string

	// Documents are the created documents on success.
	Documents []domain.Document

	// Err is the read or upload failure, if any.
	Err error
}

// Watcher stages and submits files that appear in a directory.
type Watcher struct {
	dir      string
	uploads  driving.UploadService
	debounce time.Duration
	onBatch  func(Batch)
}

// New creates a watcher for dir. onBatch, if not nil, is called after
// every submitted batch.
func New(dir string, uploads driving.UploadService, debounce time.Duration, onBatch func(Batch)) *Watcher {
	if debounce <= 0 {
		debounce = domain.DefaultWatchDebounce
	}
	return &Watcher{
		dir:      dir,
		uploads:  uploads,
		debounce: debounce,
		onBatch:  onBatch,
	}
}

// Run watches until ctx is cancelled. Files already in the directory are
// not uploaded.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watcher: watching %s", w.dir)

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleFsEvent(event)
			if !ok {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case <-timer.C:
			paths := drain(pending)
			w.submit(ctx, paths)
		}
	}
}

// handleFsEvent returns the path to stage for an event, if any.
// Only creates and writes of visible, allow-listed regular files count.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !domain.IsAllowedUpload(name) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	return event.Name, true
}

func (w *Watcher) submit(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}

	batch := Batch{Paths: paths}
	files, err := ReadFiles(paths)
	if err != nil {
		batch.Err = err
	} else {
		w.uploads.Select(files)
		batch.Documents, batch.Err = w.uploads.Submit(ctx)
	}

	if batch.Err != nil {
		logger.Warn("watcher: upload of %d files failed: %v", len(paths), batch.Err)
	} else {
		logger.Info("watcher: uploaded %d files", len(batch.Documents))
	}
	if w.onBatch != nil {
		w.onBatch(batch)
	}
}

// ReadFiles loads each path into a file handle.
func ReadFiles(paths []string) ([]domain.FileHandle, error) {
	files := make([]domain.FileHandle, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, domain.NewFileHandle(p, data))
	}
	return files, nil
}

// drain empties pending and returns its keys sorted.
func drain(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)
	return paths
}
