package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/core/services"
)

// offlineBackend answers every question with a transport error.
type offlineBackend struct {
	*memory.Backend
}

func (offlineBackend) AskQuestion(context.Context, string) (*domain.Answer, error) {
	return nil, &domain.TransportError{Op: "ask question", Err: context.DeadlineExceeded}
}

// failingDeleteBackend rejects every delete.
type failingDeleteBackend struct {
	*memory.Backend
}

func (failingDeleteBackend) DeleteDocument(context.Context, string) error {
	return &domain.ServerError{Op: "delete document", StatusCode: 500, Message: "boom"}
}

// countingBackend records the document calls it forwards.
type countingBackend struct {
	*memory.Backend
	calls []string
}

func (b *countingBackend) ListDocumentsByCategory(ctx context.Context) (domain.CategoryIndex, error) {
	b.calls = append(b.calls, "list")
	return b.Backend.ListDocumentsByCategory(ctx)
}

func (b *countingBackend) DeleteDocument(ctx context.Context, id string) error {
	b.calls = append(b.calls, "delete")
	return b.Backend.DeleteDocument(ctx, id)
}

func seededBackend() *memory.Backend {
	b := memory.NewBackend()
	b.Add(domain.Document{ID: "t1", Filename: "notes.txt", FileType: domain.FileTypeText, FileSize: 2048}, "the deadline is friday")
	b.Add(domain.Document{ID: "p1", Filename: "report.pdf", FileType: domain.FileTypePDF, FileSize: 10}, "quarterly numbers")
	return b
}

// setupTestServices installs services over backend and restores the
// package state when the test ends.
func setupTestServices(t *testing.T, backend driven.Backend) {
	t.Helper()

	oldInventory, oldPreview, oldUpload, oldChat := inventoryService, previewService, uploadService, chatService
	oldSettings, oldAppSettings, oldBuilder := settingsService, appSettings, builder
	oldNoColor := color.NoColor
	t.Cleanup(func() {
		inventoryService, previewService, uploadService, chatService = oldInventory, oldPreview, oldUpload, oldChat
		settingsService, appSettings, builder = oldSettings, oldAppSettings, oldBuilder
		color.NoColor = oldNoColor
	})

	color.NoColor = true
	inventory := services.NewInventory(backend)
	previews := services.NewPreviewLoader(backend)
	inventoryService = inventory
	previewService = previews
	uploadService = services.NewStagingPipeline(backend, inventory)
	chatService = services.NewSession(backend, previews)
	settingsService = nil
	appSettings = nil
	builder = nil
}

// setupSettings installs a settings service over an in-memory store with
// an empty environment.
func setupSettings(t *testing.T) (driving.SettingsService, *memory.ConfigStore) {
	t.Helper()
	store := memory.NewConfigStore()
	svc := services.NewSettingsService(store).WithEnv(func(string) (string, bool) { return "", false })
	settingsService = svc
	return svc, store
}

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags returns every flag of cmd and its children to its default,
// since cobra keeps parsed values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// setTerminal overrides the stdin terminal check for one test.
func setTerminal(t *testing.T, isTTY bool) {
	t.Helper()
	old := stdinIsTerminal
	stdinIsTerminal = func() bool { return isTTY }
	t.Cleanup(func() { stdinIsTerminal = old })
}
