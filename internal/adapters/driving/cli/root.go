// Package cli implements the kbqa command line surface with cobra.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Inventory driving.InventoryService
	Preview   driving.PreviewService
	Upload    driving.UploadService
	Chat      driving.ChatService
}

// Builder constructs the services once settings are resolved.
type Builder func(settings *domain.AppSettings) (*Services, error)

var (
	inventoryService driving.InventoryService
	previewService   driving.PreviewService
	uploadService    driving.UploadService
	chatService      driving.ChatService
	settingsService  driving.SettingsService

	// appSettings are the settings resolved for this invocation.
	appSettings *domain.AppSettings

	builder        Builder
	defaultLogFile string
)

// skipServices marks commands that run without a backend.
const skipServices = "kbqa/skip-services"

var rootCmd = &cobra.Command{
	Use:   "kbqa",
	Short: "Upload documents and ask questions about them",
	Long: `kbqa is a terminal client for a knowledge base QA backend.

Upload text files, images and PDFs, browse them by category, preview their
content, and ask natural-language questions answered from your documents.

Run 'kbqa tui' for the interactive interface.`,
	SilenceUsage:      true,
	PersistentPreRunE: configure,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().String("api-url", "", "Backend origin (overrides config and environment)")
}

// SetVersion sets the version printed by 'kbqa version'.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by every command.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetBuilder sets the function that wires services from settings.
func SetBuilder(b Builder) {
	builder = b
}

// SetDefaultLogFile sets the log file used when log.file is unset.
func SetDefaultLogFile(path string) {
	defaultLogFile = path
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// configure resolves settings and builds services before a command runs.
func configure(cmd *cobra.Command, _ []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetVerbose(true)
	}

	if cmd.Annotations[skipServices] == "true" || builder == nil {
		return nil
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	appSettings = settings

	svc, err := builder(settings)
	if err != nil {
		return fmt.Errorf("failed to initialise services: %w", err)
	}
	inventoryService = svc.Inventory
	previewService = svc.Preview
	uploadService = svc.Upload
	chatService = svc.Chat

	logger.Debug("using backend %s", settings.API.URL)
	return nil
}

func resolveSettings(cmd *cobra.Command) (*domain.AppSettings, error) {
	var settings *domain.AppSettings
	if settingsService != nil {
		resolved, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = resolved
	} else {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		settings.API.URL = apiURL
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("--api-url: %w", err)
		}
	}
	return settings, nil
}

// logFile returns the file long-running surfaces log to.
func logFile() string {
	if appSettings != nil && appSettings.Log.File != "" {
		return appSettings.Log.File
	}
	return defaultLogFile
}

// redirectLogs sends logs to the rotating file while the terminal or stdio
// is owned by the surface. The returned func restores console logging.
func redirectLogs(cmd *cobra.Command) func() {
	path := logFile()
	if path == "" {
		return func() {}
	}
	if err := logger.SetFile(path); err != nil {
		logger.Warn("cannot open log file %s: %v", path, err)
		return func() {}
	}
	return func() {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "closing log file: %v\n", err)
		}
	}
}

func requireService(configured bool, name string) error {
	if !configured {
		return errors.New(name + " service not configured")
	}
	return nil
}
