// Command kbqa is a terminal client for a knowledge base QA backend.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/backend"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/services"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// .env may carry KBQA_API_URL or NEXT_PUBLIC_API_URL
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not load .env: %v", err)
	}

	dir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open config: %v\n", err)
		return err
	}

	cli.SetVersion(version)
	cli.SetSettingsService(services.NewSettingsService(store))
	cli.SetDefaultLogFile(filepath.Join(dir, "kbqa.log"))
	cli.SetBuilder(buildServices)

	return cli.Execute()
}

// buildServices wires the core services to the HTTP backend.
func buildServices(settings *domain.AppSettings) (*cli.Services, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL:   settings.API.URL,
		RateLimit: settings.API.RateLimit,
	})
	if err != nil {
		return nil, err
	}

	inventory := services.NewInventory(client)
	previews := services.NewPreviewLoader(client)
	return &cli.Services{
		Inventory: inventory,
		Preview:   previews,
		Upload:    services.NewStagingPipeline(client, inventory),
		Chat:      services.NewSession(client, previews),
	}, nil
}
