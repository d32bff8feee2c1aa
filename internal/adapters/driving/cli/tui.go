package cli

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/kbqa/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse, upload and ask in a full-screen interface",
	Long: `Open the full-screen interface.

From the menu you can ask questions and follow the cited sources, browse
documents by type, preview or delete them, and stage local files for
upload. Press ? inside the interface for every keybinding.

Logs are written to the log file while the interface owns the terminal.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	app, err := tui.NewApp(&tui.Ports{
		Inventory: inventoryService,
		Preview:   previewService,
		Upload:    uploadService,
		Chat:      chatService,
	})
	if err != nil {
		return fmt.Errorf("starting interface: %w", err)
	}
	app.WithContext(cmd.Context())

	restore := redirectLogs(cmd)
	defer restore()

	// bubbletea restores the terminal before re-panicking, so the panic
	// can still be logged and reported as an ordinary error.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("tui: panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("interface crashed: %v", r)
		}
	}()

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interface: %w", err)
	}
	if appErr := app.Err(); appErr != nil {
		logger.Warn("tui: last error: %v", appErr)
	}
	return nil
}
