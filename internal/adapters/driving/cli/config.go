package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change configuration",
	Long: `View or change the settings stored in ~/.kbqa/config.toml.

Environment variables KBQA_API_URL (or NEXT_PUBLIC_API_URL) and the
--api-url flag override the stored backend origin.`,
	Annotations: map[string]string{skipServices: "true"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the resolved settings",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipServices: "true"},
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:         "set [key] [value]",
	Short:       "Set a configuration key",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipServices: "true"},
	RunE:        runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := requireService(settingsService != nil, "settings"); err != nil {
		return err
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	values := settingValues(settings)
	for _, key := range settingsService.Keys() {
		fmt.Fprintf(w, "%-26s ", key)
		if v := values[key]; v != "" {
			fmt.Fprintln(w, v)
		} else {
			faintColor.Fprintln(w, "(default)")
		}
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireService(settingsService != nil, "settings"); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	successColor.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}

// settingValues renders settings by config key.
func settingValues(s *domain.AppSettings) map[string]string {
	return map[string]string{
		services.KeyAPIURL:        s.API.URL,
		services.KeyAPIRateLimit:  strconv.FormatFloat(s.API.RateLimit, 'f', -1, 64),
		services.KeyLogFile:       s.Log.File,
		services.KeyWatchDebounce: strconv.FormatInt(s.Upload.WatchDebounce.Milliseconds(), 10),
	}
}
