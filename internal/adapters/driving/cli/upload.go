package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/watcher"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [path...]",
	Short: "Upload files to the knowledge base",
	Long: `Upload one or more files as a single batch.

Directories are expanded to the supported files they contain
(.txt, .pdf, .jpg, .jpeg, .png). Files named explicitly are sent as-is
and the backend decides whether it accepts them.

With --watch, a single directory is watched and files written to it are
uploaded in batches until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolP("watch", "w", false, "Watch a directory and upload new files")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireService(uploadService != nil, "upload"); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		if len(args) != 1 {
			return errors.New("--watch takes exactly one directory")
		}
		return runUploadWatch(cmd, args[0])
	}

	paths, err := expandUploadPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no supported files found")
	}

	files, err := watcher.ReadFiles(paths)
	if err != nil {
		return err
	}

	uploadService.Select(files)
	cmd.Printf("Uploading %d file(s)...\n", len(files))

	docs, err := uploadService.Submit(cmd.Context())
	if err != nil {
		errorColor.Fprintln(cmd.ErrOrStderr(), domain.UploadFailedText)
		return err
	}

	w := cmd.OutOrStdout()
	successColor.Fprintf(w, "Uploaded %d document(s):\n", len(docs))
	for i := range docs {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n", docs[i].ID, docs[i].Filename,
			docs[i].FileType, humanize.IBytes(uint64(max(docs[i].FileSize, 0))))
	}
	return nil
}

func runUploadWatch(cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	debounce := domain.DefaultWatchDebounce
	if appSettings != nil {
		debounce = appSettings.Upload.WatchDebounce
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(dir, uploadService, debounce, func(b watcher.Batch) {
		if b.Err != nil {
			errorColor.Fprintf(cmd.ErrOrStderr(), "%s (%v)\n", domain.UploadFailedText, b.Err)
			return
		}
		for i := range b.Documents {
			successColor.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", b.Documents[i].Filename)
		}
	})

	cmd.Printf("Watching %s for new files (Ctrl+C to stop)\n", dir)
	return w.Run(ctx)
}

// expandUploadPaths replaces each directory with the allow-listed files
// directly inside it. Explicit files are kept regardless of extension.
func expandUploadPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.Type().IsRegular() || e.Name()[0] == '.' || !domain.IsAllowedUpload(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
