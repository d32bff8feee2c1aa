package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

var (
	headingColor = color.New(color.Bold)
	faintColor   = color.New(color.Faint)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// stdinIsTerminal reports whether the confirmation prompt can be answered.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, preview, or delete the documents stored by the backend.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents by category",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsPreviewCmd = &cobra.Command{
	Use:   "preview [doc-id]",
	Short: "Print a document preview",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsPreview,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long: `Delete a document from the backend after confirmation.

Without --yes the command asks for confirmation and refuses to run when
stdin is not a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsDelete,
}

func init() {
	documentsListCmd.Flags().Bool("json", false, "Print the categories as JSON")
	documentsDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsPreviewCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := requireService(inventoryService != nil, "inventory"); err != nil {
		return err
	}

	if err := reloadInventory(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	index := inventoryService.Snapshot().Index

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out := make(map[domain.FileType][]domain.Document)
		for _, ft := range index.Categories() {
			docs := index.Get(ft)
			if docs == nil {
				docs = []domain.Document{}
			}
			out[ft] = docs
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cmd.OutOrStdout()
	for _, ft := range index.Categories() {
		docs := index.Get(ft)
		headingColor.Fprintf(w, "%s (%d)\n", ft.Title(), len(docs))
		if len(docs) == 0 {
			faintColor.Fprintf(w, "  %s\n\n", domain.EmptyCategoryText(ft))
			continue
		}
		for i := range docs {
			printDocumentRow(w, docs[i])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d documents\n", index.Total())
	return nil
}

func printDocumentRow(w io.Writer, doc domain.Document) {
	fmt.Fprintf(w, "  %s  %s", doc.ID, doc.Filename)
	meta := []string{humanize.IBytes(uint64(max(doc.FileSize, 0)))}
	if !doc.UploadDate.IsZero() {
		meta = append(meta, humanize.Time(doc.UploadDate))
	}
	faintColor.Fprintf(w, "  %s\n", strings.Join(meta, ", "))
}

func runDocumentsPreview(cmd *cobra.Command, args []string) error {
	if err := requireService(previewService != nil, "preview"); err != nil {
		return err
	}

	preview, err := previewService.Open(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", domain.PreviewFailedText, err)
	}
	defer previewService.Close()

	w := cmd.OutOrStdout()
	headingColor.Fprintf(w, "%s\n", preview.Filename)
	faintColor.Fprintf(w, "%s File\n\n", strings.ToUpper(preview.FileType.String()))

	render := preview.Render()
	switch render.Kind {
	case domain.RenderImage:
		fmt.Fprintf(w, "Image: %s\n", render.URL)
	case domain.RenderUnavailable:
		faintColor.Fprintln(w, render.Text)
	default:
		fmt.Fprintln(w, render.Text)
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if err := requireService(inventoryService != nil, "inventory"); err != nil {
		return err
	}

	id := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !stdinIsTerminal() {
		return errors.New("refusing to delete without confirmation: stdin is not a terminal (use --yes)")
	}

	// The id goes to the backend as given; a name is shown only when the
	// document is already in the loaded index.
	name := id
	if doc, ok := inventoryService.Snapshot().Index.Find(id); ok {
		name = doc.Filename
	}

	confirm := func(prompt string) bool {
		if yes {
			return true
		}
		return askConfirmation(cmd, prompt)
	}

	err := inventoryService.Delete(cmd.Context(), id, name, confirm)
	switch {
	case errors.Is(err, domain.ErrDeleteCancelled):
		cmd.Println("Deletion cancelled.")
		return nil
	case errors.Is(err, domain.ErrDeleteFailed):
		errorColor.Fprintln(cmd.ErrOrStderr(), domain.DeleteFailedText)
		return err
	case err != nil:
		return err
	}

	successColor.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", name)
	return nil
}

// askConfirmation prints prompt and reads a y/N answer from the command's input.
func askConfirmation(cmd *cobra.Command, prompt string) bool {
	cmd.Printf("%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// reloadInventory refreshes the list. A superseded reload still left a
// newer result behind, so it is not a failure.
func reloadInventory(ctx context.Context) error {
	err := inventoryService.Reload(ctx)
	if errors.Is(err, domain.ErrSuperseded) {
		return nil
	}
	return err
}
