package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Ask a natural-language question. The answer is generated by the backend
from your uploaded documents and lists the documents it cites.

Example:
  kbqa ask "What does the contract say about renewals?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

type askOutput struct {
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

func init() {
	askCmd.Flags().Bool("json", false, "Print the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireService(chatService != nil, "chat"); err != nil {
		return err
	}

	question := strings.Join(args, " ")
	msg, err := chatService.Ask(cmd.Context(), question)
	if err != nil {
		if msg != nil {
			errorColor.Fprintln(cmd.ErrOrStderr(), msg.Content)
		}
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out := askOutput{Answer: msg.Content, Citations: msg.Citations}
		if out.Citations == nil {
			out.Citations = []domain.Citation{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, msg.Content)
	if msg.HasCitations() {
		fmt.Fprintln(w)
		headingColor.Fprintln(w, "Sources:")
		for i, c := range msg.Citations {
			fmt.Fprintf(w, "  [%d] %s", i+1, c.Filename)
			faintColor.Fprintf(w, "  %s (%s)\n", c.ID, c.FileType)
		}
	}
	return nil
}
