package cli

import (
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge base to MCP clients",
	Long: `Serve the knowledge base to an AI assistant over the Model Context Protocol.

Assistants can call ask_question, list_documents and preview_document, and
read the kbqa://documents and kbqa://documents/{documentId} resources.

Without --port the server talks JSON-RPC on stdin/stdout, which is what
desktop assistants launch. Logging then goes only to the log file. With
--port it serves streamable HTTP on --host instead.

To register kbqa with an assistant, point its MCP configuration at
"kbqa mcp serve", e.g.

  {"mcpServers": {"kbqa": {"command": "kbqa", "args": ["mcp", "serve"]}}}`,
	Example: `  kbqa mcp serve
  kbqa mcp serve --port 8080
  kbqa mcp serve --host 0.0.0.0 --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port; 0 serves over stdio")
	mcpServeCmd.Flags().String("host", "127.0.0.1", "Interface to bind in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Chat:      chatService,
		Inventory: inventoryService,
		Preview:   previewService,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		// stdout carries the protocol
		restore := redirectLogs(cmd)
		defer restore()
		return server.Run(cmd.Context())
	}

	host, _ := cmd.Flags().GetString("host")
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	successColor.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
