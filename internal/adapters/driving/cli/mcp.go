package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
	Long:  `Serve retrieval and question answering to MCP-capable AI assistants.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose the ingested documents to MCP clients.

The server offers a retrieve tool always, plus ask and list_documents
when the corresponding providers are configured, and serves document
content as docsage:// resources.

Without flags it speaks JSON-RPC over stdio, the transport MCP clients
spawn subprocesses with. Pass --port to serve the streamable HTTP
transport instead, e.g. for the MCP Inspector:

  docsage mcp serve --port 8080

A typical client configuration runs "docsage mcp serve" as the server
command with no arguments.`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("no embedding provider configured; run 'docsage config set embedding.provider ollama' first")
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Retrieval: retrievalService,
		Answer:    answerService,
		Ingestion: ingestionService,
		Chunks:    store.DocumentStore(),
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
