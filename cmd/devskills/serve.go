package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/devskills/pkg/logger"
	"github.com/jingkaihe/devskills/pkg/mcpserver"
	"github.com/jingkaihe/devskills/pkg/presenter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill catalog over MCP on stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing the
skill catalog: a list_skills tool, a get_skill tool, and one skill://<name>
resource per skill. Point an MCP-capable assistant at the devskills binary
with this subcommand.

Example client configuration:
  {"command": "devskills", "args": ["serve"]}`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		cat, err := newCatalog()
		if err != nil {
			presenter.Error(err, "Failed to initialize skill catalog")
			os.Exit(1)
		}

		srv, err := mcpserver.New(cat)
		if err != nil {
			presenter.Error(err, "Failed to build MCP server")
			os.Exit(1)
		}

		logger.G(ctx).Info("serving skill catalog over MCP stdio")

		if err := mcpserver.ServeStdio(srv); err != nil {
			presenter.Error(err, "MCP server failed")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
