package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/claude/gymlog/internal/mcp"
)

func (a *app) mcpCmd() *cobra.Command {
	var remote, apiKey string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve read-only MCP tools over stdio",
		Long: "Serve MCP tools and resources over stdio. By default the local data file is read;\n" +
			"with --remote the data is fetched from a running gymlog server.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ds mcp.DataSource
			if remote != "" {
				if apiKey == "" {
					apiKey = a.cfg.Auth.APIKey
				}
				ds = mcp.NewHTTPClient(remote, apiKey)
				a.log.Info("mcp remote mode", "url", remote)
			} else {
				store, err := a.openStore(false)
				if err != nil {
					return fmt.Errorf("opening data file: %w", err)
				}
				ds = mcp.NewLocal(store)
			}

			s := mcp.New(ds, a.cfg.Stats.Window, Version, a.log)
			return server.ServeStdio(s)
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "base URL of a gymlog server, e.g. http://gymlog.tailnet.ts.net")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the remote server (defaults to auth.api_key)")
	return cmd
}
