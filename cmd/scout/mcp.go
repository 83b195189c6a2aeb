// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server for AI assistant integration.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/scout/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "scout": {
        "command": "scout",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  register_athlete         Register an athlete or coach
  get_athlete              Get a profile by ID or prefix
  discover_athletes        Filter athletes by sport, district, age and name
  log_performance          Log a measurement
  list_performance         List an athlete's records
  delete_performance       Delete a record
  performance_stats        Summary statistics and improvement
  performance_chart        Chart-ready labels and values
  export_performance_csv   CSV export with the conventional filename
  list_metric_catalogue    Known metrics and sports

AVAILABLE RESOURCES:

  scout://roster    Every registered athlete
  scout://metrics   Metric catalogue and sports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc)
		if err != nil {
			return err
		}

		// stop on SIGINT or SIGTERM
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
