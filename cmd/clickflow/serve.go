package main

import (
	"os"

	"github.com/aretw0/clickflow/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the project over HTTP: flow listing, plan compilation and storage, previews and metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p cli.ServeParams
		p.Port, _ = cmd.Flags().GetInt("port")
		p.Store, _ = cmd.Flags().GetString("store")
		p.PlansDir, _ = cmd.Flags().GetString("plans-dir")
		p.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
		p.RedisPassword, _ = cmd.Flags().GetString("redis-password")
		p.RedisDB, _ = cmd.Flags().GetInt("redis-db")
		p.PlanTTL, _ = cmd.Flags().GetDuration("plan-ttl")
		p.PlanKey, _ = cmd.Flags().GetString("plan-key")
		if p.PlanKey == "" {
			p.PlanKey = os.Getenv("CLICKFLOW_PLAN_KEY")
		}
		p.FallbackKeys, _ = cmd.Flags().GetStringSlice("fallback-key")
		p.Mask, _ = cmd.Flags().GetStringArray("mask")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Serve(ctx, globals(cmd, nil), p)
	},
}

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts clickflow as an MCP Server so agents can list flows, compile plans and plan previews.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.MCP(ctx, globals(cmd, args), transport, port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("store", cli.StoreMemory, "Plan store: memory, file or redis")
	serveCmd.Flags().String("plans-dir", ".clickflow/plans", "Directory of the file plan store, relative to the project")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("plan-ttl", 0, "Expiry of stored plans in redis (0 keeps them)")
	serveCmd.Flags().String("plan-key", "", "Encrypt stored plans with this 32-byte key, hex or base64 (env CLICKFLOW_PLAN_KEY)")
	serveCmd.Flags().StringSlice("fallback-key", nil, "Previous plan keys still accepted for reading")
	serveCmd.Flags().StringArray("mask", nil, "Regular expression of typed text or flow ids to mask in stored plans")

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
