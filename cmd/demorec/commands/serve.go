package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanchriswhite/demorec/internal/api"
	"github.com/bryanchriswhite/demorec/internal/logger"
	"github.com/bryanchriswhite/demorec/internal/mcp"
)

var serveHTTP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP recording server on stdio",
	Long: `Run demorec as an MCP server. Tools are exposed over stdio for MCP
clients; logs go to stderr.

In container mode a recordings HTTP server is started as well, so finished
files can be fetched over the network.`,
	Example: `  # Serve MCP over stdio
  demorec serve

  # Also serve finished recordings over HTTP
  demorec serve --http`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve finished recordings over HTTP (implied in container mode)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithComponent("serve")

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("initializing MCP server: %w", err)
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveHTTP || cfg.Container {
		videoServer := api.NewServer(cfg.RecordingsDir)
		go func() {
			if err := videoServer.Start(cfg.VideoServerPort); err != nil {
				log.Error().Err(err).Msg("recordings server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			videoServer.Shutdown(shutdownCtx)
		}()
	}

	log.Info().Str("version", mcp.ServerVersion).Msg("MCP server listening on stdio")
	return server.Run(ctx)
}
