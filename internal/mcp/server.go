// Package mcp exposes the recorder as an MCP server over stdio, so agent
// tooling can start and stop recordings programmatically.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/bryanchriswhite/demorec/internal/capture"
	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/display"
	"github.com/bryanchriswhite/demorec/internal/logger"
	"github.com/bryanchriswhite/demorec/internal/session"
	"github.com/bryanchriswhite/demorec/internal/window"
)

const (
	ServerName    = "demorec"
	ServerVersion = "0.1.0"
)

// recorder is the session-control surface the tool handlers use. An
// interface so tests can substitute a fake controller.
type recorder interface {
	Start(target capture.Target, name string, fps int) (string, error)
	Stop() (*session.Result, error)
	Status() session.Status
	Recording() bool
}

// Server is the MCP server for recording control.
type Server struct {
	mcpServer  *mcpsdk.Server
	cfg        *config.Config
	controller recorder
	locator    *window.Locator
	displays   display.Provider
	log        zerolog.Logger
}

// NewServer wires the recording stack behind the MCP tool surface. Orphaned
// capture processes from a previous run are reaped here, before any new
// session can collide with them.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.EnsureRecordingsDir(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		controller: session.NewController(cfg),
		locator:    window.NewLocator(),
		displays:   display.NewProvider(),
		log:        *logger.WithComponent("mcp"),
	}

	if n := session.NewReaper(cfg.RecordingsDir).Reap(); n > 0 {
		s.log.Warn().Int("count", n).Msg("reaped orphaned capture processes")
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdio, blocking until the client disconnects or ctx is
// cancelled. Stdout belongs to the protocol; all logging goes to stderr.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close stops any in-flight recording so the capture process never outlives
// the server.
func (s *Server) Close() error {
	if s.controller.Recording() {
		if _, err := s.controller.Stop(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name: "start_recording",
		Description: "Start a screen recording of a window matched by regex, or auto-detect " +
			"a browser window when no pattern is given. Only one recording can run at a time. " +
			"Returns the output path; fetch the file after stop_recording.",
	}, s.handleStartRecording)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name: "stop_recording",
		Description: "Stop the active recording, finalize the MP4 and return its path, " +
			"duration and size. In container mode also returns an HTTP URL for the file.",
	}, s.handleStopRecording)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name: "recording_status",
		Description: "Report whether a recording is active, its duration and output size, " +
			"and a health flag that turns false when the output file stops growing.",
	}, s.handleRecordingStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_screens",
		Description: "List attached displays with position, size and scale factor.",
	}, s.handleListScreens)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List visible windows with title, owning app and bounds, optionally filtered by regex.",
	}, s.handleListWindows)
}
