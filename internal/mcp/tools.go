package mcp

import (
	"context"
	"fmt"
	"regexp"
	"runtime"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bryanchriswhite/demorec/internal/session"
)

func (s *Server) handleStartRecording(_ context.Context, _ *mcpsdk.CallToolRequest, args StartRecordingInput) (*mcpsdk.CallToolResult, StartRecordingOutput, error) {
	res, err := session.ResolveTarget(runtime.GOOS, s.cfg, s.locator, s.displays.Screens(), session.TargetRequest{
		WindowPattern: args.WindowPattern,
		Screen:        args.Screen,
	})
	if err != nil {
		return nil, StartRecordingOutput{}, err
	}

	outputPath, err := s.controller.Start(res.Target, args.OutputName, args.FPS)
	if err != nil {
		return nil, StartRecordingOutput{}, err
	}

	out := StartRecordingOutput{
		OutputPath: outputPath,
		MediaURL:   s.cfg.MediaURL(outputPath),
		Screen:     res.Screen,
	}
	if res.Window != nil {
		out.Window = res.Window.Title
		out.Message = fmt.Sprintf("Recording window %q on screen %d", res.Window.Title, res.Screen)
	} else {
		out.Message = fmt.Sprintf("Recording full screen %d", res.Screen)
	}
	return nil, out, nil
}

func (s *Server) handleStopRecording(_ context.Context, _ *mcpsdk.CallToolRequest, _ StopRecordingInput) (*mcpsdk.CallToolResult, StopRecordingOutput, error) {
	res, err := s.controller.Stop()
	if err != nil {
		return nil, StopRecordingOutput{}, err
	}
	return nil, StopRecordingOutput{
		OutputPath: res.OutputPath,
		MediaURL:   res.MediaURL,
		Duration:   res.Duration,
		SizeMB:     res.SizeMB,
	}, nil
}

func (s *Server) handleRecordingStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ RecordingStatusInput) (*mcpsdk.CallToolResult, RecordingStatusOutput, error) {
	st := s.controller.Status()
	return nil, RecordingStatusOutput{
		State:      string(st.State),
		OutputPath: st.OutputPath,
		Duration:   st.Duration,
		SizeMB:     st.SizeMB,
		Healthy:    st.Healthy,
		Detail:     st.Detail,
	}, nil
}

func (s *Server) handleListScreens(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListScreensInput) (*mcpsdk.CallToolResult, ListScreensOutput, error) {
	var out ListScreensOutput
	for _, sc := range s.displays.Screens() {
		out.Screens = append(out.Screens, ScreenInfo{
			Index:  sc.Index,
			X:      sc.X,
			Y:      sc.Y,
			Width:  sc.Width,
			Height: sc.Height,
			Scale:  sc.Scale,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.locator.List()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	var re *regexp.Regexp
	if args.Pattern != "" {
		re, err = regexp.Compile("(?i)" + args.Pattern)
		if err != nil {
			return nil, ListWindowsOutput{}, fmt.Errorf("invalid pattern %q: %w", args.Pattern, err)
		}
	}

	var out ListWindowsOutput
	for _, w := range windows {
		if re != nil && !re.MatchString(w.Title) && !re.MatchString(w.App) {
			continue
		}
		info := WindowInfo{Title: w.Title, App: w.App, PID: w.PID}
		if w.Bounds != nil {
			info.X = w.Bounds.X
			info.Y = w.Bounds.Y
			info.Width = w.Bounds.Width
			info.Height = w.Bounds.Height
		}
		out.Windows = append(out.Windows, info)
	}
	return nil, out, nil
}
