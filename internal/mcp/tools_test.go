package mcp

import (
	"context"
	"testing"

	"github.com/bryanchriswhite/demorec/internal/capture"
	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/display"
	"github.com/bryanchriswhite/demorec/internal/geometry"
	"github.com/bryanchriswhite/demorec/internal/session"
	"github.com/bryanchriswhite/demorec/internal/window"
)

type fakeRecorder struct {
	startPath string
	startErr  error

	gotTarget capture.Target
	gotName   string
	gotFPS    int

	stopRes   *session.Result
	status    session.Status
	recording bool
}

func (f *fakeRecorder) Start(t capture.Target, name string, fps int) (string, error) {
	f.gotTarget, f.gotName, f.gotFPS = t, name, fps
	return f.startPath, f.startErr
}
func (f *fakeRecorder) Stop() (*session.Result, error) { return f.stopRes, nil }
func (f *fakeRecorder) Status() session.Status         { return f.status }
func (f *fakeRecorder) Recording() bool                { return f.recording }

type fakeStrategy struct {
	windows []window.Window
}

func (f *fakeStrategy) Name() string                   { return "fake" }
func (f *fakeStrategy) List() ([]window.Window, error) { return f.windows, nil }

type fakeDisplays struct {
	screens []display.Screen
}

func (f *fakeDisplays) Screens() []display.Screen { return f.screens }

func newTestServer(rec *fakeRecorder) *Server {
	return &Server{
		cfg: &config.Config{
			RecordingsDir:   "/app/recordings",
			Display:         ":0",
			FPS:             30,
			VideoServerHost: "localhost",
			VideoServerPort: 8080,
			Container:       true,
		},
		controller: rec,
		locator: window.NewLocator(&fakeStrategy{windows: []window.Window{
			{
				Title:  "Demo - Google Chrome",
				App:    "Google Chrome",
				Bounds: &geometry.Rect{X: 0, Y: 0, Width: 1280, Height: 720},
			},
		}}),
		displays: &fakeDisplays{screens: []display.Screen{
			{Index: 1, X: 0, Y: 0, Width: 1920, Height: 1080, Scale: 1},
		}},
	}
}

func TestStartRecording_ReturnsMediaURL(t *testing.T) {
	rec := &fakeRecorder{startPath: "/app/recordings/demo.mp4"}
	s := newTestServer(rec)

	_, out, err := s.handleStartRecording(context.Background(), nil, StartRecordingInput{
		WindowPattern: "chrome",
		OutputName:    "demo",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if out.OutputPath != "/app/recordings/demo.mp4" {
		t.Errorf("path = %q", out.OutputPath)
	}
	// Container mode exposes the file over HTTP as soon as the recording
	// starts, not only after stop.
	if out.MediaURL != "http://localhost:8080/videos/demo.mp4" {
		t.Errorf("media url = %q", out.MediaURL)
	}
	if rec.gotName != "demo" {
		t.Errorf("name = %q", rec.gotName)
	}
}

func TestStartRecording_FramerateForwarded(t *testing.T) {
	rec := &fakeRecorder{startPath: "/app/recordings/r.mp4"}
	s := newTestServer(rec)

	_, _, err := s.handleStartRecording(context.Background(), nil, StartRecordingInput{
		WindowPattern: "chrome",
		FPS:           24,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec.gotFPS != 24 {
		t.Errorf("fps = %d, want the requested 24", rec.gotFPS)
	}

	// Unset means "use the configured default"; the controller resolves it.
	_, _, err = s.handleStartRecording(context.Background(), nil, StartRecordingInput{
		WindowPattern: "chrome",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec.gotFPS != 0 {
		t.Errorf("fps = %d, want 0 passed through", rec.gotFPS)
	}
}

func TestStopRecording_ReportsResult(t *testing.T) {
	rec := &fakeRecorder{stopRes: &session.Result{
		OutputPath: "/app/recordings/demo.mp4",
		MediaURL:   "http://localhost:8080/videos/demo.mp4",
		Duration:   12.5,
		SizeMB:     3.25,
	}}
	s := newTestServer(rec)

	_, out, err := s.handleStopRecording(context.Background(), nil, StopRecordingInput{})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if out.OutputPath != "/app/recordings/demo.mp4" || out.MediaURL == "" {
		t.Errorf("output = %+v", out)
	}
	if out.Duration != 12.5 || out.SizeMB != 3.25 {
		t.Errorf("output = %+v", out)
	}
}

func TestListScreens(t *testing.T) {
	s := newTestServer(&fakeRecorder{})

	_, out, err := s.handleListScreens(context.Background(), nil, ListScreensInput{})
	if err != nil {
		t.Fatalf("list screens: %v", err)
	}
	if len(out.Screens) != 1 || out.Screens[0].Width != 1920 {
		t.Errorf("screens = %+v", out.Screens)
	}
}

func TestListWindows_PatternFilter(t *testing.T) {
	s := newTestServer(&fakeRecorder{})

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{Pattern: "chrome"})
	if err != nil {
		t.Fatalf("list windows: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].App != "Google Chrome" {
		t.Errorf("windows = %+v", out.Windows)
	}

	_, out, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{Pattern: "nomatch"})
	if err != nil {
		t.Fatalf("list windows: %v", err)
	}
	if len(out.Windows) != 0 {
		t.Errorf("windows = %+v, want none", out.Windows)
	}
}
