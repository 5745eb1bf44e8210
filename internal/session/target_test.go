package session

import (
	"errors"
	"testing"

	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/display"
	"github.com/bryanchriswhite/demorec/internal/geometry"
	"github.com/bryanchriswhite/demorec/internal/window"
)

type stubStrategy struct {
	windows []window.Window
}

func (s *stubStrategy) Name() string                  { return "stub" }
func (s *stubStrategy) List() ([]window.Window, error) { return s.windows, nil }

var dualScreens = []display.Screen{
	{Index: 1, X: 0, Y: 0, Width: 1440, Height: 900, Scale: 2},
	{Index: 2, X: 1440, Y: 0, Width: 1920, Height: 1080, Scale: 1},
}

func chromeLocator() *window.Locator {
	return window.NewLocator(&stubStrategy{windows: []window.Window{
		{
			Title:  "Demo - Google Chrome",
			App:    "Google Chrome",
			Bounds: &geometry.Rect{X: 1500, Y: 50, Width: 800, Height: 600},
		},
	}})
}

func TestResolveTarget_DarwinWindowOnSecondScreen(t *testing.T) {
	cfg := &config.Config{}

	res, err := ResolveTarget("darwin", cfg, chromeLocator(), dualScreens, TargetRequest{
		WindowPattern: "chrome",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// The window overlaps screen 2 entirely, despite sitting near screen 1.
	if res.Screen != 2 || res.Target.ScreenIndex != 2 {
		t.Fatalf("screen = %d/%d, want 2", res.Screen, res.Target.ScreenIndex)
	}
	if res.Target.Placement == nil {
		t.Fatal("darwin target needs a crop placement")
	}
	crop := res.Target.Placement.Crop
	if crop != (geometry.Rect{X: 60, Y: 50, Width: 800, Height: 600}) {
		t.Errorf("crop = %+v", crop)
	}
	if res.Window == nil || res.Window.App != "Google Chrome" {
		t.Errorf("window = %+v", res.Window)
	}
}

func TestResolveTarget_LinuxUsesGlobalCoordinates(t *testing.T) {
	cfg := &config.Config{Display: ":99"}

	res, err := ResolveTarget("linux", cfg, chromeLocator(), dualScreens, TargetRequest{
		WindowPattern: "chrome",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Target.Display != ":99" {
		t.Errorf("display = %q", res.Target.Display)
	}
	if res.Target.Origin != (geometry.Point{X: 1500, Y: 50}) {
		t.Errorf("origin = %+v", res.Target.Origin)
	}
	if res.Target.Size != (geometry.Size{Width: 800, Height: 600}) {
		t.Errorf("size = %+v", res.Target.Size)
	}
}

func TestResolveTarget_WindowsUsesTitle(t *testing.T) {
	res, err := ResolveTarget("windows", &config.Config{}, chromeLocator(), dualScreens, TargetRequest{
		WindowPattern: "chrome",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Target.WindowTitle != "Demo - Google Chrome" {
		t.Errorf("title = %q", res.Target.WindowTitle)
	}
}

func TestResolveTarget_NoMatch(t *testing.T) {
	_, err := ResolveTarget("darwin", &config.Config{}, chromeLocator(), dualScreens, TargetRequest{
		WindowPattern: "nonexistent",
	})
	if !errors.Is(err, window.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestResolveTarget_AutoDetectsBrowser(t *testing.T) {
	res, err := ResolveTarget("darwin", &config.Config{}, chromeLocator(), dualScreens, TargetRequest{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Window == nil || res.Window.App != "Google Chrome" {
		t.Errorf("auto-detection should land on the browser window, got %+v", res.Window)
	}
}

func TestResolveTarget_FullScreenFallback(t *testing.T) {
	// No recognizable browser: fall back to full-screen capture.
	loc := window.NewLocator(&stubStrategy{windows: []window.Window{
		{Title: "Editor", App: "Code", Bounds: &geometry.Rect{Width: 1200, Height: 800}},
	}})

	res, err := ResolveTarget("darwin", &config.Config{}, loc, dualScreens, TargetRequest{Screen: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Screen != 2 {
		t.Errorf("screen = %d", res.Screen)
	}
	if res.Window != nil {
		t.Errorf("full-screen capture has no window, got %+v", res.Window)
	}
	crop := res.Target.Placement.Crop
	if crop != (geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}) {
		t.Errorf("crop = %+v", crop)
	}
}

func TestResolveTarget_FullScreenUnknownIndex(t *testing.T) {
	loc := window.NewLocator(&stubStrategy{})
	_, err := ResolveTarget("darwin", &config.Config{}, loc, dualScreens, TargetRequest{Screen: 7})
	if err == nil {
		t.Fatal("expected error for unknown screen index")
	}
}

func TestResolveTarget_FullScreenLinux(t *testing.T) {
	loc := window.NewLocator(&stubStrategy{})
	res, err := ResolveTarget("linux", &config.Config{Display: ":0"}, loc, dualScreens, TargetRequest{Screen: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Target.Origin != (geometry.Point{X: 1440, Y: 0}) {
		t.Errorf("origin = %+v", res.Target.Origin)
	}
	if res.Target.Size != (geometry.Size{Width: 1920, Height: 1080}) {
		t.Errorf("size = %+v", res.Target.Size)
	}
}
