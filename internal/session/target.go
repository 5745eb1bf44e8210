package session

import (
	"fmt"

	"github.com/bryanchriswhite/demorec/internal/capture"
	"github.com/bryanchriswhite/demorec/internal/config"
	"github.com/bryanchriswhite/demorec/internal/display"
	"github.com/bryanchriswhite/demorec/internal/geometry"
	"github.com/bryanchriswhite/demorec/internal/logger"
	"github.com/bryanchriswhite/demorec/internal/window"
)

// TargetRequest describes what the caller wants captured.
type TargetRequest struct {
	// WindowPattern is a case-insensitive regex against window titles and
	// owning apps. Empty means auto-detect a browser window, then fall back
	// to full-screen capture.
	WindowPattern string

	// Screen selects a 1-based display for full-screen capture. Zero picks
	// the first screen.
	Screen int
}

// ResolvedTarget is a capture target plus the human-facing description of
// what was picked.
type ResolvedTarget struct {
	Target capture.Target
	Window *window.Window
	Screen int
}

// ResolveTarget turns a request into a platform capture target. Window
// lookup and display topology come from the given collaborators so callers
// (and tests) control the platform dependencies.
func ResolveTarget(goos string, cfg *config.Config, loc *window.Locator, screens []display.Screen, req TargetRequest) (ResolvedTarget, error) {
	log := logger.WithComponent("target")

	pattern := req.WindowPattern
	if pattern == "" {
		if windows, err := loc.List(); err == nil {
			if detected, ok := window.DetectBrowserPattern(windows); ok {
				log.Info().Str("pattern", detected).Msg("auto-detected browser window")
				pattern = detected
			}
		}
	}

	if pattern == "" {
		return fullScreenTarget(goos, cfg, screens, req.Screen)
	}

	w, err := loc.Find(pattern)
	if err != nil {
		return ResolvedTarget{}, err
	}
	// Best effort: a hidden window records fine, a minimized one does not.
	if err := loc.Focus(w); err != nil {
		log.Debug().Err(err).Str("title", w.Title).Msg("could not focus window")
	}

	res := ResolvedTarget{Window: w}

	switch goos {
	case "windows":
		// gdigrab tracks the window natively, no geometry needed.
		res.Target = capture.Target{WindowTitle: w.Title}
		res.Screen = 1
		return res, nil

	case "darwin", "linux":
		if w.Bounds == nil {
			return ResolvedTarget{}, fmt.Errorf("window %q reported no bounds; cannot derive a capture region", w.Title)
		}
		placement := geometry.Resolve(*w.Bounds, screens)
		res.Screen = placement.ScreenIndex
		if goos == "darwin" {
			res.Target = capture.Target{
				ScreenIndex: placement.ScreenIndex,
				Placement:   &placement,
			}
		} else {
			// x11grab addresses the virtual root directly, so the grab
			// region uses global coordinates clamped at the desktop edge.
			res.Target = capture.Target{
				Display: cfg.Display,
				Origin: geometry.Point{
					X: max(0, w.Bounds.X),
					Y: max(0, w.Bounds.Y),
				},
				Size: geometry.Size{Width: w.Bounds.Width, Height: w.Bounds.Height},
			}
		}
		return res, nil

	default:
		return ResolvedTarget{}, fmt.Errorf("%w: %s", capture.ErrUnsupportedPlatform, goos)
	}
}

// fullScreenTarget captures an entire display.
func fullScreenTarget(goos string, cfg *config.Config, screens []display.Screen, index int) (ResolvedTarget, error) {
	if len(screens) == 0 {
		screens = []display.Screen{{Index: 1, X: 0, Y: 0, Width: 1920, Height: 1080, Scale: 1}}
	}
	if index < 1 {
		index = 1
	}

	var screen display.Screen
	found := false
	for _, s := range screens {
		if s.Index == index {
			screen = s
			found = true
			break
		}
	}
	if !found {
		return ResolvedTarget{}, fmt.Errorf("screen %d not found (have %d screens)", index, len(screens))
	}

	res := ResolvedTarget{Screen: screen.Index}

	switch goos {
	case "darwin":
		scale := screen.Scale
		if scale < 1 {
			scale = 1
		}
		res.Target = capture.Target{
			ScreenIndex: screen.Index,
			Placement: &geometry.Placement{
				ScreenIndex: screen.Index,
				Scale:       scale,
				Crop: geometry.Rect{
					Width:  geometry.EvenFloor(screen.Width * scale),
					Height: geometry.EvenFloor(screen.Height * scale),
				},
			},
		}
	case "linux":
		res.Target = capture.Target{
			Display: cfg.Display,
			Origin:  geometry.Point{X: screen.X, Y: screen.Y},
			Size:    geometry.Size{Width: screen.Width, Height: screen.Height},
		}
	case "windows":
		res.Target = capture.Target{Desktop: true}
	default:
		return ResolvedTarget{}, fmt.Errorf("%w: %s", capture.ErrUnsupportedPlatform, goos)
	}
	return res, nil
}
