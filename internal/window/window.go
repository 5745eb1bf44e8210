// Package window finds on-screen application windows by title or owner.
//
// Window discovery is inherently unreliable: every platform exposes several
// partially overlapping enumeration facilities, none of them complete. The
// locator therefore runs a prioritized list of strategies, merges their
// results, and de-duplicates by (application, title). A stable platform
// window handle would be a more robust identity key; the tuple is a
// best-effort compromise and known to conflate same-titled windows of one
// application.
package window

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bryanchriswhite/demorec/internal/geometry"
	"github.com/bryanchriswhite/demorec/internal/logger"
)

var (
	// ErrWindowNotFound means no enumerated window matched the pattern.
	ErrWindowNotFound = errors.New("no matching window found")

	// ErrDependencyMissing means a required OS helper tool is not installed.
	ErrDependencyMissing = errors.New("required window tool missing")

	// ErrPermissionDenied means the OS denied window enumeration, typically
	// missing accessibility or screen recording permission.
	ErrPermissionDenied = errors.New("window enumeration permission denied")
)

// Window is a point-in-time snapshot of one on-screen window. Bounds are in
// logical (pre-scale) coordinates and may be stale by the time they are used;
// windows move.
type Window struct {
	Title  string         `json:"title"`
	App    string         `json:"app,omitempty"`
	PID    int            `json:"pid,omitempty"`
	Bounds *geometry.Rect `json:"bounds,omitempty"`
	Handle string         `json:"handle,omitempty"`
}

// Strategy is one window-enumeration mechanism. Strategies are best-effort:
// an error from one strategy does not abort the merge.
type Strategy interface {
	Name() string
	List() ([]Window, error)
}

// Decorative UI chrome (tooltips, docks, menu fragments) shows up in most
// enumerations; anything both narrower and shorter than this is dropped.
const (
	minUsefulWidth  = 100
	minUsefulHeight = 100
)

// Locator merges prioritized enumeration strategies into a single window
// inventory and resolves title/owner patterns against it.
type Locator struct {
	strategies []Strategy
}

// NewLocator creates a locator with the given strategy priority order.
// With no arguments the platform default order is used.
func NewLocator(strategies ...Strategy) *Locator {
	if len(strategies) == 0 {
		strategies = defaultStrategies()
	}
	return &Locator{strategies: strategies}
}

// List returns the merged, de-duplicated window inventory. Strategies run in
// priority order; a window reported by an earlier strategy shadows the same
// (app, title) tuple from later ones. Only fails when every strategy fails.
func (l *Locator) List() ([]Window, error) {
	log := logger.WithComponent("window")

	var merged []Window
	seen := make(map[string]struct{})
	var lastErr error
	succeeded := 0

	for _, s := range l.strategies {
		windows, err := s.List()
		if err != nil {
			log.Debug().Err(err).Str("strategy", s.Name()).Msg("Enumeration strategy failed")
			lastErr = err
			continue
		}
		succeeded++
		for _, w := range windows {
			if isChrome(w) {
				continue
			}
			key := dedupeKey(w)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, w)
		}
	}

	if succeeded == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("no enumeration strategies configured")
		}
		return nil, fmt.Errorf("listing windows: %w", lastErr)
	}
	return merged, nil
}

// Find returns the first window whose title or owning application matches
// the case-insensitive regex pattern. Never silently picks a non-matching
// window: no match is an explicit ErrWindowNotFound.
func (l *Locator) Find(pattern string) (*Window, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid window pattern %q: %w", pattern, err)
	}

	windows, err := l.List()
	if err != nil {
		return nil, err
	}

	for i := range windows {
		w := &windows[i]
		if re.MatchString(w.Title) || (w.App != "" && re.MatchString(w.App)) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: pattern %q", ErrWindowNotFound, pattern)
}

// Focus raises the window so the capture region shows it. Best-effort.
func (l *Locator) Focus(w *Window) error {
	return focusWindow(w)
}

func dedupeKey(w Window) string {
	return strings.ToLower(w.App) + "\x00" + strings.ToLower(w.Title)
}

func isChrome(w Window) bool {
	if w.Bounds == nil {
		return false
	}
	return w.Bounds.Width < minUsefulWidth && w.Bounds.Height < minUsefulHeight
}

// browserApps is the owner-name priority list used for target auto-detection.
var browserApps = []string{
	"Google Chrome", "Firefox", "Nightly", "Safari", "Arc", "Brave", "Edge", "Chromium",
}

// urlishMarkers flag titles that look like a loaded web page.
var urlishMarkers = []string{"http", "localhost", ".com", ".io", ".org"}

// DetectBrowserPattern guesses a window pattern for demo recording when the
// caller did not name one. Priority: an embedded-browser IDE window (the
// Cursor extension renders pages inside the IDE itself), then well-known
// browsers by owner name, then any window with a URL-like title. The order
// encodes an environment assumption; callers with different environments
// should pass an explicit pattern instead.
func DetectBrowserPattern(windows []Window) (string, bool) {
	for _, w := range windows {
		if w.App == "Cursor" {
			return "Cursor", true
		}
	}
	for _, app := range browserApps {
		for _, w := range windows {
			if w.App == app {
				return regexp.QuoteMeta(app), true
			}
		}
	}
	for _, w := range windows {
		title := strings.ToLower(w.Title)
		for _, marker := range urlishMarkers {
			if strings.Contains(title, marker) {
				if len(w.Title) > 50 {
					return regexp.QuoteMeta(w.Title[:50]), true
				}
				return regexp.QuoteMeta(w.Title), true
			}
		}
	}
	return "", false
}
