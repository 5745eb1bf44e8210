// Package display enumerates the physical displays attached to the system.
package display

import (
	"strconv"
	"strings"

	"github.com/bryanchriswhite/demorec/internal/logger"
)

// Screen is an immutable snapshot of one physical display.
//
// Index is 1-based and follows the platform's display-enumeration order.
// Origin and size are in logical (pre-scale) coordinates; Scale is the
// backing scale factor relating logical to physical pixels (>= 1).
type Screen struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Scale  int `json:"scale"`
}

// Provider enumerates attached displays.
//
// Screens never returns an empty slice: when the platform query fails the
// provider degrades to a single synthetic default screen so that recording
// stays attemptable with incomplete topology information.
type Provider interface {
	Screens() []Screen
}

// NewProvider returns the display provider for the current platform.
func NewProvider() Provider {
	return newPlatformProvider()
}

// fallbackScreens is the synthetic topology used when enumeration fails.
func fallbackScreens(scale int) []Screen {
	if scale < 1 {
		scale = 1
	}
	return []Screen{{Index: 1, X: 0, Y: 0, Width: 1920, Height: 1080, Scale: scale}}
}

// parseScreenList parses line-oriented "x,y,w,h,scale" output as produced by
// the platform query helpers. Lines that do not parse are skipped; the scale
// field is optional and defaults to defaultScale. Treat the input as an
// untyped RPC boundary: field counts and encoding are not guaranteed.
func parseScreenList(out string, defaultScale int) []Screen {
	var screens []Screen
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			continue
		}
		vals := make([]int, 0, 5)
		ok := true
		for _, p := range parts[:min(len(parts), 5)] {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok || vals[2] <= 0 || vals[3] <= 0 {
			continue
		}
		scale := defaultScale
		if len(vals) > 4 && vals[4] >= 1 {
			scale = vals[4]
		}
		screens = append(screens, Screen{
			Index:  len(screens) + 1,
			X:      vals[0],
			Y:      vals[1],
			Width:  vals[2],
			Height: vals[3],
			Scale:  scale,
		})
	}
	return screens
}

func warnFallback(platform string, err error) {
	logger.WithComponent("display").Warn().
		Err(err).
		Str("platform", platform).
		Msg("Display enumeration failed, using synthetic default screen")
}
