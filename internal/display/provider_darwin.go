//go:build darwin

package display

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// nsScreenScript prints one "x,y,w,h,scale" line per attached NSScreen,
// in NSScreen enumeration order (which matches AVFoundation's screen
// device order, offset by the camera at device index 0).
const nsScreenScript = `
use framework "AppKit"
set screenList to ""
set screens to current application's NSScreen's screens()
repeat with i from 1 to count of screens
    set scr to item i of screens
    set frame to scr's frame()
    set origin to item 1 of frame
    set sz to item 2 of frame
    set x to item 1 of origin as integer
    set y to item 2 of origin as integer
    set w to item 1 of sz as integer
    set h to item 2 of sz as integer
    set scaleFactor to scr's backingScaleFactor() as integer
    set screenList to screenList & x & "," & y & "," & w & "," & h & "," & scaleFactor & linefeed
end repeat
return screenList
`

const screenQueryTimeout = 5 * time.Second

type darwinProvider struct{}

func newPlatformProvider() Provider {
	return &darwinProvider{}
}

// Screens queries NSScreen via osascript. Modern Macs default to Retina, so
// the synthetic fallback (and any line missing its scale field) assumes 2x.
func (p *darwinProvider) Screens() []Screen {
	out, err := runScreenQuery()
	if err != nil {
		warnFallback("darwin", err)
		return fallbackScreens(2)
	}
	screens := parseScreenList(out, 2)
	if len(screens) == 0 {
		warnFallback("darwin", fmt.Errorf("no screens in osascript output"))
		return fallbackScreens(2)
	}
	return screens
}

func runScreenQuery() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), screenQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", nsScreenScript).Output()
	if err != nil {
		return "", fmt.Errorf("osascript screen query: %w", err)
	}
	return string(out), nil
}
