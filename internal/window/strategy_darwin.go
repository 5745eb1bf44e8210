//go:build darwin

package window

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const toolTimeout = 15 * time.Second

// Default priority: System Events first (it reports bounds), then the
// CGWindowList snapshot which also sees windows of processes System Events
// cannot script.
func defaultStrategies() []Strategy {
	return []Strategy{
		&systemEventsStrategy{},
		&cgWindowStrategy{},
	}
}

// systemEventsScript emits "pid||app||title||x,y,w,h" per window.
const systemEventsScript = `
set output to ""
tell application "System Events"
    set procList to every process whose visible is true and background only is false
    repeat with proc in procList
        set procName to name of proc
        set procID to unix id of proc
        try
            set winList to every window of proc
            repeat with win in winList
                try
                    set winTitle to name of win
                    set winPosition to position of win
                    set winSize to size of win
                    set output to output & procID & "||" & procName & "||" & winTitle & "||" & (item 1 of winPosition) & "," & (item 2 of winPosition) & "," & (item 1 of winSize) & "," & (item 2 of winSize) & linefeed
                end try
            end repeat
        end try
    end repeat
end tell
return output
`

// cgWindowScript emits "windowID||owner||title" per on-screen window.
const cgWindowScript = `
use framework "Foundation"
use framework "AppKit"
use scripting additions

set windowList to ""
set theWindows to current application's CGWindowListCopyWindowInfo((current application's kCGWindowListOptionOnScreenOnly), 0)
repeat with i from 1 to count of theWindows
    set theWindow to item i of (theWindows as list)
    set ownerName to theWindow's kCGWindowOwnerName as text
    set windowName to ""
    try
        set windowName to theWindow's kCGWindowName as text
    end try
    set windowID to theWindow's kCGWindowNumber as integer
    set windowList to windowList & windowID & "||" & ownerName & "||" & windowName & linefeed
end repeat
return windowList
`

type systemEventsStrategy struct{}

func (s *systemEventsStrategy) Name() string { return "system-events" }

func (s *systemEventsStrategy) List() ([]Window, error) {
	out, err := runOsascript(systemEventsScript)
	if err != nil {
		return nil, err
	}
	return parseDelimitedWindows(out, parseSystemEventsLine), nil
}

type cgWindowStrategy struct{}

func (s *cgWindowStrategy) Name() string { return "cgwindowlist" }

func (s *cgWindowStrategy) List() ([]Window, error) {
	out, err := runOsascript(cgWindowScript)
	if err != nil {
		return nil, err
	}
	return parseDelimitedWindows(out, parseCGWindowLine), nil
}

func runOsascript(script string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), toolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.ToLower(stderr.String())
		if strings.Contains(msg, "not allowed") || strings.Contains(msg, "assistive") {
			return "", fmt.Errorf("%w: grant accessibility access under "+
				"System Settings > Privacy & Security > Accessibility and add your terminal app", ErrPermissionDenied)
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return string(out), nil
}

// focusWindow raises the window via AXRaise, falling back to making the
// owning process frontmost.
func focusWindow(w *Window) error {
	if w.App == "" {
		return fmt.Errorf("cannot focus window without owner application")
	}

	escapedTitle := strings.ReplaceAll(w.Title, `"`, `\"`)
	escapedApp := strings.ReplaceAll(w.App, `"`, `\"`)

	script := fmt.Sprintf(`
tell application "System Events"
    set targetProc to first application process whose name is "%s"
    repeat with win in windows of targetProc
        if name of win is "%s" then
            perform action "AXRaise" of win
            exit repeat
        end if
    end repeat
    set frontmost of targetProc to true
end tell
`, escapedApp, escapedTitle)

	if _, err := runOsascript(script); err != nil {
		return fmt.Errorf("focus window %q: %w", w.Title, err)
	}
	return nil
}
