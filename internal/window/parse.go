package window

import (
	"strconv"
	"strings"

	"github.com/bryanchriswhite/demorec/internal/geometry"
)

// Line-oriented parsers for the external enumeration tools. The tools are an
// untyped RPC boundary: never assume field counts or encoding stability, and
// drop lines that do not parse rather than failing the whole enumeration.

// parseWmctrlLine parses one line of `wmctrl -l -G -p` output:
//
//	0x03400003 -1 1234 0 0 1920 1080 host Window Title
//
// Fields: window id, desktop, pid, x, y, width, height, hostname, title.
func parseWmctrlLine(line string) (Window, bool) {
	parts := strings.Fields(line)
	if len(parts) < 9 {
		return Window{}, false
	}

	pid, _ := strconv.Atoi(parts[2])
	x, errX := strconv.Atoi(parts[3])
	y, errY := strconv.Atoi(parts[4])
	w, errW := strconv.Atoi(parts[5])
	h, errH := strconv.Atoi(parts[6])
	if errX != nil || errY != nil || errW != nil || errH != nil {
		return Window{}, false
	}

	title := strings.Join(parts[8:], " ")
	if title == "" {
		return Window{}, false
	}

	return Window{
		Title:  title,
		PID:    pid,
		Handle: parts[0],
		Bounds: &geometry.Rect{X: x, Y: y, Width: w, Height: h},
	}, true
}

// parseSystemEventsLine parses one line of the System Events AppleScript
// output, "pid||app||title||x,y,w,h".
func parseSystemEventsLine(line string) (Window, bool) {
	parts := strings.Split(line, "||")
	if len(parts) < 4 {
		return Window{}, false
	}

	pid, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	app := strings.TrimSpace(parts[1])
	title := strings.TrimSpace(parts[2])
	if title == "" {
		title = app
	}
	if title == "" {
		return Window{}, false
	}

	win := Window{
		Title:  title,
		App:    app,
		PID:    pid,
		Handle: parts[0] + ":" + title,
	}

	nums := strings.Split(parts[3], ",")
	if len(nums) >= 4 {
		vals := make([]int, 0, 4)
		ok := true
		for _, n := range nums[:4] {
			// Position values can come back as floats.
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, int(f))
		}
		if ok {
			win.Bounds = &geometry.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
		}
	}

	return win, true
}

// parseCGWindowLine parses one line of the CGWindowList AppleScript output,
// "windowID||owner||title". Bounds are not available from this query.
func parseCGWindowLine(line string) (Window, bool) {
	parts := strings.Split(line, "||")
	if len(parts) < 3 {
		return Window{}, false
	}

	owner := strings.TrimSpace(parts[1])
	title := strings.TrimSpace(parts[2])
	if title == "" && owner == "" {
		return Window{}, false
	}
	if title == "" {
		title = owner
	}

	return Window{
		Title:  title,
		App:    owner,
		Handle: strings.TrimSpace(parts[0]),
	}, true
}

// parseDelimitedWindows applies a per-line parser over tool output.
func parseDelimitedWindows(out string, parse func(string) (Window, bool)) []Window {
	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if w, ok := parse(line); ok {
			windows = append(windows, w)
		}
	}
	return windows
}
