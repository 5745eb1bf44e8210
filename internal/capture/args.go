// Package capture builds ffmpeg invocations for the platform capture idioms.
//
// Three idioms exist: avfoundation selects a target by a small device index
// (macOS, fixed pixel format, no region support, so cropping happens in a
// filter), x11grab takes an explicit size plus an offset into a named display
// (Linux/Xvfb), and gdigrab captures a desktop window keyed directly by its
// title (Windows, no manual geometry at all).
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bryanchriswhite/demorec/internal/geometry"
)

var (
	// ErrUnsupportedPlatform means no capture idiom exists for the OS.
	ErrUnsupportedPlatform = errors.New("unsupported capture platform")

	// ErrTargetUnresolved means the target description is missing the fields
	// the platform idiom needs.
	ErrTargetUnresolved = errors.New("capture target unresolved")
)

// Target describes what to point the capture process at. Which fields are
// required depends on the platform idiom.
type Target struct {
	// WindowTitle keys gdigrab capture directly.
	WindowTitle string

	// Desktop requests whole-desktop capture through gdigrab's synthetic
	// "desktop" device when no window title is available.
	Desktop bool

	// ScreenIndex is the 1-based display index for avfoundation. The camera
	// occupies device 0, so NSScreen order happens to line up with screen
	// device indices.
	ScreenIndex int

	// Placement carries the physical-pixel crop for avfoundation capture.
	Placement *geometry.Placement

	// Display names the X server for x11grab, e.g. ":0" or ":99".
	Display string

	// Origin and Size give the x11grab grab region in display pixels.
	Origin geometry.Point
	Size   geometry.Size

	// OutputSize, when set, appends a scale filter forcing the final frame
	// size regardless of crop rounding.
	OutputSize geometry.Size
}

// Spec is a fully resolved capture invocation.
type Spec struct {
	// Args is the complete ffmpeg argument vector, excluding the binary.
	Args []string

	// CropFilter is the crop expression included in Args, kept separately
	// for diagnostics. Empty when the idiom captures the region natively.
	CropFilter string

	OutputSize geometry.Size
	Framerate  int
}

// Encoder tail shared by every platform: fast startup over compression
// (ultrafast), yuv420p for player compatibility, and fragmented MP4 so the
// container index is written incrementally and a mid-recording crash still
// leaves a playable file.
func encoderArgs() []string {
	return []string{
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-movflags", "frag_keyframe+empty_moov",
	}
}

// Build produces the capture invocation for the given platform ("darwin",
// "linux", "windows"). It never panics; unresolvable targets come back as
// structured errors the caller can turn into actionable diagnostics.
func Build(goos string, t Target, fps int, outputPath string) (Spec, error) {
	if fps <= 0 {
		fps = 30
	}
	if outputPath == "" {
		return Spec{}, fmt.Errorf("%w: no output path", ErrTargetUnresolved)
	}

	var grab []string
	var filters []string
	var cropFilter string
	out := t.OutputSize

	switch goos {
	case "darwin":
		if t.ScreenIndex < 1 {
			return Spec{}, fmt.Errorf("%w: avfoundation needs a 1-based screen index", ErrTargetUnresolved)
		}
		if t.Placement == nil {
			return Spec{}, fmt.Errorf("%w: avfoundation needs a resolved crop placement", ErrTargetUnresolved)
		}
		c := t.Placement.Crop
		cropFilter = fmt.Sprintf("crop=%d:%d:%d:%d", c.Width, c.Height, c.X, c.Y)
		filters = append(filters, cropFilter)
		if out == (geometry.Size{}) {
			out = geometry.Size{Width: c.Width, Height: c.Height}
		}
		grab = []string{
			"-f", "avfoundation",
			"-capture_cursor", "1",
			"-framerate", strconv.Itoa(fps),
			"-pixel_format", "uyvy422",
			"-i", fmt.Sprintf("%d:none", t.ScreenIndex),
		}

	case "linux":
		if t.Display == "" {
			return Spec{}, fmt.Errorf("%w: x11grab needs a display name", ErrTargetUnresolved)
		}
		if t.Size.Width <= 0 || t.Size.Height <= 0 {
			return Spec{}, fmt.Errorf("%w: x11grab needs a positive grab size", ErrTargetUnresolved)
		}
		w := geometry.EvenCeil(t.Size.Width)
		h := geometry.EvenCeil(t.Size.Height)
		if out == (geometry.Size{}) {
			out = geometry.Size{Width: w, Height: h}
		}
		grab = []string{
			"-f", "x11grab",
			"-video_size", fmt.Sprintf("%dx%d", w, h),
			"-framerate", strconv.Itoa(fps),
			"-i", fmt.Sprintf("%s+%d,%d", t.Display, t.Origin.X, t.Origin.Y),
		}

	case "windows":
		input := "title=" + t.WindowTitle
		if t.WindowTitle == "" {
			if !t.Desktop {
				return Spec{}, fmt.Errorf("%w: gdigrab needs a window title or desktop capture", ErrTargetUnresolved)
			}
			input = "desktop"
		}
		grab = []string{
			"-f", "gdigrab",
			"-framerate", strconv.Itoa(fps),
			"-i", input,
		}

	default:
		return Spec{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}

	if t.OutputSize != (geometry.Size{}) {
		filters = append(filters, fmt.Sprintf("scale=%d:%d",
			geometry.EvenFloor(t.OutputSize.Width), geometry.EvenFloor(t.OutputSize.Height)))
	}

	args := []string{"-y"}
	args = append(args, grab...)
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	args = append(args, encoderArgs()...)
	args = append(args, outputPath)

	return Spec{
		Args:       args,
		CropFilter: cropFilter,
		OutputSize: out,
		Framerate:  fps,
	}, nil
}
