package geometry

import (
	"github.com/bryanchriswhite/demorec/internal/display"
)

// Placement describes where a window lands in capture space: the display it
// sits on, its origin relative to that display (logical coordinates), the
// display's backing scale factor, and the final crop rectangle in physical
// pixels.
type Placement struct {
	ScreenIndex int
	Origin      Point
	Scale       int
	Crop        Rect
}

// Resolve maps logical window bounds onto one of the given screens.
//
// The screen with maximum overlap area wins; windows frequently straddle
// display boundaries, so containment of the top-left corner is not a usable
// criterion. With zero overlap the first screen is chosen and the origin is
// clamped to be non-negative. The returned crop rectangle is scaled to
// physical pixels, clamped inside the chosen screen's pixel area, and has
// even origin and size to satisfy hardware encoder alignment.
func Resolve(bounds Rect, screens []display.Screen) Placement {
	if len(screens) == 0 {
		screens = []display.Screen{{Index: 1, X: 0, Y: 0, Width: 1920, Height: 1080, Scale: 1}}
	}

	best := screens[0]
	bestOverlap := 0
	for _, s := range screens {
		area := overlapArea(bounds, Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height})
		if area > bestOverlap {
			bestOverlap = area
			best = s
		}
	}

	origin := Point{
		X: max(0, bounds.X-best.X),
		Y: max(0, bounds.Y-best.Y),
	}

	scale := best.Scale
	if scale < 1 {
		scale = 1
	}

	crop := physicalCrop(origin, Size{Width: bounds.Width, Height: bounds.Height}, best, scale)

	return Placement{
		ScreenIndex: best.Index,
		Origin:      origin,
		Scale:       scale,
		Crop:        crop,
	}
}

// physicalCrop scales a logical origin/size into the screen's pixel area.
// Origins round up to even, sizes round down, so the crop never reaches
// outside the captured frame.
func physicalCrop(origin Point, size Size, s display.Screen, scale int) Rect {
	maxW := s.Width * scale
	maxH := s.Height * scale

	x := EvenCeil(origin.X * scale)
	y := EvenCeil(origin.Y * scale)
	if x > maxW-2 {
		x = EvenFloor(max(0, maxW-2))
	}
	if y > maxH-2 {
		y = EvenFloor(max(0, maxH-2))
	}

	w := EvenFloor(size.Width * scale)
	h := EvenFloor(size.Height * scale)
	if x+w > maxW {
		w = EvenFloor(maxW - x)
	}
	if y+h > maxH {
		h = EvenFloor(maxH - y)
	}
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}
