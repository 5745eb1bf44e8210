// Package geometry maps logical window bounds onto physical display pixels.
//
// Window bounds arrive in logical (pre-scale) coordinates from the window
// locator; capture processes want physical pixels. The resolver picks the
// display a window actually sits on, translates the window origin into
// display-relative coordinates, and scales by the display's backing factor.
package geometry

// Point is a position in a coordinate space.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// overlapArea returns the area of the intersection of two rectangles,
// or 0 when they do not intersect.
func overlapArea(a, b Rect) int {
	left := max(a.X, b.X)
	right := min(a.X+a.Width, b.X+b.Width)
	top := max(a.Y, b.Y)
	bottom := min(a.Y+a.Height, b.Y+b.Height)

	if right <= left || bottom <= top {
		return 0
	}
	return (right - left) * (bottom - top)
}

// EvenFloor rounds v down to the nearest even integer.
func EvenFloor(v int) int {
	if v%2 != 0 {
		return v - 1
	}
	return v
}

// EvenCeil rounds v up to the nearest even integer.
func EvenCeil(v int) int {
	if v%2 != 0 {
		return v + 1
	}
	return v
}
