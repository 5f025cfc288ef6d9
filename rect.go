package imgkit

import (
	"fmt"
	"math"
)

// Rectangle selects a region of an image. Rows are numbered top-down:
// the region covers rows [RowStart, RowEnd) and columns [Left, Right).
//
// The zero Rectangle is empty. Use Whole to select an entire image.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// Whole selects the full extent of whatever image it is clamped against.
var Whole = Rectangle{Width: math.MaxInt, Height: math.MaxInt}

// Rect returns the rectangle with the given corner and size.
func Rect(x, y, width, height int) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// Left returns the first column.
func (r Rectangle) Left() int { return r.X }

// Right returns one past the last column.
func (r Rectangle) Right() int { return addSat(r.X, r.Width) }

// RowStart returns the first row.
func (r Rectangle) RowStart() int { return r.Y }

// RowEnd returns one past the last row.
func (r Rectangle) RowEnd() int { return addSat(r.Y, r.Height) }

// Empty reports whether the rectangle contains no pixels.
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels covered.
func (r Rectangle) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

func (r Rectangle) String() string {
	if r == Whole {
		return "Whole"
	}
	return fmt.Sprintf("(%d,%d)+%dx%d", r.X, r.Y, r.Width, r.Height)
}

// Clamp intersects r with the extent of m. Whole yields the full image.
// Degenerate or disjoint inputs produce an empty rectangle, never an error;
// callers treat an empty result as a no-op. Clamp is idempotent and never
// returns Whole.
func Clamp(r Rectangle, m *Image) Rectangle {
	if m == nil {
		return Rectangle{}
	}
	return ClampSize(r, m.Width, m.Height)
}

// ClampSize is Clamp against a width x height extent.
func ClampSize(r Rectangle, width, height int) Rectangle {
	if width <= 0 || height <= 0 || r.Empty() {
		return Rectangle{}
	}
	left := clampInt(r.Left(), 0, width)
	right := clampInt(r.Right(), 0, width)
	top := clampInt(r.RowStart(), 0, height)
	bottom := clampInt(r.RowEnd(), 0, height)
	if left >= right || top >= bottom {
		return Rectangle{}
	}
	return Rectangle{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// addSat adds without overflowing past math.MaxInt or math.MinInt.
func addSat(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}
