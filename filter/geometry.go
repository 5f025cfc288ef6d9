package filter

import "github.com/gogpu/imgkit"

// Crop returns a new image holding only the selected rectangle.
type Crop struct{}

// Run implements Filter.
func (Crop) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	left, top := r.Left(), r.RowStart()
	out := e.Recreate(r.Width, r.Height, func(dst []imgkit.Color, y int) {
		copy(dst, img.Row(top + y)[left:])
	})
	out.AspectRatio = img.AspectRatio
	return out
}

// FlipHorizontal mirrors the rectangle left to right in place.
type FlipHorizontal struct{}

// Run implements Filter.
func (FlipHorizontal) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	left, right := r.Left(), r.Right()
	e.Each(r.RowStart(), r.RowEnd(), func(y int) {
		row := img.Row(y)[left:right]
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	})
	return img
}

// FlipVertical mirrors the rectangle top to bottom in place.
type FlipVertical struct{}

// Run implements Filter.
func (FlipVertical) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	left, right := r.Left(), r.Right()
	top, bottom := r.RowStart(), r.RowEnd()
	// Each task swaps a pair of rows, so only the upper half is iterated.
	e.Each(top, top+r.Height/2, func(y int) {
		a := img.Row(y)[left:right]
		b := img.Row(bottom - 1 - (y - top))[left:right]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	})
	return img
}
