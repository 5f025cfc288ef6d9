package imgkit

import (
	"image"
	"image/color"
)

// Image is a rectangular buffer of straight-alpha pixels stored row-major,
// one Color per pixel, so len(Pix) == Width*Height.
//
// Width and Height are always at least 1. An image created from a degenerate
// size request is 1x1 with a nil Pix; filters treat it as a no-op.
//
// Image implements image.Image and draw.Image so it can be handed to the
// standard library and golang.org/x/image/draw directly.
type Image struct {
	Width  int
	Height int
	Pix    []Color

	// AspectRatio is the pixel aspect ratio (pixel width / pixel height).
	AspectRatio float64
}

// ColorModel converts any color to Color.
var ColorModel color.Model = color.ModelFunc(func(c color.Color) color.Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	return FromColor(c)
})

// New creates a transparent image of the given size.
// Non-positive dimensions produce a 1x1 image with a nil pixel buffer.
func New(width, height int) *Image {
	if width <= 0 || height <= 0 {
		return &Image{Width: 1, Height: 1, AspectRatio: 1}
	}
	return &Image{
		Width:       width,
		Height:      height,
		Pix:         make([]Color, width*height),
		AspectRatio: 1,
	}
}

// IsEmpty reports whether the image has no pixel buffer.
func (m *Image) IsEmpty() bool {
	return m == nil || len(m.Pix) == 0 || len(m.Pix) != m.Width*m.Height
}

// Offset returns the index of pixel (x, y) in Pix, or -1 when out of bounds.
func (m *Image) Offset(x, y int) int {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height || m.IsEmpty() {
		return -1
	}
	return y*m.Width + x
}

// GetPixel returns the pixel at (x, y), or Transparent when out of bounds.
func (m *Image) GetPixel(x, y int) Color {
	i := m.Offset(x, y)
	if i < 0 {
		return Transparent
	}
	return m.Pix[i]
}

// SetPixel sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (m *Image) SetPixel(x, y int, c Color) {
	if i := m.Offset(x, y); i >= 0 {
		m.Pix[i] = c
	}
}

// Row returns the pixels of row y as a slice sharing the image buffer.
// Returns nil if y is out of bounds.
func (m *Image) Row(y int) []Color {
	if y < 0 || y >= m.Height || m.IsEmpty() {
		return nil
	}
	start := y * m.Width
	return m.Pix[start : start+m.Width : start+m.Width]
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	c := *m
	if m.Pix != nil {
		c.Pix = make([]Color, len(m.Pix))
		copy(c.Pix, m.Pix)
	}
	return &c
}

// Fill sets every pixel to c.
func (m *Image) Fill(c Color) {
	for i := range m.Pix {
		m.Pix[i] = c
	}
}

// Equal reports whether both images have the same size and pixels.
func (m *Image) Equal(o *Image) bool {
	if m.Width != o.Width || m.Height != o.Height || len(m.Pix) != len(o.Pix) {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return ColorModel
}

// Bounds implements image.Image. The origin is always (0, 0).
func (m *Image) Bounds() image.Rectangle {
	if m.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	return m.GetPixel(x, y)
}

// Set implements draw.Image.
func (m *Image) Set(x, y int, c color.Color) {
	if i := m.Offset(x, y); i >= 0 {
		m.Pix[i] = ColorModel.Convert(c).(Color)
	}
}
