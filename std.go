package imgkit

import (
	"image"
	"image/color"

	icolor "github.com/gogpu/imgkit/internal/color"
)

// FromStd converts a standard library image.Image to an Image.
// The result is origin-based regardless of the source bounds.
func FromStd(src image.Image) *Image {
	b := src.Bounds()
	dst := New(b.Dx(), b.Dy())
	if dst.IsEmpty() {
		return dst
	}

	switch s := src.(type) {
	case *Image:
		return s.Clone()

	case *image.NRGBA:
		for y := range dst.Height {
			row := dst.Row(y)
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			for x := range row {
				p := s.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
				row[x] = Color{
					R: icolor.Norm8(p[0]),
					G: icolor.Norm8(p[1]),
					B: icolor.Norm8(p[2]),
					A: icolor.Norm8(p[3]),
				}
			}
		}

	case *image.Gray:
		for y := range dst.Height {
			row := dst.Row(y)
			off := s.PixOffset(b.Min.X, b.Min.Y+y)
			for x := range row {
				v := icolor.Norm8(s.Pix[off+x])
				row[x] = Color{R: v, G: v, B: v, A: 1}
			}
		}

	default:
		// Generic slow path for any image type.
		for y := range dst.Height {
			row := dst.Row(y)
			for x := range row {
				row[x] = FromColor(src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}

	return dst
}

// ToNRGBA converts the image to an 8-bit non-premultiplied standard image.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(m.Bounds())
	for y := 0; y < m.Height && !m.IsEmpty(); y++ {
		off := y * out.Stride
		for x, c := range m.Row(y) {
			n := c.NRGBA()
			out.Pix[off+x*4+0] = n.R
			out.Pix[off+x*4+1] = n.G
			out.Pix[off+x*4+2] = n.B
			out.Pix[off+x*4+3] = n.A
		}
	}
	return out
}

// ToNRGBA64 converts the image to a 16-bit non-premultiplied standard image.
func (m *Image) ToNRGBA64() *image.NRGBA64 {
	out := image.NewNRGBA64(m.Bounds())
	for y := 0; y < m.Height && !m.IsEmpty(); y++ {
		for x, c := range m.Row(y) {
			out.SetNRGBA64(x, y, c.NRGBA64())
		}
	}
	return out
}

// ToPaletted converts a quantized image to a standard paletted image.
func (q *QuantizedImage) ToPaletted() *image.Paletted {
	pal := make(color.Palette, len(q.Palette))
	for i, c := range q.Palette {
		pal[i] = c.NRGBA()
	}
	out := image.NewPaletted(image.Rect(0, 0, q.Width, q.Height), pal)
	copy(out.Pix, q.Indices)
	return out
}
