package imgkit

import (
	"image"
	"image/color"
	"image/color/palette"

	"golang.org/x/image/draw"
)

// MaxPaletteSize is the largest palette a QuantizedImage may carry.
const MaxPaletteSize = 256

// QuantizedImage is a palette-indexed image with at most MaxPaletteSize
// colors and one index byte per pixel.
type QuantizedImage struct {
	Width   int
	Height  int
	Palette []Color
	Indices []uint8

	// TransparentIndex is the index of the first fully transparent palette
	// entry, or -1 if there is none.
	TransparentIndex int
}

// Quantize reduces img to a palette-indexed image.
//
// Images with at most 256 distinct colors (compared at 8-bit precision) get an
// exact palette in first-appearance order. Otherwise the image is dithered
// onto the web-safe palette with Floyd-Steinberg error diffusion, plus one
// transparent entry if any pixel is fully transparent.
func Quantize(img *Image) *QuantizedImage {
	q := &QuantizedImage{Width: img.Width, Height: img.Height, TransparentIndex: -1}
	if img.IsEmpty() {
		return q
	}
	if exactPalette(img, q) {
		return q
	}

	Logger().Debug("imgkit: quantize falling back to dithering",
		"width", img.Width, "height", img.Height)

	pal := make(color.Palette, 0, len(palette.WebSafe)+1)
	pal = append(pal, palette.WebSafe...)
	for _, c := range img.Pix {
		if c.A <= 0 {
			pal = append(pal, color.NRGBA{})
			break
		}
	}

	dst := image.NewPaletted(image.Rect(0, 0, img.Width, img.Height), pal)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), img.ToNRGBA(), image.Point{})

	q.Palette = make([]Color, len(pal))
	for i, c := range pal {
		q.Palette[i] = FromColor(c)
		if q.TransparentIndex < 0 && q.Palette[i].A == 0 {
			q.TransparentIndex = i
		}
	}
	q.Indices = make([]uint8, len(dst.Pix))
	copy(q.Indices, dst.Pix)
	return q
}

// exactPalette fills q when img has few enough distinct colors.
func exactPalette(img *Image, q *QuantizedImage) bool {
	lookup := make(map[color.NRGBA]uint8, MaxPaletteSize)
	indices := make([]uint8, len(img.Pix))
	var pal []Color
	transparent := -1

	for i, c := range img.Pix {
		key := c.NRGBA()
		if key.A == 0 {
			key = color.NRGBA{}
		}
		idx, ok := lookup[key]
		if !ok {
			if len(pal) == MaxPaletteSize {
				return false
			}
			idx = uint8(len(pal))
			lookup[key] = idx
			pal = append(pal, RGBA8(key.R, key.G, key.B, key.A))
			if key.A == 0 && transparent < 0 {
				transparent = int(idx)
			}
		}
		indices[i] = idx
	}

	q.Palette = pal
	q.Indices = indices
	q.TransparentIndex = transparent
	return true
}

// Image expands the quantized image back to full color by palette lookup.
// Indices beyond the palette resolve to Transparent.
// An index buffer that does not cover Width*Height yields the empty 1x1 form.
func (q *QuantizedImage) Image() *Image {
	if q.Width <= 0 || q.Height <= 0 || len(q.Indices) != q.Width*q.Height {
		return New(0, 0)
	}
	img := New(q.Width, q.Height)
	for i, idx := range q.Indices {
		if int(idx) < len(q.Palette) {
			img.Pix[i] = q.Palette[idx]
		}
	}
	return img
}
