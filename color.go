package imgkit

import (
	"image/color"

	icolor "github.com/gogpu/imgkit/internal/color"
)

// Color is a straight-alpha (non-premultiplied) pixel with each channel
// normalized to [0, 1]. Channels outside that range are allowed while a
// filter is working on them and are clamped when the image is encoded.
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{A: 1}
	White       = Color{R: 1, G: 1, B: 1, A: 1}
)

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA8 creates a color from 8-bit channel values.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// FromColor converts a standard color.Color to a straight-alpha Color.
func FromColor(c color.Color) Color {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

// Add returns the channel-wise sum c + o.
func (c Color) Add(o Color) Color {
	return Color{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

// Sub returns the channel-wise difference c - o.
func (c Color) Sub(o Color) Color {
	return Color{R: c.R - o.R, G: c.G - o.G, B: c.B - o.B, A: c.A - o.A}
}

// Mul returns the channel-wise product c * o.
func (c Color) Mul(o Color) Color {
	return Color{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B, A: c.A * o.A}
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// Lerp linearly interpolates between c and o. t=0 yields c, t=1 yields o.
func (c Color) Lerp(o Color, t float32) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Clamp limits every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Luma returns the Rec. 601 luminance of the color's RGB channels.
func (c Color) Luma() float32 {
	return icolor.Luma(c.R, c.G, c.B)
}

// NRGBA converts to an 8-bit standard library color, rounding to nearest.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(icolor.Quantize(c.R, 0xff)),
		G: uint8(icolor.Quantize(c.G, 0xff)),
		B: uint8(icolor.Quantize(c.B, 0xff)),
		A: uint8(icolor.Quantize(c.A, 0xff)),
	}
}

// NRGBA64 converts to a 16-bit standard library color, rounding to nearest.
func (c Color) NRGBA64() color.NRGBA64 {
	return color.NRGBA64{
		R: uint16(icolor.Quantize(c.R, 0xffff)),
		G: uint16(icolor.Quantize(c.G, 0xffff)),
		B: uint16(icolor.Quantize(c.B, 0xffff)),
		A: uint16(icolor.Quantize(c.A, 0xffff)),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA64().RGBA()
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
