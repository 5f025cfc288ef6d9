package filter

import (
	"math"

	"github.com/gogpu/imgkit"
)

// ColorMatrix is a 5x5 color transform in row-major order over the vector
// (R, G, B, A, 1):
//
//	[R']   [m00 m01 m02 m03 m04]   [R]
//	[G']   [m10 m11 m12 m13 m14]   [G]
//	[B'] = [m20 m21 m22 m23 m24] * [B]
//	[A']   [m30 m31 m32 m33 m34]   [A]
//	[1 ]   [ 0   0   0   0   1 ]   [1]
//
// Channels are in [0, 1], so the fifth column is an offset in the same units.
// The last row is fixed; Apply ignores whatever it holds.
type ColorMatrix [25]float32

// IdentityMatrix leaves every pixel unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Brightness scales RGB by factor.
// 0 is black, 1 is unchanged, 2 is twice as bright.
func Brightness(factor float32) ColorMatrix {
	return ColorMatrix{
		factor, 0, 0, 0, 0,
		0, factor, 0, 0, 0,
		0, 0, factor, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Contrast scales RGB around mid-grey: (c - 0.5) * factor + 0.5.
// 0 is flat grey, 1 is unchanged.
func Contrast(factor float32) ColorMatrix {
	offset := 0.5 * (1 - factor)
	return ColorMatrix{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Rec. 709 luminance weights.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// Saturation mixes each pixel with its luminance.
// 0 is greyscale, 1 is unchanged, above 1 oversaturates.
func Saturation(factor float32) ColorMatrix {
	inv := 1 - factor
	r := inv * lumR
	g := inv * lumG
	b := inv * lumB
	return ColorMatrix{
		r + factor, g, b, 0, 0,
		r, g + factor, b, 0, 0,
		r, g, b + factor, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Grayscale replaces RGB with Rec. 709 luminance.
func Grayscale() ColorMatrix {
	return Saturation(0)
}

// Sepia applies the classic sepia tone.
func Sepia() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Invert maps each RGB channel c to 1 - c.
func Invert() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 1,
		0, -1, 0, 0, 1,
		0, 0, -1, 0, 1,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// HueRotate rotates hue by degrees around the luminance axis.
// Luminance is preserved.
func HueRotate(degrees float64) ColorMatrix {
	rad := degrees * math.Pi / 180
	c := float32(math.Cos(rad))
	s := float32(math.Sin(rad))
	return ColorMatrix{
		lumR + c*(1-lumR) - s*lumR, lumG - c*lumG - s*lumG, lumB - c*lumB + s*(1-lumB), 0, 0,
		lumR - c*lumR + s*0.143, lumG + c*(1-lumG) + s*0.140, lumB - c*lumB - s*0.283, 0, 0,
		lumR - c*lumR - s*(1-lumR), lumG - c*lumG + s*lumG, lumB + c*(1-lumB) + s*lumB, 0, 0,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Opacity multiplies alpha by factor.
func Opacity(factor float32) ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, factor, 0,
		0, 0, 0, 0, 1,
	}
}

// Tint blends RGB toward tint by the tint's alpha.
func Tint(tint imgkit.Color) ColorMatrix {
	f := tint.A
	inv := 1 - f
	return ColorMatrix{
		inv, 0, 0, 0, tint.R * f,
		0, inv, 0, 0, tint.G * f,
		0, 0, inv, 0, tint.B * f,
		0, 0, 0, 1, 0,
		0, 0, 0, 0, 1,
	}
}

// Multiply returns the matrix that applies m first, then next.
func (m ColorMatrix) Multiply(next ColorMatrix) ColorMatrix {
	var out ColorMatrix
	for row := range 4 {
		for col := range 5 {
			var sum float32
			for k := range 4 {
				sum += next[row*5+k] * m[k*5+col]
			}
			if col == 4 {
				sum += next[row*5+4]
			}
			out[row*5+col] = sum
		}
	}
	out[24] = 1
	return out
}

// Transform applies the matrix to a single color.
func (m ColorMatrix) Transform(c imgkit.Color) imgkit.Color {
	return imgkit.Color{
		R: m[0]*c.R + m[1]*c.G + m[2]*c.B + m[3]*c.A + m[4],
		G: m[5]*c.R + m[6]*c.G + m[7]*c.B + m[8]*c.A + m[9],
		B: m[10]*c.R + m[11]*c.G + m[12]*c.B + m[13]*c.A + m[14],
		A: m[15]*c.R + m[16]*c.G + m[17]*c.B + m[18]*c.A + m[19],
	}
}

// Run implements Filter. Pixels are transformed in place.
func (m ColorMatrix) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	e.Pixels(img, r, func(_, _ int, c imgkit.Color) imgkit.Color {
		return m.Transform(c)
	})
	return img
}
