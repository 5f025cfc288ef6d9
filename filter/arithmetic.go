package filter

import (
	"fmt"

	"github.com/gogpu/imgkit"
)

// ArithmeticOp combines a destination pixel d with a source pixel s.
type ArithmeticOp uint8

// Arithmetic operations. Except for Over, they work on R, G and B and keep
// the destination alpha.
const (
	Add        ArithmeticOp = iota // d + s
	Subtract                       // d - s
	Multiply                       // d * s
	Difference                     // |d - s|
	Screen                         // 1 - (1-d)(1-s)
	Average                        // (d + s) / 2
	Darken                         // min(d, s)
	Lighten                        // max(d, s)
	Over                           // s composited over d
	arithmeticOpCount
)

var arithmeticOpNames = [arithmeticOpCount]string{
	"add", "subtract", "multiply", "difference", "screen", "average", "darken", "lighten", "over",
}

func (op ArithmeticOp) String() string {
	if op < arithmeticOpCount {
		return arithmeticOpNames[op]
	}
	return fmt.Sprintf("ArithmeticOp(%d)", uint8(op))
}

// Arithmetic combines every pixel of the rectangle with the Source pixel at
// the same coordinates. Pixels outside Source are left unchanged, as is the
// whole image when Source is nil or Op is unknown.
type Arithmetic struct {
	Op     ArithmeticOp
	Source *imgkit.Image
}

// Run implements Filter. Pixels are combined in place.
func (a Arithmetic) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	if a.Source.IsEmpty() || a.Op >= arithmeticOpCount {
		return img
	}
	r = imgkit.Clamp(r, a.Source)
	if r.Empty() {
		return img
	}
	src := a.Source
	if src == img {
		src = img.Clone()
	}
	e.Pixels(img, r, func(x, y int, d imgkit.Color) imgkit.Color {
		return a.Op.Combine(d, src.Pix[y*src.Width+x])
	})
	return img
}

// Combine applies op to a single pair of pixels.
func (op ArithmeticOp) Combine(d, s imgkit.Color) imgkit.Color {
	if op == Over {
		return over(d, s)
	}
	return imgkit.Color{
		R: op.channel(d.R, s.R),
		G: op.channel(d.G, s.G),
		B: op.channel(d.B, s.B),
		A: d.A,
	}
}

func (op ArithmeticOp) channel(d, s float32) float32 {
	switch op {
	case Add:
		return d + s
	case Subtract:
		return d - s
	case Multiply:
		return d * s
	case Difference:
		if d > s {
			return d - s
		}
		return s - d
	case Screen:
		return 1 - (1-d)*(1-s)
	case Average:
		return (d + s) / 2
	case Darken:
		return min(d, s)
	case Lighten:
		return max(d, s)
	}
	return d
}

// over composites straight-alpha s over d.
func over(d, s imgkit.Color) imgkit.Color {
	a := s.A + d.A*(1-s.A)
	if a <= 0 {
		return imgkit.Transparent
	}
	k := d.A * (1 - s.A)
	return imgkit.Color{
		R: (s.R*s.A + d.R*k) / a,
		G: (s.G*s.A + d.G*k) / a,
		B: (s.B*s.A + d.B*k) / a,
		A: a,
	}
}
