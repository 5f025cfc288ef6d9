package filter

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/imgkit"
)

// Affine maps the selected rectangle through Matrix into a new
// Width x Height image. Matrix takes source coordinates, relative to the
// rectangle's top-left corner, to destination coordinates. Destination
// pixels whose preimage falls outside the rectangle stay transparent.
// Non-positive sizes default to the size of the rectangle.
type Affine struct {
	Matrix        f64.Aff3
	Width, Height int
	Resampler     Resampler
}

// Translation returns the matrix moving every point by (dx, dy).
func Translation(dx, dy float64) f64.Aff3 {
	return f64.Aff3{1, 0, dx, 0, 1, dy}
}

// Rotation returns the matrix rotating by degrees clockwise (rows grow
// downward) about (cx, cy).
func Rotation(degrees, cx, cy float64) f64.Aff3 {
	rad := degrees * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return f64.Aff3{
		c, -s, cx - c*cx + s*cy,
		s, c, cy - s*cx - c*cy,
	}
}

// Scaling returns the matrix scaling by (sx, sy) about the origin.
func Scaling(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// bandImage restricts writes to a band of rows. x/image/draw clips to the
// destination bounds, so each band can be transformed on its own.
type bandImage struct {
	*imgkit.Image
	bounds image.Rectangle
}

func (b bandImage) Bounds() image.Rectangle { return b.bounds }

// Run implements Filter.
func (a Affine) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	w, h := a.Width, a.Height
	if w <= 0 || h <= 0 {
		w, h = r.Width, r.Height
	}
	src := region(img, r)
	sr := src.Bounds()
	interp := a.Resampler.interpolator()

	out := imgkit.New(w, h)
	out.AspectRatio = img.AspectRatio
	e.Bands(0, h, func(start, end int) {
		dst := bandImage{Image: out, bounds: image.Rect(0, start, w, end)}
		interp.Transform(dst, a.Matrix, src, sr, draw.Src, nil)
	})
	return out
}

// region copies r out of img as an origin-based 16-bit image. The copy also
// serves as the read-only snapshot for every band.
func region(img *imgkit.Image, r imgkit.Rectangle) *image.NRGBA64 {
	out := image.NewNRGBA64(image.Rect(0, 0, r.Width, r.Height))
	for y := range r.Height {
		row := img.Row(r.RowStart() + y)[r.Left():r.Right()]
		for x, c := range row {
			out.SetNRGBA64(x, y, c.NRGBA64())
		}
	}
	return out
}
