package filter

import (
	"github.com/gogpu/imgkit"
)

// Convolution applies a Width x Height kernel around every pixel.
//
// Output pixel (x, y) is the weighted sum of the source pixels
// (x+i-Width/2, y+j-Height/2) with weight Weights[j*Width+i], plus Bias on
// the color channels. Reads past the image edge are clamped to the nearest
// edge pixel. Reads use a snapshot, so the kernel never sees its own output.
//
// A kernel with even or non-positive dimensions, or the wrong number of
// weights, leaves the image unchanged.
type Convolution struct {
	Width, Height int
	Weights       []float32

	// Bias is added to R, G and B after weighting.
	Bias float32

	// PreserveAlpha keeps the source alpha instead of convolving it.
	PreserveAlpha bool
}

// NewConvolution returns a kernel over a copy of weights.
func NewConvolution(width, height int, weights []float32) *Convolution {
	return &Convolution{
		Width:   width,
		Height:  height,
		Weights: append([]float32(nil), weights...),
	}
}

// Separable returns the outer product of the horizontal kernel kx and the
// vertical kernel ky.
func Separable(kx, ky []float32) *Convolution {
	w := make([]float32, len(kx)*len(ky))
	for j, vy := range ky {
		for i, vx := range kx {
			w[j*len(kx)+i] = vx * vy
		}
	}
	return &Convolution{Width: len(kx), Height: len(ky), Weights: w}
}

// GaussianBlur is a 2D Gaussian kernel with standard deviation radius.
func GaussianBlur(radius float64) *Convolution {
	k := CachedGaussianKernel(radius)
	return Separable(k, k)
}

// BoxBlur averages the (2*radius+1)² neighborhood.
func BoxBlur(radius int) *Convolution {
	k := BoxKernel(radius)
	return Separable(k, k)
}

// Sharpen boosts each pixel against its four neighbors.
func Sharpen() *Convolution {
	return &Convolution{Width: 3, Height: 3, Weights: []float32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}}
}

// EdgeDetect is the 8-neighbor Laplacian. Alpha is kept.
func EdgeDetect() *Convolution {
	return &Convolution{Width: 3, Height: 3, PreserveAlpha: true, Weights: []float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}}
}

// Emboss lights the image from the top left. Alpha is kept.
func Emboss() *Convolution {
	return &Convolution{Width: 3, Height: 3, PreserveAlpha: true, Weights: []float32{
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	}}
}

// Valid reports whether the kernel has odd positive dimensions and
// Width*Height weights.
func (k *Convolution) Valid() bool {
	return k != nil &&
		k.Width > 0 && k.Height > 0 &&
		k.Width%2 == 1 && k.Height%2 == 1 &&
		len(k.Weights) == k.Width*k.Height
}

// Sum returns the sum of the weights.
func (k *Convolution) Sum() float32 {
	var s float32
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// Combine returns a single kernel equivalent to applying k and then next.
//
// The weights are the full 2D convolution of both kernels and the bias is
// next.Sum()*k.Bias + next.Bias. The result matches sequential application
// wherever neither pass reads past the image edge. It reports false when
// either kernel is invalid or they disagree on PreserveAlpha.
func (k *Convolution) Combine(next *Convolution) (*Convolution, bool) {
	if !k.Valid() || !next.Valid() || k.PreserveAlpha != next.PreserveAlpha {
		return nil, false
	}
	out := &Convolution{
		Width:         k.Width + next.Width - 1,
		Height:        k.Height + next.Height - 1,
		Bias:          next.Sum()*k.Bias + next.Bias,
		PreserveAlpha: k.PreserveAlpha,
	}
	out.Weights = make([]float32, out.Width*out.Height)
	for aj := range k.Height {
		for ai := range k.Width {
			a := k.Weights[aj*k.Width+ai]
			if a == 0 {
				continue
			}
			for bj := range next.Height {
				row := (aj+bj)*out.Width + ai
				for bi, b := range next.Weights[bj*next.Width : (bj+1)*next.Width] {
					out.Weights[row+bi] += a * b
				}
			}
		}
	}
	return out, true
}

// Run implements Filter. Pixels are replaced in place.
func (k *Convolution) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	if !k.Valid() {
		return img
	}
	cx, cy := k.Width/2, k.Height/2
	left := r.Left()

	e.Rows(img, r, func(src *imgkit.Image, dst []imgkit.Color, y int) {
		for i := range dst {
			x := left + i
			var acc imgkit.Color
			for j := range k.Height {
				sy := clampInt(y+j-cy, 0, src.Height-1)
				row := src.Pix[sy*src.Width : (sy+1)*src.Width]
				weights := k.Weights[j*k.Width : (j+1)*k.Width]
				for n, w := range weights {
					if w == 0 {
						continue
					}
					p := row[clampInt(x+n-cx, 0, src.Width-1)]
					acc.R += w * p.R
					acc.G += w * p.G
					acc.B += w * p.B
					acc.A += w * p.A
				}
			}
			acc.R += k.Bias
			acc.G += k.Bias
			acc.B += k.Bias
			if k.PreserveAlpha {
				acc.A = src.Pix[y*src.Width+x].A
			}
			dst[i] = acc
		}
	})
	return img
}

// Blur is a separable Gaussian blur with independent radii per axis.
// It gives the same result as GaussianBlur with two 1D passes instead of
// one 2D pass.
type Blur struct {
	RadiusX, RadiusY float64
}

// NewBlur returns a blur with the same radius on both axes.
func NewBlur(radius float64) Blur {
	return Blur{RadiusX: radius, RadiusY: radius}
}

// Run implements Filter. Pixels are replaced in place.
func (b Blur) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	if b.RadiusX <= 0 && b.RadiusY <= 0 {
		return img
	}
	kx := CachedGaussianKernel(b.RadiusX)
	ky := CachedGaussianKernel(b.RadiusY)
	hx, hy := len(kx)/2, len(ky)/2

	// The vertical pass reads hy rows beyond r, clamped to the image.
	top := max(r.RowStart()-hy, 0)
	bottom := min(r.RowEnd()+hy, img.Height)
	left, width := r.Left(), r.Width

	temp := getColorBuffer((bottom - top) * width)
	defer putColorBuffer(temp)

	e.Each(top, bottom, func(y int) {
		src := img.Row(y)
		dst := temp[(y-top)*width : (y-top+1)*width]
		for i := range dst {
			x := left + i
			var acc imgkit.Color
			for n, w := range kx {
				p := src[clampInt(x+n-hx, 0, img.Width-1)]
				acc.R += w * p.R
				acc.G += w * p.G
				acc.B += w * p.B
				acc.A += w * p.A
			}
			dst[i] = acc
		}
	})

	e.Each(r.RowStart(), r.RowEnd(), func(y int) {
		dst := img.Row(y)[left : left+width]
		for i := range dst {
			var acc imgkit.Color
			for n, w := range ky {
				sy := clampInt(y+n-hy, 0, img.Height-1) - top
				p := temp[sy*width+i]
				acc.R += w * p.R
				acc.G += w * p.G
				acc.B += w * p.B
				acc.A += w * p.A
			}
			dst[i] = acc
		}
	})
	return img
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
