package filter

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/imgkit"
)

// Resampler selects the interpolation kernel used by Resize and Affine.
type Resampler uint8

// Resampling kernels.
const (
	NearestNeighbor Resampler = iota
	Box
	Bilinear
	Hermite
	CatmullRom
	MitchellNetravali
	Lanczos3
	resamplerCount
)

var resamplerNames = [resamplerCount]string{
	"nearest", "box", "bilinear", "hermite", "catmullrom", "mitchell", "lanczos3",
}

func (r Resampler) String() string {
	if r < resamplerCount {
		return resamplerNames[r]
	}
	return fmt.Sprintf("Resampler(%d)", uint8(r))
}

// ParseResampler maps a name printed by String back to its Resampler.
func ParseResampler(name string) (Resampler, error) {
	for i, n := range resamplerNames {
		if n == name {
			return Resampler(i), nil
		}
	}
	return 0, fmt.Errorf("filter: unknown resampler %q", name)
}

var (
	boxKernel = &draw.Kernel{Support: 0.5, At: func(t float64) float64 {
		if t >= -0.5 && t < 0.5 {
			return 1
		}
		return 0
	}}

	hermiteKernel = &draw.Kernel{Support: 1, At: func(t float64) float64 {
		t = math.Abs(t)
		if t < 1 {
			return (2*t-3)*t*t + 1
		}
		return 0
	}}

	// Mitchell-Netravali with B = C = 1/3.
	mitchellKernel = &draw.Kernel{Support: 2, At: func(t float64) float64 {
		const b, c = 1.0 / 3, 1.0 / 3
		t = math.Abs(t)
		switch {
		case t < 1:
			return ((12-9*b-6*c)*t*t*t + (-18+12*b+6*c)*t*t + (6 - 2*b)) / 6
		case t < 2:
			return ((-b-6*c)*t*t*t + (6*b+30*c)*t*t + (-12*b-48*c)*t + (8*b + 24*c)) / 6
		}
		return 0
	}}

	lanczos3Kernel = &draw.Kernel{Support: 3, At: func(t float64) float64 {
		t = math.Abs(t)
		if t < 3 {
			return sinc(t) * sinc(t/3)
		}
		return 0
	}}
)

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// Kernel returns the interpolation kernel, or nil for NearestNeighbor and
// unknown values.
func (r Resampler) Kernel() *draw.Kernel {
	switch r {
	case Box:
		return boxKernel
	case Bilinear:
		return draw.BiLinear
	case Hermite:
		return hermiteKernel
	case CatmullRom:
		return draw.CatmullRom
	case MitchellNetravali:
		return mitchellKernel
	case Lanczos3:
		return lanczos3Kernel
	}
	return nil
}

// interpolator returns the x/image/draw transformer for r.
func (r Resampler) interpolator() draw.Interpolator {
	if k := r.Kernel(); k != nil {
		return k
	}
	return draw.NearestNeighbor
}

// taps are the source samples feeding one destination sample: source
// indices start, start+1, ... with the given weights, which sum to 1.
type taps struct {
	start   int
	weights []float32
}

// weightTable precomputes taps for resampling srcLen samples to dstLen.
// Samples past either end fold onto the edge sample. When shrinking, the
// kernel is stretched by the scale factor so every source sample counts.
func weightTable(k *draw.Kernel, srcLen, dstLen int) []taps {
	table := make([]taps, dstLen)
	scale := float64(srcLen) / float64(dstLen)
	stretch := max(scale, 1)
	support := k.Support * stretch

	for i := range table {
		center := (float64(i)+0.5)*scale - 0.5
		lo := int(math.Ceil(center - support))
		hi := int(math.Floor(center + support))
		first := clampInt(lo, 0, srcLen-1)
		last := clampInt(hi, 0, srcLen-1)

		w := make([]float64, last-first+1)
		var sum float64
		for j := lo; j <= hi; j++ {
			v := kernelAt(k, (float64(j)-center)/stretch)
			w[clampInt(j, 0, srcLen-1)-first] += v
			sum += v
		}

		t := taps{start: first, weights: make([]float32, len(w))}
		if sum == 0 {
			// Degenerate kernel window: take the nearest sample.
			n := clampInt(int(math.Round(center)), first, last)
			t.weights[n-first] = 1
		} else {
			for n, v := range w {
				t.weights[n] = float32(v / sum)
			}
		}
		table[i] = t
	}
	return table
}

// kernelAt evaluates k at signed distance t. draw.Kernel.At is only
// defined on [0, Support).
func kernelAt(k *draw.Kernel, t float64) float64 {
	d := math.Abs(t)
	if d >= k.Support {
		return 0
	}
	return k.At(d)
}

// nearestTable maps each destination index to its nearest source index.
func nearestTable(srcLen, dstLen int) []int {
	table := make([]int, dstLen)
	scale := float64(srcLen) / float64(dstLen)
	for i := range table {
		table[i] = min(int((float64(i)+0.5)*scale), srcLen-1)
	}
	return table
}

// Resize scales the selected rectangle to Width x Height, producing a new
// image. Kernels run in two separable passes over premultiplied colors so
// transparent pixels do not bleed into their neighbors. Non-positive sizes
// leave the image unchanged.
type Resize struct {
	Width, Height int
	Resampler     Resampler
}

// Run implements Filter.
func (z Resize) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	if z.Width <= 0 || z.Height <= 0 {
		return img
	}
	var out *imgkit.Image
	if k := z.Resampler.Kernel(); k != nil {
		out = z.resample(e, img, r, k)
	} else {
		out = z.nearest(e, img, r)
	}
	out.AspectRatio = img.AspectRatio
	return out
}

func (z Resize) nearest(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	xs := nearestTable(r.Width, z.Width)
	ys := nearestTable(r.Height, z.Height)
	left, top := r.Left(), r.RowStart()
	return e.Recreate(z.Width, z.Height, func(dst []imgkit.Color, y int) {
		src := img.Row(top + ys[y])
		for x, sx := range xs {
			dst[x] = src[left+sx]
		}
	})
}

func (z Resize) resample(e *Engine, img *imgkit.Image, r imgkit.Rectangle, k *draw.Kernel) *imgkit.Image {
	xt := weightTable(k, r.Width, z.Width)
	yt := weightTable(k, r.Height, z.Height)
	left, top := r.Left(), r.RowStart()

	// Horizontal pass: r.Height rows of z.Width premultiplied pixels.
	temp := getColorBuffer(r.Height * z.Width)
	defer putColorBuffer(temp)
	e.Each(0, r.Height, func(y int) {
		src := img.Row(top + y)
		dst := temp[y*z.Width : (y+1)*z.Width]
		for x, t := range xt {
			var acc imgkit.Color
			for n, w := range t.weights {
				p := src[left+t.start+n]
				wa := w * p.A
				acc.R += wa * p.R
				acc.G += wa * p.G
				acc.B += wa * p.B
				acc.A += wa
			}
			dst[x] = acc
		}
	})

	// Vertical pass, then back to straight alpha.
	return e.Recreate(z.Width, z.Height, func(dst []imgkit.Color, y int) {
		t := yt[y]
		for x := range dst {
			var acc imgkit.Color
			for n, w := range t.weights {
				p := temp[(t.start+n)*z.Width+x]
				acc.R += w * p.R
				acc.G += w * p.G
				acc.B += w * p.B
				acc.A += w * p.A
			}
			dst[x] = unpremultiply(acc)
		}
	})
}

// unpremultiply divides color by alpha. Zero or negative alpha, which
// ringing kernels can produce, yields a transparent pixel.
func unpremultiply(c imgkit.Color) imgkit.Color {
	if c.A <= 0 {
		return imgkit.Transparent
	}
	inv := 1 / c.A
	return imgkit.Color{R: c.R * inv, G: c.G * inv, B: c.B * inv, A: c.A}
}
