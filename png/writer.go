package png

import (
	"encoding/binary"

	"github.com/gogpu/imgkit"
	icolor "github.com/gogpu/imgkit/internal/color"
)

// sampleWriter packs samples into a scanline at a fixed bit depth.
// Sub-byte samples are packed most significant bit first; dst must be
// zeroed before packing.
type sampleWriter struct {
	depth  int
	maxVal uint32
}

func newSampleWriter(depth int) sampleWriter {
	return sampleWriter{depth: depth, maxVal: icolor.MaxSample(depth)}
}

// put stores raw sample v at position i.
func (w sampleWriter) put(dst []byte, i int, v uint32) {
	switch w.depth {
	case 8:
		dst[i] = uint8(v)
	case 16:
		binary.BigEndian.PutUint16(dst[2*i:], uint16(v))
	default:
		bit := i * w.depth
		shift := 8 - w.depth - bit%8
		dst[bit/8] |= uint8(v) << shift
	}
}

// putNorm quantizes normalized value f and stores it at position i.
func (w sampleWriter) putNorm(dst []byte, i int, f float32) {
	w.put(dst, i, icolor.Quantize(f, w.maxVal))
}

// grey returns the grey level of c: its red channel when the color is
// already neutral, its luma otherwise.
func grey(c imgkit.Color) float32 {
	if c.R == c.G && c.G == c.B {
		return c.R
	}
	return c.Luma()
}

// packRow writes one scanline of src in h's (non-indexed) color format.
func packRow(dst []byte, src []imgkit.Color, h Header) {
	clear(dst)
	w := newSampleWriter(int(h.BitDepth))
	switch h.ColorType {
	case Greyscale:
		for x, c := range src {
			w.putNorm(dst, x, grey(c))
		}
	case GreyscaleAlpha:
		for x, c := range src {
			w.putNorm(dst, 2*x, grey(c))
			w.putNorm(dst, 2*x+1, c.A)
		}
	case TrueColor:
		for x, c := range src {
			w.putNorm(dst, 3*x, c.R)
			w.putNorm(dst, 3*x+1, c.G)
			w.putNorm(dst, 3*x+2, c.B)
		}
	case TrueColorAlpha:
		for x, c := range src {
			w.putNorm(dst, 4*x, c.R)
			w.putNorm(dst, 4*x+1, c.G)
			w.putNorm(dst, 4*x+2, c.B)
			w.putNorm(dst, 4*x+3, c.A)
		}
	}
}

// packIndices writes one scanline of palette indices at h's bit depth.
func packIndices(dst []byte, src []uint8, h Header) {
	clear(dst)
	w := newSampleWriter(int(h.BitDepth))
	for x, idx := range src {
		w.put(dst, x, uint32(idx))
	}
}

// paletteDepth returns the smallest bit depth that can index n entries.
func paletteDepth(n int) uint8 {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	default:
		return 8
	}
}

// paletteChunks returns the PLTE payload and, when any entry is not fully
// opaque, the tRNS payload trimmed after the last translucent entry.
func paletteChunks(pal []imgkit.Color) (plte, trns []byte) {
	plte = make([]byte, 0, 3*len(pal))
	alpha := make([]byte, len(pal))
	last := -1
	for i, c := range pal {
		n := c.NRGBA()
		plte = append(plte, n.R, n.G, n.B)
		alpha[i] = n.A
		if n.A != 0xff {
			last = i
		}
	}
	if last >= 0 {
		trns = alpha[:last+1]
	}
	return plte, trns
}
