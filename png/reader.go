package png

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/imgkit"
	icolor "github.com/gogpu/imgkit/internal/color"
)

// ScanlineReader expands one defiltered scanline into pixels.
//
// ReadScanline reads row (exactly Header.RowBytes() bytes, without the
// filter-type byte) and writes Header.Width pixels into row y of dst.
// Implementations hold no mutable state, so rows may be expanded
// concurrently once defiltering is complete.
type ScanlineReader interface {
	ReadScanline(row []byte, dst *imgkit.Image, y int) error
}

// NewScanlineReader returns the reader for h's color type and bit depth.
//
// For Paletted images plte is required. trns is optional; for greyscale and
// truecolor images it is a color key whose matching pixels become fully
// transparent, for paletted images it extends the palette with alpha.
func NewScanlineReader(h Header, plte, trns *Palette) (ScanlineReader, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	depth := int(h.BitDepth)
	width := int(h.Width)

	switch h.ColorType {
	case Greyscale:
		r := &greyscaleReader{depth: depth, width: width}
		if trns != nil {
			if len(trns.Data) != 2 {
				return nil, FormatError(fmt.Sprintf("bad tRNS length %d for greyscale", len(trns.Data)))
			}
			r.hasKey = true
			r.key = binary.BigEndian.Uint16(trns.Data)
		}
		return r, nil

	case GreyscaleAlpha:
		return &greyscaleAlphaReader{depth: depth, width: width}, nil

	case TrueColor:
		r := &trueColorReader{depth: depth, width: width}
		if trns != nil {
			if len(trns.Data) != 6 {
				return nil, FormatError(fmt.Sprintf("bad tRNS length %d for truecolor", len(trns.Data)))
			}
			r.hasKey = true
			for i := range r.key {
				r.key[i] = binary.BigEndian.Uint16(trns.Data[2*i:])
			}
		}
		return r, nil

	case TrueColorAlpha:
		return &trueColorAlphaReader{depth: depth, width: width}, nil

	case Paletted:
		if plte == nil {
			return nil, FormatError("missing PLTE chunk for paletted image")
		}
		if trns != nil && len(trns.Data) > plte.Len() {
			return nil, FormatError("tRNS has more entries than PLTE")
		}
		return &paletteReader{depth: depth, width: width, colors: plte.Colors(trns)}, nil
	}
	return nil, FormatError(fmt.Sprintf("invalid color type %d", uint8(h.ColorType)))
}

// sample returns sample i of a scanline packed at the given depth.
// Sub-byte samples are packed most significant bit first.
func sample(row []byte, i, depth int) uint16 {
	switch depth {
	case 8:
		return uint16(row[i])
	case 16:
		return binary.BigEndian.Uint16(row[2*i:])
	default:
		bit := i * depth
		shift := 8 - depth - bit%8
		mask := byte(1<<depth - 1)
		return uint16(row[bit/8] >> shift & mask)
	}
}

// checkRow validates that row and dst can hold a full scanline.
func checkRow(row []byte, width, bitsPerPixel int, dst *imgkit.Image, y int) error {
	if need := (width*bitsPerPixel + 7) / 8; len(row) < need {
		return FormatError(fmt.Sprintf("short scanline: %d bytes, want %d", len(row), need))
	}
	if dst.Width != width || dst.Row(y) == nil {
		return fmt.Errorf("png: destination row %d does not fit a %d-pixel scanline", y, width)
	}
	return nil
}

type greyscaleReader struct {
	depth, width int
	hasKey       bool
	key          uint16
}

func (r *greyscaleReader) ReadScanline(row []byte, dst *imgkit.Image, y int) error {
	if err := checkRow(row, r.width, r.depth, dst, y); err != nil {
		return err
	}
	out := dst.Row(y)
	for x := range out {
		s := sample(row, x, r.depth)
		v := icolor.Scale(s, r.depth)
		a := float32(1)
		if r.hasKey && s == r.key {
			a = 0
		}
		out[x] = imgkit.Color{R: v, G: v, B: v, A: a}
	}
	return nil
}

type greyscaleAlphaReader struct {
	depth, width int
}

func (r *greyscaleAlphaReader) ReadScanline(row []byte, dst *imgkit.Image, y int) error {
	if err := checkRow(row, r.width, 2*r.depth, dst, y); err != nil {
		return err
	}
	out := dst.Row(y)
	for x := range out {
		v := icolor.Scale(sample(row, 2*x, r.depth), r.depth)
		a := icolor.Scale(sample(row, 2*x+1, r.depth), r.depth)
		out[x] = imgkit.Color{R: v, G: v, B: v, A: a}
	}
	return nil
}

type trueColorReader struct {
	depth, width int
	hasKey       bool
	key          [3]uint16
}

func (r *trueColorReader) ReadScanline(row []byte, dst *imgkit.Image, y int) error {
	if err := checkRow(row, r.width, 3*r.depth, dst, y); err != nil {
		return err
	}
	out := dst.Row(y)
	for x := range out {
		sr := sample(row, 3*x, r.depth)
		sg := sample(row, 3*x+1, r.depth)
		sb := sample(row, 3*x+2, r.depth)
		a := float32(1)
		if r.hasKey && sr == r.key[0] && sg == r.key[1] && sb == r.key[2] {
			a = 0
		}
		out[x] = imgkit.Color{
			R: icolor.Scale(sr, r.depth),
			G: icolor.Scale(sg, r.depth),
			B: icolor.Scale(sb, r.depth),
			A: a,
		}
	}
	return nil
}

type trueColorAlphaReader struct {
	depth, width int
}

func (r *trueColorAlphaReader) ReadScanline(row []byte, dst *imgkit.Image, y int) error {
	if err := checkRow(row, r.width, 4*r.depth, dst, y); err != nil {
		return err
	}
	out := dst.Row(y)
	for x := range out {
		out[x] = imgkit.Color{
			R: icolor.Scale(sample(row, 4*x, r.depth), r.depth),
			G: icolor.Scale(sample(row, 4*x+1, r.depth), r.depth),
			B: icolor.Scale(sample(row, 4*x+2, r.depth), r.depth),
			A: icolor.Scale(sample(row, 4*x+3, r.depth), r.depth),
		}
	}
	return nil
}

type paletteReader struct {
	depth, width int
	colors       []imgkit.Color
}

func (r *paletteReader) ReadScanline(row []byte, dst *imgkit.Image, y int) error {
	if err := checkRow(row, r.width, r.depth, dst, y); err != nil {
		return err
	}
	out := dst.Row(y)
	for x := range out {
		idx := int(sample(row, x, r.depth))
		if idx >= len(r.colors) {
			return FormatError(fmt.Sprintf("palette index %d out of range", idx))
		}
		out[x] = r.colors[idx]
	}
	return nil
}

// ReadIndices unpacks the raw palette indices of a scanline into dst,
// which must hold the image width.
func (r *paletteReader) ReadIndices(row []byte, dst []uint8) error {
	if need := (r.width*r.depth + 7) / 8; len(row) < need || len(dst) < r.width {
		return FormatError("short scanline")
	}
	for x := range dst[:r.width] {
		dst[x] = uint8(sample(row, x, r.depth))
	}
	return nil
}
