package png

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/imgkit"
)

// Record is a chunk converted to a strongly-typed value.
// It is implemented by Header, *Palette, *Data, *Property, *Physical and End.
type Record interface {
	ChunkType() ChunkType
}

// PaletteKind distinguishes the color palette from its alpha extension.
type PaletteKind uint8

const (
	// PaletteColor holds 3-byte RGB entries (PLTE).
	PaletteColor PaletteKind = iota
	// PaletteAlpha holds transparency data (tRNS): one alpha byte per
	// palette entry for indexed images, or a single color key otherwise.
	PaletteAlpha
)

// Palette is a PLTE or tRNS chunk.
type Palette struct {
	Kind PaletteKind
	Data []byte
}

// ChunkType implements Record.
func (p *Palette) ChunkType() ChunkType {
	if p.Kind == PaletteAlpha {
		return TypeTRNS
	}
	return TypePLTE
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	if p.Kind == PaletteAlpha {
		return len(p.Data)
	}
	return len(p.Data) / 3
}

// Colors resolves the palette into colors, applying the alpha extension
// when trns is non-nil. Entries without an alpha byte are opaque.
func (p *Palette) Colors(trns *Palette) []imgkit.Color {
	out := make([]imgkit.Color, p.Len())
	for i := range out {
		a := uint8(0xff)
		if trns != nil && i < len(trns.Data) {
			a = trns.Data[i]
		}
		out[i] = imgkit.RGBA8(p.Data[3*i], p.Data[3*i+1], p.Data[3*i+2], a)
	}
	return out
}

// Data is an IDAT chunk or an ancillary chunk retained opaquely.
type Data struct {
	Type  ChunkType
	Bytes []byte
}

// ChunkType implements Record.
func (d *Data) ChunkType() ChunkType { return d.Type }

// Physical is the pHYs chunk: intended pixel size or aspect ratio.
type Physical struct {
	PixelsPerUnitX uint32
	PixelsPerUnitY uint32
	// Unit is 0 when only the aspect ratio is meaningful, 1 for meters.
	Unit uint8
}

// physicalLength is the payload size of a pHYs chunk.
const physicalLength = 9

// aspectBase is the fixed horizontal density written by the encoder.
const aspectBase = 100000

// ChunkType implements Record.
func (*Physical) ChunkType() ChunkType { return TypePHYS }

// AspectRatio returns the pixel aspect ratio (pixel width / pixel height),
// or 1 when the chunk does not describe one.
func (p *Physical) AspectRatio() float64 {
	if p.PixelsPerUnitX == 0 || p.PixelsPerUnitY == 0 {
		return 1
	}
	return float64(p.PixelsPerUnitY) / float64(p.PixelsPerUnitX)
}

// PhysicalForAspect returns a unitless pHYs record describing ratio.
// The horizontal density is aspectBase unless the vertical one would leave
// [1, 2^31-1]; then the vertical density is pinned to that bound and the
// horizontal one is scaled instead. Non-positive ratios describe square pixels.
func PhysicalForAspect(ratio float64) *Physical {
	const maxDensity = math.MaxInt32
	density := func(v float64) uint32 {
		return uint32(min(max(math.Round(v), 1), maxDensity))
	}
	switch y := ratio * aspectBase; {
	case !(ratio > 0) || math.IsInf(ratio, 1):
		return &Physical{PixelsPerUnitX: aspectBase, PixelsPerUnitY: aspectBase}
	case y > maxDensity:
		return &Physical{PixelsPerUnitX: density(maxDensity / ratio), PixelsPerUnitY: maxDensity}
	case y < 1:
		return &Physical{PixelsPerUnitX: density(1 / ratio), PixelsPerUnitY: 1}
	default:
		return &Physical{PixelsPerUnitX: aspectBase, PixelsPerUnitY: density(y)}
	}
}

// Bytes returns the 9-byte pHYs payload.
func (p *Physical) Bytes() []byte {
	b := make([]byte, physicalLength)
	binary.BigEndian.PutUint32(b[0:4], p.PixelsPerUnitX)
	binary.BigEndian.PutUint32(b[4:8], p.PixelsPerUnitY)
	b[8] = p.Unit
	return b
}

// End is the IEND chunk.
type End struct{}

// ChunkType implements Record.
func (End) ChunkType() ChunkType { return TypeIEND }

// ParseChunk converts a chunk into its typed record, keyed by chunk type.
// Unknown ancillary chunks come back as *Data; unknown critical chunks are
// an UnsupportedError since the image cannot be decoded without them.
func ParseChunk(c Chunk) (Record, error) {
	switch c.Type {
	case TypeIHDR:
		h, err := ParseHeader(c.Data)
		if err != nil {
			return nil, err
		}
		return h, nil
	case TypePLTE:
		if len(c.Data)%3 != 0 || len(c.Data) == 0 || len(c.Data) > 3*256 {
			return nil, FormatError(fmt.Sprintf("bad PLTE length %d", len(c.Data)))
		}
		return &Palette{Kind: PaletteColor, Data: c.Data}, nil
	case TypeTRNS:
		if len(c.Data) > 256 {
			return nil, FormatError(fmt.Sprintf("bad tRNS length %d", len(c.Data)))
		}
		return &Palette{Kind: PaletteAlpha, Data: c.Data}, nil
	case TypeIDAT:
		return &Data{Type: c.Type, Bytes: c.Data}, nil
	case TypeIEND:
		if len(c.Data) != 0 {
			return nil, FormatError("IEND chunk has a payload")
		}
		return End{}, nil
	case TypePHYS:
		if len(c.Data) != physicalLength {
			return nil, FormatError(fmt.Sprintf("bad pHYs length %d", len(c.Data)))
		}
		return &Physical{
			PixelsPerUnitX: binary.BigEndian.Uint32(c.Data[0:4]),
			PixelsPerUnitY: binary.BigEndian.Uint32(c.Data[4:8]),
			Unit:           c.Data[8],
		}, nil
	case TypeTEXT, TypeZTXT, TypeITXT:
		return parseProperty(c)
	}

	if c.Type.IsCritical() {
		return nil, UnsupportedError(fmt.Sprintf("unknown critical chunk %s", c.Type))
	}
	return &Data{Type: c.Type, Bytes: c.Data}, nil
}
