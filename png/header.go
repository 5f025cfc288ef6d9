package png

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
)

// ColorType describes which channels a scanline's samples represent.
type ColorType uint8

// Color types, as per the PNG specification.
const (
	Greyscale      ColorType = 0
	TrueColor      ColorType = 2
	Paletted       ColorType = 3
	GreyscaleAlpha ColorType = 4
	TrueColorAlpha ColorType = 6
)

// ColorTypeInfo contains metadata about a color type.
type ColorTypeInfo struct {
	// Channels is the number of samples per pixel.
	Channels int

	// HasAlpha indicates if the samples include an alpha channel.
	HasAlpha bool

	// IsGreyscale indicates a single luminance sample (plus optional alpha).
	IsGreyscale bool

	// IsIndexed indicates samples are palette indices.
	IsIndexed bool

	// BitDepths lists the bit depths allowed for this color type.
	BitDepths []uint8
}

// colorTypeInfoTable contains metadata for each color type.
var colorTypeInfoTable = map[ColorType]ColorTypeInfo{
	Greyscale: {
		Channels:    1,
		IsGreyscale: true,
		BitDepths:   []uint8{1, 2, 4, 8, 16},
	},
	TrueColor: {
		Channels:  3,
		BitDepths: []uint8{8, 16},
	},
	Paletted: {
		Channels:  1,
		IsIndexed: true,
		BitDepths: []uint8{1, 2, 4, 8},
	},
	GreyscaleAlpha: {
		Channels:    2,
		HasAlpha:    true,
		IsGreyscale: true,
		BitDepths:   []uint8{8, 16},
	},
	TrueColorAlpha: {
		Channels:  4,
		HasAlpha:  true,
		BitDepths: []uint8{8, 16},
	},
}

// Info returns the ColorTypeInfo for this color type.
// Unknown color types return the zero value.
func (c ColorType) Info() ColorTypeInfo {
	return colorTypeInfoTable[c]
}

// IsValid returns true if the color type is defined by the format.
func (c ColorType) IsValid() bool {
	_, ok := colorTypeInfoTable[c]
	return ok
}

// SupportsDepth reports whether depth is allowed for this color type.
func (c ColorType) SupportsDepth(depth uint8) bool {
	return slices.Contains(c.Info().BitDepths, depth)
}

// String returns a string representation of the color type.
func (c ColorType) String() string {
	switch c {
	case Greyscale:
		return "Greyscale"
	case TrueColor:
		return "TrueColor"
	case Paletted:
		return "Paletted"
	case GreyscaleAlpha:
		return "GreyscaleAlpha"
	case TrueColorAlpha:
		return "TrueColorAlpha"
	default:
		return fmt.Sprintf("ColorType(%d)", uint8(c))
	}
}

// headerLength is the payload size of an IHDR chunk.
const headerLength = 13

// Header is the decoded IHDR chunk.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// ChunkType implements Record.
func (Header) ChunkType() ChunkType { return TypeIHDR }

// Validate checks the header against the format's constraints.
func (h Header) Validate() error {
	if h.Width == 0 || h.Height == 0 || h.Width > maxChunkLength || h.Height > maxChunkLength {
		return FormatError(fmt.Sprintf("invalid dimensions %dx%d", h.Width, h.Height))
	}
	if !h.ColorType.IsValid() {
		return FormatError(fmt.Sprintf("invalid color type %d", uint8(h.ColorType)))
	}
	if !h.ColorType.SupportsDepth(h.BitDepth) {
		return UnsupportedError(fmt.Sprintf("bit depth %d with color type %s", h.BitDepth, h.ColorType))
	}
	if h.CompressionMethod != 0 {
		return UnsupportedError(fmt.Sprintf("compression method %d", h.CompressionMethod))
	}
	if h.FilterMethod != 0 {
		return UnsupportedError(fmt.Sprintf("filter method %d", h.FilterMethod))
	}
	if h.InterlaceMethod > 1 {
		return FormatError(fmt.Sprintf("invalid interlace method %d", h.InterlaceMethod))
	}
	return nil
}

// BitsPerPixel returns the number of bits one pixel occupies in a scanline.
func (h Header) BitsPerPixel() int {
	return h.ColorType.Info().Channels * int(h.BitDepth)
}

// BytesPerPixel returns the filter step: the distance in bytes between a
// byte and the corresponding byte of the pixel to its left, at least 1.
func (h Header) BytesPerPixel() int {
	return max(1, (h.BitsPerPixel()+7)/8)
}

// RowBytes returns the size of one scanline without its filter-type byte.
// Rows are padded to a byte boundary, never to a word boundary.
func (h Header) RowBytes() int {
	return (h.BitsPerPixel()*int(h.Width) + 7) / 8
}

// Bytes returns the 13-byte IHDR payload.
func (h Header) Bytes() []byte {
	b := make([]byte, headerLength)
	binary.BigEndian.PutUint32(b[0:4], h.Width)
	binary.BigEndian.PutUint32(b[4:8], h.Height)
	b[8] = h.BitDepth
	b[9] = uint8(h.ColorType)
	b[10] = h.CompressionMethod
	b[11] = h.FilterMethod
	b[12] = h.InterlaceMethod
	return b
}

// ParseHeader decodes and validates an IHDR payload.
func ParseHeader(data []byte) (Header, error) {
	if len(data) != headerLength {
		return Header{}, FormatError(fmt.Sprintf("bad IHDR length %d", len(data)))
	}
	h := Header{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         ColorType(data[9]),
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   data[12],
	}
	return h, h.Validate()
}

// WriteTo writes the header as a complete IHDR chunk.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	return NewChunk(TypeIHDR, h.Bytes()).WriteTo(w)
}

// ReadHeader reads one chunk from r and decodes it as an IHDR chunk.
func ReadHeader(r io.Reader) (Header, error) {
	c, err := ReadChunk(r)
	if err != nil {
		return Header{}, err
	}
	if c.Type != TypeIHDR {
		return Header{}, ErrMissingHeader
	}
	if err := c.Verify(); err != nil {
		return Header{}, err
	}
	return ParseHeader(c.Data)
}
