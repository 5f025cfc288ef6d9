package png

import (
	"fmt"
	"runtime"

	"github.com/klauspost/compress/zlib"
)

// ChecksumPolicy decides what the decoder does with a chunk whose CRC does
// not match its contents.
type ChecksumPolicy uint8

const (
	// ChecksumCritical fails on corrupt critical chunks and drops corrupt
	// ancillary chunks with a warning.
	ChecksumCritical ChecksumPolicy = iota

	// ChecksumStrict fails on any corrupt chunk.
	ChecksumStrict

	// ChecksumIgnore skips CRC verification entirely.
	ChecksumIgnore
)

// String returns a string representation of the policy.
func (p ChecksumPolicy) String() string {
	switch p {
	case ChecksumCritical:
		return "Critical"
	case ChecksumStrict:
		return "Strict"
	case ChecksumIgnore:
		return "Ignore"
	default:
		return fmt.Sprintf("ChecksumPolicy(%d)", uint8(p))
	}
}

// DecoderOption configures a Decoder.
//
// Example:
//
//	dec := png.NewDecoder(png.WithChecksumPolicy(png.ChecksumStrict))
type DecoderOption func(*decoderOptions)

type decoderOptions struct {
	checksum     ChecksumPolicy
	workers      int
	maxChunkSize uint32
}

func defaultDecoderOptions() decoderOptions {
	return decoderOptions{
		checksum:     ChecksumCritical,
		workers:      runtime.GOMAXPROCS(0),
		maxChunkSize: maxChunkLength,
	}
}

// WithChecksumPolicy sets how CRC mismatches are handled.
func WithChecksumPolicy(p ChecksumPolicy) DecoderOption {
	return func(o *decoderOptions) {
		o.checksum = p
	}
}

// WithDecodeWorkers bounds the goroutines used to expand scanlines into
// pixels. Values <= 0 mean GOMAXPROCS.
func WithDecodeWorkers(n int) DecoderOption {
	return func(o *decoderOptions) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithMaxChunkSize rejects chunks with a declared payload larger than n
// bytes. Values of 0 restore the format's own limit.
func WithMaxChunkSize(n uint32) DecoderOption {
	return func(o *decoderOptions) {
		if n == 0 || n > maxChunkLength {
			n = maxChunkLength
		}
		o.maxChunkSize = n
	}
}

// CompressionLevel selects the deflate effort used for IDAT data.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = iota
	NoCompression
	BestSpeed
	BestCompression
)

// zlibLevel maps the level onto github.com/klauspost/compress/zlib.
func (l CompressionLevel) zlibLevel() int {
	switch l {
	case NoCompression:
		return zlib.NoCompression
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}

// defaultMaxIDATSize is the payload size at which IDAT data is split.
const defaultMaxIDATSize = 1 << 16

// EncoderOption configures an Encoder.
//
// Example:
//
//	enc := png.NewEncoder(
//		png.WithColorType(png.Greyscale),
//		png.WithBitDepth(4),
//		png.WithFilter(png.FilterSub),
//	)
type EncoderOption func(*encoderOptions)

type encoderOptions struct {
	colorType   ColorType
	bitDepth    uint8 // 0 picks the natural depth for colorType
	filter      FilterType
	level       CompressionLevel
	maxIDATSize int
	text        []Property
}

func defaultEncoderOptions() encoderOptions {
	return encoderOptions{
		colorType:   TrueColorAlpha,
		filter:      FilterPaeth,
		level:       DefaultCompression,
		maxIDATSize: defaultMaxIDATSize,
	}
}

// WithColorType sets the color type written to IHDR. Paletted quantizes the
// image first.
func WithColorType(c ColorType) EncoderOption {
	return func(o *encoderOptions) {
		o.colorType = c
	}
}

// WithBitDepth sets the sample depth. For Paletted images 0 selects the
// smallest depth able to index the palette; otherwise 0 means 8.
func WithBitDepth(depth uint8) EncoderOption {
	return func(o *encoderOptions) {
		o.bitDepth = depth
	}
}

// WithFilter sets the scanline filter applied to every row.
func WithFilter(f FilterType) EncoderOption {
	return func(o *encoderOptions) {
		o.filter = f
	}
}

// WithCompressionLevel sets the deflate effort.
func WithCompressionLevel(l CompressionLevel) EncoderOption {
	return func(o *encoderOptions) {
		o.level = l
	}
}

// WithMaxIDATSize sets the largest IDAT payload; compressed data is split
// across as many chunks as needed. Values <= 0 restore the default.
func WithMaxIDATSize(n int) EncoderOption {
	return func(o *encoderOptions) {
		if n <= 0 {
			n = defaultMaxIDATSize
		}
		o.maxIDATSize = n
	}
}

// WithText adds a text property written before the image data.
func WithText(key, value string) EncoderOption {
	return func(o *encoderOptions) {
		o.text = append(o.text, Property{Type: TypeTEXT, Key: key, Value: value})
	}
}
