package png

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/imgkit"
)

// maxPixels bounds Width*Height so a hostile header cannot request an
// allocation the address space cannot hold.
const maxPixels = 1 << 28

// Stream is everything the decoder found in a PNG stream.
type Stream struct {
	Header       Header
	Palette      *Palette // PLTE, nil unless present
	Transparency *Palette // tRNS, nil unless present
	Physical     *Physical
	Properties   []*Property
	Ancillary    []*Data // unknown ancillary chunks, in stream order

	// Chunks lists the type of every chunk read, in stream order,
	// including chunks that were dropped.
	Chunks []ChunkType

	Image *imgkit.Image

	// Quantized holds the raw palette indices of a Paletted image.
	Quantized *imgkit.QuantizedImage
}

// Property returns the value of the first text property with key.
func (s *Stream) Property(key string) (string, bool) {
	for _, p := range s.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// decodeStage tracks which critical chunks have been seen.
type decodeStage uint8

const (
	dsStart decodeStage = iota
	dsSeenIHDR
	dsSeenPLTE
	dsSeenIDAT
	dsSeenIEND
)

// Decoder reads PNG streams into images.
// A Decoder is safe for concurrent use.
type Decoder struct {
	opts decoderOptions
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	o := defaultDecoderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{opts: o}
}

// CanDecodeHeader reports whether header starts with the PNG signature.
func (d *Decoder) CanDecodeHeader(header []byte) bool {
	return len(header) >= len(Signature) && string(header[:len(Signature)]) == Signature
}

// CanDecodeFile reports whether name has a .png extension, ignoring case.
func (d *Decoder) CanDecodeFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}

// CanDecode peeks at the next bytes of r and reports whether they are the
// PNG signature. The read position is restored before returning.
func (d *Decoder) CanDecode(r io.ReadSeeker) bool {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	var buf [len(Signature)]byte
	n, _ := io.ReadFull(r, buf[:])
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return false
	}
	return d.CanDecodeHeader(buf[:n])
}

// Decode reads a complete PNG stream and returns its image.
func (d *Decoder) Decode(r io.Reader) (*imgkit.Image, error) {
	s, err := d.Read(r)
	if err != nil {
		return nil, err
	}
	return s.Image, nil
}

// Decode reads a PNG stream with default options.
func Decode(r io.Reader) (*imgkit.Image, error) {
	return NewDecoder().Decode(r)
}

// Read reads a complete PNG stream, up to and including IEND, and returns
// the decoded image together with every record found.
func (d *Decoder) Read(r io.Reader) (*Stream, error) {
	if err := readSignature(r); err != nil {
		return nil, err
	}

	s := &Stream{}
	var idat bytes.Buffer
	var last ChunkType
	idatCount := 0
	stage := dsStart

	for stage != dsSeenIEND {
		c, err := readChunk(r, d.opts.maxChunkSize)
		if err != nil {
			if err == io.EOF {
				if stage == dsStart {
					return nil, ErrMissingHeader
				}
				return nil, fmt.Errorf("%w: %w", ErrMissingEnd, io.ErrUnexpectedEOF)
			}
			return nil, err
		}
		s.Chunks = append(s.Chunks, c.Type)

		if stage == dsStart && c.Type != TypeIHDR {
			return nil, ErrMissingHeader
		}
		keep, err := d.verify(c)
		if err != nil {
			return nil, err
		}
		if !keep {
			last = c.Type
			continue
		}
		if c.Type == TypeIDAT && stage == dsSeenIDAT && last != TypeIDAT {
			return nil, fmt.Errorf("%w: IDAT chunks are not consecutive", ErrChunkOrder)
		}

		switch c.Type {
		case TypeIHDR:
			if stage != dsStart {
				return nil, fmt.Errorf("%w: duplicate IHDR", ErrChunkOrder)
			}
			h, err := ParseHeader(c.Data)
			if err != nil {
				return nil, err
			}
			if h.InterlaceMethod != 0 {
				return nil, UnsupportedError("Adam7 interlace")
			}
			if uint64(h.Width)*uint64(h.Height) > maxPixels {
				return nil, UnsupportedError(fmt.Sprintf("image too large: %dx%d", h.Width, h.Height))
			}
			s.Header = h
			stage = dsSeenIHDR

		case TypePLTE:
			if stage != dsSeenIHDR {
				return nil, fmt.Errorf("%w: PLTE after %s", ErrChunkOrder, last)
			}
			if s.Header.ColorType.Info().IsGreyscale {
				return nil, FormatError("PLTE chunk in greyscale image")
			}
			rec, err := ParseChunk(c)
			if err != nil {
				return nil, err
			}
			p := rec.(*Palette)
			if s.Header.ColorType == Paletted && p.Len() > 1<<s.Header.BitDepth {
				return nil, FormatError(fmt.Sprintf("PLTE has %d entries for bit depth %d", p.Len(), s.Header.BitDepth))
			}
			s.Palette = p
			stage = dsSeenPLTE

		case TypeIDAT:
			if s.Header.ColorType == Paletted && s.Palette == nil {
				return nil, FormatError("missing PLTE chunk for paletted image")
			}
			idat.Write(c.Data)
			idatCount++
			stage = dsSeenIDAT

		case TypeIEND:
			if stage != dsSeenIDAT {
				return nil, ErrMissingData
			}
			stage = dsSeenIEND

		default:
			if err := d.ancillary(s, c, stage); err != nil {
				return nil, err
			}
		}
		last = c.Type
	}

	img, q, err := d.decodePixels(s, idat.Bytes())
	if err != nil {
		return nil, err
	}
	s.Image = img
	s.Quantized = q

	imgkit.Logger().Debug("png: decoded",
		"width", s.Header.Width,
		"height", s.Header.Height,
		"color", s.Header.ColorType,
		"depth", s.Header.BitDepth,
		"idat", idatCount,
		"chunks", len(s.Chunks))
	return s, nil
}

func readSignature(r io.Reader) error {
	var buf [len(Signature)]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrSignature
		}
		return err
	}
	if string(buf[:]) != Signature {
		return ErrSignature
	}
	return nil
}

// verify applies the checksum policy. keep is false when the chunk must be
// dropped without failing the decode.
func (d *Decoder) verify(c Chunk) (keep bool, err error) {
	if d.opts.checksum == ChecksumIgnore {
		return true, nil
	}
	err = c.Verify()
	if err == nil {
		return true, nil
	}
	if d.opts.checksum == ChecksumCritical && c.Type.IsAncillary() {
		imgkit.Logger().Warn("png: dropping ancillary chunk with bad checksum", "type", c.Type.String())
		return false, nil
	}
	return false, err
}

// ancillary handles every chunk other than IHDR, PLTE, IDAT and IEND.
func (d *Decoder) ancillary(s *Stream, c Chunk, stage decodeStage) error {
	rec, err := ParseChunk(c)
	if err != nil {
		if c.Type.IsCritical() {
			return err
		}
		imgkit.Logger().Warn("png: dropping malformed ancillary chunk", "type", c.Type.String(), "err", err)
		return nil
	}

	switch rec := rec.(type) {
	case *Palette: // tRNS
		if stage == dsSeenIDAT {
			return fmt.Errorf("%w: tRNS after IDAT", ErrChunkOrder)
		}
		switch s.Header.ColorType {
		case Paletted:
			if s.Palette == nil {
				return fmt.Errorf("%w: tRNS before PLTE", ErrChunkOrder)
			}
		case GreyscaleAlpha, TrueColorAlpha:
			imgkit.Logger().Warn("png: ignoring tRNS in image with alpha channel")
			return nil
		}
		s.Transparency = rec
	case *Physical:
		s.Physical = rec
	case *Property:
		s.Properties = append(s.Properties, rec)
	case *Data:
		imgkit.Logger().Debug("png: keeping unknown ancillary chunk", "type", c.Type.String(), "length", len(rec.Bytes))
		s.Ancillary = append(s.Ancillary, rec)
	}
	return nil
}

// decodePixels inflates the concatenated IDAT payload, defilters every row
// in stream order and then expands rows into pixels in parallel.
func (d *Decoder) decodePixels(s *Stream, idat []byte) (*imgkit.Image, *imgkit.QuantizedImage, error) {
	h := s.Header
	reader, err := NewScanlineReader(h, s.Palette, s.Transparency)
	if err != nil {
		return nil, nil, err
	}

	width, height := int(h.Width), int(h.Height)
	rowBytes := h.RowBytes()
	stride := rowBytes + 1
	if height > math.MaxInt/stride {
		return nil, nil, UnsupportedError("image too large")
	}

	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", FormatError("bad IDAT stream"), err)
	}
	defer zr.Close()

	raw := make([]byte, height*stride)
	if _, err := io.ReadFull(zr, raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, FormatError("not enough pixel data")
		}
		return nil, nil, fmt.Errorf("%w: %w", FormatError("bad IDAT stream"), err)
	}
	// Reading past the pixel data verifies the Adler-32 trailer.
	var extra [1]byte
	if n, err := io.ReadFull(zr, extra[:]); n > 0 {
		return nil, nil, FormatError("too much pixel data")
	} else if !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %w", FormatError("bad IDAT stream"), err)
	}

	// Each row depends on the previous reconstructed row, so this part
	// stays sequential.
	bpp := h.BytesPerPixel()
	var prev []byte
	for y := range height {
		row := raw[y*stride : (y+1)*stride]
		f := FilterType(row[0])
		if !f.IsValid() {
			return nil, nil, FormatError(fmt.Sprintf("bad filter type %d in row %d", row[0], y))
		}
		prev = f.Decode(row[1:], prev, bpp)
	}

	img := imgkit.New(width, height)
	if s.Physical != nil {
		img.AspectRatio = s.Physical.AspectRatio()
	}

	var q *imgkit.QuantizedImage
	pr, indexed := reader.(*paletteReader)
	if indexed {
		q = &imgkit.QuantizedImage{
			Width:            width,
			Height:           height,
			Palette:          pr.colors,
			Indices:          make([]uint8, width*height),
			TransparentIndex: -1,
		}
		for i, c := range pr.colors {
			if c.A == 0 {
				q.TransparentIndex = i
				break
			}
		}
	}

	workers := max(1, min(d.opts.workers, height))
	band := (height + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < height; start += band {
		end := min(start+band, height)
		g.Go(func() error {
			for y := start; y < end; y++ {
				row := raw[y*stride+1 : (y+1)*stride]
				if err := reader.ReadScanline(row, img, y); err != nil {
					return err
				}
				if indexed {
					if err := pr.ReadIndices(row, q.Indices[y*width:(y+1)*width]); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return img, q, nil
}
