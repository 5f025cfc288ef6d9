package png

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/gogpu/imgkit"
)

// Encoder writes images as PNG streams.
// Output is deterministic: the same image and options produce the same bytes.
type Encoder struct {
	opts encoderOptions
}

// NewEncoder creates an encoder with the given options.
// Without options it writes 8-bit TrueColorAlpha with the Paeth filter.
func NewEncoder(opts ...EncoderOption) *Encoder {
	o := defaultEncoderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{opts: o}
}

// CanEncodeFile reports whether name has a .png extension, ignoring case.
func (e *Encoder) CanEncodeFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".png")
}

// Encode writes img to w as a PNG stream with default options.
func Encode(w io.Writer, img *imgkit.Image, opts ...EncoderOption) error {
	return NewEncoder(opts...).Encode(w, img)
}

// Encode writes img to w: signature, IHDR, optional pHYs, text, PLTE and
// tRNS chunks, one or more IDAT chunks, and IEND. img is not modified.
func (e *Encoder) Encode(w io.Writer, img *imgkit.Image) error {
	if img.IsEmpty() {
		return ErrEmptyImage
	}
	if !e.opts.filter.IsValid() {
		return fmt.Errorf("png: invalid filter type %d", uint8(e.opts.filter))
	}

	h := Header{
		Width:     uint32(img.Width),
		Height:    uint32(img.Height),
		BitDepth:  e.opts.bitDepth,
		ColorType: e.opts.colorType,
	}

	var q *imgkit.QuantizedImage
	if h.ColorType == Paletted {
		q = imgkit.Quantize(img)
		need := paletteDepth(len(q.Palette))
		if h.BitDepth == 0 {
			h.BitDepth = need
		} else if h.BitDepth < need {
			return UnsupportedError(fmt.Sprintf("%d palette entries at bit depth %d", len(q.Palette), h.BitDepth))
		}
	} else if h.BitDepth == 0 {
		h.BitDepth = 8
	}
	if err := h.Validate(); err != nil {
		return err
	}

	data, err := e.compress(img, q, h)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, Signature); err != nil {
		return err
	}
	if _, err := h.WriteTo(w); err != nil {
		return err
	}
	if ar := img.AspectRatio; ar > 0 && ar != 1 {
		if err := WriteChunk(w, TypePHYS, PhysicalForAspect(ar).Bytes()); err != nil {
			return err
		}
	}
	for i := range e.opts.text {
		c, err := e.opts.text[i].Chunk()
		if err != nil {
			return err
		}
		if _, err := c.WriteTo(w); err != nil {
			return err
		}
	}
	if q != nil {
		plte, trns := paletteChunks(q.Palette)
		if err := WriteChunk(w, TypePLTE, plte); err != nil {
			return err
		}
		if trns != nil {
			if err := WriteChunk(w, TypeTRNS, trns); err != nil {
				return err
			}
		}
	}

	chunks := 0
	for len(data) > 0 {
		n := min(len(data), e.opts.maxIDATSize)
		if err := WriteChunk(w, TypeIDAT, data[:n]); err != nil {
			return err
		}
		data = data[n:]
		chunks++
	}
	if err := WriteChunk(w, TypeIEND, nil); err != nil {
		return err
	}

	imgkit.Logger().Debug("png: encoded",
		"width", h.Width,
		"height", h.Height,
		"color", h.ColorType,
		"depth", h.BitDepth,
		"filter", e.opts.filter,
		"idat", chunks)
	return nil
}

// compress packs, filters and deflates every row.
func (e *Encoder) compress(img *imgkit.Image, q *imgkit.QuantizedImage, h Header) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, e.opts.level.zlibLevel())
	if err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}

	rowBytes := h.RowBytes()
	bpp := h.BytesPerPixel()
	cur := make([]byte, rowBytes)
	prev := make([]byte, rowBytes)
	filtered := make([]byte, rowBytes+1)

	for y := range img.Height {
		if q != nil {
			packIndices(cur, q.Indices[y*img.Width:(y+1)*img.Width], h)
		} else {
			packRow(cur, img.Row(y), h)
		}
		var above []byte
		if y > 0 {
			above = prev
		}
		e.opts.filter.encodeInto(filtered, cur, above, bpp)
		if _, err := zw.Write(filtered); err != nil {
			return nil, fmt.Errorf("png: deflate: %w", err)
		}
		cur, prev = prev, cur
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("png: deflate: %w", err)
	}
	return buf.Bytes(), nil
}
