package codec

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gogpu/imgkit"
	"github.com/gogpu/imgkit/png"
)

// ErrEmptyImage is returned when encoding an image with no pixels.
var ErrEmptyImage = errors.New("codec: image has no pixels")

// DefaultJPEGQuality is the JPEG quality used by the default registry.
const DefaultJPEGQuality = 90

// PNG is the native PNG codec with default options.
func PNG() Format {
	return Format{Name: "png", Decoder: png.NewDecoder(), Encoder: png.NewEncoder()}
}

// BMP reads and writes Windows bitmaps via golang.org/x/image/bmp.
func BMP() Format {
	c := &stdCodec{
		magic:  []string{"BM"},
		exts:   []string{".bmp"},
		decode: bmp.Decode,
		encode: func(w io.Writer, img *imgkit.Image) error {
			return bmp.Encode(w, img.ToNRGBA())
		},
	}
	return Format{Name: "bmp", Decoder: c, Encoder: c}
}

// GIF reads the first frame of a GIF and writes single-frame GIFs. Images
// with more than 256 colors are dithered.
func GIF() Format {
	c := &stdCodec{
		magic:  []string{"GIF87a", "GIF89a"},
		exts:   []string{".gif"},
		decode: gif.Decode,
		encode: func(w io.Writer, img *imgkit.Image) error {
			return gif.Encode(w, imgkit.Quantize(img).ToPaletted(), nil)
		},
	}
	return Format{Name: "gif", Decoder: c, Encoder: c}
}

// JPEG reads baseline and progressive JPEGs and writes at the given
// quality (1 to 100). Alpha is dropped on encode.
func JPEG(quality int) Format {
	quality = min(max(quality, 1), 100)
	c := &stdCodec{
		magic:  []string{"\xff\xd8\xff"},
		exts:   []string{".jpg", ".jpeg"},
		decode: jpeg.Decode,
		encode: func(w io.Writer, img *imgkit.Image) error {
			return jpeg.Encode(w, img.ToNRGBA(), &jpeg.Options{Quality: quality})
		},
	}
	return Format{Name: "jpeg", Decoder: c, Encoder: c}
}

// TIFF reads TIFFs and writes deflate-compressed ones via
// golang.org/x/image/tiff.
func TIFF() Format {
	c := &stdCodec{
		magic:  []string{"II*\x00", "MM\x00*"},
		exts:   []string{".tif", ".tiff"},
		decode: tiff.Decode,
		encode: func(w io.Writer, img *imgkit.Image) error {
			return tiff.Encode(w, img.ToNRGBA64(), &tiff.Options{Compression: tiff.Deflate})
		},
	}
	return Format{Name: "tiff", Decoder: c, Encoder: c}
}

// WebP reads lossy and lossless WebP via golang.org/x/image/webp.
// There is no WebP encoder.
func WebP() Format {
	c := &stdCodec{
		exts:   []string{".webp"},
		decode: webp.Decode,
		sniff: func(h []byte) bool {
			return len(h) >= 12 && string(h[:4]) == "RIFF" && string(h[8:12]) == "WEBP"
		},
	}
	return Format{Name: "webp", Decoder: c}
}

// stdCodec adapts a standard-library style decode/encode pair.
type stdCodec struct {
	magic  []string
	sniff  func([]byte) bool
	exts   []string
	decode func(io.Reader) (image.Image, error)
	encode func(io.Writer, *imgkit.Image) error
}

func (c *stdCodec) CanDecodeHeader(header []byte) bool {
	if c.sniff != nil {
		return c.sniff(header)
	}
	for _, m := range c.magic {
		if bytes.HasPrefix(header, []byte(m)) {
			return true
		}
	}
	return false
}

func (c *stdCodec) hasExt(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range c.exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func (c *stdCodec) CanDecodeFile(name string) bool { return c.hasExt(name) }

func (c *stdCodec) CanEncodeFile(name string) bool { return c.encode != nil && c.hasExt(name) }

func (c *stdCodec) Decode(r io.Reader) (*imgkit.Image, error) {
	m, err := c.decode(r)
	if err != nil {
		return nil, err
	}
	return imgkit.FromStd(m), nil
}

func (c *stdCodec) Encode(w io.Writer, img *imgkit.Image) error {
	if c.encode == nil {
		return errors.New("codec: format is decode-only")
	}
	if img.IsEmpty() {
		return ErrEmptyImage
	}
	return c.encode(w, img)
}
