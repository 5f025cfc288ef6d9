package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/gogpu/imgkit"
)

// ErrUnknownFormat is returned when no registered codec accepts an image.
var ErrUnknownFormat = errors.New("codec: unknown image format")

// HeaderSize is the number of leading bytes offered to CanDecodeHeader.
// Every registered format must be recognizable from that many bytes.
const HeaderSize = 16

// Decoder turns an encoded stream into an Image.
type Decoder interface {
	// CanDecodeHeader reports whether header starts a stream this decoder
	// reads. header holds up to HeaderSize bytes.
	CanDecodeHeader(header []byte) bool
	// CanDecodeFile reports whether the file name carries an extension this
	// decoder handles.
	CanDecodeFile(name string) bool
	Decode(r io.Reader) (*imgkit.Image, error)
}

// Encoder writes an Image in one format.
type Encoder interface {
	CanEncodeFile(name string) bool
	Encode(w io.Writer, img *imgkit.Image) error
}

// Format pairs a name with a decoder and/or encoder.
type Format struct {
	Name    string
	Decoder Decoder
	Encoder Encoder
}

// Registry looks up codecs by header or file name. Formats are consulted
// in registration order. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats []Format
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a format.
//
// Register panics if the name is empty, if neither a decoder nor an encoder
// is given, or if the name is already registered. Duplicate registrations
// are programming errors and surface at startup.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.Name == "" {
		panic("codec: Register called with an empty name")
	}
	if f.Decoder == nil && f.Encoder == nil {
		panic("codec: Register called without a decoder or encoder for " + f.Name)
	}
	for _, g := range r.formats {
		if g.Name == f.Name {
			panic("codec: Register called twice for " + f.Name)
		}
	}
	r.formats = append(r.formats, f)
}

// Unregister removes a format. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.formats {
		if f.Name == name {
			r.formats = append(r.formats[:i], r.formats[i+1:]...)
			return
		}
	}
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.formats))
	for i, f := range r.formats {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names
}

// decoder returns the first decoder accepted by match.
func (r *Registry) decoder(match func(Decoder) bool) (Decoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		if f.Decoder != nil && match(f.Decoder) {
			return f.Decoder, nil
		}
	}
	return nil, ErrUnknownFormat
}

// DecoderForHeader returns the decoder recognizing the leading bytes.
func (r *Registry) DecoderForHeader(header []byte) (Decoder, error) {
	return r.decoder(func(d Decoder) bool { return d.CanDecodeHeader(header) })
}

// DecoderForFile returns the decoder for the file name's extension.
func (r *Registry) DecoderForFile(name string) (Decoder, error) {
	d, err := r.decoder(func(d Decoder) bool { return d.CanDecodeFile(name) })
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	return d, nil
}

// DecoderForStream peeks at the head of rs and returns the decoder that
// recognizes it. The stream position is restored before returning.
func (r *Registry) DecoderForStream(rs io.ReadSeeker) (Decoder, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(rs, header)
	if _, serr := rs.Seek(pos, io.SeekStart); serr != nil {
		return nil, serr
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return r.DecoderForHeader(header[:n])
}

// EncoderForFile returns the encoder for the file name's extension.
func (r *Registry) EncoderForFile(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		if f.Encoder != nil && f.Encoder.CanEncodeFile(name) {
			return f.Encoder, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// Decode sniffs the format from the head of rd and decodes it.
func (r *Registry) Decode(rd io.Reader) (*imgkit.Image, error) {
	br := bufio.NewReader(rd)
	header, err := br.Peek(HeaderSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	d, err := r.DecoderForHeader(header)
	if err != nil {
		return nil, err
	}
	return d.Decode(br)
}

// Load decodes the file at path, choosing the decoder from its contents.
func (r *Registry) Load(path string) (*imgkit.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := r.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("codec: load %s: %w", path, err)
	}
	imgkit.Logger().Debug("codec: loaded", "path", path, "width", img.Width, "height", img.Height)
	return img, nil
}

// Save encodes img to path with the encoder matching its extension.
func (r *Registry) Save(path string, img *imgkit.Image) error {
	enc, err := r.EncoderForFile(path)
	if err != nil {
		return err
	}
	return SaveWith(path, img, enc)
}

// SaveWith encodes img to path with enc, ignoring the extension.
// A partially written file is removed when encoding fails.
func SaveWith(path string, img *imgkit.Image, enc Encoder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("codec: save %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	imgkit.Logger().Debug("codec: saved", "path", path, "width", img.Width, "height", img.Height)
	return nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	r.Register(PNG())
	r.Register(BMP())
	r.Register(GIF())
	r.Register(JPEG(DefaultJPEGQuality))
	r.Register(TIFF())
	r.Register(WebP())
	return r
})

// Default returns the shared registry holding PNG, BMP, GIF, JPEG, TIFF
// and WebP.
func Default() *Registry {
	return defaultRegistry()
}

// Decode decodes rd with the default registry.
func Decode(rd io.Reader) (*imgkit.Image, error) {
	return Default().Decode(rd)
}

// Load decodes the file at path with the default registry.
func Load(path string) (*imgkit.Image, error) {
	return Default().Load(path)
}

// Save encodes img to path with the default registry.
func Save(path string, img *imgkit.Image) error {
	return Default().Save(path, img)
}
