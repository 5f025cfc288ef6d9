package png

import (
	"bytes"
	"io"
	"testing"

	"github.com/gogpu/imgkit"
	icolor "github.com/gogpu/imgkit/internal/color"
)

// sampleImage builds a w x h image whose channels are exact samples at the
// given depth, so encoding at that depth is lossless.
func sampleImage(w, h int, ct ColorType, depth int) *imgkit.Image {
	img := imgkit.New(w, h)
	maxVal := int(icolor.MaxSample(depth))
	s := func(i, ch int) float32 {
		return icolor.Scale(uint16((i*37+ch*11+i/3)%(maxVal+1)), depth)
	}
	for i := range img.Pix {
		var c imgkit.Color
		switch ct {
		case Greyscale:
			v := s(i, 0)
			c = imgkit.Color{R: v, G: v, B: v, A: 1}
		case GreyscaleAlpha:
			v := s(i, 0)
			c = imgkit.Color{R: v, G: v, B: v, A: s(i, 3)}
		case TrueColor:
			c = imgkit.Color{R: s(i, 0), G: s(i, 1), B: s(i, 2), A: 1}
		default:
			c = imgkit.Color{R: s(i, 0), G: s(i, 1), B: s(i, 2), A: s(i, 3)}
		}
		img.Pix[i] = c
	}
	return img
}

// palettedImage builds an image with at most 1<<depth distinct colors.
func palettedImage(w, h, depth int) *imgkit.Image {
	img := imgkit.New(w, h)
	n := 1 << depth
	for i := range img.Pix {
		k := i % n
		img.Pix[i] = imgkit.RGBA8(uint8(k*40), uint8(255-k*16), uint8(k*7), uint8(255-k))
	}
	return img
}

// encode encodes img or fails the test.
func encode(t testing.TB, img *imgkit.Image, opts ...EncoderOption) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts...); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

// splitChunks parses a complete stream into its chunks.
func splitChunks(t testing.TB, data []byte) []Chunk {
	t.Helper()
	if !bytes.HasPrefix(data, []byte(Signature)) {
		t.Fatal("stream does not start with the signature")
	}
	r := bytes.NewReader(data[len(Signature):])
	var out []Chunk
	for {
		c, err := ReadChunk(r)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadChunk: %v", err)
		}
		out = append(out, c)
	}
}

// joinChunks writes the signature followed by chunks as they are, keeping
// whatever CRC each one carries.
func joinChunks(t testing.TB, chunks ...Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(Signature)
	for _, c := range chunks {
		if _, err := c.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
	}
	return buf.Bytes()
}

// findChunk returns the first chunk of type typ.
func findChunk(chunks []Chunk, typ ChunkType) (Chunk, bool) {
	for _, c := range chunks {
		if c.Type == typ {
			return c, true
		}
	}
	return Chunk{}, false
}

func countChunks(types []ChunkType, typ ChunkType) int {
	n := 0
	for _, t := range types {
		if t == typ {
			n++
		}
	}
	return n
}
