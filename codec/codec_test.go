package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/imgkit"
)

// testImage returns an opaque image with few enough 8-bit colors to pass
// through every lossless codec unchanged.
func testImage(w, h int) *imgkit.Image {
	img := imgkit.New(w, h)
	for y := range h {
		for x := range w {
			img.SetPixel(x, y, imgkit.RGBA8(uint8(x*40), uint8(y*30), uint8((x+y)*10), 255))
		}
	}
	return img
}

func encodeWith(t *testing.T, e Encoder, img *imgkit.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := e.Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestDefaultFormats(t *testing.T) {
	want := []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}
	if diff := cmp.Diff(want, Default().Formats()); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name string
		f    Format
	}{
		{"empty name", Format{Decoder: PNG().Decoder}},
		{"no codecs", Format{Name: "x"}},
		{"duplicate", PNG()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.Register(PNG())
			defer func() {
				if recover() == nil {
					t.Error("Register did not panic")
				}
			}()
			r.Register(tt.f)
		})
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(PNG())
	r.Register(BMP())
	r.Unregister("png")
	r.Unregister("missing")
	if diff := cmp.Diff([]string{"bmp"}, r.Formats()); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if _, err := r.DecoderForFile("a.png"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestDecoderForHeader(t *testing.T) {
	r := Default()
	tests := []struct {
		header string
		want   string
	}{
		{"\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", "png"},
		{"BM\x00\x00", "bmp"},
		{"GIF89a", "gif"},
		{"GIF87a", "gif"},
		{"\xff\xd8\xff\xe0", "jpeg"},
		{"II*\x00\x08\x00", "tiff"},
		{"MM\x00*\x00\x00", "tiff"},
		{"RIFF\x00\x00\x00\x00WEBPVP8 ", "webp"},
		{"RIFF\x00\x00\x00\x00WAVE", ""},
		{"\x89PNG\r\n\x1a", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.header), func(t *testing.T) {
			d, err := r.DecoderForHeader([]byte(tt.header))
			if tt.want == "" {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("err = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := formatOf(r, d); got != tt.want {
				t.Errorf("decoder = %s, want %s", got, tt.want)
			}
		})
	}
}

// formatOf finds the registered name of d.
func formatOf(r *Registry, d Decoder) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		if f.Decoder == d {
			return f.Name
		}
	}
	return ""
}

func TestDecoderAndEncoderForFile(t *testing.T) {
	r := Default()
	for name, want := range map[string]string{
		"a.png":       "png",
		"b.BMP":       "bmp",
		"dir/c.gif":   "gif",
		"d.jpg":       "jpeg",
		"e.JPEG":      "jpeg",
		"f.tif":       "tiff",
		"g.webp":      "webp",
		"noext":       "",
		"archive.zip": "",
	} {
		d, err := r.DecoderForFile(name)
		if want == "" {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("DecoderForFile(%q) err = %v", name, err)
			}
			continue
		}
		if err != nil || formatOf(r, d) != want {
			t.Errorf("DecoderForFile(%q) = %s, %v; want %s", name, formatOf(r, d), err, want)
		}
	}

	if _, err := r.EncoderForFile("out.webp"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("webp encoder err = %v, want ErrUnknownFormat", err)
	}
	if _, err := r.EncoderForFile("out.tiff"); err != nil {
		t.Errorf("tiff encoder: %v", err)
	}
}

func TestDecoderForStreamRestoresPosition(t *testing.T) {
	data := encodeWith(t, PNG().Encoder, testImage(3, 3))
	rs := bytes.NewReader(append([]byte("junk"), data...))
	if _, err := rs.Seek(4, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	d, err := Default().DecoderForStream(rs)
	if err != nil {
		t.Fatal(err)
	}
	if pos, _ := rs.Seek(0, io.SeekCurrent); pos != 4 {
		t.Errorf("position = %d, want 4", pos)
	}
	if _, err := d.Decode(rs); err != nil {
		t.Errorf("Decode after sniffing: %v", err)
	}

	short := bytes.NewReader([]byte("GIF"))
	if _, err := Default().DecoderForStream(short); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("short stream err = %v, want ErrUnknownFormat", err)
	}
}

// =============================================================================
// Round Trip Tests
// =============================================================================

func TestLosslessRoundTrip(t *testing.T) {
	src := testImage(7, 5)
	for _, f := range []Format{PNG(), BMP(), GIF(), TIFF()} {
		t.Run(f.Name, func(t *testing.T) {
			got, err := Decode(bytes.NewReader(encodeWith(t, f.Encoder, src)))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(src.Pix, got.Pix, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("pixels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJPEGRoundTripIsClose(t *testing.T) {
	src := imgkit.New(16, 16)
	src.Fill(imgkit.RGBA8(200, 100, 50, 255))
	got, err := Decode(bytes.NewReader(encodeWith(t, JPEG(95).Encoder, src)))
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 16 || got.Height != 16 {
		t.Fatalf("size = %dx%d", got.Width, got.Height)
	}
	if diff := cmp.Diff(src.Pix[0], got.Pix[100], cmpopts.EquateApprox(0, 0.03)); diff != "" {
		t.Errorf("pixel mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmptyImage(t *testing.T) {
	for _, f := range []Format{BMP(), GIF(), JPEG(50), TIFF()} {
		if err := f.Encoder.Encode(io.Discard, imgkit.New(0, 0)); !errors.Is(err, ErrEmptyImage) {
			t.Errorf("%s: err = %v, want ErrEmptyImage", f.Name, err)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	if _, err := Decode(strings.NewReader("not an image at all")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
	if _, err := Decode(strings.NewReader("")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("empty input err = %v, want ErrUnknownFormat", err)
	}
}

// =============================================================================
// File Tests
// =============================================================================

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	src := testImage(6, 4)
	for _, name := range []string{"a.png", "b.bmp", "c.gif", "d.tiff"} {
		path := filepath.Join(dir, name)
		if err := Save(path, src); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if got.Width != 6 || got.Height != 4 {
			t.Errorf("%s: size = %dx%d", name, got.Width, got.Height)
		}
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()

	if err := Save(filepath.Join(dir, "x.unknown"), testImage(2, 2)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unknown extension err = %v", err)
	}

	path := filepath.Join(dir, "empty.png")
	if err := Save(path, imgkit.New(0, 0)); err == nil {
		t.Error("saving an empty image succeeded")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("failed save left %s behind", path)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v", err)
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(bad)
	if err == nil || !strings.Contains(err.Error(), "bad.png") {
		t.Errorf("truncated png err = %v", err)
	}
}

func TestSaveWithIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.dat")
	if err := SaveWith(path, testImage(3, 2), BMP().Encoder); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "BM") {
		t.Errorf("header = %q, want BMP", data[:2])
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width != 3 || got.Height != 2 {
		t.Errorf("size = %dx%d", got.Width, got.Height)
	}
}
