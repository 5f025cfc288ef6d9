package png

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/imgkit"
)

func TestGreyscaleScanlineExpansion(t *testing.T) {
	var row []byte
	for range 3 {
		row = append(row, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0)
	}
	h := Header{Width: uint32(len(row)), Height: 1, BitDepth: 8, ColorType: Greyscale}
	r, err := NewScanlineReader(h, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	img := imgkit.New(len(row), 1)
	if err := r.ReadScanline(row, img, 0); err != nil {
		t.Fatal(err)
	}

	want := make([]imgkit.Color, len(row))
	for i, v := range row {
		g := float32(v) / 255
		want[i] = imgkit.Color{R: g, G: g, B: g, A: 1}
	}
	if diff := cmp.Diff(want, img.Pix); diff != "" {
		t.Errorf("expansion mismatch (-want +got):\n%s", diff)
	}
}

func TestSubByteSamplesScaleToFullRange(t *testing.T) {
	tests := []struct {
		depth uint8
		row   []byte
		want  []float32
	}{
		{1, []byte{0b10100000}, []float32{1, 0, 1}},
		{2, []byte{0b00011011}, []float32{0, 85.0 / 255, 170.0 / 255, 1}},
		{4, []byte{0x0f, 0x80}, []float32{0, 1, 136.0 / 255}},
	}
	for _, tt := range tests {
		h := Header{Width: uint32(len(tt.want)), Height: 1, BitDepth: tt.depth, ColorType: Greyscale}
		r, err := NewScanlineReader(h, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		img := imgkit.New(len(tt.want), 1)
		if err := r.ReadScanline(tt.row, img, 0); err != nil {
			t.Fatalf("depth %d: %v", tt.depth, err)
		}
		for x, want := range tt.want {
			if got := img.Pix[x].R; got != want {
				t.Errorf("depth %d pixel %d = %v, want %v", tt.depth, x, got, want)
			}
		}
	}
}

func TestSixteenBitSamplesAreBigEndian(t *testing.T) {
	h := Header{Width: 1, Height: 1, BitDepth: 16, ColorType: TrueColorAlpha}
	r, err := NewScanlineReader(h, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := imgkit.New(1, 1)
	row := []byte{0xff, 0xff, 0x00, 0x00, 0x80, 0x00, 0x00, 0xff}
	if err := r.ReadScanline(row, img, 0); err != nil {
		t.Fatal(err)
	}
	want := imgkit.Color{R: 1, G: 0, B: float32(0x8000) / 0xffff, A: float32(0x00ff) / 0xffff}
	if img.Pix[0] != want {
		t.Errorf("pixel = %+v, want %+v", img.Pix[0], want)
	}
}

func TestColorKeyTransparency(t *testing.T) {
	t.Run("greyscale", func(t *testing.T) {
		h := Header{Width: 3, Height: 1, BitDepth: 8, ColorType: Greyscale}
		r, err := NewScanlineReader(h, nil, &Palette{Kind: PaletteAlpha, Data: []byte{0, 7}})
		if err != nil {
			t.Fatal(err)
		}
		img := imgkit.New(3, 1)
		if err := r.ReadScanline([]byte{6, 7, 8}, img, 0); err != nil {
			t.Fatal(err)
		}
		for x, want := range []float32{1, 0, 1} {
			if img.Pix[x].A != want {
				t.Errorf("alpha[%d] = %v, want %v", x, img.Pix[x].A, want)
			}
		}
	})

	t.Run("truecolor", func(t *testing.T) {
		h := Header{Width: 2, Height: 1, BitDepth: 8, ColorType: TrueColor}
		r, err := NewScanlineReader(h, nil, &Palette{Kind: PaletteAlpha, Data: []byte{0, 1, 0, 2, 0, 3}})
		if err != nil {
			t.Fatal(err)
		}
		img := imgkit.New(2, 1)
		if err := r.ReadScanline([]byte{1, 2, 3, 1, 2, 4}, img, 0); err != nil {
			t.Fatal(err)
		}
		if img.Pix[0].A != 0 || img.Pix[1].A != 1 {
			t.Errorf("alphas = %v, %v; want 0, 1", img.Pix[0].A, img.Pix[1].A)
		}
	})

	t.Run("bad key length", func(t *testing.T) {
		h := Header{Width: 2, Height: 1, BitDepth: 8, ColorType: TrueColor}
		if _, err := NewScanlineReader(h, nil, &Palette{Kind: PaletteAlpha, Data: []byte{0, 1}}); err == nil {
			t.Error("NewScanlineReader accepted a 2-byte truecolor key")
		}
	})
}

func TestPaletteReader(t *testing.T) {
	plte := &Palette{Kind: PaletteColor, Data: []byte{255, 0, 0, 0, 255, 0, 0, 0, 255}}
	trns := &Palette{Kind: PaletteAlpha, Data: []byte{0x80}}
	h := Header{Width: 4, Height: 1, BitDepth: 2, ColorType: Paletted}

	r, err := NewScanlineReader(h, plte, trns)
	if err != nil {
		t.Fatal(err)
	}
	img := imgkit.New(4, 1)
	row := []byte{0b00_01_10_00}
	if err := r.ReadScanline(row, img, 0); err != nil {
		t.Fatal(err)
	}
	want := []imgkit.Color{
		imgkit.RGBA8(255, 0, 0, 0x80),
		imgkit.RGBA8(0, 255, 0, 255),
		imgkit.RGBA8(0, 0, 255, 255),
		imgkit.RGBA8(255, 0, 0, 0x80),
	}
	if diff := cmp.Diff(want, img.Pix); diff != "" {
		t.Errorf("palette expansion mismatch (-want +got):\n%s", diff)
	}

	indices := make([]uint8, 4)
	if err := r.(*paletteReader).ReadIndices(row, indices); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint8{0, 1, 2, 0}, indices); diff != "" {
		t.Errorf("indices mismatch (-want +got):\n%s", diff)
	}

	// Index 3 has no palette entry.
	var fe FormatError
	if err := r.ReadScanline([]byte{0b11_00_00_00}, img, 0); !errors.As(err, &fe) {
		t.Errorf("out-of-range index: err = %v, want FormatError", err)
	}
}

func TestPaletteReaderRequiresPalette(t *testing.T) {
	h := Header{Width: 1, Height: 1, BitDepth: 8, ColorType: Paletted}
	if _, err := NewScanlineReader(h, nil, nil); err == nil {
		t.Error("NewScanlineReader succeeded without PLTE")
	}
}

func TestReadScanlineShortRow(t *testing.T) {
	h := Header{Width: 4, Height: 1, BitDepth: 8, ColorType: TrueColor}
	r, err := NewScanlineReader(h, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	img := imgkit.New(4, 1)
	if err := r.ReadScanline(make([]byte, 11), img, 0); err == nil {
		t.Error("ReadScanline accepted a short row")
	}
	if err := r.ReadScanline(make([]byte, 12), img, 1); err == nil {
		t.Error("ReadScanline accepted an out-of-range row index")
	}
}

func TestPackRowInvertsReaders(t *testing.T) {
	for _, ct := range []ColorType{Greyscale, GreyscaleAlpha, TrueColor, TrueColorAlpha} {
		for _, depth := range ct.Info().BitDepths {
			h := Header{Width: 13, Height: 1, BitDepth: depth, ColorType: ct}
			src := sampleImage(13, 1, ct, int(depth))

			row := make([]byte, h.RowBytes())
			packRow(row, src.Row(0), h)

			r, err := NewScanlineReader(h, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			got := imgkit.New(13, 1)
			if err := r.ReadScanline(row, got, 0); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(src.Pix, got.Pix); diff != "" {
				t.Errorf("%v/%d: (-want +got):\n%s", ct, depth, diff)
			}
		}
	}
}
