package imgkit

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var _ color.Color = Color{}

func TestRGBA8(t *testing.T) {
	got := RGBA8(255, 0, 51, 255)
	want := Color{R: 1, G: 0, B: 0.2, A: 1}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("RGBA8 mismatch (-want +got):\n%s", diff)
	}
}

func TestColorArithmetic(t *testing.T) {
	a := Color{R: 0.5, G: 0.25, B: 1, A: 1}
	b := Color{R: 0.25, G: 0.25, B: 0.5, A: 0.5}

	tests := []struct {
		name string
		got  Color
		want Color
	}{
		{"Add", a.Add(b), Color{R: 0.75, G: 0.5, B: 1.5, A: 1.5}},
		{"Sub", a.Sub(b), Color{R: 0.25, G: 0, B: 0.5, A: 0.5}},
		{"Mul", a.Mul(b), Color{R: 0.125, G: 0.0625, B: 0.5, A: 0.5}},
		{"Scale", a.Scale(2), Color{R: 1, G: 0.5, B: 2, A: 2}},
		{"Lerp 0", a.Lerp(b, 0), a},
		{"Lerp 1", a.Lerp(b, 1), b},
		{"Lerp half", a.Lerp(b, 0.5), Color{R: 0.375, G: 0.25, B: 0.75, A: 0.75}},
		{"Clamp", Color{R: -1, G: 0.5, B: 2, A: 1.5}.Clamp(), Color{R: 0, G: 0.5, B: 1, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %+v, want %+v", tt.got, tt.want)
			}
		})
	}
}

func TestLuma(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-6)
	if !cmp.Equal(White.Luma(), float32(1), approx) {
		t.Errorf("White.Luma() = %v, want 1", White.Luma())
	}
	if Black.Luma() != 0 {
		t.Errorf("Black.Luma() = %v, want 0", Black.Luma())
	}
	if g, r := RGB(0, 1, 0).Luma(), RGB(1, 0, 0).Luma(); g <= r {
		t.Errorf("green luma %v <= red luma %v", g, r)
	}
}

func TestColorConversions(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want color.NRGBA
	}{
		{"white", White, color.NRGBA{255, 255, 255, 255}},
		{"transparent", Transparent, color.NRGBA{}},
		{"rounds to nearest", Color{R: 0.5, G: 0.2, B: 0.998, A: 1}, color.NRGBA{128, 51, 254, 255}},
		{"clamps", Color{R: -0.5, G: 1.5, B: 0, A: 2}, color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.NRGBA(); got != tt.want {
				t.Errorf("NRGBA() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (Color{R: 1, A: 1}).NRGBA64(); got != (color.NRGBA64{R: 0xffff, A: 0xffff}) {
		t.Errorf("NRGBA64() = %v", got)
	}
}

func TestFromColor(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want Color
	}{
		{"nrgba", color.NRGBA{255, 0, 0, 255}, Color{R: 1, A: 1}},
		{"premultiplied half red", color.RGBA{128, 0, 0, 128}, Color{R: 1, A: 128.0 / 255}},
		{"gray", color.Gray{255}, White},
		{"transparent", color.RGBA{}, Transparent},
		{"own type", Color{R: 0.3, G: 0.6, B: 0.9, A: 0.5}, Color{R: 0.3, G: 0.6, B: 0.9, A: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromColor(tt.in)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-4)); diff != "" {
				t.Errorf("FromColor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
