package filter

import (
	"testing"

	"github.com/gogpu/imgkit"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		a, b Filter
		ok   bool
	}{
		{"matrices", Sepia(), Invert(), true},
		{"kernels", GaussianBlur(1), Sharpen(), true},
		{"kernels with different alpha", Sharpen(), Emboss(), false},
		{"matrix then kernel", Sepia(), Sharpen(), false},
		{"blur is not a kernel", NewBlur(1), Sharpen(), false},
		{"resize", Resize{Width: 2, Height: 2}, Resize{Width: 3, Height: 3}, false},
		{"nil", nil, Invert(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Combine(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("Combine ok = %v, want %v", ok, tt.ok)
			}
			if ok && c == nil {
				t.Error("Combine returned a nil filter")
			}
		})
	}
}

func TestPipelineCompile(t *testing.T) {
	p := NewPipeline(
		Grayscale(), Contrast(1.3), Invert(),
		BoxBlur(1), Sharpen(),
		FlipHorizontal{},
		Brightness(0.9),
		nil,
	)
	if p.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", p.Len())
	}

	c := p.Compile()
	if c.Len() != 4 {
		t.Fatalf("compiled Len() = %d, want 4", c.Len())
	}
	fs := c.Filters()
	if _, ok := fs[0].(ColorMatrix); !ok {
		t.Errorf("filter 0 is %T, want ColorMatrix", fs[0])
	}
	if k, ok := fs[1].(*Convolution); !ok || k.Width != 5 {
		t.Errorf("filter 1 is %T, want a 5x5 *Convolution", fs[1])
	}
	if p.Len() != 7 {
		t.Error("Compile modified the original pipeline")
	}
}

func TestPipelineCompiledMatchesSequential(t *testing.T) {
	e := engine(t, 4)
	src := noiseImage(30, 24)
	p := NewPipeline(Saturation(1.4), HueRotate(20), Contrast(0.8), Opacity(0.9))

	seq := e.Apply(src.Clone(), imgkit.Whole, p)
	one := e.Apply(src.Clone(), imgkit.Whole, p.Compile())
	assertPixelsApprox(t, one, seq, 1e-5)
}

func TestPipelineWholeAfterResize(t *testing.T) {
	e := engine(t, 2)
	src := solidImage(10, 10, imgkit.Black)
	p := NewPipeline(Crop{}, Invert())

	got := e.Apply(src, imgkit.Rect(6, 6, 4, 4), p)
	if got.Width != 4 || got.Height != 4 {
		t.Fatalf("size = %dx%d", got.Width, got.Height)
	}
	for i, c := range got.Pix {
		if c != imgkit.White {
			t.Fatalf("pixel %d = %v, want white: invert must cover the cropped image", i, c)
		}
	}
}

func TestPipelineKeepsRectangleInPlace(t *testing.T) {
	e := engine(t, 2)
	src := solidImage(6, 6, imgkit.Black)
	got := e.Apply(src, imgkit.Rect(0, 0, 3, 6), NewPipeline(Invert(), Brightness(0.5)))
	if got.GetPixel(1, 1).R != 0.5 || got.GetPixel(4, 1).R != 0 {
		t.Errorf("pixels = %v, %v", got.GetPixel(1, 1), got.GetPixel(4, 1))
	}
}

func TestEmptyPipeline(t *testing.T) {
	src := noiseImage(3, 3)
	if got := engine(t, 1).Apply(src, imgkit.Whole, NewPipeline()); got != src {
		t.Error("empty pipeline returned a different image")
	}
}
