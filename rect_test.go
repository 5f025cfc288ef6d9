package imgkit

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	img := New(10, 8)
	tests := []struct {
		name string
		r    Rectangle
		want Rectangle
	}{
		{"whole", Whole, Rect(0, 0, 10, 8)},
		{"inside", Rect(2, 3, 4, 2), Rect(2, 3, 4, 2)},
		{"overhangs top left", Rect(-5, -5, 8, 8), Rect(0, 0, 3, 3)},
		{"overhangs bottom right", Rect(8, 6, 10, 10), Rect(8, 6, 2, 2)},
		{"right of image", Rect(10, 0, 5, 5), Rectangle{}},
		{"below image", Rect(0, 9, 5, 5), Rectangle{}},
		{"zero width", Rect(0, 0, 0, 5), Rectangle{}},
		{"negative height", Rect(0, 0, 3, -5), Rectangle{}},
		{"huge origin", Rect(math.MaxInt-1, 0, 100, 1), Rectangle{}},
		{"huge size", Rect(3, 2, math.MaxInt, math.MaxInt), Rect(3, 2, 7, 6)},
		{"very negative origin", Rect(math.MinInt, math.MinInt, math.MaxInt, math.MaxInt), Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.r, img)
			if got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.r, got, tt.want)
			}
			if again := Clamp(got, img); again != got {
				t.Errorf("Clamp is not idempotent: %v -> %v", got, again)
			}
			if got == Whole {
				t.Error("Clamp returned Whole")
			}
		})
	}
}

func TestClampDegenerateImages(t *testing.T) {
	if got := Clamp(Whole, nil); !got.Empty() {
		t.Errorf("Clamp(Whole, nil) = %v", got)
	}
	if got := ClampSize(Whole, 0, 5); !got.Empty() {
		t.Errorf("ClampSize(Whole, 0, 5) = %v", got)
	}
	if got := Clamp(Whole, New(1, 1)); got != Rect(0, 0, 1, 1) {
		t.Errorf("Clamp(Whole, 1x1) = %v", got)
	}
}

func TestRectangleAccessors(t *testing.T) {
	r := Rect(2, 3, 4, 5)
	if r.Left() != 2 || r.Right() != 6 || r.RowStart() != 3 || r.RowEnd() != 8 {
		t.Errorf("accessors = %d %d %d %d", r.Left(), r.Right(), r.RowStart(), r.RowEnd())
	}
	if r.Area() != 20 || r.Empty() {
		t.Errorf("Area() = %d, Empty() = %v", r.Area(), r.Empty())
	}
	if (Rectangle{}).Area() != 0 || !(Rectangle{}).Empty() {
		t.Error("zero Rectangle is not empty")
	}
	if Whole.Right() != math.MaxInt || Whole.RowEnd() != math.MaxInt {
		t.Error("Whole edges overflowed")
	}
	if got := Rect(math.MinInt+1, 0, -10, 1).Right(); got != math.MinInt {
		t.Errorf("negative overflow Right() = %d", got)
	}
}

func TestRectangleString(t *testing.T) {
	if got := Whole.String(); got != "Whole" {
		t.Errorf("Whole.String() = %q", got)
	}
	if got := Rect(1, 2, 3, 4).String(); got != "(1,2)+3x4" {
		t.Errorf("String() = %q", got)
	}
}
