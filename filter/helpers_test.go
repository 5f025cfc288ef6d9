package filter

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gogpu/imgkit"
)

// Test helper functions shared across filter tests.

// noiseImage returns a w x h image of reproducible pseudo-random opaque and
// translucent pixels.
func noiseImage(w, h int) *imgkit.Image {
	rng := rand.New(rand.NewPCG(uint64(w), uint64(h)))
	img := imgkit.New(w, h)
	for i := range img.Pix {
		img.Pix[i] = imgkit.Color{
			R: rng.Float32(),
			G: rng.Float32(),
			B: rng.Float32(),
			A: 0.25 + 0.75*rng.Float32(),
		}
	}
	return img
}

// opaqueNoise is noiseImage with every alpha set to 1.
func opaqueNoise(w, h int) *imgkit.Image {
	img := noiseImage(w, h)
	for i := range img.Pix {
		img.Pix[i].A = 1
	}
	return img
}

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c imgkit.Color) *imgkit.Image {
	img := imgkit.New(w, h)
	img.Fill(c)
	return img
}

// approx compares colors channel by channel within tol.
func approx(tol float64) cmp.Option {
	return cmpopts.EquateApprox(0, tol)
}

// assertPixelsApprox fails when the two images differ in size or in any
// pixel by more than tol.
func assertPixelsApprox(t *testing.T, got, want *imgkit.Image, tol float64) {
	t.Helper()
	if got.Width != want.Width || got.Height != want.Height {
		t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	if diff := cmp.Diff(want.Pix, got.Pix, approx(tol)); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

// engine starts an engine with the given worker count and closes it with
// the test.
func engine(t testing.TB, workers int, opts ...EngineOption) *Engine {
	t.Helper()
	e := NewEngine(append([]EngineOption{WithWorkers(workers)}, opts...)...)
	t.Cleanup(e.Close)
	return e
}
