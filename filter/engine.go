package filter

import (
	"sync"

	"github.com/gogpu/imgkit"
	"github.com/gogpu/imgkit/internal/parallel"
)

// Filter is a pixel operation run by an Engine.
//
// Run is only called with a non-empty image and a rectangle already clamped
// to it. It returns the image holding the result: img itself when the filter
// works in place, or a new image when it changes dimensions.
type Filter interface {
	Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image
}

// Engine runs filters over row bands on a fixed worker pool.
//
// Rows of a rectangle are split into bands and dispatched to the pool; the
// caller blocks until every band is done. Within a row, pixels are visited
// left to right. Output never depends on the number of workers.
//
// An Engine is safe for concurrent use. Each call owns the image it is given.
type Engine struct {
	pool        *parallel.Pool
	rowsPerTask int
}

// NewEngine starts an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		pool:        parallel.NewPool(o.workers),
		rowsPerTask: o.rowsPerTask,
	}
	imgkit.Logger().Debug("filter: engine started",
		"workers", e.pool.Workers(), "rowsPerTask", e.rowsPerTask)
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine { return NewEngine() })

// Default returns the shared engine used by the package-level Apply.
// It uses GOMAXPROCS workers and is never closed.
func Default() *Engine {
	return defaultEngine()
}

// Apply runs f on the default engine.
func Apply(img *imgkit.Image, r imgkit.Rectangle, f Filter) *imgkit.Image {
	return Default().Apply(img, r, f)
}

// Close stops the worker pool. Filters keep working afterwards, serially.
func (e *Engine) Close() {
	e.pool.Close()
}

// Workers returns the number of pool workers.
func (e *Engine) Workers() int {
	return e.pool.Workers()
}

// Apply clamps r to img and runs f over it.
// A nil filter, an empty image or an empty rectangle returns img unchanged.
func (e *Engine) Apply(img *imgkit.Image, r imgkit.Rectangle, f Filter) *imgkit.Image {
	if f == nil || img.IsEmpty() {
		return img
	}
	r = imgkit.Clamp(r, img)
	if r.Empty() {
		return img
	}
	return f.Run(e, img, r)
}

// Bands splits [start, end) into bands of rows, calls fn once per band on
// the pool and returns when all calls have finished.
func (e *Engine) Bands(start, end int, fn func(start, end int)) {
	size := e.rowsPerTask
	if size <= 0 {
		size = parallel.BandSize(end-start, e.pool.Workers(), 1)
	}
	bands := parallel.Bands(start, end, size)
	tasks := make([]func(), len(bands))
	for i, b := range bands {
		tasks[i] = func() { fn(b.Start, b.End) }
	}
	e.pool.Run(tasks)
}

// Each calls fn for every row in [start, end). Rows within a band are
// visited in order; bands run concurrently.
func (e *Engine) Each(start, end int, fn func(y int)) {
	e.Bands(start, end, func(start, end int) {
		for y := start; y < end; y++ {
			fn(y)
		}
	})
}

// Pixels replaces every pixel of r in place with fn(x, y, pixel).
func (e *Engine) Pixels(img *imgkit.Image, r imgkit.Rectangle, fn func(x, y int, c imgkit.Color) imgkit.Color) {
	left, right := r.Left(), r.Right()
	e.Each(r.RowStart(), r.RowEnd(), func(y int) {
		row := img.Row(y)
		for x := left; x < right; x++ {
			row[x] = fn(x, y, row[x])
		}
	})
}

// Rows calls fn once per row of r with a read-only snapshot of the whole
// image taken before any writes, and the live pixels of the row within r.
// dst[i] is pixel (r.Left()+i, y).
func (e *Engine) Rows(img *imgkit.Image, r imgkit.Rectangle, fn func(src *imgkit.Image, dst []imgkit.Color, y int)) {
	src := img.Clone()
	left, right := r.Left(), r.Right()
	e.Each(r.RowStart(), r.RowEnd(), func(y int) {
		fn(src, img.Row(y)[left:right], y)
	})
}

// Recreate allocates a width x height image and fills it row by row with fn.
// Non-positive sizes produce an empty image without calling fn.
func (e *Engine) Recreate(width, height int, fn func(dst []imgkit.Color, y int)) *imgkit.Image {
	out := imgkit.New(width, height)
	if out.IsEmpty() {
		return out
	}
	e.Each(0, height, func(y int) {
		fn(out.Row(y), y)
	})
	return out
}
