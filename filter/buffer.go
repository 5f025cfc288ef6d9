package filter

import (
	"sync"

	"github.com/gogpu/imgkit"
)

// colorBuffer wraps a slice so sync.Pool stores a pointer.
type colorBuffer struct {
	data []imgkit.Color
}

var colorBufferPool = sync.Pool{
	New: func() any { return &colorBuffer{} },
}

// maxPooledBuffer caps what goes back to the pool (1024x1024 pixels).
const maxPooledBuffer = 1 << 20

// getColorBuffer returns a zeroed scratch slice of n pixels.
func getColorBuffer(n int) []imgkit.Color {
	b := colorBufferPool.Get().(*colorBuffer)
	if cap(b.data) < n {
		colorBufferPool.Put(b)
		return make([]imgkit.Color, n)
	}
	buf := b.data[:n]
	clear(buf)
	return buf
}

// putColorBuffer hands a scratch slice back for reuse.
func putColorBuffer(buf []imgkit.Color) {
	if cap(buf) <= maxPooledBuffer {
		colorBufferPool.Put(&colorBuffer{data: buf[:cap(buf)]})
	}
}
