package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a 1D Gaussian kernel with standard deviation
// radius. The kernel is normalized so its values sum to 1.
//
// The kernel has 2*ceil(3*radius)+1 taps, covering three standard
// deviations. For radius <= 0 it returns the identity kernel [1].
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(radius * 3))
	size := half*2 + 1
	kernel := make([]float32, size)

	// exp(-x²/2σ²); the constant factor cancels in normalization.
	twoSigmaSq := 2 * radius * radius
	var sum float64
	for i := range size {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// BoxKernel generates a uniform 1D kernel of 2*radius+1 taps.
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}

	size := radius*2 + 1
	kernel := make([]float32, size)
	v := 1 / float32(size)
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}

// kernelCache memoizes Gaussian kernels keyed by radius in hundredths.
// Cached kernels are shared and must not be modified.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

func (c *kernelCache) get(radius float64) []float32 {
	key := int(math.Round(radius * 100))

	c.mu.RLock()
	kernel, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return kernel
	}

	kernel = GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Drop half the entries; which half does not matter.
		n := 0
		for k := range c.cache {
			delete(c.cache, k)
			n++
			if n >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussianKernel is GaussianKernel with the radius rounded to 0.01 and
// the result memoized. The returned slice is shared; do not modify it.
func CachedGaussianKernel(radius float64) []float32 {
	return defaultKernelCache.get(radius)
}
