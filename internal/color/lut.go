// Package color provides lookup tables for converting PNG samples of any
// bit depth to normalized float32 channels and back.
//
// Sub-byte depths are scaled so the largest sample maps to 1.0: a 1-bit
// sample of 1 becomes 1.0 (equivalently 255 at 8 bits), a 2-bit sample of 1
// becomes 85/255, and so on.
package color

import "math"

// norm8LUT maps an 8-bit sample to [0.0, 1.0].
var norm8LUT [256]float32

// depthLUT holds one table per sub-byte depth (1, 2, 4), indexed by sample.
// The tables are read-only after init and safe for concurrent use.
var depthLUT = map[int][]float32{}

func init() {
	for i := 0; i < 256; i++ {
		norm8LUT[i] = float32(i) / 255
	}
	for _, depth := range []int{1, 2, 4} {
		maxVal := 1<<depth - 1
		table := make([]float32, maxVal+1)
		for v := range table {
			// Replicate to 8 bits first so the result matches the 8-bit table
			// exactly: 1 at depth 1 -> 255, 1 at depth 2 -> 85.
			table[v] = norm8LUT[v*255/maxVal]
		}
		depthLUT[depth] = table
	}
}

// Norm8 converts an 8-bit sample to [0.0, 1.0] using the lookup table.
func Norm8(v uint8) float32 {
	return norm8LUT[v]
}

// Norm16 converts a 16-bit sample to [0.0, 1.0].
func Norm16(v uint16) float32 {
	return float32(v) / 0xffff
}

// Scale converts a sample of the given bit depth to [0.0, 1.0].
// Depths 1, 2 and 4 use replicated tables, 8 and 16 divide directly.
func Scale(v uint16, depth int) float32 {
	switch depth {
	case 8:
		return norm8LUT[uint8(v)]
	case 16:
		return Norm16(v)
	default:
		table := depthLUT[depth]
		if int(v) >= len(table) {
			return 1
		}
		return table[v]
	}
}

// MaxSample returns the largest sample value representable at depth.
func MaxSample(depth int) uint32 {
	return 1<<uint(depth) - 1
}

// Quantize maps a normalized value onto [0, maxVal], rounding to nearest.
// Values outside [0, 1] and NaN are clamped.
func Quantize(v float32, maxVal uint32) uint32 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return maxVal
	}
	return uint32(math.Round(float64(v) * float64(maxVal)))
}

// Luma returns the Rec. 601 luminance of r, g, b.
func Luma(r, g, b float32) float32 {
	return 0.299*r + 0.587*g + 0.114*b
}
