package png

import "fmt"

// FilterType is the per-scanline prediction method. It is stored as the
// first byte of every filtered row.
type FilterType uint8

// Filter types, as per the PNG specification.
const (
	FilterNone FilterType = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth

	filterCount
)

// String returns a string representation of the filter type.
func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "None"
	case FilterSub:
		return "Sub"
	case FilterUp:
		return "Up"
	case FilterAverage:
		return "Average"
	case FilterPaeth:
		return "Paeth"
	default:
		return fmt.Sprintf("FilterType(%d)", uint8(f))
	}
}

// IsValid returns true if the filter type is defined by the format.
func (f FilterType) IsValid() bool {
	return f < filterCount
}

// ParseFilterType returns the filter type with the given name, case-sensitive
// as returned by String.
func ParseFilterType(name string) (FilterType, error) {
	for f := FilterNone; f < filterCount; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("png: unknown filter type %q", name)
}

// Decode reconstructs cur in place and returns it.
//
// cur holds the filtered bytes of one row (without the filter-type byte),
// prev the reconstructed previous row or nil for the first row, and bpp the
// distance in bytes to the corresponding byte of the pixel on the left.
// Predictors outside the row read as zero. All arithmetic wraps modulo 256.
func (f FilterType) Decode(cur, prev []byte, bpp int) []byte {
	bpp = max(bpp, 1)
	switch f {
	case FilterSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case FilterUp:
		if prev == nil {
			break
		}
		for i := range cur {
			cur[i] += prev[i]
		}
	case FilterAverage:
		for i := range cur {
			var left, above int
			if i >= bpp {
				left = int(cur[i-bpp])
			}
			if prev != nil {
				above = int(prev[i])
			}
			cur[i] += uint8((left + above) / 2)
		}
	case FilterPaeth:
		for i := range cur {
			var left, above, upperLeft uint8
			if i >= bpp {
				left = cur[i-bpp]
			}
			if prev != nil {
				above = prev[i]
				if i >= bpp {
					upperLeft = prev[i-bpp]
				}
			}
			cur[i] += paeth(left, above, upperLeft)
		}
	}
	return cur
}

// Encode filters cur against prev and returns a new slice holding the
// filter-type byte followed by the filtered row. cur and prev are not
// modified; prev may be nil for the first row.
func (f FilterType) Encode(cur, prev []byte, bpp int) []byte {
	out := make([]byte, len(cur)+1)
	f.encodeInto(out, cur, prev, bpp)
	return out
}

// encodeInto is Encode writing into dst, which must hold len(cur)+1 bytes.
func (f FilterType) encodeInto(dst, cur, prev []byte, bpp int) {
	bpp = max(bpp, 1)
	dst[0] = byte(f)
	out := dst[1:]
	switch f {
	case FilterSub:
		for i := range cur {
			var left uint8
			if i >= bpp {
				left = cur[i-bpp]
			}
			out[i] = cur[i] - left
		}
	case FilterUp:
		for i := range cur {
			var above uint8
			if prev != nil {
				above = prev[i]
			}
			out[i] = cur[i] - above
		}
	case FilterAverage:
		for i := range cur {
			var left, above int
			if i >= bpp {
				left = int(cur[i-bpp])
			}
			if prev != nil {
				above = int(prev[i])
			}
			out[i] = cur[i] - uint8((left+above)/2)
		}
	case FilterPaeth:
		for i := range cur {
			var left, above, upperLeft uint8
			if i >= bpp {
				left = cur[i-bpp]
			}
			if prev != nil {
				above = prev[i]
				if i >= bpp {
					upperLeft = prev[i-bpp]
				}
			}
			out[i] = cur[i] - paeth(left, above, upperLeft)
		}
	default:
		dst[0] = byte(FilterNone)
		copy(out, cur)
	}
}

// paeth returns whichever of a (left), b (above), c (upper left) is closest
// to a + b - c. Ties prefer a, then b.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
