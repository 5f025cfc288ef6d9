package filter

import "github.com/gogpu/imgkit"

// Pipeline runs filters in order. It is itself a Filter.
//
// The first filter sees the rectangle passed to Run. Once a filter returns
// a different image (a crop, resize or affine transform), the filters after
// it apply to the whole of that new image.
type Pipeline struct {
	filters []Filter
}

// NewPipeline returns a pipeline over filters. Nil entries are skipped.
func NewPipeline(filters ...Filter) *Pipeline {
	p := &Pipeline{filters: make([]Filter, 0, len(filters))}
	for _, f := range filters {
		if f != nil {
			p.filters = append(p.filters, f)
		}
	}
	return p
}

// Filters returns the filters in run order.
func (p *Pipeline) Filters() []Filter {
	return append([]Filter(nil), p.filters...)
}

// Len returns the number of filters.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Compile returns a pipeline in which every run of adjacent combinable
// filters has been folded into one filter with Combine.
func (p *Pipeline) Compile() *Pipeline {
	out := &Pipeline{filters: make([]Filter, 0, len(p.filters))}
	for _, f := range p.filters {
		if n := len(out.filters); n > 0 {
			if c, ok := Combine(out.filters[n-1], f); ok {
				out.filters[n-1] = c
				continue
			}
		}
		out.filters = append(out.filters, f)
	}
	if len(out.filters) != len(p.filters) {
		imgkit.Logger().Debug("filter: pipeline combined",
			"before", len(p.filters), "after", len(out.filters))
	}
	return out
}

// Run implements Filter.
func (p *Pipeline) Run(e *Engine, img *imgkit.Image, r imgkit.Rectangle) *imgkit.Image {
	for _, f := range p.filters {
		next := e.Apply(img, r, f)
		if next != img {
			r = imgkit.Whole
		}
		img = next
	}
	return img
}

// Combine returns one filter equivalent to running a and then b, or false
// when the pair cannot be folded. Two color matrices multiply; two valid
// convolutions with the same alpha handling convolve.
func Combine(a, b Filter) (Filter, bool) {
	switch a := a.(type) {
	case ColorMatrix:
		if b, ok := b.(ColorMatrix); ok {
			return a.Multiply(b), true
		}
	case *Convolution:
		if b, ok := b.(*Convolution); ok {
			if c, ok := a.Combine(b); ok {
				return c, true
			}
		}
	}
	return nil, false
}
