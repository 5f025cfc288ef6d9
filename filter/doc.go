// Package filter applies pixel operations to an imgkit.Image.
//
// # Engine
//
// An Engine owns a worker pool. Engine.Apply clamps the target rectangle to
// the image and runs a Filter over it; empty images and empty rectangles
// are no-ops, and filters never fail. Concrete filters are built on three
// row skeletons:
//
//   - Pixels rewrites each pixel in place from its own value.
//   - Rows gives each row a snapshot of the image taken before any writes,
//     for kernels that read a neighborhood.
//   - Recreate fills a freshly allocated image, for filters that change
//     dimensions.
//
// Rows are split into bands dispatched to the pool; the caller blocks until
// all bands finish. Results do not depend on the number of workers.
//
// # Filters
//
//   - ColorMatrix: 5x5 color transforms (brightness, contrast, saturation,
//     grayscale, sepia, invert, hue rotation, opacity, tint)
//   - Convolution: 2D kernels (Gaussian, box, sharpen, edge detect, emboss)
//     and the separable Blur
//   - Resize and Affine with a Resampler kernel from golang.org/x/image/draw
//   - Arithmetic: per-pixel combination with a second image
//   - Crop, FlipHorizontal, FlipVertical
//
// # Pipelines
//
// A Pipeline runs filters in order. Compile folds adjacent color matrices
// into one matrix and adjacent convolutions into one kernel using Combine.
//
// Example:
//
//	p := filter.NewPipeline(filter.Grayscale(), filter.Contrast(1.2), filter.NewBlur(2))
//	img = filter.Apply(img, imgkit.Whole, p.Compile())
package filter
