// Package imgkit is a pure Go image toolkit: a native PNG codec, a parallel
// filter engine and a registry of collaborator codecs, all working on one
// float pixel model.
//
// # Overview
//
// An Image holds straight-alpha Color values with every channel normalized
// to [0, 1], stored row-major. PNG samples of any bit depth (1 to 16) decode
// into that model without loss, and filters operate on it without caring
// where the pixels came from.
//
//	img, err := codec.Load("photo.png")
//	if err != nil {
//		return err
//	}
//	img = filter.Apply(img, imgkit.Whole, filter.NewPipeline(
//		filter.Grayscale(),
//		filter.NewBlur(2),
//		filter.Resize{Width: 320, Height: 240, Resampler: filter.Lanczos3},
//	))
//	return png.Encode(out, img, png.WithFilter(png.FilterPaeth))
//
// # Packages
//
//   - png: chunk I/O, scanline filters, color-format readers, Decoder and Encoder
//   - filter: Engine and the filter catalogue (color matrices, convolutions,
//     resampling, affine transforms, arithmetic, crop and flip, pipelines)
//   - codec: format registry with BMP, GIF, JPEG, TIFF and WebP collaborators
//   - cmd/imgkit: command-line converter
//
// # Rectangles
//
// Filters act on a Rectangle of the image. Rows are numbered top-down and
// Whole selects the full extent. Clamp intersects a rectangle with an image;
// a degenerate result is empty and the filter leaves the image untouched.
//
// # Logging
//
// imgkit is silent by default. SetLogger installs a *slog.Logger shared by
// every sub-package.
package imgkit
