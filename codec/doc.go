// Package codec picks an image decoder or encoder by content or file name.
//
// A Registry holds Formats, each pairing a Decoder and/or Encoder. Decoders
// are chosen by sniffing the first HeaderSize bytes of a stream or by file
// extension; encoders by file extension.
//
// Default returns a registry with the native PNG codec from
// github.com/gogpu/imgkit/png, BMP, TIFF and WebP from golang.org/x/image,
// and GIF and JPEG from the standard library:
//
//	img, err := codec.Load("in.jpg")
//	if err != nil {
//		return err
//	}
//	return codec.Save("out.png", img)
package codec
