// Package png reads and writes PNG images.
//
// A stream is a signature followed by length-prefixed, CRC-protected chunks.
// ReadChunk and WriteChunk handle the framing; ParseChunk converts a chunk
// into a typed Record (Header, *Palette, *Data, *Property, *Physical, End).
//
// Decoding reads every chunk up to IEND, concatenates the IDAT payloads,
// inflates them, reverses the per-row FilterType in stream order and then
// expands rows into imgkit.Image pixels in parallel with a ScanlineReader
// for the header's color type. Encoding runs the same path backwards with a
// single configured filter for every row.
//
// # Checksums
//
// By default a CRC mismatch in a critical chunk (IHDR, PLTE, IDAT, IEND)
// fails the decode, while an ancillary chunk with a bad CRC is dropped and
// logged at Warn level through imgkit.Logger. WithChecksumPolicy selects
// ChecksumStrict or ChecksumIgnore instead.
//
// # Limitations
//
// Adam7 interlaced images are reported as UnsupportedError. Color
// management chunks (gAMA, cHRM, iCCP, sRGB) are kept as opaque ancillary
// data and not applied.
package png
