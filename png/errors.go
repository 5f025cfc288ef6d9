package png

import (
	"errors"
	"fmt"
)

// A FormatError reports that the input is not a valid PNG.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

// An UnsupportedError reports that the input uses a valid but unimplemented
// PNG feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "png: unsupported feature: " + string(e) }

// A ChecksumError reports a chunk whose stored CRC does not match its contents.
type ChecksumError struct {
	Type ChunkType
	Want uint32 // stored in the stream
	Got  uint32 // computed over type and payload
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("png: invalid checksum in %s chunk: stored %08x, computed %08x", e.Type, e.Want, e.Got)
}

// Format errors returned by the decoder. Match them with errors.Is.
var (
	ErrSignature     = FormatError("not a PNG file")
	ErrMissingHeader = FormatError("missing IHDR chunk")
	ErrMissingData   = FormatError("missing IDAT chunk")
	ErrMissingEnd    = FormatError("missing IEND chunk")
	ErrChunkOrder    = FormatError("chunk out of order")
	ErrTruncated     = FormatError("truncated chunk")
)

// ErrEmptyImage is returned when encoding an image without pixels.
var ErrEmptyImage = errors.New("png: image has no pixels")
