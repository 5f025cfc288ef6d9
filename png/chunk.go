package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// Signature is the 8-byte sequence every PNG stream starts with.
const Signature = "\x89PNG\r\n\x1a\n"

// maxChunkLength is the largest payload length the format allows.
const maxChunkLength = 0x7fffffff

// ChunkType is the 4-character ASCII tag identifying a chunk.
type ChunkType [4]byte

// Chunk types understood by this package.
var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypePLTE = ChunkType{'P', 'L', 'T', 'E'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
	TypeTRNS = ChunkType{'t', 'R', 'N', 'S'}
	TypeTEXT = ChunkType{'t', 'E', 'X', 't'}
	TypeZTXT = ChunkType{'z', 'T', 'X', 't'}
	TypeITXT = ChunkType{'i', 'T', 'X', 't'}
	TypePHYS = ChunkType{'p', 'H', 'Y', 's'}
)

func (t ChunkType) String() string { return string(t[:]) }

// IsCritical reports whether a decoder must understand the chunk to render
// the image. Critical chunks have an uppercase first letter.
func (t ChunkType) IsCritical() bool { return t[0]&0x20 == 0 }

// IsAncillary reports whether the chunk can be skipped safely when unknown.
func (t ChunkType) IsAncillary() bool { return !t.IsCritical() }

// valid reports whether every byte is an ASCII letter.
func (t ChunkType) valid() bool {
	for _, c := range t {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// Chunk is one length-prefixed, CRC-protected record of a PNG stream.
// Chunks are never mutated after they are read or built.
type Chunk struct {
	Length uint32
	Type   ChunkType
	Data   []byte
	CRC    uint32
}

// NewChunk builds a chunk with its length and checksum filled in.
func NewChunk(typ ChunkType, data []byte) Chunk {
	c := Chunk{Length: uint32(len(data)), Type: typ, Data: data}
	c.CRC = c.ComputeCRC()
	return c
}

// ComputeCRC returns the CRC-32 of the chunk type and payload.
func (c Chunk) ComputeCRC() uint32 {
	h := crc32.NewIEEE()
	h.Write(c.Type[:])
	h.Write(c.Data)
	return h.Sum32()
}

// Verify returns a *ChecksumError if the stored CRC does not match.
func (c Chunk) Verify() error {
	if got := c.ComputeCRC(); got != c.CRC {
		return &ChecksumError{Type: c.Type, Want: c.CRC, Got: got}
	}
	return nil
}

// ReadChunk reads the next chunk from r without verifying its checksum.
//
// It returns io.EOF only if r is exhausted before the first byte of the
// chunk. A stream that ends inside a chunk yields an error matching both
// ErrTruncated and io.ErrUnexpectedEOF.
func ReadChunk(r io.Reader) (Chunk, error) {
	return readChunk(r, maxChunkLength)
}

func readChunk(r io.Reader, limit uint32) (Chunk, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return Chunk{}, io.EOF
		}
		return Chunk{}, truncated(err)
	}

	c := Chunk{Length: binary.BigEndian.Uint32(hdr[:4])}
	copy(c.Type[:], hdr[4:8])
	if c.Length > maxChunkLength {
		return Chunk{}, FormatError(fmt.Sprintf("bad chunk length %d", c.Length))
	}
	if c.Length > limit {
		return Chunk{}, FormatError(fmt.Sprintf("%s chunk length %d exceeds limit %d", c.Type, c.Length, limit))
	}
	if !c.Type.valid() {
		return Chunk{}, FormatError(fmt.Sprintf("bad chunk type %q", c.Type[:]))
	}

	// Grow incrementally so a lying length cannot force a huge allocation
	// before the data actually arrives.
	var buf bytes.Buffer
	buf.Grow(int(min(c.Length, 64<<10)))
	if _, err := io.CopyN(&buf, r, int64(c.Length)); err != nil {
		return Chunk{}, truncated(err)
	}
	c.Data = buf.Bytes()

	if _, err := io.ReadFull(r, hdr[:4]); err != nil {
		return Chunk{}, truncated(err)
	}
	c.CRC = binary.BigEndian.Uint32(hdr[:4])
	return c, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, io.ErrUnexpectedEOF)
	}
	return err
}

// WriteTo writes the chunk: length, type, payload and CRC, all big-endian.
func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(len(c.Data)))
	copy(buf[4:], c.Type[:])

	var written int64
	n, err := w.Write(buf[:8])
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(c.Data)
	written += int64(n)
	if err != nil {
		return written, err
	}
	binary.BigEndian.PutUint32(buf[:4], c.CRC)
	n, err = w.Write(buf[:4])
	written += int64(n)
	return written, err
}

// WriteChunk writes a chunk of the given type, computing length and CRC.
func WriteChunk(w io.Writer, typ ChunkType, data []byte) error {
	if len(data) > maxChunkLength {
		return FormatError(fmt.Sprintf("%s chunk too large: %d bytes", typ, len(data)))
	}
	_, err := NewChunk(typ, data).WriteTo(w)
	return err
}
