package png

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/charmap"
)

// maxKeywordLength is the longest keyword a text chunk may carry.
const maxKeywordLength = 79

// maxTextLength bounds the inflated size of compressed text.
const maxTextLength = 8 << 20

// Property is a decoded tEXt, zTXt or iTXt chunk. Key and Value are UTF-8.
type Property struct {
	Type  ChunkType
	Key   string
	Value string

	// Language and TranslatedKey are only carried by iTXt.
	Language      string
	TranslatedKey string
}

// ChunkType implements Record.
func (p *Property) ChunkType() ChunkType { return p.Type }

var latin1 = charmap.ISO8859_1

// parseProperty splits a text chunk on its first NUL byte into key and value.
func parseProperty(c Chunk) (*Property, error) {
	key, rest, ok := bytes.Cut(c.Data, []byte{0})
	if !ok || len(key) == 0 || len(key) > maxKeywordLength {
		return nil, FormatError(fmt.Sprintf("bad %s keyword", c.Type))
	}

	p := &Property{Type: c.Type}
	switch c.Type {
	case TypeTEXT:
		k, err := latin1.NewDecoder().Bytes(key)
		if err != nil {
			return nil, fmt.Errorf("png: decode %s keyword: %w", c.Type, err)
		}
		v, err := latin1.NewDecoder().Bytes(rest)
		if err != nil {
			return nil, fmt.Errorf("png: decode %s text: %w", c.Type, err)
		}
		p.Key, p.Value = string(k), string(v)

	case TypeZTXT:
		if len(rest) < 1 || rest[0] != 0 {
			return nil, UnsupportedError("zTXt compression method")
		}
		raw, err := inflateText(rest[1:])
		if err != nil {
			return nil, err
		}
		k, err := latin1.NewDecoder().Bytes(key)
		if err != nil {
			return nil, fmt.Errorf("png: decode %s keyword: %w", c.Type, err)
		}
		v, err := latin1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("png: decode %s text: %w", c.Type, err)
		}
		p.Key, p.Value = string(k), string(v)

	case TypeITXT:
		if len(rest) < 2 {
			return nil, FormatError("short iTXt chunk")
		}
		compressed, method := rest[0], rest[1]
		lang, rest, ok := bytes.Cut(rest[2:], []byte{0})
		if !ok {
			return nil, FormatError("iTXt missing language tag")
		}
		translated, text, ok := bytes.Cut(rest, []byte{0})
		if !ok {
			return nil, FormatError("iTXt missing translated keyword")
		}
		if compressed == 1 {
			if method != 0 {
				return nil, UnsupportedError("iTXt compression method")
			}
			raw, err := inflateText(text)
			if err != nil {
				return nil, err
			}
			text = raw
		}
		if !utf8.Valid(text) || !utf8.Valid(translated) {
			return nil, FormatError("iTXt text is not UTF-8")
		}
		k, err := latin1.NewDecoder().Bytes(key)
		if err != nil {
			return nil, fmt.Errorf("png: decode %s keyword: %w", c.Type, err)
		}
		p.Key = string(k)
		p.Value = string(text)
		p.Language = string(lang)
		p.TranslatedKey = string(translated)

	default:
		return nil, FormatError(fmt.Sprintf("%s is not a text chunk", c.Type))
	}
	return p, nil
}

func inflateText(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", FormatError("compressed text"), err)
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, maxTextLength+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", FormatError("compressed text"), err)
	}
	if len(out) > maxTextLength {
		return nil, UnsupportedError("compressed text larger than 8 MiB")
	}
	return out, nil
}

// Chunk encodes the property. Keys and values representable in Latin-1 are
// written as tEXt; anything else falls back to an uncompressed iTXt chunk.
func (p *Property) Chunk() (Chunk, error) {
	if p.Key == "" || len(p.Key) > maxKeywordLength {
		return Chunk{}, FormatError(fmt.Sprintf("bad text keyword %q", p.Key))
	}
	key, err := latin1.NewEncoder().String(p.Key)
	if err != nil {
		return Chunk{}, fmt.Errorf("png: keyword %q is not Latin-1: %w", p.Key, err)
	}

	if p.Language == "" && p.TranslatedKey == "" {
		if value, err := latin1.NewEncoder().String(p.Value); err == nil {
			var b bytes.Buffer
			b.WriteString(key)
			b.WriteByte(0)
			b.WriteString(value)
			return NewChunk(TypeTEXT, b.Bytes()), nil
		}
	}

	var b bytes.Buffer
	b.WriteString(key)
	b.Write([]byte{0, 0, 0}) // separator, not compressed, method 0
	b.WriteString(p.Language)
	b.WriteByte(0)
	b.WriteString(p.TranslatedKey)
	b.WriteByte(0)
	b.WriteString(p.Value)
	return NewChunk(TypeITXT, b.Bytes()), nil
}
