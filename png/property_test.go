package png

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zlib"
)

func TestPropertyChunkEncoding(t *testing.T) {
	tests := []struct {
		name string
		prop Property
		typ  ChunkType
	}{
		{"ascii", Property{Key: "Title", Value: "A picture"}, TypeTEXT},
		{"latin-1", Property{Key: "Comment", Value: "Grüße aus Köln"}, TypeTEXT},
		{"beyond latin-1", Property{Key: "Author", Value: "日本語"}, TypeITXT},
		{"translated", Property{Key: "Title", Value: "Titel", Language: "de", TranslatedKey: "Titel"}, TypeITXT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.prop.Chunk()
			if err != nil {
				t.Fatalf("Chunk: %v", err)
			}
			if c.Type != tt.typ {
				t.Errorf("type = %v, want %v", c.Type, tt.typ)
			}
			rec, err := ParseChunk(c)
			if err != nil {
				t.Fatalf("ParseChunk: %v", err)
			}
			want := tt.prop
			want.Type = tt.typ
			if diff := cmp.Diff(&want, rec); diff != "" {
				t.Errorf("property mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLatin1TextIsTranscoded(t *testing.T) {
	// 0xe9 is é in ISO 8859-1.
	c := NewChunk(TypeTEXT, []byte("Comment\x00caf\xe9"))
	rec, err := ParseChunk(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.(*Property).Value; got != "café" {
		t.Errorf("Value = %q, want %q", got, "café")
	}
}

func TestCompressedText(t *testing.T) {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write([]byte("na\xefve"))
	zw.Close()

	data := append([]byte("Description\x00\x00"), z.Bytes()...)
	rec, err := ParseChunk(NewChunk(TypeZTXT, data))
	if err != nil {
		t.Fatal(err)
	}
	p := rec.(*Property)
	if p.Key != "Description" || p.Value != "naïve" {
		t.Errorf("property = %+v", p)
	}

	bad := append([]byte("Description\x00\x01"), z.Bytes()...)
	if _, err := ParseChunk(NewChunk(TypeZTXT, bad)); err == nil {
		t.Error("ParseChunk accepted compression method 1")
	}
}

func TestCompressedInternationalText(t *testing.T) {
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write([]byte("こんにちは"))
	zw.Close()

	var data bytes.Buffer
	data.WriteString("Greeting\x00")
	data.Write([]byte{1, 0})
	data.WriteString("ja\x00挨拶\x00")
	data.Write(z.Bytes())

	rec, err := ParseChunk(NewChunk(TypeITXT, data.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	want := &Property{Type: TypeITXT, Key: "Greeting", Value: "こんにちは", Language: "ja", TranslatedKey: "挨拶"}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("property mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyKeywordLimits(t *testing.T) {
	if _, err := (&Property{Key: ""}).Chunk(); err == nil {
		t.Error("empty keyword accepted")
	}
	long := bytes.Repeat([]byte("k"), maxKeywordLength+1)
	if _, err := (&Property{Key: string(long)}).Chunk(); err == nil {
		t.Error("80-byte keyword accepted")
	}
	if _, err := ParseChunk(NewChunk(TypeTEXT, append(long, 0))); err == nil {
		t.Error("ParseChunk accepted an 80-byte keyword")
	}
}
