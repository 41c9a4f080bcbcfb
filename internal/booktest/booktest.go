// Package booktest builds preprocessor payloads for tests, starting from
// book.toml fragments the way a book author would write them.
package booktest

import (
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/dgallion1/mdbook-replace/internal/book"
	"github.com/dgallion1/mdbook-replace/internal/ordered"
	"github.com/dgallion1/mdbook-replace/internal/preprocess"
)

// Config parses a book.toml fragment into the JSON config object mdBook
// sends to preprocessors. Tables come out with their keys sorted, which is
// also how mdBook serializes them.
func Config(t testing.TB, bookTOML string) ordered.Object {
	t.Helper()

	var table map[string]any
	if err := toml.Unmarshal([]byte(bookTOML), &table); err != nil {
		t.Fatalf("parse book.toml: %v", err)
	}
	if table == nil {
		table = map[string]any{}
	}

	raw, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	cfg, err := ordered.Decode(raw)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return cfg
}

// Context returns a context for the html renderer carrying cfg.
func Context(cfg ordered.Object) *preprocess.Context {
	return &preprocess.Context{
		Root:          "/tmp/book",
		Config:        cfg,
		Renderer:      "html",
		MdbookVersion: "0.4.40",
	}
}

// Input encodes the stdin payload for a book configured by bookTOML.
func Input(t testing.TB, bookTOML string, b *book.Book) []byte {
	t.Helper()

	data, err := preprocess.EncodeInput(Context(Config(t, bookTOML)), b)
	if err != nil {
		t.Fatalf("encode input: %v", err)
	}
	return data
}

// Decode parses a book as written to stdout.
func Decode(t testing.TB, data []byte) *book.Book {
	t.Helper()

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("decode book: %v\n%s", err, data)
	}
	return &b
}

// Contents lists chapter bodies in visit order.
func Contents(b *book.Book) []string {
	var out []string
	b.ForEachChapter(func(c *book.Chapter) { out = append(out, c.Content) })
	return out
}
