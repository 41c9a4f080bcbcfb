// Package preprocess speaks mdBook's preprocessor protocol: the host writes a
// JSON array [context, book] to stdin and reads the book back from stdout.
package preprocess

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dgallion1/mdbook-replace/internal/book"
	"github.com/dgallion1/mdbook-replace/internal/ordered"
)

// ErrMalformedInput wraps every failure to decode the host payload.
var ErrMalformedInput = errors.New("malformed preprocessor input")

// Context is the first element of the host payload.
type Context struct {
	Root          string         `json:"root"`
	Config        ordered.Object `json:"config"`
	Renderer      string         `json:"renderer"`
	MdbookVersion string         `json:"mdbook_version"`
}

// ParseInput reads one complete [context, book] payload from r.
func ParseInput(r io.Reader) (*Context, *book.Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(pair) != 2 {
		return nil, nil, fmt.Errorf("%w: expected [context, book], got %d elements", ErrMalformedInput, len(pair))
	}

	var ctx Context
	if err := json.Unmarshal(pair[0], &ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: context: %v", ErrMalformedInput, err)
	}

	var b book.Book
	if err := json.Unmarshal(pair[1], &b); err != nil {
		return nil, nil, fmt.Errorf("%w: book: %v", ErrMalformedInput, err)
	}

	return &ctx, &b, nil
}

// EncodeBook serializes b in the host's schema, followed by a newline.
func EncodeBook(b *book.Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeInput serializes a [context, book] payload the way the host does.
func EncodeInput(ctx *Context, b *book.Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{ctx, b}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
