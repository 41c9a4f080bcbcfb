// Package book models the document tree mdBook hands to preprocessors.
package book

import (
	"encoding/json"

	"github.com/dgallion1/mdbook-replace/internal/ordered"
)

// Book is the root of the document tree.
type Book struct {
	Sections []Item // Top-level items in table-of-contents order

	itemsKey string         // Wire name of the item array ("sections" or "items")
	fields   ordered.Object // Every top-level member as received
}

// Item is one entry of the tree. The set of variants is closed: *Chapter,
// Separator, PartTitle and Opaque.
type Item interface {
	isItem()
}

// Chapter is the only content-bearing item.
type Chapter struct {
	Name     string // Chapter title
	Content  string // Markdown body
	SubItems []Item // Nested chapters, separators, etc.

	fields ordered.Object // Every member as received, including ones not modeled above
}

// Separator is a horizontal rule in the table of contents.
type Separator struct{}

// PartTitle is a heading that groups the chapters that follow it.
type PartTitle struct {
	Title string
}

// Opaque is an item variant this package does not know. It is written back
// exactly as it was read.
type Opaque struct {
	Raw json.RawMessage
}

func (*Chapter) isItem()  {}
func (Separator) isItem() {}
func (PartTitle) isItem() {}
func (Opaque) isItem()    {}

// New returns a book holding items, shaped the way mdBook serializes one.
func New(items ...Item) *Book {
	return &Book{
		Sections: items,
		itemsKey: "sections",
		fields: ordered.Object{
			{Key: "sections", Value: json.RawMessage(`[]`)},
			{Key: "__non_exhaustive", Value: json.RawMessage(`null`)},
		},
	}
}

// NewChapter returns a chapter with the members mdBook always emits.
// path may be empty for draft chapters.
func NewChapter(name, content, path string, subItems ...Item) *Chapter {
	pathRaw := json.RawMessage(`null`)
	if path != "" {
		pathRaw = mustString(path)
	}
	return &Chapter{
		Name:     name,
		Content:  content,
		SubItems: subItems,
		fields: ordered.Object{
			{Key: "name", Value: mustString(name)},
			{Key: "content", Value: mustString(content)},
			{Key: "number", Value: json.RawMessage(`null`)},
			{Key: "sub_items", Value: json.RawMessage(`[]`)},
			{Key: "path", Value: pathRaw},
			{Key: "source_path", Value: pathRaw},
			{Key: "parent_names", Value: json.RawMessage(`[]`)},
		},
	}
}

// Path returns the chapter's source-relative path, or "" for drafts.
func (c *Chapter) Path() string {
	raw, ok := c.fields.Get("path")
	if !ok {
		return ""
	}
	var p *string
	if err := json.Unmarshal(raw, &p); err != nil || p == nil {
		return ""
	}
	return *p
}

// Field returns a member of the chapter as it will be written, for members
// not modeled as struct fields (number, parent_names, ...).
func (c *Chapter) Field(key string) (json.RawMessage, bool) {
	return c.fields.Get(key)
}

// Walk visits every item in items and, for chapters, every descendant,
// parents before children. Each item is visited exactly once.
func Walk(items []Item, fn func(Item)) {
	for _, item := range items {
		fn(item)
		if ch, ok := item.(*Chapter); ok {
			Walk(ch.SubItems, fn)
		}
	}
}

// ForEachChapter calls fn for every chapter at any depth.
func (b *Book) ForEachChapter(fn func(*Chapter)) {
	Walk(b.Sections, func(item Item) {
		if ch, ok := item.(*Chapter); ok {
			fn(ch)
		}
	})
}

// Clone returns a deep copy of the tree. Chapters in the copy can be modified
// without affecting b.
func (b *Book) Clone() *Book {
	return &Book{
		Sections: cloneItems(b.Sections),
		itemsKey: b.itemsKey,
		fields:   b.fields.Clone(),
	}
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		if ch, ok := item.(*Chapter); ok {
			out[i] = &Chapter{
				Name:     ch.Name,
				Content:  ch.Content,
				SubItems: cloneItems(ch.SubItems),
				fields:   ch.fields.Clone(),
			}
			continue
		}
		out[i] = item
	}
	return out
}

func mustString(s string) json.RawMessage {
	b, _ := marshalString(s) // strings always encode
	return b
}
