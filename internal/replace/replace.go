// Package replace applies an ordered list of literal find/replace rules to
// every chapter of a book.
package replace

import (
	"strings"

	"github.com/dgallion1/mdbook-replace/internal/book"
)

// Replacement is a single literal rule.
type Replacement struct {
	From string
	To   string
}

// List is a sequence of rules applied in order. Each rule sees the output of
// the rules before it.
type List []Replacement

// Apply runs every rule over text. Each rule replaces all non-overlapping
// occurrences, scanning left to right. An empty From inserts To at every
// rune boundary, as strings.ReplaceAll does.
func (l List) Apply(text string) string {
	for _, r := range l {
		text = strings.ReplaceAll(text, r.From, r.To)
	}
	return text
}

// Replacer is built once per run and never modified.
type Replacer struct {
	list List
	opts Options
}

// New returns a Replacer for list. The list is copied.
func New(list List, opts Options) *Replacer {
	return &Replacer{
		list: append(List(nil), list...),
		opts: opts,
	}
}

// Len returns the number of rules.
func (r *Replacer) Len() int {
	return len(r.list)
}

// Apply transforms a single chapter body.
func (r *Replacer) Apply(content string) string {
	if len(r.list) == 0 {
		return content
	}
	if r.opts.SkipCode {
		return applyOutsideCode(content, r.list.Apply)
	}
	return r.list.Apply(content)
}

// Run returns a copy of b in which every chapter, at any depth, has had the
// rules applied to its content. Everything else is carried over unchanged,
// and b itself is not modified.
func (r *Replacer) Run(b *book.Book) *book.Book {
	out := b.Clone()
	out.ForEachChapter(func(ch *book.Chapter) {
		ch.Content = r.Apply(ch.Content)
	})
	return out
}
