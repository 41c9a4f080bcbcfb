package replace

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// span is a half-open byte range [start, stop) of the source.
type span struct {
	start, stop int
}

// applyOutsideCode runs fn over the parts of src that are not code, and
// copies code verbatim. Each gap between code ranges is handled on its own,
// so a rule never matches across a code block.
func applyOutsideCode(src string, fn func(string) string) string {
	ranges := codeRanges([]byte(src))
	if len(ranges) == 0 {
		return fn(src)
	}

	var b strings.Builder
	pos := 0
	for _, r := range ranges {
		b.WriteString(fn(src[pos:r.start]))
		b.WriteString(src[r.start:r.stop])
		pos = r.stop
	}
	b.WriteString(fn(src[pos:]))
	return b.String()
}

// codeRanges parses src as markdown and returns the merged byte ranges of
// fenced code blocks (fences included), indented code blocks and inline code
// spans (backticks included).
func codeRanges(src []byte) []span {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var ranges []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			if s, ok := fencedRange(node, src); ok {
				ranges = append(ranges, s)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			lines := node.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, span{
					start: lineStart(src, lines.At(0).Start),
					stop:  lines.At(lines.Len() - 1).Stop,
				})
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			if s, ok := codeSpanRange(node, src); ok {
				ranges = append(ranges, s)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return merge(ranges)
}

func fencedRange(n *ast.FencedCodeBlock, src []byte) (span, bool) {
	lines := n.Lines()

	var start int
	switch {
	case n.Info != nil:
		start = lineStart(src, n.Info.Segment.Start)
	case lines.Len() > 0:
		// The opening fence is the line above the first content line.
		start = lineStart(src, lines.At(0).Start)
		if start > 0 {
			start = lineStart(src, start-1)
		}
	default:
		return span{}, false
	}

	stop := lineEnd(src, start)
	if lines.Len() > 0 {
		stop = lines.At(lines.Len() - 1).Stop
	}
	if stop < len(src) {
		if end := lineEnd(src, stop); isFence(src[stop:end]) {
			stop = end
		}
	}
	return span{start: start, stop: stop}, true
}

func codeSpanRange(n *ast.CodeSpan, src []byte) (span, bool) {
	start, stop := -1, -1
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*ast.Text)
		if !ok {
			continue
		}
		if start < 0 || t.Segment.Start < start {
			start = t.Segment.Start
		}
		if t.Segment.Stop > stop {
			stop = t.Segment.Stop
		}
	}
	if start < 0 {
		return span{}, false
	}

	// Widen to the delimiters, stepping over the single padding space a
	// code span may strip on each side.
	if start > 1 && src[start-1] == ' ' && src[start-2] == '`' {
		start--
	}
	for start > 0 && src[start-1] == '`' {
		start--
	}
	if stop < len(src)-1 && src[stop] == ' ' && src[stop+1] == '`' {
		stop++
	}
	for stop < len(src) && src[stop] == '`' {
		stop++
	}
	return span{start: start, stop: stop}, true
}

func isFence(line []byte) bool {
	trimmed := bytes.TrimLeft(line, " \t>")
	return bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
}

// lineStart returns the offset of the first byte of the line holding i.
func lineStart(src []byte, i int) int {
	if i > len(src) {
		i = len(src)
	}
	if idx := bytes.LastIndexByte(src[:i], '\n'); idx >= 0 {
		return idx + 1
	}
	return 0
}

// lineEnd returns the offset just past the newline ending the line holding
// i, or len(src) on the last line.
func lineEnd(src []byte, i int) int {
	if idx := bytes.IndexByte(src[i:], '\n'); idx >= 0 {
		return i + idx + 1
	}
	return len(src)
}

func merge(ranges []span) []span {
	if len(ranges) < 2 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.start <= last.stop {
			if r.stop > last.stop {
				last.stop = r.stop
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
