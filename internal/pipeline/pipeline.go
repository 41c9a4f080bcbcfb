package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/mdbook-replace/internal/book"
	"github.com/dgallion1/mdbook-replace/internal/preprocess"
	"github.com/dgallion1/mdbook-replace/internal/replace"
)

// ErrOutput wraps failures to encode or write the transformed book.
var ErrOutput = errors.New("write preprocessor output")

// Runner performs one read-transform-write cycle.
type Runner struct {
	log *slog.Logger
}

func NewRunner(log *slog.Logger) *Runner {
	return &Runner{log: log}
}

// Run reads [context, book] from in, applies the configured rules and writes
// the book to out. Nothing is written unless every step succeeds.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	// Phase 1: Parse
	pctx, src, err := preprocess.ParseInput(in)
	if err != nil {
		return err
	}
	log := r.log.With("renderer", pctx.Renderer, "mdbook_version", pctx.MdbookVersion)

	// Phase 2: Load rules
	list, opts, err := replace.FromConfig(pctx.Config)
	if err != nil {
		return err
	}
	log.Debug("loaded replacement rules", "rules", len(list), "skip_code", opts.SkipCode)

	// Phase 3: Transform
	result := replace.New(list, opts).Run(src)
	if log.Enabled(ctx, slog.LevelDebug) {
		logChanges(log, src, result)
	}

	// Phase 4: Write
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := preprocess.EncodeBook(result)
	if err != nil {
		return fmt.Errorf("%w: encode book: %v", ErrOutput, err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return nil
}

func logChanges(log *slog.Logger, before, after *book.Book) {
	var old []*book.Chapter
	before.ForEachChapter(func(c *book.Chapter) { old = append(old, c) })

	i, changed := 0, 0
	after.ForEachChapter(func(c *book.Chapter) {
		if i < len(old) && old[i].Content != c.Content {
			changed++
			log.Debug("chapter rewritten", "chapter", c.Name, "path", c.Path(),
				"bytes_before", len(old[i].Content), "bytes_after", len(c.Content))
		}
		i++
	})
	log.Debug("replacement finished", "chapters", i, "changed", changed)
}
