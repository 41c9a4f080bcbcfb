package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/mdbook-replace/internal/book"
	"github.com/dgallion1/mdbook-replace/internal/booktest"
	"github.com/dgallion1/mdbook-replace/internal/preprocess"
	"github.com/dgallion1/mdbook-replace/internal/replace"
)

// unreadable fails the test if anything reads from it.
type unreadable struct{ t *testing.T }

func (r unreadable) Read([]byte) (int, error) {
	r.t.Error("stdin must not be read")
	return 0, io.EOF
}

func execute(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("MDBOOK_REPLACE_LOG_LEVEL", "")
	t.Setenv("MDBOOK_REPLACE_LOG_FORMAT", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(stdin)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSupports_ShortCircuits(t *testing.T) {
	tests := [][]string{
		{"supports"},
		{"supports", "anything"},
		{"supports", "html"},
		{"supports", "epub", "--strange-flag"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			stdout, stderr, err := execute(t, unreadable{t}, args...)
			assert.NoError(t, err)
			assert.Empty(t, stdout)
			assert.Empty(t, stderr)
		})
	}
}

func TestRoot_Transforms(t *testing.T) {
	in := booktest.Input(t, `
[preprocessor.replace.list]
ACME = "Example Corp"
TODO = "DONE"
`, book.New(book.NewChapter("One", "ACME builds TODO devices. TODO.", "one.md")))

	for _, args := range [][]string{nil, {"html"}, {"--unknown-flag"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			stdout, _, err := execute(t, bytes.NewReader(in), args...)
			require.NoError(t, err)

			got := booktest.Decode(t, []byte(stdout))
			assert.Equal(t, []string{"Example Corp builds DONE devices. DONE."}, booktest.Contents(got))
		})
	}
}

func TestRoot_NoConfigIsIdentity(t *testing.T) {
	src := book.New(book.NewChapter("One", "ACME", "one.md"), book.Separator{})
	in := booktest.Input(t, "", src)

	stdout, _, err := execute(t, bytes.NewReader(in))
	require.NoError(t, err)

	want, err := preprocess.EncodeBook(src)
	require.NoError(t, err)
	assert.Equal(t, string(want), stdout)
}

func TestRoot_Failures(t *testing.T) {
	badConfig := booktest.Input(t, "[preprocessor.replace]\nlist = \"oops\"\n",
		book.New(book.NewChapter("One", "x", "one.md")))

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"malformed input", []byte("not json"), preprocess.ErrMalformedInput},
		{"malformed config", badConfig, replace.ErrMalformedConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, err := execute(t, bytes.NewReader(tc.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "unexpected error: %v", err)
			assert.Empty(t, stdout)
		})
	}
}

func TestRoot_InvalidLogConfig(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd()
	t.Setenv("MDBOOK_REPLACE_LOG_LEVEL", "chatty")
	cmd.SetIn(unreadable{t})
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDBOOK_REPLACE_LOG_LEVEL")
	assert.Empty(t, stdout.String())
}

func TestRoot_Version(t *testing.T) {
	stdout, _, err := execute(t, unreadable{t}, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mdbook-replace version dev")
}
