package replace

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgallion1/mdbook-replace/internal/ordered"
)

// Name is the preprocessor's table name under [preprocessor] in book.toml.
const Name = "replace"

// ErrMalformedConfig is wrapped by every ConfigError.
var ErrMalformedConfig = errors.New("malformed replace configuration")

// ConfigError reports a [preprocessor.replace] setting with the wrong shape.
type ConfigError struct {
	Key    string // Dotted path below preprocessor.replace
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("preprocessor.%s.%s: %s", Name, e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrMalformedConfig
}

// Options holds settings that change how rules are applied.
type Options struct {
	// SkipCode leaves fenced code blocks, indented code blocks and inline
	// code spans untouched.
	SkipCode bool
}

// FromConfig extracts the rule list and options from the host config. A
// missing table at any level of preprocessor.replace.list yields an empty
// list and no error. Rules come out in the order the host serialized them.
func FromConfig(cfg ordered.Object) (List, Options, error) {
	var opts Options

	if raw, ok := cfg.Lookup("preprocessor", Name, "skip-code"); ok {
		if err := json.Unmarshal(raw, &opts.SkipCode); err != nil {
			return nil, Options{}, &ConfigError{
				Key:    "skip-code",
				Reason: fmt.Sprintf("expected a boolean, found %s", ordered.Kind(raw)),
			}
		}
	}

	raw, ok := cfg.Lookup("preprocessor", Name, "list")
	if !ok {
		return nil, opts, nil
	}

	table, err := ordered.Decode(raw)
	if err != nil {
		return nil, Options{}, &ConfigError{
			Key:    "list",
			Reason: fmt.Sprintf("expected a table, found %s", ordered.Kind(raw)),
		}
	}

	list := make(List, 0, len(table))
	for _, m := range table {
		var to string
		if ordered.Kind(m.Value) != "string" {
			return nil, Options{}, &ConfigError{
				Key:    fmt.Sprintf("list.%q", m.Key),
				Reason: fmt.Sprintf("expected a string, found %s", ordered.Kind(m.Value)),
			}
		}
		if err := json.Unmarshal(m.Value, &to); err != nil {
			return nil, Options{}, &ConfigError{Key: fmt.Sprintf("list.%q", m.Key), Reason: err.Error()}
		}
		list = append(list, Replacement{From: m.Key, To: to})
	}
	return list, opts, nil
}
