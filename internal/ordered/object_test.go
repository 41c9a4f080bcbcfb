package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_PreservesMemberOrder(t *testing.T) {
	input := `{"zeta":1,"alpha":"two","mid":{"b":true,"a":null}}`

	var o Object
	require.NoError(t, json.Unmarshal([]byte(input), &o))

	keys := make([]string, 0, len(o))
	for _, m := range o {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestObject_RawValuesKeptVerbatim(t *testing.T) {
	input := `{"n":1.50,"s":"a&b"}`

	var o Object
	require.NoError(t, json.Unmarshal([]byte(input), &o))

	n, ok := o.Get("n")
	require.True(t, ok)
	assert.Equal(t, "1.50", string(n))

	s, ok := o.Get("s")
	require.True(t, ok)
	assert.Equal(t, `"a&b"`, string(s))
}

func TestObject_RejectsNonObject(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"text"`, `42`, `true`} {
		var o Object
		err := json.Unmarshal([]byte(input), &o)
		assert.Error(t, err, "input %s", input)
	}
}

func TestObject_Null(t *testing.T) {
	var o Object
	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	assert.Nil(t, o)
}

func TestObject_Set(t *testing.T) {
	o := Object{{Key: "a", Value: json.RawMessage(`1`)}, {Key: "b", Value: json.RawMessage(`2`)}}

	o.Set("a", json.RawMessage(`10`))
	o.Set("c", json.RawMessage(`3`))

	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"a":10,"b":2,"c":3}`, string(out))
}

func TestObject_CloneIsIndependent(t *testing.T) {
	o := Object{{Key: "a", Value: json.RawMessage(`1`)}}
	c := o.Clone()
	c.Set("a", json.RawMessage(`2`))

	v, _ := o.Get("a")
	assert.Equal(t, "1", string(v))
}

func TestObject_Lookup(t *testing.T) {
	var o Object
	require.NoError(t, json.Unmarshal([]byte(`{
		"preprocessor": {"replace": {"list": {"a": "b"}}, "other": "x"},
		"nulled": null
	}`), &o))

	tests := []struct {
		name string
		path []string
		want string
		ok   bool
	}{
		{"full path", []string{"preprocessor", "replace", "list"}, `{"a": "b"}`, true},
		{"missing leaf", []string{"preprocessor", "replace", "nope"}, "", false},
		{"missing root", []string{"output"}, "", false},
		{"null segment", []string{"nulled", "x"}, "", false},
		{"null leaf", []string{"nulled"}, "", false},
		{"scalar intermediate", []string{"preprocessor", "other", "list"}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, ok := o.Lookup(tc.path...)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.JSONEq(t, tc.want, string(raw))
			}
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "table", Kind(json.RawMessage(`{}`)))
	assert.Equal(t, "array", Kind(json.RawMessage(` []`)))
	assert.Equal(t, "string", Kind(json.RawMessage(`"x"`)))
	assert.Equal(t, "boolean", Kind(json.RawMessage(`false`)))
	assert.Equal(t, "null", Kind(json.RawMessage(`null`)))
	assert.Equal(t, "number", Kind(json.RawMessage(`-3`)))
}
