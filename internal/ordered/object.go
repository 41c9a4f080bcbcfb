// Package ordered provides a JSON object that keeps its members in the order
// they were decoded.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Member is a single key/value pair of an Object. Value holds the raw JSON
// exactly as it was read.
type Member struct {
	Key   string
	Value json.RawMessage
}

// Object is a JSON object with insertion-ordered members.
type Object []Member

// Get returns the raw value stored under key.
func (o Object) Get(key string) (json.RawMessage, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new member if the key is
// not present yet.
func (o *Object) Set(key string, value json.RawMessage) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: value})
}

// Lookup follows a path of keys through nested objects. It reports false if
// any segment is missing, null, or if an intermediate value is not an object.
func (o Object) Lookup(path ...string) (json.RawMessage, bool) {
	cur := o
	for i, key := range path {
		raw, ok := cur.Get(key)
		if !ok || IsNull(raw) {
			return nil, false
		}
		if i == len(path)-1 {
			return raw, true
		}
		next, err := Decode(raw)
		if err != nil {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Clone returns a copy whose member slice can be modified independently.
// Raw values are shared; they are never written in place.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	copy(out, o)
	return out
}

// Decode parses raw as a JSON object. It fails if raw is any other kind of
// JSON value.
func Decode(raw json.RawMessage) (Object, error) {
	var o Object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, err
	}
	return o, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	if IsNull(data) {
		*o = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %s", describe(tok))
	}

	members := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		members = append(members, Member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = members
	return nil
}

// MarshalJSON implements json.Marshaler. Members are written in order; their
// raw values are written as they were read.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(m.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(m.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsNull reports whether raw is the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// Kind names the JSON type of raw for error messages.
func Kind(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return "empty"
	}
	switch b[0] {
	case '{':
		return "table"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func describe(tok json.Token) string {
	switch v := tok.(type) {
	case json.Delim:
		if v == '[' {
			return "array"
		}
		return string(v)
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "number"
	}
}
