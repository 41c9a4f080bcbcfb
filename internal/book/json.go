package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgallion1/mdbook-replace/internal/ordered"
)

// ErrNoSections is returned when a book object carries neither a "sections"
// nor an "items" array.
var ErrNoSections = errors.New("book has no sections")

// UnmarshalJSON implements json.Unmarshaler.
func (b *Book) UnmarshalJSON(data []byte) error {
	var fields ordered.Object
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("book: %w", err)
	}

	// mdBook 0.4 calls the array "sections"; later releases call it "items".
	key := "sections"
	raw, ok := fields.Get(key)
	if !ok {
		key = "items"
		raw, ok = fields.Get(key)
	}
	if !ok {
		return ErrNoSections
	}

	items, err := decodeItems(raw)
	if err != nil {
		return err
	}

	*b = Book{Sections: items, itemsKey: key, fields: fields}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b *Book) MarshalJSON() ([]byte, error) {
	items, err := encodeItems(b.Sections)
	if err != nil {
		return nil, err
	}
	key := b.itemsKey
	if key == "" {
		key = "sections"
	}
	fields := b.fields.Clone()
	fields.Set(key, items)
	return fields.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var fields ordered.Object
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("chapter: %w", err)
	}

	var ch Chapter
	if raw, ok := fields.Get("name"); ok {
		if err := json.Unmarshal(raw, &ch.Name); err != nil {
			return fmt.Errorf("chapter name: %w", err)
		}
	}
	if raw, ok := fields.Get("content"); ok {
		if err := json.Unmarshal(raw, &ch.Content); err != nil {
			return fmt.Errorf("chapter %q content: %w", ch.Name, err)
		}
	}
	if raw, ok := fields.Get("sub_items"); ok && !ordered.IsNull(raw) {
		items, err := decodeItems(raw)
		if err != nil {
			return fmt.Errorf("chapter %q: %w", ch.Name, err)
		}
		ch.SubItems = items
	}
	ch.fields = fields

	*c = ch
	return nil
}

// MarshalJSON implements json.Marshaler. Members other than name, content
// and sub_items are written exactly as they were read, in their original
// positions.
func (c *Chapter) MarshalJSON() ([]byte, error) {
	name, err := marshalString(c.Name)
	if err != nil {
		return nil, err
	}
	content, err := marshalString(c.Content)
	if err != nil {
		return nil, err
	}
	subItems, err := encodeItems(c.SubItems)
	if err != nil {
		return nil, err
	}

	fields := c.fields.Clone()
	fields.Set("name", name)
	fields.Set("content", content)
	fields.Set("sub_items", subItems)
	return fields.MarshalJSON()
}

func decodeItems(raw json.RawMessage) ([]Item, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	items := make([]Item, 0, len(raws))
	for i, r := range raws {
		item, err := decodeItem(r)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeItem reads one externally tagged item: "Separator",
// {"Chapter": {...}} or {"PartTitle": "..."}.
func decodeItem(raw json.RawMessage) (Item, error) {
	switch ordered.Kind(raw) {
	case "string":
		var tag string
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, err
		}
		if tag == "Separator" {
			return Separator{}, nil
		}
		return Opaque{Raw: raw}, nil

	case "table":
		var variant ordered.Object
		if err := json.Unmarshal(raw, &variant); err != nil {
			return nil, err
		}
		if len(variant) != 1 {
			return Opaque{Raw: raw}, nil
		}
		switch variant[0].Key {
		case "Chapter":
			ch := &Chapter{}
			if err := json.Unmarshal(variant[0].Value, ch); err != nil {
				return nil, err
			}
			return ch, nil
		case "PartTitle":
			var title string
			if err := json.Unmarshal(variant[0].Value, &title); err != nil {
				return nil, fmt.Errorf("part title: %w", err)
			}
			return PartTitle{Title: title}, nil
		}
	}
	return Opaque{Raw: raw}, nil
}

func encodeItems(items []Item) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := encodeItem(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func encodeItem(item Item) (json.RawMessage, error) {
	switch v := item.(type) {
	case *Chapter:
		inner, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		return ordered.Object{{Key: "Chapter", Value: inner}}.MarshalJSON()
	case Separator:
		return json.RawMessage(`"Separator"`), nil
	case PartTitle:
		title, err := marshalString(v.Title)
		if err != nil {
			return nil, err
		}
		return ordered.Object{{Key: "PartTitle", Value: title}}.MarshalJSON()
	case Opaque:
		return v.Raw, nil
	default:
		return nil, fmt.Errorf("unknown item type %T", item)
	}
}

// marshalString encodes s without HTML escaping.
func marshalString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
