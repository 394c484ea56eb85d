package payload

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Indent is the per-level indentation used by Format.
const Indent = "  "

// Format renders a value as indented JSON text: two spaces per level, one
// member per line, empty containers as {} and []. Objects keep their key
// order. Values that are not decoded payloads (structs, maps, numbers) are
// marshaled first and then formatted the same way.
func Format(v Value) (string, error) {
	var b strings.Builder
	if err := writeValue(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, v Value, depth int) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if t {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case json.Number:
		b.WriteString(t.String())
	case string:
		writeString(b, t)
	case []any:
		return writeArray(b, t, depth)
	case *Object:
		return writeObject(b, t, depth)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("format %T: %w", v, err)
		}
		decoded, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("format %T: %w", v, err)
		}
		return writeValue(b, decoded, depth)
	}
	return nil
}

func writeArray(b *strings.Builder, arr []any, depth int) error {
	if len(arr) == 0 {
		b.WriteString("[]")
		return nil
	}
	b.WriteString("[\n")
	for i, item := range arr {
		b.WriteString(strings.Repeat(Indent, depth+1))
		if err := writeValue(b, item, depth+1); err != nil {
			return err
		}
		if i < len(arr)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(Indent, depth))
	b.WriteByte(']')
	return nil
}

func writeObject(b *strings.Builder, obj *Object, depth int) error {
	if obj.Len() == 0 {
		b.WriteString("{}")
		return nil
	}
	b.WriteString("{\n")
	i := 0
	for key, item := range obj.AllFromFront() {
		b.WriteString(strings.Repeat(Indent, depth+1))
		writeString(b, key)
		b.WriteString(": ")
		if err := writeValue(b, item, depth+1); err != nil {
			return err
		}
		if i < obj.Len()-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
		i++
	}
	b.WriteString(strings.Repeat(Indent, depth))
	b.WriteByte('}')
	return nil
}

// writeString writes s as a JSON string literal. Only quotes, backslashes and
// control characters are escaped; HTML characters and U+2028/U+2029 are
// written as is.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
