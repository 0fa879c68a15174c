package payload

import "fmt"

// ArrayMode selects how top-level Rows fields are put on the wire.
type ArrayMode string

const (
	// ArrayModeLegacy renders each Rows field as a string holding "[" followed
	// by every row's JSON and a trailing comma. The bracket is never closed.
	// Existing collectors parse this shape.
	ArrayModeLegacy ArrayMode = "legacy"

	// ArrayModeNested leaves Rows fields as ordinary JSON arrays.
	ArrayModeNested ArrayMode = "nested"
)

// ParseArrayMode validates a configured array mode. Empty means legacy.
func ParseArrayMode(s string) (ArrayMode, error) {
	switch ArrayMode(s) {
	case "", ArrayModeLegacy:
		return ArrayModeLegacy, nil
	case ArrayModeNested:
		return ArrayModeNested, nil
	default:
		return "", fmt.Errorf("unknown array mode %q (want %q or %q)", s, ArrayModeLegacy, ArrayModeNested)
	}
}

// Flatten applies the array mode to the top-level fields of m and returns a
// new mapping. Nested values are never touched.
func Flatten(m Mapping, mode ArrayMode) Mapping {
	if mode == ArrayModeNested {
		return m
	}

	out := Mapping{fields: make([]Field, len(m.fields))}
	for i, f := range m.fields {
		if rows, ok := f.Value.AsRows(); ok {
			f.Value = String(renderRows(rows))
		}
		out.fields[i] = f
	}
	return out
}

func renderRows(rows []Mapping) string {
	buf := []byte{'['}
	for _, r := range rows {
		buf = r.appendJSON(buf)
		buf = append(buf, ',')
	}
	return string(buf)
}

// Envelope wraps a payload as {"data": payload}.
func Envelope(m Mapping) Mapping {
	return Of(F("data", Map(m)))
}

// Encode returns the compact JSON text of m.
func Encode(m Mapping) string {
	return string(m.appendJSON(nil))
}
