package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON encodes the mapping with keys in insertion order. It never fails.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return m.appendJSON(nil), nil
}

// MarshalJSON encodes the value. Non-finite floats encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Mapping) appendJSON(buf []byte) []byte {
	buf = append(buf, '{')
	for i, f := range m.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, f.Key)
		buf = append(buf, ':')
		buf = f.Value.appendJSON(buf)
	}
	return append(buf, '}')
}

func (v Value) appendJSON(buf []byte) []byte {
	switch v.kind {
	case KindString:
		return appendString(buf, v.s)
	case KindInt:
		return strconv.AppendInt(buf, v.i, 10)
	case KindFloat:
		return appendFloat(buf, v.f, v.bits)
	case KindBool:
		return strconv.AppendBool(buf, v.b)
	case KindMap:
		return v.m.appendJSON(buf)
	case KindList:
		buf = append(buf, '[')
		for i, e := range v.l {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = e.appendJSON(buf)
		}
		return append(buf, ']')
	case KindRows:
		buf = append(buf, '[')
		for i, r := range v.rows {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = r.appendJSON(buf)
		}
		return append(buf, ']')
	default:
		return append(buf, "null"...)
	}
}

func appendString(buf []byte, s string) []byte {
	// encoding a Go string cannot fail
	b, _ := json.Marshal(s)
	return append(buf, b...)
}

func appendFloat(buf []byte, f float64, bits int) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(buf, "null"...)
	}
	var b []byte
	if bits == 32 {
		b, _ = json.Marshal(float32(f))
	} else {
		b, _ = json.Marshal(f)
	}
	return append(buf, b...)
}

// Parse decodes a JSON object into a Mapping. Key order is kept, and numbers
// without a fraction or exponent stay integers, so re-encoding the result
// reproduces compact input byte for byte.
func Parse(data []byte) (Mapping, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Mapping{}, fmt.Errorf("payload: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Mapping{}, errors.New("payload: expected a JSON object")
	}

	m, err := parseObject(dec)
	if err != nil {
		return Mapping{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Mapping{}, errors.New("payload: trailing data after object")
	}
	return m, nil
}

func parseObject(dec *json.Decoder) (Mapping, error) {
	m := Mapping{fields: []Field{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Mapping{}, fmt.Errorf("payload: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return Mapping{}, fmt.Errorf("payload: unexpected object key %v", tok)
		}
		v, err := parseValue(dec)
		if err != nil {
			return Mapping{}, err
		}
		m.Set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return Mapping{}, fmt.Errorf("payload: %w", err)
	}
	return m, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("payload: %w", err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m, err := parseObject(dec)
			if err != nil {
				return Value{}, err
			}
			return Map(m), nil
		case '[':
			values := []Value{}
			for dec.More() {
				v, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				values = append(values, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, fmt.Errorf("payload: %w", err)
			}
			return List(values...), nil
		}
		return Value{}, fmt.Errorf("payload: unexpected delimiter %v", t)
	case string:
		return String(t), nil
	case json.Number:
		return parseNumber(t)
	case bool:
		return Bool(t), nil
	case nil:
		return Value{}, nil
	default:
		return Value{}, fmt.Errorf("payload: unexpected token %v", tok)
	}
}

func parseNumber(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int64(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("payload: invalid number %q: %w", s, err)
	}
	return Float(f), nil
}
