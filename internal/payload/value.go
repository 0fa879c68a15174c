// Package payload holds the normalized representation of an event: an ordered
// mapping of string keys to a closed set of value kinds, and its JSON form.
package payload

import "fmt"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindMap
	KindList
	KindRows
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	case KindRows:
		return "rows"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is one of: null, string, int, float, bool, mapping, list of values,
// or rows. Rows is a list of mappings that the legacy envelope pre-renders
// into a string; everywhere else it behaves like a list.
// The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	bits int
	b    bool
	m    Mapping
	l    []Value
	rows []Mapping
}

func String(s string) Value   { return Value{kind: KindString, s: s} }
func Int(i int) Value         { return Value{kind: KindInt, i: int64(i)} }
func Int64(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value   { return Value{kind: KindFloat, f: f, bits: 64} }
func Float32(f float32) Value { return Value{kind: KindFloat, f: float64(f), bits: 32} }
func Bool(b bool) Value       { return Value{kind: KindBool, b: b} }
func Map(m Mapping) Value     { return Value{kind: KindMap, m: m} }

// List builds a sequence value. A nil or empty list encodes as [].
func List(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindList, l: values}
}

// Rows builds a sequence of mappings eligible for legacy flattening.
func Rows(rows []Mapping) Value {
	if rows == nil {
		rows = []Mapping{}
	}
	return Value{kind: KindRows, rows: rows}
}

// Maps wraps each mapping as a Value and returns them as a List.
func Maps(ms []Mapping) Value {
	values := make([]Value, len(ms))
	for i, m := range ms {
		values[i] = Map(m)
	}
	return List(values...)
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsMap() (Mapping, bool)   { return v.m, v.kind == KindMap }

// AsRows returns the mappings of a Rows value.
func (v Value) AsRows() ([]Mapping, bool) { return v.rows, v.kind == KindRows }
