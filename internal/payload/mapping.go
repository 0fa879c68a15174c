package payload

// Field is a single key/value pair of a Mapping.
type Field struct {
	Key   string
	Value Value
}

// F is shorthand for building a Field.
func F(key string, v Value) Field {
	return Field{Key: key, Value: v}
}

// Mapping is an ordered set of uniquely keyed fields. Insertion order is
// serialization order.
type Mapping struct {
	fields []Field
}

// Of builds a Mapping from fields in order. A repeated key replaces the
// earlier value without moving it.
func Of(fields ...Field) Mapping {
	m := Mapping{fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		m.Set(f.Key, f.Value)
	}
	return m
}

// Set appends the key, or replaces its value in place if already present.
func (m *Mapping) Set(key string, v Value) {
	for i := range m.fields {
		if m.fields[i].Key == key {
			m.fields[i].Value = v
			return
		}
	}
	m.fields = append(m.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key.
func (m Mapping) Get(key string) (Value, bool) {
	for _, f := range m.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of fields.
func (m Mapping) Len() int {
	return len(m.fields)
}

// Keys returns the keys in order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m.fields))
	for i, f := range m.fields {
		keys[i] = f.Key
	}
	return keys
}
