package floorplan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Attributes is an insertion-ordered bag of named values attached to a node
// or an edge. Values are kept as raw JSON so that keys the store does not
// understand survive a load/save cycle unchanged.
//
// A nil *Attributes behaves like an empty bag for all read methods.
type Attributes struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewAttributes returns an empty attribute bag.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]json.RawMessage)}
}

// Set stores v under key, encoding it as JSON. Existing keys keep their
// position; new keys are appended.
func (a *Attributes) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", key, err)
	}
	a.SetRaw(key, raw)
	return nil
}

// SetRaw stores an already-encoded JSON value under key. The bytes are
// copied and kept verbatim.
func (a *Attributes) SetRaw(key string, raw json.RawMessage) {
	if a.values == nil {
		a.values = make(map[string]json.RawMessage)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = slices.Clone(raw)
}

// SetString stores a string value under key.
func (a *Attributes) SetString(key, v string) {
	raw, _ := json.Marshal(v)
	a.SetRaw(key, raw)
}

// With is a chaining form of Set for literal values. Values that cannot be
// encoded are dropped.
func (a *Attributes) With(key string, v any) *Attributes {
	_ = a.Set(key, v)
	return a
}

// Get returns the raw JSON stored under key.
func (a *Attributes) Get(key string) (json.RawMessage, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// String returns the value under key if it is a JSON string.
func (a *Attributes) String(key string) (string, bool) {
	raw, ok := a.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Decode unmarshals the value under key into v. It reports false when the
// key is absent.
func (a *Attributes) Decode(key string, v any) (bool, error) {
	raw, ok := a.Get(key)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

// Has reports whether key is present.
func (a *Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (a *Attributes) Delete(key string) bool {
	if !a.Has(key) {
		return false
	}
	delete(a.values, key)
	a.keys = slices.DeleteFunc(a.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Clone returns a deep copy. Cloning nil yields an empty bag.
func (a *Attributes) Clone() *Attributes {
	out := NewAttributes()
	if a == nil {
		return out
	}
	for _, k := range a.keys {
		out.SetRaw(k, a.values[k])
	}
	return out
}

// Equal reports whether both bags hold the same keys with JSON-equivalent
// values. Key order and insignificant whitespace are ignored.
func (a *Attributes) Equal(b *Attributes) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		av, _ := a.Get(k)
		bv, ok := b.Get(k)
		if !ok || !rawEqual(av, bv) {
			return false
		}
	}
	return true
}

func rawEqual(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

// MarshalJSON encodes the bag as a JSON object in insertion order.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(a.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
// Duplicate keys keep their first position and their last value.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	keys, values, err := DecodeObject(data)
	if err != nil {
		return err
	}
	*a = Attributes{values: make(map[string]json.RawMessage, len(keys))}
	for _, k := range keys {
		a.SetRaw(k, values[k])
	}
	return nil
}

// DecodeObject splits a JSON object into its keys (in document order) and
// raw values. It fails if data is not a JSON object.
func DecodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected JSON object")
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("value for %q: %w", key, err)
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
