// Package flexmap decodes JSON objects whose keys are data-dependent labels into
// order-preserving label/value sequences.
package flexmap

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Pair is one label/value member of an object.
type Pair[V any] struct {
	Key   string
	Value V
}

// Ordered keeps object members in the order they appeared on the wire.
type Ordered[V any] struct {
	pairs []Pair[V]
}

// CountByType maps category labels to counts, e.g. {"male": 4, "female": 2}.
// Counts may arrive as JSON numbers, including decimals, or as numeric strings.
type CountByType = Ordered[decimal.Decimal]

// UserIDsByType maps category labels to user id lists, e.g. {"yes": [1, 2]}.
type UserIDsByType = Ordered[[]int64]

// Of builds an Ordered from pairs; later duplicates replace earlier values in place.
func Of[V any](pairs ...Pair[V]) Ordered[V] {
	var o Ordered[V]
	for _, p := range pairs {
		o.set(p.Key, p.Value)
	}
	return o
}

// Len returns the number of members.
func (o Ordered[V]) Len() int {
	return len(o.pairs)
}

// Pairs returns a copy of the members in wire order.
func (o Ordered[V]) Pairs() []Pair[V] {
	out := make([]Pair[V], len(o.pairs))
	copy(out, o.pairs)
	return out
}

// Keys returns member labels in wire order.
func (o Ordered[V]) Keys() []string {
	out := make([]string, len(o.pairs))
	for i, p := range o.pairs {
		out[i] = p.Key
	}
	return out
}

// Get returns the value stored under key.
func (o Ordered[V]) Get(key string) (V, bool) {
	for _, p := range o.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	var zero V
	return zero, false
}

func (o *Ordered[V]) set(key string, value V) {
	for i := range o.pairs {
		if o.pairs[i].Key == key {
			o.pairs[i].Value = value
			return
		}
	}
	o.pairs = append(o.pairs, Pair[V]{Key: key, Value: value})
}

// UnmarshalJSON walks the object's members in order. null yields an empty value.
func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	o.pairs = nil
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("flexmap: invalid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("flexmap: read object start: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("flexmap: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("flexmap: read key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("flexmap: expected string key, got %v", keyTok)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("flexmap: decode value for %q: %w", key, err)
		}
		o.set(key, value)
	}

	tok, err = dec.Token()
	if err != nil {
		return fmt.Errorf("flexmap: read object end: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '}' {
		return fmt.Errorf("flexmap: expected object end, got %v", tok)
	}
	return nil
}

// MarshalJSON writes members back in their stored order.
func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		value, err := marshalValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("flexmap: encode %q: %w", p.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	if d, ok := v.(decimal.Decimal); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(v)
}
