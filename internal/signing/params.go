// Package signing canonicalises call parameters and signs Team Cowboy requests.
package signing

import (
	"sort"
	"strings"
)

// Params is a key-unique set of string parameters iterated in ascending key order.
type Params struct {
	values map[string]string
}

// NewParams returns an empty parameter set.
func NewParams() Params {
	return Params{values: make(map[string]string)}
}

// Set stores value under name, replacing any previous value.
func (p *Params) Set(name, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	p.values[name] = value
}

// Get returns the value stored under name.
func (p Params) Get(name string) (string, bool) {
	value, ok := p.values[name]
	return value, ok
}

// Has reports whether name is present.
func (p Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Delete removes name from the set.
func (p *Params) Delete(name string) {
	delete(p.values, name)
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.values)
}

// Keys returns parameter names in ascending byte-wise order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each visits every parameter in ascending key order.
func (p Params) Each(fn func(name, value string)) {
	for _, k := range p.Keys() {
		fn(k, p.values[k])
	}
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	out := Params{values: make(map[string]string, len(p.values))}
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Map returns a copy of the parameters as a plain map.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p Params) String() string {
	return render(p, func(v string) string { return v })
}

func render(p Params, encode func(string) string) string {
	if p.Len() == 0 {
		return ""
	}
	var buf strings.Builder
	for i, k := range p.Keys() {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(encode(p.values[k]))
	}
	return buf.String()
}
