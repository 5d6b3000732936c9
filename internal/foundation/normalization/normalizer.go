// Package normalization maps loosely written user input onto enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer converts strings to values of an enum type. Lookups ignore case
// and surrounding whitespace.
type Normalizer[T comparable] struct {
	name   string
	values map[string]T
	keys   []string
}

// New returns a normalizer for the enum called name. Aliases are simply
// extra keys mapping to the same value.
func New[T comparable](name string, values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{name: name, values: make(map[string]T, len(values))}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)
	return n
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize returns the value for raw and whether it was recognized.
func (n *Normalizer[T]) Normalize(raw string) (T, bool) {
	v, ok := n.values[clean(raw)]
	return v, ok
}

// Validate returns an error naming the accepted spellings when raw is not
// recognized.
func (n *Normalizer[T]) Validate(raw string) error {
	if _, ok := n.Normalize(raw); ok {
		return nil
	}
	return fmt.Errorf("invalid %s %q (valid: %s)", n.name, raw, strings.Join(n.keys, ", "))
}

// Keys returns the accepted spellings, sorted.
func (n *Normalizer[T]) Keys() []string {
	return append([]string(nil), n.keys...)
}
