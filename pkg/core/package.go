// pkg/core/package.go
package core

import "sort"

// Maybe is an explicitly present-or-absent value. Absence is not an error;
// callers pick a fallback with OrElse at the call site.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, ok: true}
}

// None returns an absent value
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// IsSome reports whether a value is present
func (m Maybe[T]) IsSome() bool {
	return m.ok
}

// Get returns the value and whether it is present
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.ok
}

// OrElse returns the value if present, otherwise fallback
func (m Maybe[T]) OrElse(fallback T) T {
	if m.ok {
		return m.value
	}
	return fallback
}

// Set is an unordered collection of strings
type Set map[string]struct{}

// NewSet builds a set from items
func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

// Has reports membership
func (s Set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Union returns s ∪ other as a new set
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Difference returns s − other as a new set
func (s Set) Difference(other Set) Set {
	out := make(Set, len(s))
	for k := range s {
		if !other.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same members
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}
