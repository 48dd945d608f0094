package listview

import (
	"strings"

	"golang.org/x/text/cases"
)

// Field names one matchable attribute of T.
type Field[T any] struct {
	Key     string
	Extract func(T) string
}

// Predicates holds user-entered filter criteria keyed by Field.Key.
type Predicates map[string]string

// Reset clears every predicate in place.
func (p Predicates) Reset() {
	for k := range p {
		p[k] = ""
	}
}

// Set assigns a predicate value and returns p for chaining.
func (p Predicates) Set(key, value string) Predicates {
	p[key] = value
	return p
}

func (p Predicates) Empty() bool {
	for _, v := range p {
		if v != "" {
			return false
		}
	}
	return true
}

type Filter[T any] struct {
	fields []Field[T]
}

func NewFilter[T any](fields ...Field[T]) Filter[T] {
	return Filter[T]{fields: fields}
}

// Keys lists the predicate keys this filter understands.
func (f Filter[T]) Keys() []string {
	keys := make([]string, len(f.fields))
	for i, field := range f.fields {
		keys[i] = field.Key
	}
	return keys
}

// NewPredicates returns a predicate set with every known key at its empty default.
func (f Filter[T]) NewPredicates() Predicates {
	p := make(Predicates, len(f.fields))
	for _, field := range f.fields {
		p[field.Key] = ""
	}
	return p
}

// Apply returns the items matching every non-empty predicate, in input order.
// Unknown predicate keys are ignored and items is never modified.
func (f Filter[T]) Apply(items []T, predicates Predicates) []T {
	type active struct {
		extract func(T) string
		needle  string
	}
	checks := make([]active, 0, len(f.fields))
	for _, field := range f.fields {
		v := predicates[field.Key]
		if v == "" {
			continue
		}
		checks = append(checks, active{extract: field.Extract, needle: fold(v)})
	}

	out := make([]T, 0, len(items))
	if len(checks) == 0 {
		return append(out, items...)
	}
	for _, item := range items {
		ok := true
		for _, c := range checks {
			if !strings.Contains(fold(c.extract(item)), c.needle) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether value contains needle ignoring case. An empty needle matches.
func Matches(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(fold(value), fold(needle))
}

// cases.Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
