// Package collection provides generic, functional-style helpers for slices.
//
//	titles := collection.Map(loans, func(l models.Loan) string { return l.Book.Title })
//	open := collection.Filter(loans, func(l models.Loan) bool { return l.IsOpen() })
//	keys, groups := collection.GroupBy(loans, batchKeyOf)
package collection

import "sort"

// Map transforms each element of slice s using fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns elements of s for which fn returns true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// GroupBy buckets s by key. keys lists each distinct key once, in order of
// first appearance, so callers can iterate groups deterministically.
func GroupBy[T any, K comparable](s []T, fn func(T) K) (keys []K, groups map[K][]T) {
	groups = make(map[K][]T)
	for _, v := range s {
		k := fn(v)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], v)
	}
	return keys, groups
}

// KeyBy indexes s by key; later elements win on duplicates.
func KeyBy[T any, K comparable](s []T, fn func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[fn(v)] = v
	}
	return out
}

// Unique returns s with duplicates removed, keeping first occurrences.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	var out []T
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SortBy returns a stably sorted copy of s.
func SortBy[T any](s []T, less func(a, b T) bool) []T {
	out := append([]T(nil), s...)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
