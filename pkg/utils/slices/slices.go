package slices

import "sort"

// Map generates a new slice by applying f to each element of base.
func Map[T any, U any](base []T, f func(T) U) []U {
	if base == nil {
		return nil
	}
	mapped := make([]U, 0, len(base))
	for _, b := range base {
		mapped = append(mapped, f(b))
	}
	return mapped
}

// MapUntilError applies f to each element of base, but stops at the first error.
//
// It returns the mapped elements so far and the error which stopped mapping.
func MapUntilError[T any, U any](base []T, f func(T) (U, error)) ([]U, error) {
	mapped := make([]U, 0, len(base))
	for _, b := range base {
		u, err := f(b)
		if err != nil {
			return mapped, err
		}
		mapped = append(mapped, u)
	}
	return mapped, nil
}

// First finds the first element satisfying predicator.
//
// When no elements satisfy it, it returns (zero value, false).
func First[T any](base []T, predicator func(T) bool) (T, bool) {
	for _, b := range base {
		if predicator(b) {
			return b, true
		}
	}
	return *new(T), false
}

// Filter generates a new slice holding only elements satisfying predicator.
func Filter[T any](base []T, predicator func(T) bool) []T {
	filtered := make([]T, 0, len(base))
	for _, b := range base {
		if predicator(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// Sorted returns a sorted copy of base, ordered by less.
//
// base itself is kept unchanged.
func Sorted[T any](base []T, less func(a, b T) bool) []T {
	sorted := make([]T, len(base))
	copy(sorted, base)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// KeysOf lists keys of the map m. The order is not stable.
func KeysOf[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// ValuesOf lists values of the map m. The order is not stable.
func ValuesOf[K comparable, V any](m map[K]V) []V {
	values := make([]V, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	return values
}

// ToMap converts a slice to a map, indexed with the key picked by getKey.
//
// When two or more elements share a key, the last one wins.
func ToMap[K comparable, V any](base []V, getKey func(V) K) map[K]V {
	m := make(map[K]V, len(base))
	for _, b := range base {
		m[getKey(b)] = b
	}
	return m
}

// RefOf converts []T to []*T. Each pointer points at the element in the new slice.
func RefOf[T any](base []T) []*T {
	return Map(base, func(t T) *T { return &t })
}

// DerefOf converts []*T to []T.
func DerefOf[T any](base []*T) []T {
	return Map(base, func(t *T) T { return *t })
}
