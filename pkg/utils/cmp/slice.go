package cmp

// check two slices are equal, element by element in order.
func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, EqEq[T])
}

// check two slices are equivarent, element by element in order,
// in context of pred.
func SliceEqWith[T any, U any](a []T, b []U, pred BiPredicator[T, U]) bool {
	if len(a) != len(b) {
		return false
	}
	for nth := range a {
		if !pred(a[nth], b[nth]) {
			return false
		}
	}
	return true
}

// Check a has b as its sub-sequence.
//
// example:
//
//	SliceContains([]int{1, 2, 3, 4, 5}, []int{3, 4})  // ==> true
//	SliceContains([]int{1, 2, 3, 4, 5}, []int{3, 5})  // ==> false. should be sub-sequence.
//	SliceContains([]int{1, 2, 3, 4, 5}, []int{4, 3})  // ==> false. ordering matters.
//	SliceContains([]int{1, 2, 3, 4, 5}, []int{})      // ==> true. empty is everywhere.
func SliceContains[T comparable](a []T, b []T) bool {
	if len(a) < len(b) {
		return false
	}

	if SliceEq(a[:len(b)], b) {
		return true
	}

	return SliceContains(a[1:], b)
}

// Check A ⊇ B in context of pred, regardless of ordering.
//
// It returns true if and only if each element in b can be paired
// with its own equivarent element in a.
func SliceSubsetWith[A, B any](a []A, b []B, pred BiPredicator[A, B]) bool {
	if len(a) < len(b) {
		return false
	}

	rest := make([]*A, len(a))
	for i := range a {
		rest[i] = &a[i]
	}

NEXT_B:
	for _, vb := range b {
		for i, va := range rest {
			if va == nil || !pred(*va, vb) {
				continue
			}
			rest[i] = nil
			continue NEXT_B
		}
		return false
	}

	return true
}

// check 2 slices have same content regardless of its ordering.
//
// In other words, this function answers equality of two bags (or multi-sets).
//
// example:
//
//	SliceContentEq([]string{"a", "b", "c"}, []string{"c", "b", "a"})       // ==> true
//	SliceContentEq([]string{"a", "b", "c"}, []string{"c", "b", "z"})       // ==> false
//	SliceContentEq([]string{"a", "b", "c", "c"}, []string{"a", "b", "c"})  // ==> false. left has 2 "c"s but right has only 1.
func SliceContentEq[T comparable](a, b []T) bool {
	return SliceContentEqWith(a, b, EqEq[T])
}

// check 2 slices have equivarent content regardless of its ordering,
// in context of equiv.
func SliceContentEqWith[S, T any](a []S, b []T, equiv BiPredicator[S, T]) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	bm := make(map[int]*T, len(b))
	for i := range b {
		bm[i] = &b[i]
	}

NEXT_A:
	for _, va := range a {
		for k, vb := range bm {
			if equiv(va, *vb) {
				delete(bm, k)
				continue NEXT_A
			}
		}
		return false
	}

	return len(bm) == 0
}
