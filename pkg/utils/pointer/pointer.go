package pointer

// Ref returns a pointer at v.
func Ref[T any](v T) *T {
	return &v
}

// Deref returns the pointee of p. It panics when p is nil.
func Deref[T any](p *T) T {
	return *p
}

// SafeDeref returns the pointee of p, or zero value when p is nil.
func SafeDeref[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}
