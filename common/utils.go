package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Lazy holds a value that is constructed on first access and reused afterwards.
// Once materialized the same pointer is returned by every Get, so state cached
// on the value survives repeated reads. The zero value is an empty Lazy.
type Lazy[T any] struct {
	value *T
}

// Get returns the held value, calling construct to create and store it if the
// Lazy is still empty.
//
// Parameters:
//   - construct: factory invoked at most once per materialization
//
// Returns:
//   - *T: the held value, never nil if construct never returns nil
func (l *Lazy[T]) Get(construct func() *T) *T {
	if l.value == nil {
		l.value = construct()
	}
	return l.value
}

// Set replaces the held value. Passing nil empties the Lazy.
//
// Parameters:
//   - v: the new value
func (l *Lazy[T]) Set(v *T) {
	l.value = v
}

// Loaded reports whether a value is currently held.
//
// Returns:
//   - bool: true if Get would not construct
func (l *Lazy[T]) Loaded() bool {
	return l.value != nil
}
