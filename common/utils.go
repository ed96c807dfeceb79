package common

// Coalesce returns the first value that is not the zero value of T, or the
// zero value when every input is zero. Useful for applying defaults.
//
// Parameters:
//   - values: a variadic list of candidate values
//
// Returns:
//   - T: the first non-zero value, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
