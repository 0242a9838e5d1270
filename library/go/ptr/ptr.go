package ptr

// T returns pointer to provided value
func T[V any](v V) *V { return &v }

// From returns the value p points to, or the zero value for a nil pointer
func From[V any](p *V) V {
	if p == nil {
		var zero V

		return zero
	}

	return *p
}
