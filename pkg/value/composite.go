package value

// SliceOf returns a decoder for ordered sequences. Each element is decoded
// with elem.DecodeVariant; the first failing element aborts the decode and
// no partial slice is returned.
func SliceOf[T any](elem Decoder[T]) Decoder[[]T] {
	return func(v Value) ([]T, error) {
		elems, ok := Elems(v)
		if !ok {
			return nil, mismatch(v, "slice")
		}
		out := make([]T, 0, len(elems))
		for _, e := range elems {
			t, err := elem.DecodeVariant(e)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	}
}

// SetOf returns a decoder for unordered collections of unique elements.
// Duplicates collapse on insertion.
func SetOf[T comparable](elem Decoder[T]) Decoder[map[T]struct{}] {
	return func(v Value) (map[T]struct{}, error) {
		elems, ok := Elems(v)
		if !ok {
			return nil, mismatch(v, "set")
		}
		out := make(map[T]struct{}, len(elems))
		for _, e := range elems {
			t, err := elem.DecodeVariant(e)
			if err != nil {
				return nil, err
			}
			out[t] = struct{}{}
		}
		return out, nil
	}
}

// MapOf returns a decoder for key/value streams. The stream is consumed two
// elements at a time; a trailing key without a value fails with
// ErrMissingDictionaryValue. Keys and values are decoded independently with
// DecodeVariant. Later duplicates of a key overwrite earlier ones.
func MapOf[K comparable, V any](key Decoder[K], val Decoder[V]) Decoder[map[K]V] {
	return func(v Value) (map[K]V, error) {
		elems, ok := Elems(v)
		if !ok {
			return nil, mismatch(v, "map")
		}
		out := make(map[K]V, len(elems)/2)
		for i := 0; i < len(elems); i += 2 {
			if i+1 >= len(elems) {
				return nil, ErrMissingDictionaryValue
			}
			k, err := key.DecodeVariant(elems[i])
			if err != nil {
				return nil, err
			}
			x, err := val.DecodeVariant(elems[i+1])
			if err != nil {
				return nil, err
			}
			out[k] = x
		}
		return out, nil
	}
}
