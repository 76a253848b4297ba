package value

import "iter"

// Iter is a lazy view over the elements of a container value. Elements are
// decoded only when stepped over. A failing element does not affect the
// elements after it.
//
// An Iter is not safe for concurrent use.
type Iter[T any] struct {
	elems []Value
	elem  Decoder[T]
	pos   int
}

// IterOf returns a decoder producing a lazy Iter over the elements of a
// container value. Only the container kind is checked up front.
func IterOf[T any](elem Decoder[T]) Decoder[*Iter[T]] {
	return func(v Value) (*Iter[T], error) {
		elems, ok := Elems(v)
		if !ok {
			return nil, mismatch(v, "iterator")
		}
		return &Iter[T]{elems: elems, elem: elem}, nil
	}
}

// Next decodes the next element. ok is false once the elements are
// exhausted; err reports a failure of this element only.
func (it *Iter[T]) Next() (t T, ok bool, err error) {
	if it.pos >= len(it.elems) {
		return t, false, nil
	}
	e := it.elems[it.pos]
	it.pos++
	t, err = it.elem.DecodeVariant(e)
	return t, true, err
}

// Len returns the total number of elements.
func (it *Iter[T]) Len() int {
	return len(it.elems)
}

// Reset rewinds the iterator to the first element.
func (it *Iter[T]) Reset() {
	it.pos = 0
}

// All returns a sequence over every element from the start, independent of
// the iterator's current position.
func (it *Iter[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, e := range it.elems {
			if !yield(it.elem.DecodeVariant(e)) {
				return
			}
		}
	}
}
