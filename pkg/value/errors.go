package value

import (
	"errors"
	"fmt"
)

// ErrMissingDictionaryValue is returned when a key/value stream ends with a
// key that has no paired value.
var ErrMissingDictionaryValue = errors.New("dictionary does not have value corresponding to key")

// TypeMismatchError reports a value whose kind cannot decode into the
// requested target type.
type TypeMismatchError struct {
	// From is the kind of the value that was offered.
	From Kind

	// To names the target type.
	To string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot cast from %s to %s", e.From, e.To)
}

func mismatch(v Value, to string) error {
	from := KindInvalid
	if v != nil {
		from = v.Kind()
	}
	return &TypeMismatchError{From: from, To: to}
}
