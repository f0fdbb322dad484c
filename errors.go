package persistent

import (
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange is returned if a vector is accessed at an index ∉ [0…Len()-1].
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrEmptyCollection is returned for operations requiring at least one element,
// e.g., removing the last element of an empty vector.
var ErrEmptyCollection = errors.New("collection is empty")

// ErrKeyNotFound is returned if a map is asked for the value of an absent key
// with a method which does not have a representation for absence.
var ErrKeyNotFound = errors.New("key not found")

// IndexOutOfRange wraps ErrIndexOutOfRange with the offending index and the
// length of the collection.
func IndexOutOfRange(i, length int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d with length %d", i, length)
}

// EmptyCollection wraps ErrEmptyCollection with the name of the failing operation.
func EmptyCollection(op string) error {
	return errors.Wrapf(ErrEmptyCollection, "%s", op)
}

// KeyNotFound wraps ErrKeyNotFound with the key which has not been found.
func KeyNotFound(key interface{}) error {
	return errors.Wrapf(ErrKeyNotFound, "key %v", key)
}
