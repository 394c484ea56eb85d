package payload

import (
	"errors"
	"fmt"
)

// ErrNotObject is returned by Merge when a payload is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Merge folds objects left to right into a new object.
//
// For every key of the incoming object, two arrays are concatenated
// (accumulated first); any other pair is replaced by the incoming value.
// Keys missing from a later object keep their earlier value. Key order is the
// order in which each key was first seen. Inputs are not modified.
func Merge(values ...Value) (*Object, error) {
	acc := NewObject()
	for i, v := range values {
		obj, ok := v.(*Object)
		if !ok {
			return nil, fmt.Errorf("%w: payload %d is %s", ErrNotObject, i, Kind(v))
		}
		for key, incoming := range obj.AllFromFront() {
			if current, ok := acc.Get(key); ok {
				if joined, ok := concat(current, incoming); ok {
					acc.Set(key, joined)
					continue
				}
			}
			acc.Set(key, incoming)
		}
	}
	return acc, nil
}

func concat(a, b Value) ([]any, bool) {
	left, ok := a.([]any)
	if !ok {
		return nil, false
	}
	right, ok := b.([]any)
	if !ok {
		return nil, false
	}
	out := make([]any, 0, len(left)+len(right))
	out = append(out, left...)
	return append(out, right...), true
}
