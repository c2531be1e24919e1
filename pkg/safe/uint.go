// Package safe narrows integers read from node results and database rows into ledger field types.
package safe

import (
	"errors"
	"fmt"
	"math"
)

// Integer is the set of integer kinds accepted by the conversions.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// ErrOutOfRange reports a value that does not fit the target type.
var ErrOutOfRange = errors.New("value out of range")

// Uint32 narrows v to uint32. Output indexes, input indexes and sequences go through it.
func Uint32[T Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOutOfRange, v)
	}
	return uint32(v), nil
}

// Height checks that v is a usable block height.
func Height[T Integer](v T) (int64, error) {
	if v < 0 || uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: height %d", ErrOutOfRange, v)
	}
	return int64(v), nil
}

// Uint32s narrows every value, reporting the position of the first one that does not fit.
func Uint32s[T Integer](values ...T) ([]uint32, error) {
	out := make([]uint32, len(values))
	for i, v := range values {
		n, err := Uint32(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}
