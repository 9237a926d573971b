// Package enums holds the string-backed states stored in the database and on
// the wire.
package enums

import (
	"fmt"
	"slices"
)

func known[T ~string](set []T, v T) bool {
	return slices.Contains(set, v)
}

func parse[T ~string](kind string, set []T, value string) (T, error) {
	if v := T(value); known(set, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, value)
}
