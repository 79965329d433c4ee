package coord

import (
	"errors"
	"fmt"
)

// ShapeError reports batch lengths that cannot be broadcast together.
type ShapeError struct {
	// What names the quantities being combined (e.g. "position/velocity").
	What    string
	Lengths []int
}

func (e *ShapeError) Error() string {
	if e.What == "" {
		return fmt.Sprintf("shapes %v are not broadcastable", e.Lengths)
	}
	return fmt.Sprintf("%s: shapes %v are not broadcastable", e.What, e.Lengths)
}

// IsShapeError reports whether err is (or wraps) a ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}

// Broadcast returns the common batch length of the given lengths.
// Every length must be 1 or equal to the largest one.
func Broadcast(what string, lengths ...int) (int, error) {
	n := 1
	for _, l := range lengths {
		if l < 1 {
			return 0, &ShapeError{What: what, Lengths: lengths}
		}
		if l > n {
			n = l
		}
	}
	for _, l := range lengths {
		if l != 1 && l != n {
			return 0, &ShapeError{What: what, Lengths: lengths}
		}
	}
	return n, nil
}
