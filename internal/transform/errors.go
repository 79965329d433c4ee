package transform

import (
	"errors"
	"fmt"
)

// GraphErrorCode categorizes graph errors.
type GraphErrorCode string

const (
	// ErrCodeDuplicateEdge indicates a second edge for the same ordered pair.
	ErrCodeDuplicateEdge GraphErrorCode = "DUPLICATE_EDGE"

	// ErrCodeFrozen indicates registration after Freeze.
	ErrCodeFrozen GraphErrorCode = "FROZEN"

	// ErrCodeNoPath indicates no chain of edges connects two classes.
	ErrCodeNoPath GraphErrorCode = "NO_PATH"

	// ErrCodeClassConflict indicates two distinct classes with one name.
	ErrCodeClassConflict GraphErrorCode = "CLASS_CONFLICT"

	// ErrCodeInvalidEdge indicates a nil class or function at registration.
	ErrCodeInvalidEdge GraphErrorCode = "INVALID_EDGE"

	// ErrCodeUnknownClass indicates a lookup by an unregistered class name.
	ErrCodeUnknownClass GraphErrorCode = "UNKNOWN_CLASS"
)

// GraphError is returned by registration and routing.
type GraphError struct {
	Code    GraphErrorCode
	Message string
	From    string
	To      string
}

func (e *GraphError) Error() string {
	if e.From != "" || e.To != "" {
		return fmt.Sprintf("%s: %s (%s->%s)", e.Code, e.Message, e.From, e.To)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNoPath reports whether err is a GraphError with ErrCodeNoPath.
func IsNoPath(err error) bool {
	return hasCode(err, ErrCodeNoPath)
}

// IsDuplicateEdge reports whether err is a GraphError with ErrCodeDuplicateEdge.
func IsDuplicateEdge(err error) bool {
	return hasCode(err, ErrCodeDuplicateEdge)
}

// IsFrozen reports whether err is a GraphError with ErrCodeFrozen.
func IsFrozen(err error) bool {
	return hasCode(err, ErrCodeFrozen)
}

func hasCode(err error, code GraphErrorCode) bool {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// HopError wraps the failure of one edge on a transform path.
type HopError struct {
	Hop  int
	From string
	To   string
	Err  error
}

func (e *HopError) Error() string {
	return fmt.Sprintf("hop %d (%s->%s): %v", e.Hop, e.From, e.To, e.Err)
}

func (e *HopError) Unwrap() error { return e.Err }
