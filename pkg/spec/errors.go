package spec

import (
	"errors"
	"fmt"
)

// ErrorKind classifies specification failures so callers can map them to exit
// codes or HTTP statuses without parsing messages.
type ErrorKind string

const (
	KindMalformedShape         ErrorKind = "malformed_shape"
	KindDuplicateName          ErrorKind = "duplicate_name"
	KindUnknownType            ErrorKind = "unknown_type"
	KindIncompatibleConstraint ErrorKind = "incompatible_constraint"
	KindUnknownRoot            ErrorKind = "unknown_root"
)

// Error is the structured failure value returned by every compiler stage.
// Path locates the offending element within the specification, e.g.
// "custom_dtypes[2].fields[0]".
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Path    string    `json:"path,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("spec: %s", e.Message)
	}
	return fmt.Sprintf("spec: %s at %s", e.Message, e.Path)
}

// NewError constructs a structured specification error.
func NewError(kind ErrorKind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// AsError unwraps a structured specification error from err, if present.
func AsError(err error) (*Error, bool) {
	var specErr *Error
	if errors.As(err, &specErr) {
		return specErr, true
	}
	return nil, false
}

// IsKind reports whether err carries a specification error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	specErr, ok := AsError(err)
	return ok && specErr.Kind == kind
}
