package errors

import (
	"fmt"
)

// ErrEmptyOutput is returned when the transformer succeeds, but produces no
// usable output. Deploying an empty script would silently clobber the user's
// in-game code, so the engine treats it the same as a transform failure.
var ErrEmptyOutput = New("transformer produced no output")

// TransformError represents a script that the transformer rejected, most
// likely because of a syntax error in the source.
type TransformError struct {
	Name   string
	Reason string
}

func (err TransformError) Error() string {
	return fmt.Sprintf("transform %q: %s", err.Name, err.Reason)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}
