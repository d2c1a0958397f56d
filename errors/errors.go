package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrResourceNotFound  = fmt.Errorf("resource not found")
	ErrInvocationFailed  = fmt.Errorf("engine invocation failed")
	ErrMissingKey        = fmt.Errorf("missing key")
	ErrTypeMismatch      = fmt.Errorf("type mismatch")
	ErrMalformedLine     = fmt.Errorf("malformed properties line")
	ErrUnencodableValue  = fmt.Errorf("value cannot be written as a properties line")
	ErrInvalidProperties = fmt.Errorf("invalid properties")
	ErrClassifierClosed  = fmt.Errorf("classifier is closed")
	ErrNotText           = fmt.Errorf("input is not plain text")
	ErrEmptyQuery        = fmt.Errorf("search needs a tag or a text")
	ErrNoIndex           = fmt.Errorf("no entity index configured")
)

// InvocationError describes an engine run that was classified as failed.
type InvocationError struct {
	MainClass string
	ExitCode  int
	Stderr    string
	Reason    string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s (exit code %d, reason: %s)", ErrInvocationFailed, e.MainClass, e.ExitCode, e.Reason)
}

func (e *InvocationError) Unwrap() error {
	return ErrInvocationFailed
}

// AsInvocationError extracts the InvocationError from err's chain.
func AsInvocationError(err error) (*InvocationError, bool) {
	var ie *InvocationError
	ok := stderrors.As(err, &ie)
	return ie, ok
}
