// Package apperr carries the failing step of a multi-step operation
// alongside its cause.
package apperr

import "fmt"

// OpError names the step that failed. errors.Is and errors.As see through it.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Wrap returns nil when err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// Op reports the step recorded on err, or "" when none was.
func Op(err error) string {
	for err != nil {
		if oe, ok := err.(*OpError); ok {
			return oe.Op
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
