package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActivePage is returned by page operations when no navigation has
	// produced a current page.
	ErrNoActivePage = errors.New("no page is currently loaded, use browse_to first")

	// ErrInvalidArgument is returned for missing or malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrURLNotAllowed is returned when the URL policy refuses a navigation target.
	ErrURLNotAllowed = errors.New("url not allowed")

	// ErrSessionClosed is returned once Close has released the session.
	ErrSessionClosed = errors.New("browser session is closed")
)

// ElementNotFoundError reports that a selector required to match a single
// element matched nothing.
type ElementNotFoundError struct {
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element found with selector: %s", e.Selector)
}

// EngineError wraps a failure surfaced by the automation engine with the
// operation that was being attempted.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("error %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func engineError(op string, err error) error {
	return &EngineError{Op: op, Err: err}
}

// IsElementNotFound reports whether err is, or wraps, an ElementNotFoundError.
func IsElementNotFound(err error) bool {
	var nf *ElementNotFoundError
	return errors.As(err, &nf)
}

// IsEngineError reports whether err is, or wraps, an EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
